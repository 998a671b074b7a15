package mqtt

import (
	"fmt"
	"sync"
	"time"

	coremqtt "github.com/kilianp07/smartreg/core/mqtt"
)

// Client mirrors the core mqtt.Client interface.
type Client = coremqtt.Client

// MockPublisher is an in-memory Client used in tests and dry runs.
type MockPublisher struct {
	Sent       []string
	FailIDs    map[string]bool
	RefuseIDs  map[string]bool
	AckResults map[string]bool
	mu         sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		FailIDs:    make(map[string]bool),
		RefuseIDs:  make(map[string]bool),
		AckResults: make(map[string]bool),
	}
}

// SendEnroll records the section or returns an error if configured to fail.
func (m *MockPublisher) SendEnroll(sectionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[sectionID] {
		return "", fmt.Errorf("publish failed")
	}
	m.Sent = append(m.Sent, sectionID)
	commandID := fmt.Sprintf("cmd-%s-%d", sectionID, len(m.Sent))
	m.AckResults[commandID] = !m.RefuseIDs[sectionID]
	return commandID, nil
}

// WaitForAck answers immediately with the stored result.
func (m *MockPublisher) WaitForAck(commandID string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok, exists := m.AckResults[commandID]
	if !exists {
		return false, coremqtt.ErrUnknownCommand
	}
	delete(m.AckResults, commandID)
	return ok, nil
}
