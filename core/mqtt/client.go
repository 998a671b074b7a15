// Package mqtt defines the enrollment command channel used by the MQTT
// actuator.
package mqtt

import (
	"errors"
	"time"
)

var (
	// ErrAckTimeout is returned when the agent does not answer in time.
	ErrAckTimeout = errors.New("timeout waiting for enroll ack")
	// ErrUnknownCommand is returned when waiting on a command that was never sent.
	ErrUnknownCommand = errors.New("unknown enroll command")
)

// Client sends enroll commands to the registration agent and waits for the
// agent's acknowledgment.
type Client interface {
	// SendEnroll publishes an enroll command for the section and returns
	// the command identifier used to track the acknowledgment.
	SendEnroll(sectionID string) (commandID string, err error)

	// WaitForAck waits for the acknowledgment of commandID and returns the
	// success flag it carries. It fails with ErrAckTimeout when none
	// arrives in time.
	WaitForAck(commandID string, timeout time.Duration) (bool, error)
}
