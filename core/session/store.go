package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kilianp07/smartreg/pkg/errors"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = apperrors.ErrSessionNotFound

// Factory builds a new session for the given id.
type Factory func(id string) *Session

type entry struct {
	mu      sync.Mutex
	sess    *Session
	touched time.Time
}

// Store keeps sessions in memory keyed by a random id. Sessions idle for
// longer than the TTL are dropped on access or by Sweep.
type Store struct {
	ttl     time.Duration
	factory Factory
	now     func() time.Time

	mu    sync.Mutex
	items map[string]*entry
}

// NewStore creates a store. A non-positive ttl selects DefaultTTL.
func NewStore(ttl time.Duration, factory Factory) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, factory: factory, now: time.Now, items: make(map[string]*entry)}
}

// Create registers a new idle session and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	e := &entry{sess: s.factory(id), touched: s.now()}
	s.mu.Lock()
	s.items[id] = e
	s.mu.Unlock()
	return id
}

// With runs fn on the session while holding its lock, so concurrent
// requests for one session are serialised.
func (s *Store) With(id string, fn func(*Session) error) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, apperrors.Clone(ErrSessionNotFound, fmt.Sprintf("session %q not found or expired", id))
	}
	now := s.now()
	if now.Sub(e.touched) > s.ttl {
		delete(s.items, id)
		return nil, apperrors.Clone(ErrSessionNotFound, fmt.Sprintf("session %q not found or expired", id))
	}
	e.touched = now
	return e, nil
}

// Delete drops a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.items {
		if now.Sub(e.touched) > s.ttl {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
