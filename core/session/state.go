package session

import (
	"time"

	"github.com/kilianp07/smartreg/core/planner"
	apperrors "github.com/kilianp07/smartreg/pkg/errors"
)

// State is a step of the exclusion workflow.
type State string

const (
	StateIdle              State = "idle"
	StateFiltered          State = "filtered"
	StateSatisfied         State = "satisfied"
	StatePartiallyExcluded State = "partially_excluded"
	StateProceeding        State = "proceeding"
)

// ErrInvalidTransition is returned when Confirm or Cancel is called outside
// the partially excluded state.
var ErrInvalidTransition = apperrors.ErrInvalidTransition

// StateEvent is published on every transition. An event whose From equals
// To reports the outcome of a generation run in that state.
type StateEvent struct {
	SessionID string         `json:"session_id"`
	From      State          `json:"from"`
	To        State          `json:"to"`
	Status    planner.Status `json:"status,omitempty"`
	Excluded  int            `json:"excluded,omitempty"`
	At        time.Time      `json:"at"`
}
