// Package runlog keeps an audit trail of generation runs. It does not hold
// session state; a restarted process starts with no sessions.
package runlog

import (
	"context"
	"time"
)

// Record captures one generation outcome.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	SessionID  string    `json:"session_id"`
	Status     string    `json:"status"`
	Selected   []string  `json:"selected"`
	Excluded   []string  `json:"excluded,omitempty"`
	Examined   int       `json:"examined"`
	Valid      int       `json:"valid"`
	Truncated  bool      `json:"truncated"`
	BestScore  int       `json:"best_score"`
	BestOption []string  `json:"best_option,omitempty"`
	DurationMS int64     `json:"duration_ms"`
}

// Query filters records. Zero fields match everything.
type Query struct {
	Start     time.Time
	End       time.Time
	Status    string
	SessionID string
	Limit     int
}

// Match reports whether r satisfies the time and field filters of q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if q.SessionID != "" && r.SessionID != q.SessionID {
		return false
	}
	return true
}

// limit keeps the last n records, which are the most recent ones.
func (q Query) limit(recs []Record) []Record {
	if q.Limit > 0 && len(recs) > q.Limit {
		return recs[len(recs)-q.Limit:]
	}
	return recs
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                  { return nil }
