package planner

// Status is the user-facing outcome of a generation request.
type Status string

const (
	StatusOK             Status = "ok"
	StatusEmptySelection Status = "empty_selection"
	StatusNoCandidates   Status = "no_candidates"
	StatusNoCombinations Status = "no_combinations"
	StatusNoConflictFree Status = "no_conflict_free"
	StatusExcluded       Status = "excluded"
	StatusFailed         Status = "failed"
)

// Message returns the text shown to the user for the status.
func (s Status) Message() string {
	switch s {
	case StatusOK:
		return "schedules found"
	case StatusEmptySelection:
		return "Please select at least one course"
	case StatusNoCandidates:
		return "No courses available with these filters"
	case StatusNoCombinations:
		return "No combinations possible. Try different courses."
	case StatusNoConflictFree:
		return "No conflict-free schedules. Try different courses."
	case StatusExcluded:
		return "Some courses don't fit your preferences"
	case StatusFailed:
		return "Error generating schedules. Try fewer courses."
	default:
		return string(s)
	}
}

// Terminal reports whether no further user action can change the outcome
// without a new request.
func (s Status) Terminal() bool { return s != StatusExcluded }
