package model

// Filters are the user's day and time preferences for one generation request.
type Filters struct {
	Days      DaySet
	StartTime int // encoded, inclusive lower bound for slot starts
	EndTime   int // encoded, inclusive upper bound for slot ends
	MaxDays   int
	// MaxGap is carried through to scoring but not used yet.
	MaxGap int
}
