package model

// Schedule holds exactly one section per course taking part in a generation.
type Schedule struct {
	Sections []Section `json:"sections"`
}

// Codes returns the course codes of the member sections in order.
func (s Schedule) Codes() []string {
	codes := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		codes[i] = sec.CourseCode
	}
	return codes
}

// SectionIDs returns the member section identifiers in order.
func (s Schedule) SectionIDs() []string {
	ids := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		ids[i] = sec.ID
	}
	return ids
}

// RankedResult is a conflict-free schedule with its derived metrics.
type RankedResult struct {
	Schedule Schedule `json:"schedule"`
	Days     int      `json:"days"`
	Gaps     int      `json:"gaps"`
	Score    int      `json:"score"`
}
