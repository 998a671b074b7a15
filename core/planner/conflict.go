package planner

import "github.com/kilianp07/smartreg/core/model"

// Overlaps reports whether two sections meet on the same day at overlapping times.
func Overlaps(a, b model.Section) bool {
	for _, x := range a.Slots {
		for _, y := range b.Slots {
			if x.Day == y.Day && x.Time.Overlaps(y.Time) {
				return true
			}
		}
	}
	return false
}

// HasConflict checks every pair of member sections.
func HasConflict(s model.Schedule) bool {
	for i := 0; i < len(s.Sections); i++ {
		for j := i + 1; j < len(s.Sections); j++ {
			if Overlaps(s.Sections[i], s.Sections[j]) {
				return true
			}
		}
	}
	return false
}
