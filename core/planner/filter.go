package planner

import "github.com/kilianp07/smartreg/core/model"

// Fits reports whether every slot of the section falls on an allowed day and
// inside the time window. One non-conforming slot rejects the whole section.
func Fits(section model.Section, f model.Filters) bool {
	for _, slot := range section.Slots {
		if !f.Days.Has(slot.Day) {
			return false
		}
		if !slot.Time.Within(f.StartTime, f.EndTime) {
			return false
		}
	}
	return true
}
