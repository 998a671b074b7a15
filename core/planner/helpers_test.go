package planner

import (
	"fmt"
	"testing"

	"github.com/kilianp07/smartreg/core/model"
)

// slot builds a TimeSlot from a day and a "HH:MM - HH:MM" range.
func slot(t *testing.T, day model.Day, rng string) model.TimeSlot {
	t.Helper()
	r, err := model.ParseTimeRange(rng)
	if err != nil {
		t.Fatalf("parse %q: %v", rng, err)
	}
	return model.TimeSlot{Day: day, Time: r}
}

func section(id, course string, status model.Status, slots ...model.TimeSlot) model.Section {
	return model.Section{ID: id, CourseCode: course, CourseName: course + " name", Status: status, Slots: slots}
}

func weekFilters(t *testing.T, maxDays int) model.Filters {
	t.Helper()
	start, _ := model.EncodeClock("08:00")
	end, _ := model.EncodeClock("18:00")
	return model.Filters{Days: model.NewDaySet(model.Weekdays...), StartTime: start, EndTime: end, MaxDays: maxDays}
}

// disjointGroups returns n groups of size k where every section is on its
// own hour so no two sections of different groups conflict.
func disjointGroups(t *testing.T, n, k int) [][]model.Section {
	t.Helper()
	groups := make([][]model.Section, n)
	for i := 0; i < n; i++ {
		hour := 8 + i
		rng := fmt.Sprintf("%02d:00 - %02d:50", hour, hour)
		for j := 0; j < k; j++ {
			groups[i] = append(groups[i], section(fmt.Sprintf("C%d-%d", i, j), fmt.Sprintf("C%d", i), model.StatusOpen, slot(t, model.Monday, rng)))
		}
	}
	return groups
}
