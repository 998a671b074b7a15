package planner

import (
	"testing"

	"github.com/kilianp07/smartreg/core/model"
)

func TestFits(t *testing.T) {
	f := weekFilters(t, 5)
	f.StartTime, f.EndTime = 900, 1500

	cases := []struct {
		name string
		sec  model.Section
		want bool
	}{
		{"inside", section("a", "X", model.StatusOpen, slot(t, model.Monday, "09:00 - 10:00")), true},
		{"boundaries inclusive", section("b", "X", model.StatusOpen, slot(t, model.Tuesday, "09:00 - 15:00")), true},
		{"starts early", section("c", "X", model.StatusOpen, slot(t, model.Monday, "08:30 - 10:00")), false},
		{"ends late", section("d", "X", model.StatusOpen, slot(t, model.Monday, "14:00 - 15:30")), false},
		{"day not allowed", section("e", "X", model.StatusOpen, slot(t, model.Saturday, "10:00 - 11:00")), false},
		{"one bad slot rejects all", section("f", "X", model.StatusOpen,
			slot(t, model.Monday, "10:00 - 11:00"), slot(t, model.Wednesday, "16:00 - 17:00")), false},
		{"no slots", section("g", "X", model.StatusOpen), true},
	}
	for _, c := range cases {
		if got := Fits(c.sec, f); got != c.want {
			t.Errorf("%s: Fits = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFitsAcceptedSlotsRespectFilters(t *testing.T) {
	f := weekFilters(t, 5)
	f.Days = model.NewDaySet(model.Monday, model.Thursday)
	f.StartTime, f.EndTime = 1000, 1400
	days := []model.Day{model.Monday, model.Tuesday, model.Thursday}
	ranges := []string{"09:00 - 10:30", "10:00 - 11:00", "12:00 - 14:00", "13:00 - 14:30"}
	for _, d := range days {
		for _, r := range ranges {
			s := section("s", "X", model.StatusOpen, slot(t, d, r))
			if !Fits(s, f) {
				continue
			}
			for _, sl := range s.Slots {
				if !f.Days.Has(sl.Day) || sl.Time.Start < f.StartTime || sl.Time.End > f.EndTime {
					t.Fatalf("accepted slot %v outside filters", sl)
				}
			}
		}
	}
}
