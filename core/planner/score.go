package planner

import (
	"slices"

	"github.com/kilianp07/smartreg/core/model"
)

const (
	dayWeight    = 100
	dayBaseline  = 6
	maxDaysBonus = 200
)

// CountDays returns the number of distinct days touched by the schedule.
func CountDays(s model.Schedule) int {
	days := make(model.DaySet)
	for _, sec := range s.Sections {
		for _, slot := range sec.Slots {
			days[slot.Day] = struct{}{}
		}
	}
	return len(days)
}

// TotalGap is reserved for an idle-time metric between classes. It is
// always zero for now.
func TotalGap(model.Schedule) int { return 0 }

// Score rewards compact weeks: (6-days)*100, plus 200 when the schedule stays
// within the preferred number of days.
func Score(s model.Schedule, f model.Filters) model.RankedResult {
	days := CountDays(s)
	score := (dayBaseline - days) * dayWeight
	if days <= f.MaxDays {
		score += maxDaysBonus
	}
	return model.RankedResult{Schedule: s, Days: days, Gaps: TotalGap(s), Score: score}
}

// Rank sorts by score descending, keeping enumeration order on ties, and
// returns at most n results.
func Rank(results []model.RankedResult, n int) []model.RankedResult {
	slices.SortStableFunc(results, func(a, b model.RankedResult) int {
		return b.Score - a.Score
	})
	if len(results) > n {
		results = results[:n]
	}
	return results
}
