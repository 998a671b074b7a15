// Package export writes ranked schedules for use outside the planner.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/kilianp07/smartreg/core/model"
)

// WriteJSON writes the ranked results to w in JSON format.
func WriteJSON(w io.Writer, results []model.RankedResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

// WriteCSV writes one row per meeting slot. Sections without slots get a
// single row with empty day and time.
func WriteCSV(w io.Writer, results []model.RankedResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "score", "days", "course_code", "course_name", "section_id", "day", "time"}); err != nil {
		return err
	}
	for i, r := range results {
		head := []string{strconv.Itoa(i + 1), strconv.Itoa(r.Score), strconv.Itoa(r.Days)}
		for _, sec := range r.Schedule.Sections {
			base := append(append([]string(nil), head...), sec.CourseCode, sec.CourseName, sec.ID)
			if len(sec.Slots) == 0 {
				if err := cw.Write(append(base, "", "")); err != nil {
					return err
				}
				continue
			}
			for _, sl := range sec.Slots {
				if err := cw.Write(append(append([]string(nil), base...), string(sl.Day), sl.Time.String())); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
