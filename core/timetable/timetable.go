// Package timetable lays a ranked schedule out as a day by hour grid.
package timetable

import (
	"fmt"
	"io"
	"strings"

	"github.com/kilianp07/smartreg/core/model"
)

// Grid hours, inclusive.
const (
	FirstHour = 8
	LastHour  = 17
)

// Cell is one occupied grid position.
type Cell struct {
	Label      string `json:"label"`
	CourseCode string `json:"course_code"`
	SectionID  string `json:"section_id"`
}

// Grid is a timetable. Rows are indexed by hour, columns by day; a nil cell
// is free.
type Grid struct {
	Days  []model.Day `json:"days"`
	Hours []string    `json:"hours"`
	Rows  [][]*Cell   `json:"rows"`
	Score int         `json:"score"`
}

// Hours returns the row labels "08:00" to "17:00".
func Hours() []string {
	out := make([]string, 0, LastHour-FirstHour+1)
	for h := FirstHour; h <= LastHour; h++ {
		out = append(out, model.FormatClock(h*100))
	}
	return out
}

// Build places every slot of r whose day is in days into each hour row its
// time range overlaps. Slots outside the grid are dropped.
func Build(r model.RankedResult, days []model.Day) Grid {
	g := Grid{Days: days, Hours: Hours(), Score: r.Score}
	col := make(map[model.Day]int, len(days))
	for i, d := range days {
		col[d] = i
	}
	g.Rows = make([][]*Cell, len(g.Hours))
	for i := range g.Rows {
		g.Rows[i] = make([]*Cell, len(days))
	}
	for _, sec := range r.Schedule.Sections {
		label := sec.CourseName
		if label == "" {
			label = sec.CourseCode
		}
		for _, slot := range sec.Slots {
			c, ok := col[slot.Day]
			if !ok {
				continue
			}
			for h := FirstHour; h <= LastHour; h++ {
				row := model.TimeRange{Start: h * 100, End: (h + 1) * 100}
				if !slot.Time.Overlaps(row) || g.Rows[h-FirstHour][c] != nil {
					continue
				}
				g.Rows[h-FirstHour][c] = &Cell{Label: label, CourseCode: sec.CourseCode, SectionID: sec.ID}
			}
		}
	}
	return g
}

// Occupied counts the non-empty cells.
func (g Grid) Occupied() int {
	n := 0
	for _, row := range g.Rows {
		for _, c := range row {
			if c != nil {
				n++
			}
		}
	}
	return n
}

// WriteText renders the grid as a boxed text table.
func (g Grid) WriteText(w io.Writer) error {
	width := 3
	for _, row := range g.Rows {
		for _, c := range row {
			if c != nil && len(c.Label) > width {
				width = len(c.Label)
			}
		}
	}
	sep := "+-------+" + strings.Repeat(strings.Repeat("-", width+2)+"+", len(g.Days)) + "\n"

	var b strings.Builder
	b.WriteString(sep)
	b.WriteString("| Time  |")
	for _, d := range g.Days {
		fmt.Fprintf(&b, " %-*s |", width, string(d))
	}
	b.WriteString("\n")
	b.WriteString(sep)
	for i, hour := range g.Hours {
		fmt.Fprintf(&b, "| %s |", hour)
		for _, c := range g.Rows[i] {
			label := ""
			if c != nil {
				label = c.Label
			}
			fmt.Fprintf(&b, " %-*s |", width, label)
		}
		b.WriteString("\n")
	}
	b.WriteString(sep)
	_, err := io.WriteString(w, b.String())
	return err
}
