// Package catalog loads the section list a schedule is built from.
package catalog

import (
	"time"

	"github.com/kilianp07/smartreg/core/model"
)

// Catalog is the result of one scan. Sections are read-only once built.
type Catalog struct {
	Sections  []model.Section `json:"sections"`
	Defects   []Defect        `json:"defects,omitempty"`
	ScannedAt time.Time       `json:"scanned_at"`
}

// CourseSummary counts the sections of one course.
type CourseSummary struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Open  int    `json:"open"`
	Total int    `json:"total"`
}

// Summary is the overview shown after a scan.
type Summary struct {
	Courses      int             `json:"courses"`
	Sections     int             `json:"sections"`
	OpenSections int             `json:"open_sections"`
	Defects      int             `json:"defects"`
	PerCourse    []CourseSummary `json:"per_course"`
}

// Courses lists the distinct courses in first-seen order.
func (c *Catalog) Courses() []model.Course {
	seen := make(map[string]bool)
	var out []model.Course
	for _, s := range c.Sections {
		if seen[s.CourseCode] {
			continue
		}
		seen[s.CourseCode] = true
		out = append(out, s.Course())
	}
	return out
}

// Summary aggregates section counts per course.
func (c *Catalog) Summary() Summary {
	index := make(map[string]int)
	sum := Summary{Sections: len(c.Sections), Defects: len(c.Defects)}
	for _, s := range c.Sections {
		i, ok := index[s.CourseCode]
		if !ok {
			i = len(sum.PerCourse)
			index[s.CourseCode] = i
			sum.PerCourse = append(sum.PerCourse, CourseSummary{Code: s.CourseCode, Name: s.CourseName})
		}
		sum.PerCourse[i].Total++
		if s.Open() {
			sum.PerCourse[i].Open++
			sum.OpenSections++
		}
	}
	sum.Courses = len(sum.PerCourse)
	return sum
}
