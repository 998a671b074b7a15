package planner

import "github.com/kilianp07/smartreg/core/model"

// CourseGroup is the ordered list of candidate sections for one course.
type CourseGroup struct {
	Course   model.Course    `json:"course"`
	Sections []model.Section `json:"sections"`
}

// Candidates is the outcome of grouping: the courses that can be scheduled
// and the selected courses left without any qualifying section.
type Candidates struct {
	Groups   []CourseGroup  `json:"groups"`
	Excluded []model.Course `json:"excluded"`
}

// Satisfied reports whether no selected course was excluded.
func (c Candidates) Satisfied() bool { return len(c.Excluded) == 0 }

// Sections returns the per-course section lists in group order.
func (c Candidates) Sections() [][]model.Section {
	out := make([][]model.Section, len(c.Groups))
	for i, g := range c.Groups {
		out[i] = g.Sections
	}
	return out
}

// Group keeps the open sections of the selected courses that fit the filters.
// Groups follow the scan order of their first qualifying section; sections
// keep scan order inside a group. Excluded courses follow selection order and
// take their name from the first scanned record of that code.
func Group(sections []model.Section, selected []string, f model.Filters) Candidates {
	wanted := make(map[string]bool, len(selected))
	for _, code := range selected {
		wanted[code] = true
	}

	names := make(map[string]string)
	index := make(map[string]int)
	var groups []CourseGroup
	for _, s := range sections {
		if _, ok := names[s.CourseCode]; !ok {
			names[s.CourseCode] = s.CourseName
		}
		if !wanted[s.CourseCode] || !s.Open() || !Fits(s, f) {
			continue
		}
		i, ok := index[s.CourseCode]
		if !ok {
			i = len(groups)
			index[s.CourseCode] = i
			groups = append(groups, CourseGroup{Course: s.Course()})
		}
		groups[i].Sections = append(groups[i].Sections, s)
	}

	var excluded []model.Course
	seen := make(map[string]bool, len(selected))
	for _, code := range selected {
		if seen[code] {
			continue
		}
		seen[code] = true
		if _, ok := index[code]; ok {
			continue
		}
		name := names[code]
		if name == "" {
			name = code
		}
		excluded = append(excluded, model.Course{Code: code, Name: name})
	}
	return Candidates{Groups: groups, Excluded: excluded}
}
