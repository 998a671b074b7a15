package model

import "strings"

// Course identifies a course offered in the catalog.
type Course struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Status is the enrollment state of a section.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusUnknown Status = "unknown"
)

// ParseStatus maps portal values onto Status. Anything unrecognised is unknown.
func ParseStatus(s string) Status {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusOpen:
		return StatusOpen
	case StatusClosed:
		return StatusClosed
	default:
		return StatusUnknown
	}
}

// TimeSlot is one weekly meeting of a section.
type TimeSlot struct {
	Day  Day       `json:"day"`
	Time TimeRange `json:"time"`
}

// Section is one schedulable offering of a course. Sections are produced by a
// catalog scan and must not be modified afterwards.
type Section struct {
	ID         string     `json:"section_id"`
	CourseCode string     `json:"course_code"`
	CourseName string     `json:"course_name"`
	Status     Status     `json:"status"`
	Slots      []TimeSlot `json:"slots"`
}

// Open reports whether the section accepts enrollment.
func (s Section) Open() bool { return s.Status == StatusOpen }

// Course returns the owning course.
func (s Section) Course() Course {
	return Course{Code: s.CourseCode, Name: s.CourseName}
}
