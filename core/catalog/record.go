package catalog

import (
	"strings"

	"github.com/kilianp07/smartreg/core/model"
)

// Record is one section as extracted from the registration portal.
type Record struct {
	CourseCode string       `json:"courseCode" yaml:"courseCode"`
	CourseName string       `json:"courseName" yaml:"courseName"`
	SectionID  string       `json:"sectionId" yaml:"sectionId"`
	Status     string       `json:"status" yaml:"status"`
	Schedule   []RecordSlot `json:"schedule" yaml:"schedule"`
}

// RecordSlot is a raw meeting time such as {"Mon", "09:00 - 10:30"}.
type RecordSlot struct {
	Day  string `json:"day" yaml:"day"`
	Time string `json:"time" yaml:"time"`
}

// Defect describes a record that could not be turned into a section.
type Defect struct {
	Index      int    `json:"index"`
	CourseCode string `json:"course_code,omitempty"`
	SectionID  string `json:"section_id,omitempty"`
	Reason     string `json:"reason"`
}

// Decode converts records into a catalog. Missing names default to the
// course code and unknown statuses to "unknown". Records without a course
// code or section id are skipped, and so are sections with an unparsable
// meeting time; both are reported as defects.
func Decode(records []Record) *Catalog {
	c := &Catalog{}
	for i, r := range records {
		code := strings.TrimSpace(r.CourseCode)
		id := strings.TrimSpace(r.SectionID)
		if code == "" || id == "" {
			c.Defects = append(c.Defects, Defect{Index: i, CourseCode: code, SectionID: id,
				Reason: "missing courseCode or sectionId"})
			continue
		}
		name := strings.TrimSpace(r.CourseName)
		if name == "" {
			name = code
		}
		sec := model.Section{
			ID:         id,
			CourseCode: code,
			CourseName: name,
			Status:     model.ParseStatus(r.Status),
			Slots:      make([]model.TimeSlot, 0, len(r.Schedule)),
		}
		ok := true
		for _, s := range r.Schedule {
			tr, err := model.ParseTimeRange(s.Time)
			if err != nil {
				c.Defects = append(c.Defects, Defect{Index: i, CourseCode: code, SectionID: id, Reason: err.Error()})
				ok = false
				break
			}
			sec.Slots = append(sec.Slots, model.TimeSlot{Day: model.Day(strings.TrimSpace(s.Day)), Time: tr})
		}
		if ok {
			c.Sections = append(c.Sections, sec)
		}
	}
	return c
}
