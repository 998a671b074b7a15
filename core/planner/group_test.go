package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/smartreg/core/model"
)

func TestGroup(t *testing.T) {
	f := weekFilters(t, 5)
	secs := []model.Section{
		section("B1", "B", model.StatusOpen, slot(t, model.Monday, "09:00 - 10:00")),
		section("A1", "A", model.StatusClosed, slot(t, model.Monday, "09:00 - 10:00")),
		section("A2", "A", model.StatusOpen, slot(t, model.Tuesday, "09:00 - 10:00")),
		section("B2", "B", model.StatusOpen, slot(t, model.Wednesday, "11:00 - 12:00")),
		section("C1", "C", model.StatusOpen, slot(t, model.Monday, "19:00 - 20:00")),
		section("D1", "D", model.StatusOpen, slot(t, model.Monday, "09:00 - 10:00")),
		section("A3", "A", model.StatusUnknown, slot(t, model.Tuesday, "09:00 - 10:00")),
	}

	c := Group(secs, []string{"A", "C", "B", "Z"}, f)

	require.Len(t, c.Groups, 2)
	assert.Equal(t, "B", c.Groups[0].Course.Code, "groups follow scan order")
	assert.Equal(t, []string{"B1", "B2"}, model.Schedule{Sections: c.Groups[0].Sections}.SectionIDs())
	assert.Equal(t, "A", c.Groups[1].Course.Code)
	assert.Equal(t, []string{"A2"}, model.Schedule{Sections: c.Groups[1].Sections}.SectionIDs())

	assert.Equal(t, []model.Course{
		{Code: "C", Name: "C name"},
		{Code: "Z", Name: "Z"},
	}, c.Excluded)
	assert.False(t, c.Satisfied())
	assert.Len(t, c.Sections(), 2)
}

func TestGroupExcludedNameFromClosedRecord(t *testing.T) {
	f := weekFilters(t, 5)
	secs := []model.Section{
		{ID: "X1", CourseCode: "X", CourseName: "Databases", Status: model.StatusClosed},
	}
	c := Group(secs, []string{"X", "X"}, f)
	assert.Empty(t, c.Groups)
	assert.Equal(t, []model.Course{{Code: "X", Name: "Databases"}}, c.Excluded)
}

func TestGroupSatisfied(t *testing.T) {
	f := weekFilters(t, 5)
	secs := []model.Section{section("A1", "A", model.StatusOpen, slot(t, model.Friday, "10:00 - 11:00"))}
	c := Group(secs, []string{"A"}, f)
	assert.True(t, c.Satisfied())
}
