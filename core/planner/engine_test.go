package planner

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/smartreg/core/model"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, nil)
	require.NoError(t, err)
	return e
}

func groupsOf(lists ...[]model.Section) []CourseGroup {
	out := make([]CourseGroup, len(lists))
	for i, l := range lists {
		out[i] = CourseGroup{Course: l[0].Course(), Sections: l}
	}
	return out
}

func TestEngineScenarioTwoDays(t *testing.T) {
	e := newTestEngine(t, Config{})
	x := []model.Section{section("X1", "X", model.StatusOpen, slot(t, model.Monday, "09:00 - 10:00"))}
	y := []model.Section{section("Y1", "Y", model.StatusOpen, slot(t, model.Tuesday, "09:00 - 10:00"))}

	res := e.Generate(groupsOf(x, y), weekFilters(t, 2))
	require.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Ranked, 1)
	assert.Equal(t, 2, res.Ranked[0].Days)
	assert.Equal(t, (6-2)*100+200, res.Ranked[0].Score)

	res = e.Generate(groupsOf(x, y), weekFilters(t, 1))
	assert.Equal(t, (6-2)*100, res.Ranked[0].Score)
}

func TestEngineNoCandidates(t *testing.T) {
	e := newTestEngine(t, Config{})
	res := e.Generate(nil, weekFilters(t, 5))
	assert.Equal(t, StatusNoCandidates, res.Status)
}

func TestEngineNoConflictFree(t *testing.T) {
	e := newTestEngine(t, Config{})
	x := []model.Section{section("X1", "X", model.StatusOpen, slot(t, model.Monday, "09:00 - 10:00"))}
	y := []model.Section{section("Y1", "Y", model.StatusOpen, slot(t, model.Monday, "09:30 - 10:30"))}
	res := e.Generate(groupsOf(x, y), weekFilters(t, 5))
	assert.Equal(t, StatusNoConflictFree, res.Status)
	assert.Equal(t, 1, res.Examined)
	assert.Empty(t, res.Ranked)
}

func TestEngineConflictFreeResults(t *testing.T) {
	e := newTestEngine(t, Config{})
	a := []model.Section{
		section("A1", "A", model.StatusOpen, slot(t, model.Monday, "09:00 - 10:00")),
		section("A2", "A", model.StatusOpen, slot(t, model.Tuesday, "09:00 - 10:00")),
	}
	b := []model.Section{
		section("B1", "B", model.StatusOpen, slot(t, model.Monday, "09:30 - 10:30")),
		section("B2", "B", model.StatusOpen, slot(t, model.Monday, "10:30 - 11:30")),
	}
	res := e.Generate(groupsOf(a, b), weekFilters(t, 1))
	require.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Ranked, 3)
	assert.Equal(t, []string{"A1", "B2"}, res.Ranked[0].Schedule.SectionIDs(), "single-day option ranks first")
	for _, r := range res.Ranked {
		assert.False(t, HasConflict(r.Schedule))
	}
}

func TestEngineLimits(t *testing.T) {
	e := newTestEngine(t, Config{MaxCombinations: 40, MaxValid: 7, TopN: 3})
	lists := disjointGroups(t, 3, 10)
	res := e.Generate(groupsOf(lists...), weekFilters(t, 5))
	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, 3, res.Truncation.Ceiling)
	assert.LessOrEqual(t, res.Examined, 40)
	assert.Equal(t, 7, res.Valid)
	assert.Len(t, res.Ranked, 3)
}

func TestEngineDeterministic(t *testing.T) {
	e := newTestEngine(t, Config{})
	lists := disjointGroups(t, 4, 6)
	first := e.Generate(groupsOf(lists...), weekFilters(t, 1))
	second := e.Generate(groupsOf(lists...), weekFilters(t, 1))
	require.Equal(t, len(first.Ranked), len(second.Ranked))
	for i := range first.Ranked {
		assert.Equal(t, first.Ranked[i].Schedule.SectionIDs(), second.Ranked[i].Schedule.SectionIDs())
		assert.Equal(t, first.Ranked[i].Score, second.Ranked[i].Score)
	}
}

func TestEngineInvalidConfig(t *testing.T) {
	_, err := NewEngine(Config{MaxSectionsPerCourse: 1, MinSectionsPerCourse: 2}, nil)
	assert.Error(t, err)
}

func TestEngineMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	ResetMetrics(reg)
	defer ResetMetrics(nil)

	e := newTestEngine(t, Config{})
	e.Generate(groupsOf(disjointGroups(t, 2, 2)...), weekFilters(t, 5))
	e.Generate(nil, weekFilters(t, 5))

	assert.Equal(t, 1.0, testutil.ToFloat64(generationsTotal.WithLabelValues(string(StatusOK))))
	assert.Equal(t, 1.0, testutil.ToFloat64(generationsTotal.WithLabelValues(string(StatusNoCandidates))))
	assert.Equal(t, 4.0, testutil.ToFloat64(combinationsExamined))
}

func TestEngineRecoversPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	ResetMetrics(reg)
	defer ResetMetrics(nil)

	e := newTestEngine(t, Config{})
	e.conflict = func(model.Schedule) bool { panic("corrupt section") }
	res := e.Generate(groupsOf(disjointGroups(t, 2, 2)...), weekFilters(t, 5))

	assert.Equal(t, StatusFailed, res.Status)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "corrupt section")
	assert.Positive(t, res.Duration)
	assert.Empty(t, res.Ranked)
	assert.Equal(t, 1.0, testutil.ToFloat64(generationsTotal.WithLabelValues(string(StatusFailed))))
}
