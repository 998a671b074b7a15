package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/smartreg/config"
	"github.com/kilianp07/smartreg/core/catalog"
	"github.com/kilianp07/smartreg/core/logger"
	coremetrics "github.com/kilianp07/smartreg/core/metrics"
	"github.com/kilianp07/smartreg/core/planner"
	"github.com/kilianp07/smartreg/core/runlog"
	"github.com/kilianp07/smartreg/core/session"
	apperrors "github.com/kilianp07/smartreg/pkg/errors"
)

func slot(day, tm string) catalog.RecordSlot { return catalog.RecordSlot{Day: day, Time: tm} }

var testCatalog = catalog.Static{
	{CourseCode: "A", CourseName: "Algebra", SectionID: "A1", Status: "open", Schedule: []catalog.RecordSlot{slot("Mon", "09:00 - 10:00")}},
	{CourseCode: "A", CourseName: "Algebra", SectionID: "A2", Status: "open", Schedule: []catalog.RecordSlot{slot("Tue", "09:00 - 10:00")}},
	{CourseCode: "B", SectionID: "B1", Status: "open", Schedule: []catalog.RecordSlot{slot("Mon", "09:30 - 10:30")}},
	{CourseCode: "B", SectionID: "B2", Status: "open", Schedule: []catalog.RecordSlot{slot("Mon", "11:00 - 12:00")}},
	{CourseCode: "C", CourseName: "Chemistry", SectionID: "C1", Status: "closed", Schedule: []catalog.RecordSlot{slot("Wed", "09:00 - 10:00")}},
}

type recordingActuator struct {
	mu  sync.Mutex
	ids []string
}

func (a *recordingActuator) Enroll(_ context.Context, id string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ids = append(a.ids, id)
	return true, nil
}

type countingSink struct {
	coremetrics.NopSink
	mu          sync.Mutex
	generations []coremetrics.GenerationEvent
	scans       int
}

func (s *countingSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations = append(s.generations, ev)
	return nil
}

func (s *countingSink) RecordCatalogScan(coremetrics.CatalogScanEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans++
	return nil
}

type fixture struct {
	svc  *Service
	act  *recordingActuator
	sink *countingSink
	runs runlog.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Enroll.DelayMS = 1
	require.NoError(t, cfg.Validate())

	runs, err := runlog.NewJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"))
	require.NoError(t, err)
	f := fixture{act: &recordingActuator{}, sink: &countingSink{}, runs: runs}
	f.svc, err = NewWithOptions(cfg, Options{
		Source:   testCatalog,
		Actuator: f.act,
		Sink:     f.sink,
		Runs:     runs,
		Logger:   logger.NopLogger{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.svc.Close() })
	return f
}

func TestGenerateRequiresScan(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Generate(context.Background(), "", session.Request{SelectedCourses: []string{"A"}})
	assert.True(t, errors.Is(err, apperrors.ErrNoCatalog))
}

func TestScanSummary(t *testing.T) {
	f := newFixture(t)
	sum, err := f.svc.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Courses)
	assert.Equal(t, 5, sum.Sections)
	assert.Equal(t, 4, sum.OpenSections)
	assert.Equal(t, 1, f.sink.scans)
}

func TestGenerateRankAndApply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Scan(ctx)
	require.NoError(t, err)

	resp, err := f.svc.Generate(ctx, "", session.Request{SelectedCourses: []string{"A", "B"}})
	require.NoError(t, err)
	assert.Equal(t, planner.StatusOK, resp.Status)
	assert.Equal(t, session.StateSatisfied, resp.State)
	require.Len(t, resp.RankedResults, 3)
	assert.Equal(t, []string{"A1", "B2"}, resp.RankedResults[0].Schedule.SectionIDs())
	assert.Equal(t, 700, resp.RankedResults[0].Score)

	grid, err := f.svc.Timetable(resp.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Algebra", grid.Rows[1][0].Label)
	assert.Equal(t, "B", grid.Rows[3][0].Label)

	rep, err := f.svc.Apply(ctx, resp.SessionID, 1)
	require.NoError(t, err)
	assert.True(t, rep.Completed)
	assert.Equal(t, 2, rep.Enrolled)
	assert.Equal(t, []string{"A1", "B2"}, f.act.ids)

	_, err = f.svc.Timetable(resp.SessionID, 4)
	assert.True(t, errors.Is(err, apperrors.ErrResultNotFound))

	recs, err := f.svc.Runs(ctx, runlog.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "ok", recs[0].Status)
	assert.Equal(t, []string{"A", "B"}, recs[0].Selected)
	assert.Equal(t, []string{"A1", "B2"}, recs[0].BestOption)
	assert.Len(t, f.sink.generations, 1)
}

func TestExclusionConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Scan(ctx)
	require.NoError(t, err)

	resp, err := f.svc.Generate(ctx, "", session.Request{SelectedCourses: []string{"A", "C"}})
	require.NoError(t, err)
	assert.Equal(t, planner.StatusExcluded, resp.Status)
	require.Len(t, resp.ExcludedCourses, 1)
	assert.Equal(t, "Chemistry", resp.ExcludedCourses[0].Name)

	recs, err := f.svc.Runs(ctx, runlog.Query{})
	require.NoError(t, err)
	assert.Empty(t, recs, "pending exclusion must not be logged")

	resp, err = f.svc.Confirm(ctx, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, planner.StatusOK, resp.Status)
	assert.Equal(t, session.StateProceeding, resp.State)
	assert.Len(t, resp.RankedResults, 2)

	recs, err = f.svc.Runs(ctx, runlog.Query{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, []string{"C"}, recs[0].Excluded)
	assert.Equal(t, []string{"A", "C"}, recs[0].Selected)
}

func TestExclusionCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Scan(ctx)
	require.NoError(t, err)

	resp, err := f.svc.Generate(ctx, "", session.Request{SelectedCourses: []string{"C"}})
	require.NoError(t, err)
	require.NoError(t, f.svc.Cancel(ctx, resp.SessionID))

	_, err = f.svc.Confirm(ctx, resp.SessionID)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidTransition))
}

func TestUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Confirm(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperrors.ErrSessionNotFound))
	assert.Equal(t, 404, apperrors.FromError(err).Status)
}

func TestReuseSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Scan(ctx)
	require.NoError(t, err)

	first, err := f.svc.Generate(ctx, "", session.Request{SelectedCourses: []string{"A"}})
	require.NoError(t, err)
	second, err := f.svc.Generate(ctx, first.SessionID, session.Request{SelectedCourses: []string{"B"}, Days: []string{"Mon"}})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, second.RankedResults, 2)
}
