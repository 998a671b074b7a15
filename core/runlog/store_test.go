package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

func sampleRecords() []Record {
	return []Record{
		{Timestamp: base, SessionID: "a", Status: "ok", Selected: []string{"CS101"}, Valid: 3, BestScore: 700},
		{Timestamp: base.Add(time.Minute), SessionID: "a", Status: "excluded", Excluded: []string{"MA201"}},
		{Timestamp: base.Add(2 * time.Minute), SessionID: "b", Status: "no_conflict_free", Examined: 12},
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	for _, r := range sampleRecords() {
		require.NoError(t, s.Append(ctx, r))
	}

	all, err := s.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 700, all[0].BestScore)

	ok, err := s.Query(ctx, Query{Status: "ok"})
	require.NoError(t, err)
	require.Len(t, ok, 1)
	assert.Equal(t, []string{"CS101"}, ok[0].Selected)

	window, err := s.Query(ctx, Query{Start: base.Add(30 * time.Second), End: base.Add(90 * time.Second)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "excluded", window[0].Status)

	bySession, err := s.Query(ctx, Query{SessionID: "a", Limit: 1})
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	assert.Equal(t, "excluded", bySession[0].Status, "limit keeps the most recent")
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "logs", "runs.jsonl"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestRotatingJSONLStore(t *testing.T) {
	s, err := NewRotatingJSONLStore(filepath.Join(t.TempDir(), "runs.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exerciseStore(t, s)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, backend := range []string{BackendJSONL, BackendRotatingJSONL, BackendSQLite} {
		s, err := Open(Config{Backend: backend, Path: filepath.Join(dir, backend)})
		require.NoError(t, err, backend)
		require.NoError(t, s.Close())
	}
	s, err := Open(Config{Backend: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, NopStore{}, s)

	_, err = Open(Config{Backend: "postgres"})
	assert.Error(t, err)
}
