package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `[
  {"courseCode":"CS101","courseName":"Intro","sectionId":"CS101-1","status":"open",
   "schedule":[{"day":"Mon","time":"09:00 - 10:00"},{"day":"Wed","time":"09:00 - 10:00"}]},
  {"courseCode":"CS101","sectionId":"CS101-2","status":"closed","schedule":null}
]`

const sampleYAML = `
- courseCode: MA201
  courseName: Calculus
  sectionId: MA201-1
  status: open
  schedule:
    - day: Tue
      time: "14:00 - 15:30"
`

func TestFileSourceJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "sections.json")
	yamlPath := filepath.Join(dir, "sections.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sampleJSON), 0o644))
	require.NoError(t, os.WriteFile(yamlPath, []byte(sampleYAML), 0o644))

	src, err := New(Config{Path: jsonPath}, nil)
	require.NoError(t, err)
	c, err := src.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Sections, 2)
	assert.Len(t, c.Sections[0].Slots, 2)
	assert.Equal(t, "CS101", c.Sections[1].CourseName)
	assert.False(t, c.ScannedAt.IsZero())

	c, err = (&FileSource{Path: yamlPath}).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, c.Sections, 1)
	assert.Equal(t, 1400, c.Sections[0].Slots[0].Time.Start)
}

func TestFileSourceErrors(t *testing.T) {
	_, err := (&FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}).Scan(context.Background())
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = (&FileSource{Path: bad}).Scan(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	src, err := New(Config{Source: KindHTTP, URL: srv.URL}, nil)
	require.NoError(t, err)
	c, err := src.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, c.Sections, 2)
}

func TestHTTPSourceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "portal down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(srv.URL, time.Second, nil).Scan(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "portal down")
}

func TestStaticCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Static{{CourseCode: "A", SectionID: "1"}}.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
