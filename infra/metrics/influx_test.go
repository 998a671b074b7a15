package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/smartreg/core/metrics"
)

type captureServer struct {
	mu     sync.Mutex
	bodies []string
}

func (c *captureServer) handler(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	c.mu.Lock()
	c.bodies = append(c.bodies, strings.TrimSpace(string(data)))
	c.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (c *captureServer) last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.bodies) == 0 {
		return ""
	}
	return c.bodies[len(c.bodies)-1]
}

func newCaptureSink(t *testing.T) (*InfluxSink, *captureServer) {
	t.Helper()
	cs := &captureServer{}
	srv := httptest.NewServer(http.HandlerFunc(cs.handler))
	t.Cleanup(srv.Close)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	t.Cleanup(sink.Close)
	return sink, cs
}

func lineProtocol(p *write.Point) string {
	return strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
}

func TestInfluxSink_RecordGeneration(t *testing.T) {
	sink, cs := newCaptureSink(t)
	now := time.Now()
	ev := coremetrics.GenerationEvent{
		SessionID: "s1",
		Status:    "ok",
		Courses:   2,
		Examined:  4,
		Valid:     3,
		Ranked:    3,
		BestScore: 600,
		Duration:  1500 * time.Microsecond,
		Time:      now,
	}
	require.NoError(t, sink.RecordGeneration(ev))

	p := write.NewPointWithMeasurement("generation_run").
		AddTag("status", "ok").
		AddTag("truncated", "false").
		AddTag("session_id", "s1").
		AddField("courses", 2).
		AddField("excluded", 0).
		AddField("examined", 4).
		AddField("valid", 3).
		AddField("ranked", 3).
		AddField("best_score", 600).
		AddField("duration_ms", 1.5).
		SetTime(now)
	assert.Equal(t, lineProtocol(p), cs.last())
}

func TestInfluxSink_RecordEnrollment(t *testing.T) {
	sink, cs := newCaptureSink(t)
	now := time.Now()
	ev := coremetrics.EnrollmentEvent{
		SectionID:  "CS101-1",
		CourseCode: "CS101",
		Success:    true,
		Latency:    20 * time.Millisecond,
		Time:       now,
	}
	require.NoError(t, sink.RecordEnrollment(ev))

	p := write.NewPointWithMeasurement("enrollment_action").
		AddTag("section_id", "CS101-1").
		AddTag("course_code", "CS101").
		AddTag("success", "true").
		AddField("latency_ms", 20.0).
		SetTime(now)
	assert.Equal(t, lineProtocol(p), cs.last())
}

func TestInfluxSink_RecordCatalogScan(t *testing.T) {
	sink, cs := newCaptureSink(t)
	now := time.Now()
	ev := coremetrics.CatalogScanEvent{
		Source:   "file",
		Sections: 12,
		Defects:  1,
		Success:  true,
		Duration: 2 * time.Millisecond,
		Time:     now,
	}
	require.NoError(t, sink.RecordCatalogScan(ev))

	p := write.NewPointWithMeasurement("catalog_scan").
		AddTag("source", "file").
		AddTag("success", "true").
		AddField("sections", 12).
		AddField("defects", 1).
		AddField("duration_ms", 2.0).
		SetTime(now)
	assert.Equal(t, lineProtocol(p), cs.last())
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	_, isInflux := sink.(*InfluxSink)
	assert.False(t, isInflux, "expected NopSink on failing health check")
	assert.True(t, called, "health endpoint not called")
}

func TestInfluxFactoryRegistered(t *testing.T) {
	assert.Contains(t, coremetrics.Types(), "influx")
	assert.Contains(t, coremetrics.Types(), "prometheus")
}
