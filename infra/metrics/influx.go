package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/smartreg/core/metrics"
	"github.com/kilianp07/smartreg/infra/logger"
)

const writeTimeout = 5 * time.Second

// InfluxSink writes planner events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: writeTimeout}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordGeneration writes one generation_run point.
func (s *InfluxSink) RecordGeneration(ev coremetrics.GenerationEvent) error {
	p := write.NewPointWithMeasurement("generation_run").
		AddTag("status", ev.Status).
		AddTag("truncated", strconv.FormatBool(ev.Truncated))
	if ev.SessionID != "" {
		p = p.AddTag("session_id", ev.SessionID)
	}
	p = p.AddField("courses", ev.Courses).
		AddField("excluded", ev.Excluded).
		AddField("examined", ev.Examined).
		AddField("valid", ev.Valid).
		AddField("ranked", ev.Ranked).
		AddField("best_score", ev.BestScore).
		AddField("duration_ms", round3(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordEnrollment writes one enrollment_action point.
func (s *InfluxSink) RecordEnrollment(ev coremetrics.EnrollmentEvent) error {
	p := write.NewPointWithMeasurement("enrollment_action").
		AddTag("section_id", ev.SectionID).
		AddTag("course_code", ev.CourseCode).
		AddTag("success", strconv.FormatBool(ev.Success)).
		AddField("latency_ms", round3(ev.Latency.Seconds()*1000)).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordCatalogScan writes one catalog_scan point.
func (s *InfluxSink) RecordCatalogScan(ev coremetrics.CatalogScanEvent) error {
	p := write.NewPointWithMeasurement("catalog_scan").
		AddTag("source", ev.Source).
		AddTag("success", strconv.FormatBool(ev.Success)).
		AddField("sections", ev.Sections).
		AddField("defects", ev.Defects).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		SetTime(ev.Time)
	return s.write(p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
