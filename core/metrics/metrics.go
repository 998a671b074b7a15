package metrics

import "time"

// GenerationEvent describes one completed generation run.
type GenerationEvent struct {
	SessionID string
	Status    string
	Courses   int
	Excluded  int
	Examined  int
	Valid     int
	Ranked    int
	BestScore int
	Truncated bool
	Duration  time.Duration
	Time      time.Time
}

// EnrollmentEvent describes one enroll action issued to the actuator.
type EnrollmentEvent struct {
	SectionID  string
	CourseCode string
	Success    bool
	Latency    time.Duration
	Time       time.Time
}

// MetricsSink records planner and enrollment activity for observability.
type MetricsSink interface {
	RecordGeneration(ev GenerationEvent) error
	RecordEnrollment(ev EnrollmentEvent) error
}

// CatalogScanEvent captures one catalog scan.
type CatalogScanEvent struct {
	Source   string
	Sections int
	Defects  int
	Success  bool
	Duration time.Duration
	Time     time.Time
}

// ScanRecorder is implemented by sinks able to record catalog scans.
type ScanRecorder interface {
	RecordCatalogScan(ev CatalogScanEvent) error
}

// SessionCountRecorder records the number of live sessions.
type SessionCountRecorder interface {
	RecordSessionCount(n int) error
}

// TransitionEvent is a session workflow state change.
type TransitionEvent struct {
	SessionID string
	From      string
	To        string
	Time      time.Time
}

// TransitionRecorder is implemented by sinks that track session workflow steps.
type TransitionRecorder interface {
	RecordTransition(ev TransitionEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordGeneration(GenerationEvent) error   { return nil }
func (NopSink) RecordEnrollment(EnrollmentEvent) error   { return nil }
func (NopSink) RecordCatalogScan(CatalogScanEvent) error { return nil }
func (NopSink) RecordSessionCount(int) error             { return nil }
func (NopSink) RecordTransition(TransitionEvent) error   { return nil }
