package metrics

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordGeneration forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordGeneration(ev GenerationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordGeneration(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordEnrollment forwards enrollment events.
func (m *MultiSink) RecordEnrollment(ev EnrollmentEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordEnrollment(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordCatalogScan forwards scan events to the sinks that support them.
func (m *MultiSink) RecordCatalogScan(ev CatalogScanEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ScanRecorder); ok {
			if err := rec.RecordCatalogScan(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSessionCount forwards the gauge value to the sinks that support it.
func (m *MultiSink) RecordSessionCount(n int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SessionCountRecorder); ok {
			if err := rec.RecordSessionCount(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordTransition forwards workflow transitions to the sinks that support them.
func (m *MultiSink) RecordTransition(ev TransitionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(TransitionRecorder); ok {
			if err := rec.RecordTransition(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
