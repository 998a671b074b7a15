package enroll

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/smartreg/core/logger"
	"github.com/kilianp07/smartreg/core/metrics"
	"github.com/kilianp07/smartreg/core/model"
)

// Outcome is the result of enrolling one section.
type Outcome struct {
	SectionID  string `json:"section_id"`
	CourseCode string `json:"course_code"`
	Enrolled   bool   `json:"enrolled"`
	Error      string `json:"error,omitempty"`
}

// Report summarises one Apply call. Sections after an aborting error are
// not attempted and do not appear in Outcomes.
type Report struct {
	Outcomes  []Outcome `json:"outcomes"`
	Enrolled  int       `json:"enrolled"`
	Refused   int       `json:"refused"`
	Completed bool      `json:"completed"`
}

// Applier enrolls the sections of a schedule one at a time. There is no
// rollback: a failure part-way leaves earlier enrollments in place.
type Applier struct {
	act   Actuator
	delay time.Duration
	sink  metrics.MetricsSink
	log   logger.Logger
	sleep func(ctx context.Context, d time.Duration) error
}

// NewApplier creates an Applier pausing delay between actions.
func NewApplier(act Actuator, delay time.Duration, sink metrics.MetricsSink, log logger.Logger) *Applier {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Applier{act: act, delay: delay, sink: sink, log: logger.OrNop(log), sleep: sleepCtx}
}

// Apply enrolls every section in schedule order. A refused section is
// recorded and the next one is tried; an actuator error or a canceled
// context stops the run and is returned with the partial report.
func (a *Applier) Apply(ctx context.Context, s model.Schedule) (Report, error) {
	var rep Report
	for i, sec := range s.Sections {
		if i > 0 && a.delay > 0 {
			if err := a.sleep(ctx, a.delay); err != nil {
				return rep, err
			}
		}
		start := time.Now()
		ok, err := a.act.Enroll(ctx, sec.ID)
		out := Outcome{SectionID: sec.ID, CourseCode: sec.CourseCode, Enrolled: ok && err == nil}
		if err != nil {
			out.Error = err.Error()
		}
		rep.Outcomes = append(rep.Outcomes, out)
		a.record(out, time.Since(start))
		if err != nil {
			a.log.Errorf("enroll %s aborted: %v", sec.ID, err)
			return rep, fmt.Errorf("enroll %s: %w", sec.ID, err)
		}
		if ok {
			rep.Enrolled++
			a.log.Infof("enrolled %s (%s)", sec.ID, sec.CourseCode)
		} else {
			rep.Refused++
			a.log.Warnf("enroll %s refused", sec.ID)
		}
	}
	rep.Completed = true
	return rep, nil
}

func (a *Applier) record(o Outcome, d time.Duration) {
	ev := metrics.EnrollmentEvent{
		SectionID:  o.SectionID,
		CourseCode: o.CourseCode,
		Success:    o.Enrolled,
		Latency:    d,
		Time:       time.Now(),
	}
	if err := a.sink.RecordEnrollment(ev); err != nil {
		a.log.Warnf("record enrollment: %v", err)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
