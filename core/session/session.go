// Package session drives the two-phase exclusion workflow around the
// planner engine.
package session

import (
	"fmt"
	"time"

	"github.com/kilianp07/smartreg/core/logger"
	"github.com/kilianp07/smartreg/core/model"
	"github.com/kilianp07/smartreg/core/monitoring"
	"github.com/kilianp07/smartreg/core/planner"
	"github.com/kilianp07/smartreg/internal/eventbus"
	apperrors "github.com/kilianp07/smartreg/pkg/errors"
)

// Generator is the part of planner.Engine a session depends on.
type Generator interface {
	Generate(groups []planner.CourseGroup, f model.Filters) planner.Result
}

// Session holds the state of one user's generation request. It is not safe
// for concurrent use.
type Session struct {
	id       string
	gen      Generator
	bus      eventbus.Publisher[StateEvent]
	log      logger.Logger
	defaults model.Filters
	now      func() time.Time
	group    func([]model.Section, []string, model.Filters) planner.Candidates

	state    State
	selected []string
	filters  model.Filters
	pending  planner.Candidates
	last     Response
}

// Option configures a Session.
type Option func(*Session)

// WithBus publishes transitions on bus.
func WithBus(bus eventbus.Publisher[StateEvent]) Option {
	return func(s *Session) {
		if bus != nil {
			s.bus = bus
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) { s.log = logger.OrNop(l) }
}

// WithDefaults sets the filters used for fields a request leaves empty.
func WithDefaults(f model.Filters) Option {
	return func(s *Session) { s.defaults = f }
}

// WithClock overrides time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an idle session.
func New(id string, gen Generator, opts ...Option) *Session {
	s := &Session{
		id:    id,
		gen:   gen,
		bus:   eventbus.NopPublisher[StateEvent]{},
		log:   logger.NopLogger{},
		now:   time.Now,
		group: planner.Group,
		state: StateIdle,
		defaults: model.Filters{
			Days:      model.NewDaySet(model.Weekdays...),
			StartTime: 0,
			EndTime:   2359,
			MaxDays:   5,
		},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current workflow state.
func (s *Session) State() State { return s.state }

// Filters returns the filters of the last accepted request.
func (s *Session) Filters() model.Filters { return s.filters }

// Selection returns the course codes of the last accepted request.
func (s *Session) Selection() []string { return s.selected }

// Excluded returns the courses dropped by the last accepted request.
func (s *Session) Excluded() []model.Course { return s.pending.Excluded }

// Last returns the most recent response.
func (s *Session) Last() Response { return s.last }

// Result returns the ranked result at the 1-based position rank.
func (s *Session) Result(rank int) (model.RankedResult, error) {
	if rank < 1 || rank > len(s.last.RankedResults) {
		return model.RankedResult{}, apperrors.Clone(apperrors.ErrResultNotFound,
			fmt.Sprintf("no ranked result %d (have %d)", rank, len(s.last.RankedResults)))
	}
	return s.last.RankedResults[rank-1], nil
}

// Submit filters and groups sections for req. When every selected course has
// a qualifying section the engine runs immediately; otherwise the session
// waits for Confirm or Cancel. A panic while filtering or generating is
// reported and answered with StatusFailed.
func (s *Session) Submit(sections []model.Section, req Request) (resp Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			perr := monitoring.CapturePanic(r, map[string]string{"module": "session"})
			s.log.Errorf("session %s: submit failed: %v", s.id, perr)
			s.reset()
			resp, err = s.respond(Response{Status: planner.StatusFailed}), nil
		}
	}()
	selected := req.Selection()
	if len(selected) == 0 {
		s.reset()
		return s.respond(Response{Status: planner.StatusEmptySelection}), nil
	}
	f, err := req.Filters(s.defaults)
	if err != nil {
		return Response{}, err
	}

	s.pending = s.group(sections, selected, f)
	s.selected = selected
	s.filters = f
	s.transition(StateFiltered, "")

	if s.pending.Satisfied() {
		s.transition(StateSatisfied, "")
		return s.generate(), nil
	}

	s.log.Infof("session %s: %d of %d courses excluded", s.id, len(s.pending.Excluded), len(selected))
	s.transition(StatePartiallyExcluded, planner.StatusExcluded)
	return s.respond(Response{
		Status:          planner.StatusExcluded,
		ExcludedCourses: s.pending.Excluded,
	}), nil
}

// Confirm generates from the retained groups, leaving out excluded courses.
func (s *Session) Confirm() (Response, error) {
	if s.state != StatePartiallyExcluded {
		return Response{}, s.invalid("confirm")
	}
	s.transition(StateProceeding, "")
	return s.generate(), nil
}

// Cancel discards the retained groups and returns to idle.
func (s *Session) Cancel() error {
	if s.state != StatePartiallyExcluded {
		return s.invalid("cancel")
	}
	s.reset()
	return nil
}

func (s *Session) generate() Response {
	res := s.gen.Generate(s.pending.Groups, s.filters)
	if res.Err != nil {
		s.log.Errorf("session %s: generation: %v", s.id, res.Err)
	}
	s.publish(s.state, s.state, res.Status)
	return s.respond(Response{
		Status:          res.Status,
		RankedResults:   res.Ranked,
		ExcludedCourses: s.pending.Excluded,
		Examined:        res.Examined,
		Valid:           res.Valid,
		Truncation:      res.Truncation,
		Duration:        res.Duration,
	})
}

func (s *Session) respond(r Response) Response {
	r.SessionID = s.id
	r.State = s.state
	r.Message = r.Status.Message()
	if r.Status == planner.StatusExcluded {
		r.Message = fmt.Sprintf("%d course(s) don't fit your preferences", len(r.ExcludedCourses))
	}
	s.last = r
	return r
}

func (s *Session) reset() {
	s.pending = planner.Candidates{}
	s.selected = nil
	s.filters = model.Filters{}
	s.last = Response{}
	if s.state != StateIdle {
		s.transition(StateIdle, "")
	}
}

func (s *Session) transition(to State, status planner.Status) {
	from := s.state
	s.state = to
	s.log.Debugw("session transition", map[string]any{"session": s.id, "from": from, "to": to})
	s.publish(from, to, status)
}

func (s *Session) publish(from, to State, status planner.Status) {
	s.bus.Publish(StateEvent{
		SessionID: s.id,
		From:      from,
		To:        to,
		Status:    status,
		Excluded:  len(s.pending.Excluded),
		At:        s.now(),
	})
}

func (s *Session) invalid(op string) error {
	return apperrors.Clone(ErrInvalidTransition, fmt.Sprintf("cannot %s in state %s", op, s.state))
}
