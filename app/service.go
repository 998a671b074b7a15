// Package app wires the planner components into a runnable service.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/smartreg/config"
	"github.com/kilianp07/smartreg/core/catalog"
	"github.com/kilianp07/smartreg/core/enroll"
	"github.com/kilianp07/smartreg/core/logger"
	coremetrics "github.com/kilianp07/smartreg/core/metrics"
	"github.com/kilianp07/smartreg/core/model"
	"github.com/kilianp07/smartreg/core/planner"
	"github.com/kilianp07/smartreg/core/runlog"
	"github.com/kilianp07/smartreg/core/session"
	"github.com/kilianp07/smartreg/core/timetable"
	infralog "github.com/kilianp07/smartreg/infra/logger"
	inframetrics "github.com/kilianp07/smartreg/infra/metrics"
	"github.com/kilianp07/smartreg/infra/mqtt"
	"github.com/kilianp07/smartreg/internal/eventbus"
	apperrors "github.com/kilianp07/smartreg/pkg/errors"
)

const sweepInterval = time.Minute

// Options overrides the components New would build from the configuration.
// Zero fields are built from the configuration.
type Options struct {
	Source   catalog.Source
	Actuator enroll.Actuator
	Sink     coremetrics.MetricsSink
	Runs     runlog.Store
	Logger   logger.Logger
	Clock    func() time.Time
}

// Service orchestrates catalog scans, planning sessions and enrollment.
type Service struct {
	source   catalog.Source
	kind     string
	engine   *planner.Engine
	sessions *session.Store
	bus      *eventbus.TypedBus[session.StateEvent]
	runs     runlog.Store
	sink     coremetrics.MetricsSink
	applier  *enroll.Applier
	log      logger.Logger
	now      func() time.Time
	address  string
	closers  []func()

	mu  sync.RWMutex
	cat *catalog.Catalog
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Service, using opts where set.
func NewWithOptions(cfg *config.Config, opts Options) (*Service, error) {
	s := &Service{log: opts.Logger, now: opts.Clock, address: cfg.Server.Address}
	if s.log == nil {
		s.log = infralog.New("service")
	}
	if s.now == nil {
		s.now = time.Now
	}

	var err error
	if s.engine, err = planner.NewEngine(cfg.Planner, infralog.New("planner")); err != nil {
		return nil, err
	}
	defaults, err := cfg.Filters.ToFilters()
	if err != nil {
		return nil, err
	}

	s.source, s.kind = opts.Source, "custom"
	if s.source == nil {
		s.kind = cfg.Catalog.Source
		if s.source, err = catalog.New(cfg.Catalog, infralog.New("catalog")); err != nil {
			return nil, fmt.Errorf("catalog source: %w", err)
		}
	}

	s.sink = opts.Sink
	if s.sink == nil {
		if s.sink, err = coremetrics.NewMetricsSink(cfg.Metrics.Sinks); err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
	}

	s.runs = opts.Runs
	if s.runs == nil {
		if s.runs, err = runlog.Open(cfg.Logging.RunLog()); err != nil {
			return nil, fmt.Errorf("run log: %w", err)
		}
		s.closers = append(s.closers, func() { _ = s.runs.Close() })
	}

	act := opts.Actuator
	if act == nil {
		if act, err = s.actuator(cfg); err != nil {
			return nil, err
		}
	}
	s.applier = enroll.NewApplier(act, cfg.Enroll.Delay(), s.sink, infralog.New("enroll"))

	s.bus = eventbus.NewTypedBuffered[session.StateEvent](64)
	sessLog := infralog.New("session")
	s.sessions = session.NewStore(cfg.Server.SessionTTL(), func(id string) *session.Session {
		return session.New(id, s.engine,
			session.WithBus(s.bus),
			session.WithLogger(sessLog),
			session.WithDefaults(defaults),
			session.WithClock(s.now),
		)
	})
	return s, nil
}

func (s *Service) actuator(cfg *config.Config) (enroll.Actuator, error) {
	if cfg.Enroll.Actuator != enroll.KindMQTT {
		return enroll.DryRun{Log: infralog.New("dry-run")}, nil
	}
	client, err := mqtt.NewPahoClient(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt client: %w", err)
	}
	s.closers = append(s.closers, client.Disconnect)
	return enroll.CommandActuator{Client: client, AckTimeout: cfg.Enroll.AckTimeout()}, nil
}

// Bus exposes session state events.
func (s *Service) Bus() *eventbus.TypedBus[session.StateEvent] { return s.bus }

// Scan refreshes the catalog from the source.
func (s *Service) Scan(ctx context.Context) (catalog.Summary, error) {
	start := time.Now()
	cat, err := s.source.Scan(ctx)
	ev := coremetrics.CatalogScanEvent{
		Source:   s.kind,
		Success:  err == nil,
		Duration: time.Since(start),
		Time:     s.now(),
	}
	if err == nil {
		ev.Sections, ev.Defects = len(cat.Sections), len(cat.Defects)
	}
	if rec, ok := s.sink.(coremetrics.ScanRecorder); ok {
		if rerr := rec.RecordCatalogScan(ev); rerr != nil {
			s.log.Warnf("record catalog scan: %v", rerr)
		}
	}
	if err != nil {
		s.log.Errorf("catalog scan failed: %v", err)
		return catalog.Summary{}, apperrors.Wrap(err, apperrors.ErrCatalog.Code, apperrors.ErrCatalog.Status, apperrors.ErrCatalog.Message)
	}
	s.mu.Lock()
	s.cat = cat
	s.mu.Unlock()
	sum := cat.Summary()
	s.log.Infof("catalog scanned: %d courses, %d sections (%d open), %d defects",
		sum.Courses, sum.Sections, sum.OpenSections, sum.Defects)
	return sum, nil
}

// Catalog returns the last scanned catalog.
func (s *Service) Catalog() (*catalog.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cat == nil {
		return nil, apperrors.ErrNoCatalog
	}
	return s.cat, nil
}

// Generate submits req to the session id, creating a session when id is
// empty.
func (s *Service) Generate(ctx context.Context, id string, req session.Request) (session.Response, error) {
	cat, err := s.Catalog()
	if err != nil {
		return session.Response{}, err
	}
	if id == "" {
		id = s.sessions.Create()
		s.recordSessions()
	}
	var (
		resp     session.Response
		selected []string
	)
	err = s.sessions.With(id, func(sess *session.Session) error {
		var serr error
		resp, serr = sess.Submit(cat.Sections, req)
		selected = sess.Selection()
		return serr
	})
	if err != nil {
		return session.Response{}, err
	}
	s.record(ctx, selected, resp)
	return resp, nil
}

// Confirm continues a partially excluded session without the excluded courses.
func (s *Service) Confirm(ctx context.Context, id string) (session.Response, error) {
	var (
		resp     session.Response
		selected []string
	)
	err := s.sessions.With(id, func(sess *session.Session) error {
		var serr error
		resp, serr = sess.Confirm()
		selected = sess.Selection()
		return serr
	})
	if err != nil {
		return session.Response{}, err
	}
	s.record(ctx, selected, resp)
	return resp, nil
}

// Cancel discards a pending exclusion and returns the session to idle.
func (s *Service) Cancel(_ context.Context, id string) error {
	return s.sessions.With(id, func(sess *session.Session) error {
		return sess.Cancel()
	})
}

// Result returns the ranked result at rank of session id with the filter days.
func (s *Service) Result(id string, rank int) (model.RankedResult, []model.Day, error) {
	var (
		res  model.RankedResult
		days []model.Day
	)
	err := s.sessions.With(id, func(sess *session.Session) error {
		var rerr error
		res, rerr = sess.Result(rank)
		days = sess.Filters().Days.Ordered()
		return rerr
	})
	return res, days, err
}

// Results returns the ranked results of the last generation of session id.
func (s *Service) Results(id string) ([]model.RankedResult, error) {
	var out []model.RankedResult
	err := s.sessions.With(id, func(sess *session.Session) error {
		out = sess.Last().RankedResults
		return nil
	})
	return out, err
}

// Timetable renders the ranked result at rank of session id.
func (s *Service) Timetable(id string, rank int) (timetable.Grid, error) {
	res, days, err := s.Result(id, rank)
	if err != nil {
		return timetable.Grid{}, err
	}
	return timetable.Build(res, days), nil
}

// Apply enrolls the sections of the ranked result at rank of session id.
// The report is returned even when enrollment aborts.
func (s *Service) Apply(ctx context.Context, id string, rank int) (enroll.Report, error) {
	res, _, err := s.Result(id, rank)
	if err != nil {
		return enroll.Report{}, err
	}
	rep, err := s.applier.Apply(ctx, res.Schedule)
	if err != nil {
		return rep, apperrors.Wrap(err, apperrors.ErrEnrollment.Code, apperrors.ErrEnrollment.Status, apperrors.ErrEnrollment.Message)
	}
	return rep, nil
}

// Runs queries the generation run log.
func (s *Service) Runs(ctx context.Context, q runlog.Query) ([]runlog.Record, error) {
	return s.runs.Query(ctx, q)
}

// record appends the outcome to the run log and metrics. Pending exclusions
// are recorded once the user confirms.
func (s *Service) record(ctx context.Context, selected []string, resp session.Response) {
	if resp.Status == planner.StatusExcluded {
		return
	}
	rec := runlog.Record{
		Timestamp:  s.now(),
		SessionID:  resp.SessionID,
		Status:     string(resp.Status),
		Selected:   selected,
		Examined:   resp.Examined,
		Valid:      resp.Valid,
		Truncated:  resp.Truncation.Ceiling > 0,
		DurationMS: resp.Duration.Milliseconds(),
	}
	for _, c := range resp.ExcludedCourses {
		rec.Excluded = append(rec.Excluded, c.Code)
	}
	if len(resp.RankedResults) > 0 {
		best := resp.RankedResults[0]
		rec.BestScore = best.Score
		rec.BestOption = best.Schedule.SectionIDs()
	}
	if err := s.runs.Append(ctx, rec); err != nil {
		s.log.Warnf("append run log: %v", err)
	}
	ev := coremetrics.GenerationEvent{
		SessionID: resp.SessionID,
		Status:    rec.Status,
		Courses:   len(selected),
		Excluded:  len(rec.Excluded),
		Examined:  rec.Examined,
		Valid:     rec.Valid,
		Ranked:    len(resp.RankedResults),
		BestScore: rec.BestScore,
		Truncated: rec.Truncated,
		Duration:  resp.Duration,
		Time:      rec.Timestamp,
	}
	if err := s.sink.RecordGeneration(ev); err != nil {
		s.log.Warnf("record generation: %v", err)
	}
}

func (s *Service) recordSessions() {
	if rec, ok := s.sink.(coremetrics.SessionCountRecorder); ok {
		_ = rec.RecordSessionCount(s.sessions.Len())
	}
}

// Run starts background work and serves handler until ctx is canceled.
func (s *Service) Run(ctx context.Context, handler http.Handler) error {
	inframetrics.StartTransitionCollector(ctx, s.bus, s.sink)
	go func() {
		t := time.NewTicker(sweepInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := s.sessions.Sweep(); n > 0 {
					s.log.Debugf("dropped %d expired sessions", n)
				}
				s.recordSessions()
			}
		}
	}()

	srv := &http.Server{Addr: s.address, Handler: handler, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	return nil
}
