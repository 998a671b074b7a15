package metrics

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	coremetrics "github.com/kilianp07/smartreg/core/metrics"
	"github.com/kilianp07/smartreg/core/session"
	"github.com/kilianp07/smartreg/internal/eventbus"
)

type transitionSink struct {
	coremetrics.NopSink
	mu  sync.Mutex
	got []coremetrics.TransitionEvent
}

func (s *transitionSink) RecordTransition(ev coremetrics.TransitionEvent) error {
	s.mu.Lock()
	s.got = append(s.got, ev)
	s.mu.Unlock()
	return nil
}

func (s *transitionSink) events() []coremetrics.TransitionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]coremetrics.TransitionEvent(nil), s.got...)
}

func TestTransitionCollector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := eventbus.NewTyped[session.StateEvent]()
	sink := &transitionSink{}
	StartTransitionCollector(ctx, bus, sink)

	bus.Publish(session.StateEvent{SessionID: "s1", From: session.StateIdle, To: session.StateFiltered})
	bus.Publish(session.StateEvent{SessionID: "s1", From: session.StateSatisfied, To: session.StateSatisfied})
	bus.Publish(session.StateEvent{SessionID: "s1", From: session.StateFiltered, To: session.StateSatisfied})

	assert.Eventually(t, func() bool { return len(sink.events()) == 2 }, time.Second, 10*time.Millisecond)
	got := sink.events()
	assert.Equal(t, "idle", got[0].From)
	assert.Equal(t, "filtered", got[0].To)
	assert.Equal(t, "satisfied", got[1].To)
}

func TestTransitionCollector_StopsOnClose(t *testing.T) {
	bus := eventbus.NewTyped[session.StateEvent]()
	sink := &transitionSink{}
	StartTransitionCollector(context.Background(), bus, sink)
	bus.Close()
	bus.Publish(session.StateEvent{From: session.StateIdle, To: session.StateFiltered})
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, sink.events())
}
