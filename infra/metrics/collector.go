package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/smartreg/core/metrics"
	"github.com/kilianp07/smartreg/core/session"
	"github.com/kilianp07/smartreg/internal/eventbus"
)

// StartTransitionCollector subscribes to session state events and forwards
// workflow transitions to the sink when it records them. Self events, which
// only report a generation outcome, are skipped. The collector stops when the
// context is canceled or the bus is closed.
func StartTransitionCollector(ctx context.Context, bus *eventbus.TypedBus[session.StateEvent], sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.TransitionRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if ev.From == ev.To {
					continue
				}
				_ = rec.RecordTransition(coremetrics.TransitionEvent{
					SessionID: ev.SessionID,
					From:      string(ev.From),
					To:        string(ev.To),
					Time:      ev.At,
				})
			}
		}
	}()
}
