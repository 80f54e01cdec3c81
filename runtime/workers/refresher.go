package workers

import (
	"chat-feed/contract"
	"chat-feed/domain/event"
	"chat-feed/observability"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Refresher delivers change events to the live feeds watching the affected scopes.
//
// Delivery is best effort: a sink slower than sinkTimeout has its context canceled and
// the event is not retried. Events are handled one at a time, so a sink sees events
// in publication order.
type Refresher struct {
	log         *slog.Logger
	events      <-chan event.DomainEvent
	registry    contract.IRegistry
	permanent   []contract.EventSink
	metrics     *observability.Metrics
	sinkTimeout time.Duration
}

func NewRefresher(log *slog.Logger, events <-chan event.DomainEvent, registry contract.IRegistry,
	metrics *observability.Metrics, sinkTimeout time.Duration) *Refresher {
	return &Refresher{
		log:         log,
		events:      events,
		registry:    registry,
		metrics:     metrics,
		sinkTimeout: sinkTimeout,
	}
}

// WithPermanentSinks adds sinks receiving every event whatever its scopes.
func (w *Refresher) WithPermanentSinks(sinks ...contract.EventSink) *Refresher {
	w.permanent = append(w.permanent, sinks...)
	return w
}

func (w *Refresher) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.events:
			if !ok {
				w.log.Debug("Event channel closed, stopping refresher")
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping refresher")
			return nil
		}
	}
}

// Fanout hands the event to the permanent sinks and to every sink of every affected scope,
// concurrently, and waits for all of them.
func (w *Refresher) Fanout(ctx context.Context, evt event.DomainEvent) {
	var wg sync.WaitGroup
	deliver := func(sink contract.EventSink, scope string) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
			defer cancel()
			err := sink.Consume(sinkCtx, evt)
			if scope != "" {
				w.metrics.Refreshed(err)
			}
			if err != nil {
				w.log.Warn("Event delivery failed", "scope", scope, "sink", fmt.Sprintf("%T", sink), "error", err)
			}
		}()
	}
	for _, sink := range w.permanent {
		deliver(sink, "")
	}
	for _, scope := range evt.Scopes() {
		for _, sink := range w.registry.GetSinksForScope(scope) {
			deliver(sink, scope.Key())
		}
	}
	wg.Wait()
}
