// Package runtime moves change events from the writers to the live feeds.
// It orchestrates workers and subscriptions without containing any feed logic.
package runtime

import (
	"chat-feed/contract"
	"chat-feed/domain"
	"chat-feed/domain/event"
	"chat-feed/observability"
	"chat-feed/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const defaultSampleInterval = 10 * time.Second

type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	permanentSinks []contract.EventSink
	supervisor     contract.ISupervisor
	registry       contract.IRegistry
	metrics        *observability.Metrics
	events         chan event.DomainEvent
	sinkTimeout    time.Duration
	sampleInterval time.Duration
	started        bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry contract.IRegistry,
	metrics *observability.Metrics, bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		registry:       registry,
		metrics:        metrics,
		events:         make(chan event.DomainEvent, bufferSize),
		sinkTimeout:    sinkTimeout,
		sampleInterval: defaultSampleInterval,
	}
}

// WithSampleInterval sets how often the event queue length is reported.
func (o *Orchestrator) WithSampleInterval(interval time.Duration) *Orchestrator {
	if interval > 0 {
		o.sampleInterval = interval
	}
	return o
}

// Add registers sinks receiving every event. It must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Publish queues an event without blocking the writer.
// When the queue is full the event is dropped: live feeds catch up on the next event.
func (o *Orchestrator) Publish(e event.DomainEvent) {
	select {
	case o.events <- e:
	default:
		o.metrics.EventLost()
		o.log.Warn(fmt.Sprintf("Event channel full, dropping %T", e))
	}
}

func (o *Orchestrator) Subscribe(viewerID string, scope domain.Scope, sink contract.EventSink) {
	o.registry.Subscribe(viewerID, scope, sink)
}

func (o *Orchestrator) Unsubscribe(viewerID string, scope domain.Scope) {
	o.registry.Unsubscribe(viewerID, scope)
}

// Start registers the refresher and the queue sampler on the supervisor and runs it.
// It blocks until the context is canceled or Stop is called.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.started = true
	refresher := workers.NewRefresher(o.log, o.events, o.registry, o.metrics, o.sinkTimeout).
		WithPermanentSinks(o.permanentSinks...)
	sampler := workers.NewChannelCapacityWorker(o.log,
		[]workers.NamedChannel{{Name: "events", Channel: o.events}}, o.metrics, o.sampleInterval)
	o.supervisor.Add(refresher, sampler)
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers")
	o.supervisor.Run(ctx)
	return nil
}

// Stop cancels the supervised workers. Queued events are not drained.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
