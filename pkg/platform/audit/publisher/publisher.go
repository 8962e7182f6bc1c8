package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dErrors "trustlink/pkg/domain-errors"
	audit "trustlink/pkg/platform/audit"
	"trustlink/pkg/platform/audit/metrics"
)

type namedSink struct {
	name string
	sink audit.Sink
}

// Publisher appends audit events to a primary store and fans each accepted
// event out to secondary sinks. Sink failures are logged and counted only.
type Publisher struct {
	store   audit.Store
	sinks   []namedSink
	events  chan audit.Event
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	logger  *slog.Logger
	metrics *metrics.Metrics
	async   bool
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer persists events from a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithSink registers a secondary destination such as a Kafka topic.
func WithSink(name string, sink audit.Sink) PublisherOption {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, namedSink{name: name, sink: sink})
		}
	}
}

func NewPublisher(store audit.Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.processEvents()
	}
	return p
}

func (p *Publisher) processEvents() {
	defer p.wg.Done()
	for event := range p.events {
		if err := p.persist(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
				"principal", event.Principal.String(),
			)
		}
	}
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.IncStoreErrors()
		return err
	}
	p.metrics.IncEmitted(event.Action)

	for _, s := range p.sinks {
		if err := s.sink.Append(ctx, event); err != nil {
			p.metrics.IncSinkFailure(s.name)
			if p.logger != nil {
				p.logger.WarnContext(ctx, "audit sink delivery failed",
					"sink", s.name,
					"error", err,
					"action", event.Action,
				)
			}
		}
	}
	return nil
}

// Close drains pending async events. Emit calls that arrive afterwards are
// rejected instead of sending on the closed buffer.
func (p *Publisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	if p.async {
		close(p.events)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

func (p *Publisher) Emit(ctx context.Context, base audit.Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.metrics.IncDropped()
		return dErrors.New(dErrors.CodeUnavailable, "audit publisher closed")
	}
	if p.async {
		select {
		case p.events <- base:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
			p.metrics.IncDropped()
			if p.logger != nil {
				p.logger.Warn("audit buffer full, event dropped",
					"action", base.Action,
					"principal", base.Principal.String(),
				)
			}
			return dErrors.New(dErrors.CodeUnavailable, "audit buffer full")
		}
	}
	return p.persist(ctx, base)
}

