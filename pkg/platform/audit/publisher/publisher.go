package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	audit "tourmint/pkg/platform/audit"
	"tourmint/pkg/platform/audit/metrics"
)

// Sink receives a copy of every persisted event (Kafka, log shippers).
// Sink failures are logged and counted but never fail the emit.
type Sink interface {
	audit.Appender
	Name() string
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store   audit.Store
	sinks   []Sink
	events  chan audit.Event
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *metrics.Metrics
	async   bool
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithAsyncBuffer enables async processing with the specified buffer size.
// Events are queued and persisted in a background goroutine.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan audit.Event, size)
			p.async = true
		}
	}
}

// WithPublisherLogger sets a logger for async and sink error reporting.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithPublisherMetrics sets the metrics collector.
func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithSink adds a secondary destination for persisted events.
func WithSink(sink Sink) PublisherOption {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
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
		if p.metrics != nil {
			p.metrics.QueueDepth.Set(float64(len(p.events)))
		}
		if err := p.persist(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to persist audit event",
				"error", err,
				"action", event.Action,
				"credential_id", event.CredentialID,
			)
		}
	}
}

// Close shuts down the async publisher and waits for pending events to drain.
func (p *Publisher) Close() {
	if p.async && p.events != nil {
		close(p.events)
		p.wg.Wait()
	}
}

func (p *Publisher) Emit(ctx context.Context, base audit.Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.ID.IsNil() {
		base.ID = id.NewEventID()
	}
	if p.async {
		select {
		case p.events <- base:
			if p.metrics != nil {
				p.metrics.EventsEnqueued.Inc()
			}
			return nil
		case <-ctx.Done():
			return ctx.Err()
		default:
			if p.metrics != nil {
				p.metrics.EventsDropped.Inc()
			}
			if p.logger != nil {
				p.logger.Warn("audit buffer full, event dropped",
					"action", base.Action,
					"credential_id", base.CredentialID,
				)
			}
			return dErrors.New(dErrors.CodeInternal, "audit buffer full")
		}
	}
	return p.persist(ctx, base)
}

func (p *Publisher) persist(ctx context.Context, event audit.Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		if p.metrics != nil {
			p.metrics.PersistFailures.Inc()
		}
		return err
	}
	for _, sink := range p.sinks {
		if err := sink.Append(ctx, event); err != nil {
			if p.metrics != nil {
				p.metrics.SinkFailures.WithLabelValues(sink.Name()).Inc()
			}
			if p.logger != nil {
				p.logger.WarnContext(ctx, "audit sink rejected event",
					"sink", sink.Name(),
					"error", err,
					"action", event.Action,
				)
			}
		}
	}
	return nil
}

func (p *Publisher) ListByCredential(ctx context.Context, credentialID id.CredentialID) ([]audit.Event, error) {
	return p.store.ListByCredential(ctx, credentialID)
}

func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}
