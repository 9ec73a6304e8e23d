package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"custodia/pkg/domain"
)

// Sink receives a copy of every published event for out-of-process delivery.
// Implementations must not block the publisher.
type Sink interface {
	Enqueue(event Event)
}

// Publisher captures structured audit events. It is append-only and uses the
// store for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	sink  Sink
}

type Option func(*Publisher)

// WithSink mirrors published events to an out-of-process sink.
func WithSink(sink Sink) Option {
	return func(p *Publisher) {
		p.sink = sink
	}
}

func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit assigns identity and timestamp, persists the event, and forwards it to
// the sink if one is configured. The store append is the source of truth; sink
// delivery is best-effort.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink != nil {
		p.sink.Enqueue(event)
	}
	return nil
}

func (p *Publisher) List(ctx context.Context) ([]Event, error) {
	return p.store.List(ctx)
}

func (p *Publisher) ListByUser(ctx context.Context, user domain.Address) ([]Event, error) {
	return p.store.ListByUser(ctx, user)
}
