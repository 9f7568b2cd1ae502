//go:generate go run go.uber.org/mock/mockgen -source=bus.go -destination=../mocks/mock_bus.go -package=mocks
package bus

import (
	"context"
	"log/slog"
	"sync"

	"parent-portal/domain/event"
)

// Handler consumes one event. A failing handler is logged by the pump and
// never reaches the producer.
type Handler func(ctx context.Context, evt event.DomainEvent) error

type Publisher interface {
	Publish(evt event.DomainEvent)
}

type subscription struct {
	group   string
	handler Handler
}

// Bus is a best-effort in-process topic bus. Publish is fire-and-forget:
// the producer never waits for, or learns about, downstream processing.
// One handler per (topic, group) pair receives each event. There is no
// delivery, ordering, durability or replay guarantee.
//
// Bus is safe for concurrent use by multiple goroutines.
type Bus struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[event.Topic][]subscription

	events chan event.DomainEvent
}

func New(log *slog.Logger, buffer int) *Bus {
	return &Bus{
		log:    log,
		subs:   make(map[event.Topic][]subscription),
		events: make(chan event.DomainEvent, buffer),
	}
}

// Publish enqueues the event without blocking. A full buffer drops the
// event; this bus carries side effects, not core state.
func (b *Bus) Publish(evt event.DomainEvent) {
	select {
	case b.events <- evt:
	default:
		b.log.Warn("event dropped, bus buffer full", "topic", evt.Topic())
	}
}

// Subscribe binds a handler to a topic under a consumer group. A second
// subscription for the same (topic, group) replaces the first.
func (b *Bus) Subscribe(topic event.Topic, group string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, sub := range b.subs[topic] {
		if sub.group == group {
			b.subs[topic][i].handler = h
			return
		}
	}
	b.subs[topic] = append(b.subs[topic], subscription{group: group, handler: h})
}

// Run drains the event channel and fans each event out to the handlers of
// its topic. Handler errors are logged and swallowed.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-b.events:
			b.dispatch(ctx, evt)
		case <-ctx.Done():
			b.log.Debug("context done, stopping event bus")
			return nil
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, evt event.DomainEvent) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[evt.Topic()]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.handler(ctx, evt); err != nil {
			b.log.Error("event handler failed",
				"topic", evt.Topic(),
				"group", sub.group,
				"error", err,
			)
		}
	}
}
