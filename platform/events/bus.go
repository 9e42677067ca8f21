package events

import (
	"context"
	"sync"

	"anchor_crm_backend/platform/logger"
)

// InMemoryBus is a simple in-process event bus. Handlers registered for an
// event name receive every published event of that name. Publish dispatches
// in a goroutine per event; PublishSync runs handlers inline and collects
// the first error.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the given event name.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event to all handlers asynchronously. Handler
// errors are logged, never propagated to the publisher. Handlers outlive
// the request that published the event: the context is detached from the
// caller's cancellation so an HTTP request finishing does not abort the
// activity trail or notification sends mid-flight.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	go func() {
		for _, h := range handlers {
			if err := h.Handle(detached, event); err != nil && b.log != nil {
				b.log.Error("event handler failed", "event", event.EventName(), "error", err)
			}
		}
	}()
}

// PublishSync dispatches the event inline and returns the first handler error.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Compile-time check that InMemoryBus implements Bus.
var _ Bus = (*InMemoryBus)(nil)
