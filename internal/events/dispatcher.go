package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

// syncDispatcher runs subscribers inline on the publishing goroutine.
type syncDispatcher struct {
	mu            sync.RWMutex
	subscriptions map[EventType][]EventHandler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &syncDispatcher{subscriptions: make(map[EventType][]EventHandler)}
}

// Publish invokes every subscriber of event.Type in subscription order. A
// subscriber that fails or panics does not prevent the others from running;
// all failures are joined into the returned error.
func (d *syncDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subs := d.subscriptions[event.Type]
	d.mu.RUnlock()

	var errs []error
	for i, handle := range subs {
		if err := invoke(ctx, handle, event); err != nil {
			errs = append(errs, fmt.Errorf("%s subscriber %d: %w", event.Type, i, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers a handler for the given event type.
func (d *syncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// copy-on-write so Publish can iterate a snapshot without holding the lock
	next := make([]EventHandler, len(d.subscriptions[eventType]), len(d.subscriptions[eventType])+1)
	copy(next, d.subscriptions[eventType])
	d.subscriptions[eventType] = append(next, handler)
}

func invoke(ctx context.Context, handle EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handle(ctx, event)
}
