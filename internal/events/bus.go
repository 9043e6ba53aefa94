package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Observer reacts to triage events without being able to affect the
// outcome of the operation that raised them.
type Observer interface {
	// Name identifies the observer; registration is keyed on it.
	Name() string
	Update(ctx context.Context, event Event) error
}

// Bus is the in-process publish/subscribe dispatcher. Observers run
// sequentially in registration order; a failing or panicking observer
// never prevents the remaining observers from running and never fails
// the publisher.
type Bus struct {
	mu        sync.RWMutex
	observers []Observer
	logger    *zap.Logger
}

// NewBus creates an empty bus.
func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{logger: logger}
}

// Attach registers an observer. Attaching an observer with a name that is
// already registered is a no-op.
func (b *Bus) Attach(observer Observer) {
	if observer == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.observers {
		if existing.Name() == observer.Name() {
			return
		}
	}
	b.observers = append(b.observers, observer)
}

// Detach removes an observer; detaching an unknown observer is a no-op.
func (b *Bus) Detach(observer Observer) {
	if observer == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.observers {
		if existing.Name() == observer.Name() {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// ObserverCount returns the number of registered observers.
func (b *Bus) ObserverCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.observers)
}

// Notify delivers the event to every observer in registration order. Each
// observer completes before the next starts. Errors and panics are logged
// and swallowed so a notification failure can never fail the triage write
// path.
func (b *Bus) Notify(ctx context.Context, event Event) {
	b.mu.RLock()
	observers := append([]Observer(nil), b.observers...)
	b.mu.RUnlock()

	for _, observer := range observers {
		if err := b.deliver(ctx, observer, event); err != nil {
			b.logger.Error("observer failed",
				zap.String("observer", observer.Name()),
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Error(err))
		}
	}
}

func (b *Bus) deliver(ctx context.Context, observer Observer, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panic: %v", r)
		}
	}()
	return observer.Update(ctx, event)
}
