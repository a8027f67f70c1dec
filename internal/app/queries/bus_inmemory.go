package queries

import (
	"context"
	"fmt"
	"sync"
)

type untypedHandler func(ctx context.Context, q Query) (any, error)

// InMemoryBus routes queries to registered handlers by query key.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]untypedHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]untypedHandler)}
}

func Register[Q Query, R any](bus *InMemoryBus, handler Handler[Q, R]) {
	var probe Q
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[probe.Key()] = func(ctx context.Context, q Query) (any, error) {
		typed, ok := q.(Q)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrInvalidQuery, q)
		}
		return handler.Handle(ctx, typed)
	}
}

func (b *InMemoryBus) Ask(ctx context.Context, q Query) (any, error) {
	b.mu.RLock()
	handler, ok := b.handlers[q.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, q.Key())
	}
	return handler(ctx, q)
}
