package commands

import (
	"context"
	"fmt"
	"sync"
)

type untypedHandler func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus routes commands to registered handlers by command key.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]untypedHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]untypedHandler)}
}

// Register binds a handler to the key of the zero value of C.
func Register[C Command, R any](bus *InMemoryBus, handler Handler[C, R]) {
	var probe C
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[probe.Key()] = func(ctx context.Context, cmd Command) (any, error) {
		typed, ok := cmd.(C)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrInvalidCommand, cmd)
		}
		return handler.Handle(ctx, typed)
	}
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	b.mu.RLock()
	handler, ok := b.handlers[cmd.Key()]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, cmd.Key())
	}
	return handler(ctx, cmd)
}
