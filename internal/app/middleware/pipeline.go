package middleware

import (
	"context"

	"staykit/internal/app/commands"
)

// DispatchFunc is a single stage of the command pipeline.
type DispatchFunc func(ctx context.Context, cmd commands.Command) (any, error)

// CommandMiddleware wraps a dispatch stage with cross-cutting behavior.
type CommandMiddleware func(next DispatchFunc) DispatchFunc

type pipelineBus struct {
	dispatch DispatchFunc
}

func (b pipelineBus) Dispatch(ctx context.Context, cmd commands.Command) (any, error) {
	return b.dispatch(ctx, cmd)
}

// ChainCommands wraps a bus with middleware; the first middleware listed
// runs outermost.
func ChainCommands(bus commands.Bus, middlewares ...CommandMiddleware) commands.Bus {
	dispatch := bus.Dispatch
	for i := len(middlewares) - 1; i >= 0; i-- {
		dispatch = middlewares[i](dispatch)
	}
	return pipelineBus{dispatch: dispatch}
}
