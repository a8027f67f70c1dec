package middleware

import (
	"context"

	"staykit/internal/app/commands"
)

// Nudger wakes the outbox worker so freshly committed events publish
// without waiting for the next poll tick.
type Nudger interface {
	Nudge()
}

func OutboxFlush(nudger Nudger) CommandMiddleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := next(ctx, cmd)
			if err == nil && nudger != nil {
				nudger.Nudge()
			}
			return res, err
		}
	}
}
