package middleware

import (
	"context"

	"staykit/internal/app/commands"
)

// SelfValidating commands check their own payload before any handler or
// transaction work starts.
type SelfValidating interface {
	Validate() error
}

func Validation() CommandMiddleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, cmd commands.Command) (any, error) {
			if v, ok := cmd.(SelfValidating); ok {
				if err := v.Validate(); err != nil {
					return nil, err
				}
			}
			return next(ctx, cmd)
		}
	}
}
