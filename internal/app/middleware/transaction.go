package middleware

import (
	"context"

	"staykit/internal/app/commands"
	"staykit/internal/app/uow"
)

// Transaction opens a unit of work per command, injects it into the
// context, and commits it only when the handler succeeds.
func Transaction(factory uow.Factory) CommandMiddleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, cmd commands.Command) (any, error) {
			unit, err := factory.Begin(ctx)
			if err != nil {
				return nil, err
			}
			res, err := next(uow.WithUnit(ctx, unit), cmd)
			if err != nil {
				_ = unit.Rollback(ctx)
				return nil, err
			}
			if err := unit.Commit(ctx); err != nil {
				return nil, err
			}
			return res, nil
		}
	}
}
