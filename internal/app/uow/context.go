package uow

import (
	"context"
	"errors"
)

type contextKey struct{}

var ErrNotInContext = errors.New("uow: no unit of work in context")

// WithUnit stores a unit of work in the context for downstream handlers.
func WithUnit(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, contextKey{}, unit)
}

// FromContext extracts the active unit of work.
func FromContext(ctx context.Context) (UnitOfWork, error) {
	unit, ok := ctx.Value(contextKey{}).(UnitOfWork)
	if !ok || unit == nil {
		return nil, ErrNotInContext
	}
	return unit, nil
}
