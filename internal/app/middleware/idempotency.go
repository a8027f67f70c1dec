package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"staykit/internal/app/commands"
)

// Idempotent commands carry a client-supplied key; replays with the same
// key return the stored result instead of re-executing the handler.
type Idempotent interface {
	IdempotencyKey() string
}

// ResultPrototyper tells the middleware which concrete type a stored
// result decodes into.
type ResultPrototyper interface {
	ResultPrototype() any
}

// IdempotencyStore persists command results keyed by idempotency key.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, result []byte) error
}

// Idempotency short-circuits replayed commands using the store.
func Idempotency(store IdempotencyStore) CommandMiddleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, cmd commands.Command) (any, error) {
			idem, ok := cmd.(Idempotent)
			if !ok || idem.IdempotencyKey() == "" {
				return next(ctx, cmd)
			}
			key := fmt.Sprintf("%s:%s", cmd.Key(), idem.IdempotencyKey())

			stored, found, err := store.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			if found {
				return decodeResult(cmd, stored)
			}

			res, err := next(ctx, cmd)
			if err != nil {
				return nil, err
			}
			encoded, err := json.Marshal(res)
			if err != nil {
				return nil, err
			}
			if err := store.Put(ctx, key, encoded); err != nil {
				return nil, err
			}
			return res, nil
		}
	}
}

func decodeResult(cmd commands.Command, stored []byte) (any, error) {
	proto, ok := cmd.(ResultPrototyper)
	if !ok {
		return nil, nil
	}
	target := proto.ResultPrototype()
	if target == nil {
		return nil, nil
	}
	if err := json.Unmarshal(stored, target); err != nil {
		return nil, err
	}
	return reflect.ValueOf(target).Elem().Interface(), nil
}
