package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staykit/internal/app/commands"
	"staykit/internal/app/uow"
	"staykit/internal/infra/storage/memory"
)

type echoCommand struct {
	Value   string
	IdemKey string
	invalid bool
}

func (echoCommand) Key() string { return "test.echo" }

func (c echoCommand) IdempotencyKey() string { return c.IdemKey }

func (c echoCommand) ResultPrototype() any { return &echoResult{} }

func (c echoCommand) Validate() error {
	if c.invalid {
		return errors.New("test: invalid command")
	}
	return nil
}

type echoResult struct {
	Value string `json:"value"`
	Calls int    `json:"calls"`
}

func newEchoBus(calls *int) *commands.InMemoryBus {
	bus := commands.NewInMemoryBus()
	commands.Register(bus, commands.HandlerFunc[echoCommand, echoResult](
		func(ctx context.Context, cmd echoCommand) (echoResult, error) {
			*calls++
			return echoResult{Value: cmd.Value, Calls: *calls}, nil
		}))
	return bus
}

func TestIdempotency_ReplaysStoredResult(t *testing.T) {
	var calls int
	store := memory.NewIdempotencyStore(memory.NewStore())
	bus := ChainCommands(newEchoBus(&calls), Idempotency(store))

	first, err := commands.Dispatch[echoCommand, echoResult](context.Background(), bus,
		echoCommand{Value: "hello", IdemKey: "key-1"})
	require.NoError(t, err)

	second, err := commands.Dispatch[echoCommand, echoResult](context.Background(), bus,
		echoCommand{Value: "hello", IdemKey: "key-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestIdempotency_NoKeyAlwaysExecutes(t *testing.T) {
	var calls int
	store := memory.NewIdempotencyStore(memory.NewStore())
	bus := ChainCommands(newEchoBus(&calls), Idempotency(store))

	for range 3 {
		_, err := commands.Dispatch[echoCommand, echoResult](context.Background(), bus, echoCommand{Value: "x"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, calls)
}

func TestValidation_BlocksBeforeHandler(t *testing.T) {
	var calls int
	bus := ChainCommands(newEchoBus(&calls), Validation())

	_, err := commands.Dispatch[echoCommand, echoResult](context.Background(), bus, echoCommand{invalid: true})
	assert.Error(t, err)
	assert.Zero(t, calls)
}

type unitCommand struct{ fail bool }

func (unitCommand) Key() string { return "test.unit" }

func TestTransaction_InjectsUnitAndRollsBackOnError(t *testing.T) {
	store := memory.NewStore()
	bus := commands.NewInMemoryBus()
	commands.Register(bus, commands.HandlerFunc[unitCommand, string](
		func(ctx context.Context, cmd unitCommand) (string, error) {
			if _, err := uow.FromContext(ctx); err != nil {
				return "", err
			}
			if cmd.fail {
				return "", errors.New("test: handler failed")
			}
			return "ok", nil
		}))
	chained := ChainCommands(bus, Transaction(memory.NewFactory(store)))

	result, err := commands.Dispatch[unitCommand, string](context.Background(), chained, unitCommand{})
	require.NoError(t, err)
	assert.Equal(t, "ok", result)

	_, err = commands.Dispatch[unitCommand, string](context.Background(), chained, unitCommand{fail: true})
	assert.Error(t, err)
}

type nudgeCounter struct{ nudges int }

func (n *nudgeCounter) Nudge() { n.nudges++ }

func TestOutboxFlush_NudgesOnlyOnSuccess(t *testing.T) {
	var calls int
	counter := &nudgeCounter{}
	bus := ChainCommands(newEchoBus(&calls), Validation(), OutboxFlush(counter))

	_, err := commands.Dispatch[echoCommand, echoResult](context.Background(), bus, echoCommand{Value: "ok"})
	require.NoError(t, err)
	assert.Equal(t, 1, counter.nudges)

	_, err = commands.Dispatch[echoCommand, echoResult](context.Background(), bus, echoCommand{invalid: true})
	require.Error(t, err)
	assert.Equal(t, 1, counter.nudges)
}
