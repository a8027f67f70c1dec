package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/uow"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/money"
)

func newTestProperty(t *testing.T, id string) *property.Property {
	t.Helper()
	p, err := property.New(property.CreateParams{
		ID:            property.PropertyID(id),
		Host:          "host-1",
		Name:          "Canal House",
		MaxGuests:     4,
		MinimumNights: 1,
		Rates:         quote.RateCard{BasePrice: money.Must(10000, "USD")},
	})
	require.NoError(t, err)
	return p
}

func TestUnit_CommitAppliesStagedWrites(t *testing.T) {
	store := NewStore()
	factory := NewFactory(store)

	unit, err := factory.Begin(context.Background())
	require.NoError(t, err)

	p := newTestProperty(t, "prop-1")
	require.NoError(t, unit.Properties().Save(context.Background(), p))
	require.NoError(t, unit.Outbox().Append(context.Background(), appoutbox.EventRecord{
		ID:        "r1",
		EventName: "property.created",
		State:     appoutbox.StateNew,
	}))

	// Nothing is visible until Commit.
	_, err = NewPropertyRepository(store).ByID(context.Background(), "prop-1")
	assert.ErrorIs(t, err, property.ErrNotFound)

	require.NoError(t, unit.Commit(context.Background()))

	saved, err := NewPropertyRepository(store).ByID(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "Canal House", saved.Name)
	assert.Equal(t, int64(1), saved.Version)
	assert.Len(t, store.outbox, 1)
}

func TestUnit_RollbackDiscardsStagedWrites(t *testing.T) {
	store := NewStore()
	factory := NewFactory(store)

	unit, err := factory.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, unit.Properties().Save(context.Background(), newTestProperty(t, "prop-1")))
	require.NoError(t, unit.Rollback(context.Background()))

	_, err = NewPropertyRepository(store).ByID(context.Background(), "prop-1")
	assert.ErrorIs(t, err, property.ErrNotFound)
	assert.Empty(t, store.outbox)
}

func TestUnit_ClosedTwiceReturnsErrClosed(t *testing.T) {
	factory := NewFactory(NewStore())

	unit, err := factory.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, unit.Commit(context.Background()))
	assert.ErrorIs(t, unit.Commit(context.Background()), uow.ErrClosed)
	assert.ErrorIs(t, unit.Rollback(context.Background()), uow.ErrClosed)
}

func TestUnit_StaleVersionFailsCommit(t *testing.T) {
	store := NewStore()
	factory := NewFactory(store)
	repo := NewPropertyRepository(store)

	require.NoError(t, repo.Save(context.Background(), newTestProperty(t, "prop-1")))

	// Two readers load version 1 and race their updates.
	first, err := repo.ByID(context.Background(), "prop-1")
	require.NoError(t, err)
	second, err := repo.ByID(context.Background(), "prop-1")
	require.NoError(t, err)

	winner, err := factory.Begin(context.Background())
	require.NoError(t, err)
	first.Name = "Canal House West"
	require.NoError(t, winner.Properties().Save(context.Background(), first))
	require.NoError(t, winner.Commit(context.Background()))

	loser, err := factory.Begin(context.Background())
	require.NoError(t, err)
	second.Name = "Canal House East"
	require.NoError(t, loser.Properties().Save(context.Background(), second))
	assert.ErrorIs(t, loser.Commit(context.Background()), ErrConcurrentUpdate)

	current, err := repo.ByID(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "Canal House West", current.Name)
}

func TestRepository_ReadsReturnClones(t *testing.T) {
	store := NewStore()
	repo := NewPropertyRepository(store)
	require.NoError(t, repo.Save(context.Background(), newTestProperty(t, "prop-1")))

	loaded, err := repo.ByID(context.Background(), "prop-1")
	require.NoError(t, err)
	loaded.Name = "mutated"

	fresh, err := repo.ByID(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Equal(t, "Canal House", fresh.Name)
}
