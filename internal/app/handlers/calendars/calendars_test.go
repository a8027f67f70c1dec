package calendars

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staykit/internal/app/outbox"
	"staykit/internal/app/policies"
	"staykit/internal/app/uow"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/money"
	"staykit/internal/infra/storage/memory"
)

var fixedNow = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func nowFunc() time.Time { return fixedNow }

func seedProperty(t *testing.T, store *memory.Store) *property.Property {
	t.Helper()
	weekend := money.Must(15000, "USD")
	prop, err := property.New(property.CreateParams{
		ID:            "prop-1",
		Host:          "host-1",
		Name:          "Hill House",
		Address:       "2 Ridge Ln",
		MaxGuests:     4,
		MinimumNights: 1,
		Rates: quote.RateCard{
			BasePrice:    money.Must(10000, "USD"),
			WeekendPrice: &weekend,
		},
		Now: fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, memory.NewPropertyRepository(store).Save(context.Background(), prop))
	return prop
}

func runSetDate(t *testing.T, store *memory.Store, cmd SetDateCommand) (SetDateResult, error) {
	t.Helper()
	handler := NewSetDateHandler(appoutbox.JSONEventEncoder{}, nowFunc)
	unit, err := memory.NewFactory(store).Begin(context.Background())
	require.NoError(t, err)
	result, err := handler.Handle(uow.WithUnit(context.Background(), unit), cmd)
	if err != nil {
		require.NoError(t, unit.Rollback(context.Background()))
		return result, err
	}
	require.NoError(t, unit.Commit(context.Background()))
	return result, nil
}

func monthView(t *testing.T, store *memory.Store, hostID string) (MonthView, error) {
	t.Helper()
	handler := NewGetMonthHandler(policies.RepoStayData{
		Properties: memory.NewPropertyRepository(store),
		Calendars:  memory.NewCalendarRepository(store),
	}, memory.NewPropertyRepository(store))
	return handler.Handle(context.Background(), GetMonthQuery{
		PropertyID: "prop-1",
		HostID:     hostID,
		Year:       2024,
		Month:      time.March,
	})
}

func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }

func TestSetDate_BlockAndReopen(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	result, err := runSetDate(t, store, SetDateCommand{
		PropertyID: "prop-1", HostID: "host-1",
		Date: date, Available: boolPtr(false), Reason: "repairs",
	})
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "repairs", result.Reason)

	result, err = runSetDate(t, store, SetDateCommand{
		PropertyID: "prop-1", HostID: "host-1",
		Date: date, Available: boolPtr(true),
	})
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Empty(t, result.Reason)
}

func TestSetDate_OverrideSetAndClear(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)
	date := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) // a Saturday

	result, err := runSetDate(t, store, SetDateCommand{
		PropertyID: "prop-1", HostID: "host-1",
		Date: date, OverrideCents: int64Ptr(50000),
	})
	require.NoError(t, err)
	assert.True(t, result.Overridden)
	assert.Equal(t, int64(50000), result.PriceCents)

	result, err = runSetDate(t, store, SetDateCommand{
		PropertyID: "prop-1", HostID: "host-1",
		Date: date, ClearOverride: true,
	})
	require.NoError(t, err)
	assert.False(t, result.Overridden)
	// Back to the weekend price once the override is gone.
	assert.Equal(t, int64(15000), result.PriceCents)
}

func TestSetDate_RejectsForeignHost(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)

	_, err := runSetDate(t, store, SetDateCommand{
		PropertyID: "prop-1", HostID: "host-2",
		Date: fixedNow, Available: boolPtr(false),
	})
	assert.ErrorIs(t, err, property.ErrNotOwnedByHost)
}

func TestSetDate_RequiresSomeChange(t *testing.T) {
	cmd := SetDateCommand{PropertyID: "prop-1", HostID: "host-1", Date: fixedNow}
	assert.ErrorIs(t, cmd.Validate(), ErrNothingToChange)
}

func TestGetMonth_ResolvesEveryDay(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)
	_, err := runSetDate(t, store, SetDateCommand{
		PropertyID: "prop-1", HostID: "host-1",
		Date:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Available: boolPtr(false), Reason: "repairs",
	})
	require.NoError(t, err)
	_, err = runSetDate(t, store, SetDateCommand{
		PropertyID: "prop-1", HostID: "host-1",
		Date:          time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		OverrideCents: int64Ptr(20000),
	})
	require.NoError(t, err)

	view, err := monthView(t, store, "host-1")
	require.NoError(t, err)
	require.Len(t, view.Days, 31)

	byDate := make(map[string]DayView, len(view.Days))
	for _, day := range view.Days {
		byDate[day.Date] = day
	}

	assert.False(t, byDate["2024-03-10"].Available)
	assert.Equal(t, "repairs", byDate["2024-03-10"].Reason)

	assert.True(t, byDate["2024-03-15"].Overridden)
	assert.Equal(t, int64(20000), byDate["2024-03-15"].PriceCents)

	// Untouched weekday and weekend fall back to the rate card.
	assert.Equal(t, int64(10000), byDate["2024-03-04"].PriceCents)
	assert.Equal(t, int64(15000), byDate["2024-03-02"].PriceCents)
	assert.True(t, byDate["2024-03-02"].Weekend)
	assert.True(t, byDate["2024-03-04"].Available)
}

func TestGetMonth_RejectsForeignHost(t *testing.T) {
	store := memory.NewStore()
	seedProperty(t, store)
	_, err := monthView(t, store, "host-2")
	assert.ErrorIs(t, err, property.ErrNotOwnedByHost)
}
