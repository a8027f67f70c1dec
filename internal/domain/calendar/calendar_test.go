package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staykit/internal/domain/calendar"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
)

func day(d int) time.Time {
	return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestBlockAndOpen(t *testing.T) {
	cal := calendar.New("prop-1")
	now := time.Now()

	cal.BlockDate(day(10), "maintenance", now)
	cal.BlockDate(day(12), "host block", now)
	cal.OpenDate(day(10), now)

	dr, err := daterange.New(day(9), day(14))
	require.NoError(t, err)
	blocked := cal.BlockedInRange(dr)
	require.Len(t, blocked, 2)
	assert.True(t, blocked[0].Available) // reopened date keeps its row but is open
	assert.Equal(t, day(10), blocked[0].Date)
	assert.False(t, blocked[1].Available)
	assert.Equal(t, day(12), blocked[1].Date)
}

func TestOpenDate_NeverBlockedIsNoOp(t *testing.T) {
	cal := calendar.New("prop-1")
	cal.OpenDate(day(5), time.Now())

	assert.Empty(t, cal.Entries())
	assert.Empty(t, cal.PendingEvents())
}

func TestOverrides(t *testing.T) {
	cal := calendar.New("prop-1")
	now := time.Now()

	require.NoError(t, cal.SetOverride(day(16), money.Must(50000, "USD"), now))
	require.NoError(t, cal.SetOverride(day(2), money.Must(39900, "USD"), now))

	dr, err := daterange.New(day(1), day(20))
	require.NoError(t, err)
	overrides := cal.OverridesInRange(dr)
	require.Len(t, overrides, 2)
	// Ascending date order.
	assert.Equal(t, day(2), overrides[0].Date)
	assert.Equal(t, int64(39900), overrides[0].Price.Amount)
	assert.Equal(t, day(16), overrides[1].Date)
}

func TestSetOverride_RejectsNegative(t *testing.T) {
	cal := calendar.New("prop-1")
	err := cal.SetOverride(day(1), money.Money{Amount: -100, Currency: "USD"}, time.Now())
	assert.ErrorIs(t, err, calendar.ErrNegativePrice)
}

func TestClearOverride(t *testing.T) {
	cal := calendar.New("prop-1")
	now := time.Now()
	require.NoError(t, cal.SetOverride(day(16), money.Must(50000, "USD"), now))

	require.NoError(t, cal.ClearOverride(day(16), now))
	assert.Empty(t, cal.Entries()) // plain open date with no override drops its row

	assert.ErrorIs(t, cal.ClearOverride(day(16), now), calendar.ErrNoOverride)
}

func TestClearOverride_KeepsBlockedRow(t *testing.T) {
	cal := calendar.New("prop-1")
	now := time.Now()
	cal.BlockDate(day(3), "maintenance", now)
	require.NoError(t, cal.SetOverride(day(3), money.Must(10000, "USD"), now))

	require.NoError(t, cal.ClearOverride(day(3), now))
	entries := cal.Entries()
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Available)
	assert.Nil(t, entries[0].Override)
}

func TestRangeFiltersOutsideDates(t *testing.T) {
	cal := calendar.New("prop-1")
	now := time.Now()
	cal.BlockDate(day(1), "x", now)
	cal.BlockDate(day(31), "y", now)

	dr, err := daterange.New(day(10), day(12))
	require.NoError(t, err)
	assert.Empty(t, cal.BlockedInRange(dr))
	assert.Empty(t, cal.OverridesInRange(dr))
}

func TestRestore(t *testing.T) {
	price := money.Must(20000, "USD")
	cal := calendar.Restore("prop-1", 3, []calendar.DayEntry{
		{Date: time.Date(2024, time.March, 4, 18, 30, 0, 0, time.UTC), Available: false, Reason: "booked"},
		{Date: day(6), Available: true, Override: &price},
	})

	assert.Equal(t, int64(3), cal.Version)
	entries := cal.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, day(4), entries[0].Date) // normalized to the calendar date
	assert.Empty(t, cal.PendingEvents())
}
