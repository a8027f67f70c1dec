package policies

import (
	"context"
	"errors"

	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
)

// RepoStayData serves the calculator's read surface straight from the
// repositories. A property without a managed calendar reads as fully open.
type RepoStayData struct {
	Properties property.Repository
	Calendars  calendar.Repository
}

func (r RepoStayData) RateCard(ctx context.Context, propertyID string) (quote.RateCard, error) {
	prop, err := r.Properties.ByID(ctx, property.PropertyID(propertyID))
	if err != nil {
		return quote.RateCard{}, err
	}
	return prop.Rates, nil
}

func (r RepoStayData) BlockedDates(ctx context.Context, propertyID string, dr daterange.DateRange) ([]quote.BlockedDate, error) {
	cal, err := r.calendar(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return cal.BlockedInRange(dr), nil
}

func (r RepoStayData) Overrides(ctx context.Context, propertyID string, dr daterange.DateRange) ([]quote.DateOverride, error) {
	cal, err := r.calendar(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return cal.OverridesInRange(dr), nil
}

func (r RepoStayData) calendar(ctx context.Context, propertyID string) (*calendar.Calendar, error) {
	cal, err := r.Calendars.Calendar(ctx, property.PropertyID(propertyID))
	if errors.Is(err, calendar.ErrNotFound) {
		return calendar.New(property.PropertyID(propertyID)), nil
	}
	return cal, err
}
