package policies

import (
	"context"

	"staykit/internal/domain/quote"
	"staykit/internal/domain/shared/daterange"
)

// StayData is the read surface the pricing and availability checks need:
// nothing more than the rate card and the calendar rows touching a range.
type StayData interface {
	RateCard(ctx context.Context, propertyID string) (quote.RateCard, error)
	BlockedDates(ctx context.Context, propertyID string, dr daterange.DateRange) ([]quote.BlockedDate, error)
	Overrides(ctx context.Context, propertyID string, dr daterange.DateRange) ([]quote.DateOverride, error)
}
