package policies

import (
	"context"

	"staykit/internal/domain/shared/money"
)

// CheckoutParams describes a hosted checkout page for one booking.
type CheckoutParams struct {
	BookingID     string
	PropertyName  string
	Description   string
	Amount        money.Money
	CustomerEmail string
}

// CheckoutSession is the provider-side session the guest is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// Payments creates hosted checkout sessions with the payment provider.
type Payments interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
}
