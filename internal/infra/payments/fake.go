package payments

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"staykit/internal/app/policies"
)

// Fake stands in for the provider when no secret key is configured.
// Sessions get a synthetic id and point at the success URL directly, so
// the booking flow is walkable in local development.
type Fake struct {
	SuccessURL string
}

func (f Fake) CreateCheckoutSession(ctx context.Context, params policies.CheckoutParams) (policies.CheckoutSession, error) {
	id := "cs_fake_" + uuid.NewString()
	return policies.CheckoutSession{
		ID:  id,
		URL: fmt.Sprintf("%s?session_id=%s", f.SuccessURL, id),
	}, nil
}
