package gin

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staykit/internal/app/commands"
	"staykit/internal/app/handlers/bookings"
	"staykit/internal/infra/payments"
)

const signatureHeader = "Payment-Signature"

// webhookHandler receives provider notifications. The signature is checked
// before the body is even parsed; an unverifiable request is dropped with
// 400 so the provider retries nothing it should not.
type webhookHandler struct {
	commandBus    commands.Bus
	webhookSecret string
	log           *slog.Logger
	now           func() time.Time
}

// POST /api/v1/webhooks/payments
func (h *webhookHandler) handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	if err := payments.VerifySignature(payload, c.GetHeader(signatureHeader), h.webhookSecret, h.now(), 5*time.Minute); err != nil {
		h.log.Warn("webhook rejected", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
		return
	}
	event, err := payments.ParseEvent(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch event.Type {
	case payments.EventCheckoutCompleted:
		_, err = commands.Dispatch[bookings.ConfirmPaymentCommand, bookings.ConfirmPaymentResult](
			c.Request.Context(), h.commandBus, bookings.ConfirmPaymentCommand{SessionID: event.SessionID})
	case payments.EventCheckoutExpired:
		_, err = commands.Dispatch[bookings.ExpireCheckoutCommand, bookings.ConfirmPaymentResult](
			c.Request.Context(), h.commandBus, bookings.ExpireCheckoutCommand{SessionID: event.SessionID})
	default:
		// Unhandled event types are acknowledged so the provider stops
		// retrying them.
		c.JSON(http.StatusOK, gin.H{"received": true, "handled": false})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true, "handled": true})
}
