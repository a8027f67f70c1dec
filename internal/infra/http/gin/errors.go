package gin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"staykit/internal/app/handlers/bookings"
	"staykit/internal/app/handlers/calendars"
	authsvc "staykit/internal/app/services/auth"
	"staykit/internal/domain/booking"
	"staykit/internal/domain/calendar"
	"staykit/internal/domain/property"
	"staykit/internal/domain/shared/daterange"
	"staykit/internal/domain/shared/money"
	"staykit/internal/domain/user"
)

// respondError maps application and domain errors onto HTTP statuses; the
// two stay-gate rejections carry extra fields the booking form surfaces.
func respondError(c *gin.Context, err error) {
	var unavailable *bookings.UnavailableError
	if errors.As(err, &unavailable) {
		c.JSON(http.StatusConflict, gin.H{
			"error":         "dates unavailable",
			"first_blocked": unavailable.FirstBlocked.Format("2006-01-02"),
			"reason":        unavailable.Reason,
		})
		return
	}
	var tooShort *bookings.MinimumStayError
	if errors.As(err, &tooShort) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":          "stay below minimum",
			"nights":         tooShort.Nights,
			"minimum_nights": tooShort.MinimumNights,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, booking.ErrCheckInInPast),
		errors.Is(err, booking.ErrInvalidGuests),
		errors.Is(err, booking.ErrGuestEmail),
		errors.Is(err, booking.ErrGuestName),
		errors.Is(err, bookings.ErrSessionIDRequired),
		errors.Is(err, calendars.ErrInvalidMonth),
		errors.Is(err, calendars.ErrNothingToChange),
		errors.Is(err, calendar.ErrNegativePrice),
		errors.Is(err, calendar.ErrNoOverride),
		errors.Is(err, money.ErrNegativeAmount),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, user.ErrEmailRequired),
		errors.Is(err, user.ErrNameRequired),
		errors.Is(err, property.ErrNameRequired),
		errors.Is(err, property.ErrGuestsLimit),
		errors.Is(err, property.ErrMinimumNights),
		errors.Is(err, property.ErrAddressRequired):
		status = http.StatusBadRequest
	case errors.Is(err, bookings.ErrTooManyGuests):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, bookings.ErrPropertyNotBookable),
		errors.Is(err, booking.ErrInvalidState),
		errors.Is(err, property.ErrInvalidState),
		errors.Is(err, user.ErrEmailAlreadyUsed):
		status = http.StatusConflict
	case errors.Is(err, property.ErrNotFound),
		errors.Is(err, booking.ErrNotFound),
		errors.Is(err, calendar.ErrNotFound),
		errors.Is(err, user.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, property.ErrNotOwnedByHost):
		status = http.StatusForbidden
	case errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, authsvc.ErrSessionExpired):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
