package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staykit/internal/app/commands"
	"staykit/internal/app/handlers/bookings"
	"staykit/internal/app/queries"
)

type bookingHandler struct {
	commandBus commands.Bus
	queryBus   queries.Bus
}

type requestStayBody struct {
	PropertyID      string `json:"property_id" binding:"required"`
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Guests          int    `json:"guests" binding:"required,min=1"`
	CheckIn         string `json:"check_in" binding:"required"`
	CheckOut        string `json:"check_out" binding:"required"`
	SpecialRequests string `json:"special_requests"`
}

// POST /api/v1/bookings
func (h *bookingHandler) requestStay(c *gin.Context) {
	var body requestStayBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, checkOut, err := parseStayDates(body.CheckIn, body.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
		return
	}

	result, err := commands.Dispatch[bookings.RequestStayCommand, bookings.RequestStayResult](
		c.Request.Context(), h.commandBus, bookings.RequestStayCommand{
			PropertyID:      body.PropertyID,
			FirstName:       body.FirstName,
			LastName:        body.LastName,
			Email:           body.Email,
			Phone:           body.Phone,
			Guests:          body.Guests,
			CheckIn:         checkIn,
			CheckOut:        checkOut,
			SpecialRequests: body.SpecialRequests,
			IdemKey:         c.GetHeader("Idempotency-Key"),
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GET /api/v1/bookings/:id
func (h *bookingHandler) get(c *gin.Context) {
	view, err := queries.Ask[bookings.GetBookingQuery, bookings.BookingView](
		c.Request.Context(), h.queryBus, bookings.GetBookingQuery{BookingID: c.Param("id")})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/v1/properties/:id/quote?check_in=YYYY-MM-DD&check_out=YYYY-MM-DD
func (h *bookingHandler) quote(c *gin.Context) {
	checkIn, checkOut, err := parseStayDates(c.Query("check_in"), c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in and check_out must be YYYY-MM-DD"})
		return
	}
	view, err := queries.Ask[bookings.QuoteStayQuery, bookings.QuoteStayView](
		c.Request.Context(), h.queryBus, bookings.QuoteStayQuery{
			PropertyID: c.Param("id"),
			CheckIn:    checkIn,
			CheckOut:   checkOut,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/v1/host/properties/:id/bookings
func (h *bookingHandler) listForProperty(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	views, err := queries.Ask[bookings.ListPropertyBookingsQuery, []bookings.BookingView](
		c.Request.Context(), h.queryBus, bookings.ListPropertyBookingsQuery{
			PropertyID: c.Param("id"),
			HostID:     string(principal.UserID),
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": views})
}

func parseStayDates(checkIn, checkOut string) (time.Time, time.Time, error) {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return in, out, nil
}
