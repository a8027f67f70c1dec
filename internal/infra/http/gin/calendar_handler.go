package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"staykit/internal/app/commands"
	"staykit/internal/app/handlers/calendars"
	"staykit/internal/app/queries"
)

type calendarHandler struct {
	commandBus commands.Bus
	queryBus   queries.Bus
}

// GET /api/v1/properties/:id/calendar?month=YYYY-MM
func (h *calendarHandler) getMonth(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	month := c.Query("month")
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be YYYY-MM"})
		return
	}
	view, err := queries.Ask[calendars.GetMonthQuery, calendars.MonthView](
		c.Request.Context(), h.queryBus, calendars.GetMonthQuery{
			PropertyID: c.Param("id"),
			HostID:     string(principal.UserID),
			Year:       parsed.Year(),
			Month:      parsed.Month(),
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type setDateBody struct {
	Available     *bool  `json:"available"`
	Reason        string `json:"reason"`
	OverrideCents *int64 `json:"override_cents"`
	ClearOverride bool   `json:"clear_override"`
}

// PUT /api/v1/properties/:id/calendar/:date
func (h *calendarHandler) setDate(c *gin.Context) {
	principal, _ := currentPrincipal(c)
	date, err := time.Parse("2006-01-02", c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	var body setDateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[calendars.SetDateCommand, calendars.SetDateResult](
		c.Request.Context(), h.commandBus, calendars.SetDateCommand{
			PropertyID:    c.Param("id"),
			HostID:        string(principal.UserID),
			Date:          date,
			Available:     body.Available,
			Reason:        body.Reason,
			OverrideCents: body.OverrideCents,
			ClearOverride: body.ClearOverride,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
