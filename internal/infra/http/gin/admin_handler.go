package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staykit/internal/app/commands"
	"staykit/internal/app/handlers/admin"
	"staykit/internal/app/queries"
)

type adminHandler struct {
	commandBus commands.Bus
	queryBus   queries.Bus
}

// GET /api/v1/admin/stats
func (h *adminHandler) stats(c *gin.Context) {
	view, err := queries.Ask[admin.StatsQuery, admin.StatsView](
		c.Request.Context(), h.queryBus, admin.StatsQuery{})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type createHostBody struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// POST /api/v1/admin/hosts
func (h *adminHandler) createHost(c *gin.Context) {
	var body createHostBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[admin.CreateHostCommand, admin.CreateHostResult](
		c.Request.Context(), h.commandBus, admin.CreateHostCommand{
			Email:     body.Email,
			Password:  body.Password,
			FirstName: body.FirstName,
			LastName:  body.LastName,
			Phone:     body.Phone,
		})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
