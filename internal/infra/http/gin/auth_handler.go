package gin

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	authsvc "staykit/internal/app/services/auth"
)

type authHandler struct {
	accounts *authsvc.Service
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/v1/auth/login
func (h *authHandler) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.accounts.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      result.Token,
		"user_id":    result.UserID,
		"full_name":  result.FullName,
		"roles":      result.Roles,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
	})
}

// POST /api/v1/auth/logout
func (h *authHandler) logout(c *gin.Context) {
	token := bearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing bearer token"})
		return
	}
	if err := h.accounts.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
