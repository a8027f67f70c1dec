package gin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	authsvc "staykit/internal/app/services/auth"
	"staykit/internal/domain/user"
)

const principalKey = "principal"

// Principal is the authenticated dashboard account attached to the request.
type Principal struct {
	UserID user.ID
	Email  string
	Roles  []user.Role
}

func (p Principal) HasRole(role user.Role) bool {
	for _, current := range p.Roles {
		if current == role {
			return true
		}
	}
	return false
}

// AuthMiddleware resolves the bearer token and aborts with 401 when it is
// missing, unknown, or expired.
func AuthMiddleware(accounts *authsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		account, err := accounts.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}
		c.Set(principalKey, Principal{
			UserID: account.ID,
			Email:  account.Email,
			Roles:  account.Roles,
		})
		c.Next()
	}
}

// RequireRole guards a route group behind one dashboard role.
func RequireRole(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := currentPrincipal(c)
		if !ok || !principal.HasRole(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

func currentPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
