package middleware

import (
	"net/http"

	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
)

// AdminRequired checks that the authenticated user is staff or holds the
// ADMIN role.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortErr(c, http.StatusUnauthorized,
				"Authentication required", response.CodeAuthRequired,
				"Admin dashboard access requires authentication.", response.Help{
					"issue":    "No valid credentials were provided.",
					"solution": "Log in with an administrator account and retry.",
				})
			return
		}
		if !claims.IsAdmin() {
			response.AbortErr(c, http.StatusForbidden,
				"Admin privileges required", response.CodePrivilegesRequired,
				"This area of the dashboard is restricted to administrators.", response.Help{
					"issue":    "The authenticated account does not have admin privileges.",
					"solution": "Ask a platform administrator to grant staff access.",
				})
			return
		}
		c.Next()
	}
}
