package middleware

import (
	"net/http"
	"strings"

	"agriconnect/config"
	"agriconnect/internal/auth"
	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and sets UserID, Email, Role
// and the full claims in context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.AbortErr(c, http.StatusUnauthorized,
				"Authentication required", response.CodeAuthRequired,
				"Admin dashboard access requires authentication.", response.Help{
					"issue":    "No authorization header was provided.",
					"solution": "Include an Authorization: Bearer <token> header.",
				})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.AbortErr(c, http.StatusUnauthorized,
				"Authentication required", response.CodeAuthRequired,
				"Authorization header is malformed.", response.Help{
					"issue":    "The authorization header is not in Bearer format.",
					"solution": "Use Authorization: Bearer <token>.",
				})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, parts[1])
		if err != nil {
			response.AbortErr(c, http.StatusUnauthorized,
				"Authentication required", response.CodeAuthRequired,
				"Token is invalid or has expired.", response.Help{
					"issue":    "The access token could not be validated.",
					"solution": "Obtain a new token via POST /api/v1/auth/refresh or log in again.",
				})
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Set("claims", claims)
		c.Next()
	}
}

// OptionalAuth parses the bearer token when present but never rejects.
// Used on public traceability routes so rate limiting can key on the
// user when one is known.
func OptionalAuth(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := auth.ParseAccessToken(cfg, parts[1]); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("email", claims.Email)
				c.Set("role", claims.Role)
				c.Set("claims", claims)
			}
		}
		c.Next()
	}
}

// RequireRole checks that the authenticated user has one of the allowed
// roles. Staff accounts always pass.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortErr(c, http.StatusUnauthorized,
				"Authentication required", response.CodeAuthRequired,
				"Admin dashboard access requires authentication.", nil)
			return
		}
		if claims.IsStaff {
			c.Next()
			return
		}
		for _, a := range allowed {
			if claims.Role == a {
				c.Next()
				return
			}
		}
		response.AbortErr(c, http.StatusForbidden,
			"Insufficient privileges", response.CodePrivilegesRequired,
			"Your role does not grant access to this resource.", response.Help{
				"issue":    "This endpoint requires one of: " + strings.Join(allowed, ", ") + ".",
				"solution": "Contact an administrator if you believe you need access.",
			})
	}
}

// GetUserID returns the authenticated user ID, 0 when anonymous.
func GetUserID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	if v == nil {
		return 0
	}
	return v.(uint)
}

// GetClaims returns the parsed token claims, nil when anonymous.
func GetClaims(c *gin.Context) *auth.Claims {
	v, _ := c.Get("claims")
	if v == nil {
		return nil
	}
	return v.(*auth.Claims)
}
