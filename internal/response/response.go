package response

import "github.com/gin-gonic/gin"

// Help carries human-readable remediation hints attached to every error
// response, matching the dashboard API contract.
type Help map[string]string

// APIError is the JSON error envelope used on all non-2xx responses.
type APIError struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
	Help      Help   `json:"help,omitempty"`
}

// Error codes shared across handlers and middleware.
const (
	CodeAuthRequired       = "ADMIN_AUTH_REQUIRED"
	CodePrivilegesRequired = "ADMIN_PRIVILEGES_REQUIRED"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeNotFound           = "NOT_FOUND"
	CodeValidation         = "VALIDATION_ERROR"
	CodeConflict           = "CONFLICT"
	CodeInternal           = "INTERNAL_ERROR"
)

// Err writes the error envelope with the given status.
func Err(c *gin.Context, status int, title, code, message string, help Help) {
	c.JSON(status, APIError{Error: title, Message: message, ErrorCode: code, Help: help})
}

// AbortErr writes the envelope and aborts the handler chain.
func AbortErr(c *gin.Context, status int, title, code, message string, help Help) {
	c.AbortWithStatusJSON(status, APIError{Error: title, Message: message, ErrorCode: code, Help: help})
}

// Paginated is the standard list envelope.
func Paginated(c *gin.Context, status int, data interface{}, total int64, page, limit int) {
	c.JSON(status, gin.H{"data": data, "total": total, "page": page, "limit": limit})
}
