package handler

import (
	"net/http"
	"strconv"

	"agriconnect/internal/response"

	"github.com/gin-gonic/gin"
)

// pagination reads page/limit query params with sane bounds.
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// idParam parses the :id path segment, writing the validation envelope
// and returning false when it is not a positive integer.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		response.Err(c, http.StatusBadRequest,
			"Invalid identifier", response.CodeValidation,
			"The "+name+" path parameter must be a positive integer.", nil)
		return 0, false
	}
	return uint(v), true
}

// notFound writes the standard 404 envelope.
func notFound(c *gin.Context, what string) {
	response.Err(c, http.StatusNotFound,
		what+" not found", response.CodeNotFound,
		"The requested "+what+" does not exist.", nil)
}

// badRequest writes a validation error envelope from a binding error.
func badRequest(c *gin.Context, err error) {
	response.Err(c, http.StatusBadRequest,
		"Validation failed", response.CodeValidation,
		err.Error(), nil)
}

// forbidden writes the standard 403 envelope.
func forbidden(c *gin.Context, detail string) {
	response.Err(c, http.StatusForbidden,
		"Insufficient privileges", response.CodePrivilegesRequired,
		detail, nil)
}

// internalErr writes the generic 500 envelope.
func internalErr(c *gin.Context, msg string) {
	response.Err(c, http.StatusInternalServerError,
		"Internal error", response.CodeInternal, msg, nil)
}
