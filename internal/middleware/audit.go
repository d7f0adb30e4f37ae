package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// AuditLog logs every admin dashboard request with the caller, duration
// and resulting status. Failures are logged at warning level.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		line := "admin access: user=%d %s %s status=%d duration=%s ip=%s"
		args := []interface{}{
			GetUserID(c), c.Request.Method, c.FullPath(), status,
			time.Since(start).Round(time.Millisecond), c.ClientIP(),
		}
		if status >= 400 {
			log.Printf("WARN "+line, args...)
			return
		}
		log.Printf(line, args...)
	}
}
