package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"bilevel/internal/logger"
)

// RequestLogger logs each request through the application logger.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		log.Info("http", "request", map[string]interface{}{
			"method":  c.Request.Method,
			"path":    path,
			"query":   query,
			"status":  c.Writer.Status(),
			"ip":      c.ClientIP(),
			"cost_ms": time.Since(start).Milliseconds(),
		})
	}
}
