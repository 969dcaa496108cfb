package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/observability"
)

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestId", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// accessLog logs one line per request and records request metrics.
func accessLog(log logger.Logger, obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		obs.RecordRequest(c.Request.Context(), route, c.Request.Method, status, elapsed)

		fields := map[string]interface{}{
			"method":     c.Request.Method,
			"route":      route,
			"status":     status,
			"durationMs": elapsed.Milliseconds(),
			"requestId":  c.GetString("requestId"),
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.Last().Err
		}
		switch {
		case status >= 500:
			log.Error("request failed", fields)
		case status >= 400:
			log.Warn("request rejected", fields)
		default:
			log.Debug("request served", fields)
		}
	}
}

func recovery(log logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("recovered from panic", map[string]interface{}{
			"panic":     recovered,
			"route":     c.FullPath(),
			"requestId": c.GetString("requestId"),
		})
		respondError(c, 500, "Internal server error", nil)
	})
}
