package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/catering-app/utils"
)

const RequestIDHeader = "X-Request-ID"

// LoggerMiddleware tags every request with an id (taken from X-Request-ID or
// generated) and logs it once it completes.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}
		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"status":     status,
			"latency":    time.Since(start).String(),
			"path":       path,
			"client_ip":  c.ClientIP(),
		}
		if id := CurrentIdentity(c); id.Authenticated() {
			fields["user_id"] = id.UserID
		}

		switch {
		case status >= 500:
			utils.ErrorLogger.WithFields(fields).Error(c.Errors.String())
		case status >= 400:
			utils.InfoLogger.WithFields(fields).Warn("request failed")
		default:
			utils.InfoLogger.WithFields(fields).Info("request")
		}
	}
}
