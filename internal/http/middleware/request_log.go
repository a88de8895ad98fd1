package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/gamehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/gamehub-backend/internal/platform/logger"
)

// Probe routes are logged at debug so health checks and scrapes do not
// drown the access log.
var probeRoutes = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// RequestLogger writes one access-log entry per request once the handler
// chain has finished.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	accessLog := log.With("component", "http")
	return func(c *gin.Context) {
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"elapsed_ms", time.Since(began).Milliseconds(),
		}
		ctx := c.Request.Context()
		if td := ctxutil.GetTraceData(ctx); td != nil {
			kv = append(kv, "request_id", td.RequestID, "trace_id", td.TraceID)
		}
		if uid := ctxutil.UserID(ctx); uid != nil {
			kv = append(kv, "user_id", uid.String(), "role", ctxutil.GetRequestData(ctx).Role)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "gin_errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			accessLog.Error("Request failed", kv...)
		case status >= 400:
			accessLog.Warn("Request rejected", kv...)
		case probeRoutes[route]:
			accessLog.Debug("Probe served", kv...)
		default:
			accessLog.Info("Request served", kv...)
		}
	}
}
