package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ns-ai-search/console/internal/shared/constants"
	"github.com/ns-ai-search/console/internal/shared/logger"
)

// RequestLogger writes one line per request. The query string is left out:
// connect callbacks carry the Facebook authorization code in it.
// Requests under any of the loud prefixes are logged at INFO even when they
// succeed; everything else that succeeds is DEBUG.
func RequestLogger(log logger.Interface, loudPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.Request.URL.Path
		kv := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
			"bytes", c.Writer.Size(),
		}
		if id := c.GetString(constants.ContextKeyRequestID); id != "" {
			kv = append(kv, "request_id", id)
		}
		if uid, ok := c.Get(constants.ContextKeyUserID); ok {
			kv = append(kv, "user_id", uid)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Errorw("request failed", kv...)
		case status >= 400:
			log.Warnw("request rejected", kv...)
		case hasAnyPrefix(path, loudPrefixes):
			log.Infow("request", kv...)
		default:
			log.Debugw("request", kv...)
		}
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
