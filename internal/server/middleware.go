package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/javiermolinar/horario/internal/auth"
)

// PINHeader carries the admin PIN on mutating requests.
const PINHeader = "X-Admin-PIN"

// RequestLogger logs every request with zap.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}

// RequireAdmin rejects requests whose PIN header does not open gate.
// A gate without a PIN lets every request through.
func RequireAdmin(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := gate.Check(c.GetHeader(PINHeader))
		switch {
		case err == nil, errors.Is(err, auth.ErrNoPIN):
			c.Next()
		case errors.Is(err, auth.ErrInvalidPIN):
			abortError(c, http.StatusUnauthorized, err)
		default:
			_ = c.Error(err)
			abortError(c, http.StatusInternalServerError, errors.New("internal error"))
		}
	}
}
