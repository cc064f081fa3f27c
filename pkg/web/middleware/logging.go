package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fluxorio/webpool/pkg/core"
)

// HeaderRequestID carries the request ID on responses
const HeaderRequestID = "X-Request-ID"

// LoggingConfig configures request logging middleware
type LoggingConfig struct {
	// Logger is the logger to use (default: core.DefaultLogger())
	Logger core.Logger

	// SkipPaths is a list of path prefixes that are not logged
	SkipPaths []string
}

// DefaultLoggingConfig returns a default logging configuration.
// Scrape and probe endpoints are skipped.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Logger:    core.DefaultLogger(),
		SkipPaths: []string{"/healthz", "/metrics"},
	}
}

// Logging assigns every request an ID and logs its completion
func Logging(config LoggingConfig) Middleware {
	logger := config.Logger
	if logger == nil {
		logger = core.DefaultLogger()
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			requestID := string(ctx.Request.Header.Peek(HeaderRequestID))
			if requestID == "" {
				requestID = core.NewRequestID()
			}
			ctx.Response.Header.Set(HeaderRequestID, requestID)

			start := time.Now()
			next(ctx)

			path := string(ctx.Path())
			for _, skip := range config.SkipPaths {
				if strings.HasPrefix(path, skip) {
					return
				}
			}

			method := string(ctx.Method())
			statusCode := ctx.Response.StatusCode()
			log := logger.WithFields(map[string]interface{}{
				"request_id":  requestID,
				"method":      method,
				"path":        path,
				"status":      statusCode,
				"remote_addr": ctx.RemoteIP().String(),
				"duration_ms": time.Since(start).Milliseconds(),
			})

			if statusCode >= 500 {
				log.Error(fmt.Sprintf("Request error: %s %s - %d", method, path, statusCode))
			} else {
				log.Info(fmt.Sprintf("Request completed: %s %s - %d", method, path, statusCode))
			}
		}
	}
}
