package security

import (
	"github.com/valyala/fasthttp"

	"github.com/fluxorio/webpool/pkg/web/middleware"
)

// HeadersConfig configures security headers
type HeadersConfig struct {
	// CSP (Content Security Policy)
	CSP string

	// X-Frame-Options
	XFrameOptions string // DENY, SAMEORIGIN

	// X-Content-Type-Options: nosniff
	XContentTypeOptions bool

	// Referrer-Policy
	ReferrerPolicy string

	// Custom headers
	CustomHeaders map[string]string
}

// DefaultHeadersConfig returns headers suitable for a JSON/text admin API
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		CSP:                 "default-src 'none'",
		XContentTypeOptions: true,
		ReferrerPolicy:      "no-referrer",
		XFrameOptions:       "DENY",
	}
}

// Headers middleware adds security headers to responses
func Headers(config HeadersConfig) middleware.Middleware {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			h := &ctx.Response.Header
			if config.CSP != "" {
				h.Set("Content-Security-Policy", config.CSP)
			}
			if config.XFrameOptions != "" {
				h.Set("X-Frame-Options", config.XFrameOptions)
			}
			if config.XContentTypeOptions {
				h.Set("X-Content-Type-Options", "nosniff")
			}
			if config.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", config.ReferrerPolicy)
			}
			for key, value := range config.CustomHeaders {
				h.Set(key, value)
			}

			next(ctx)
		}
	}
}
