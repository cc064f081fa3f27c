package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestHeaders(t *testing.T) {
	cfg := DefaultHeadersConfig()
	cfg.CustomHeaders = map[string]string{"X-Served-By": "webpool"}
	h := Headers(cfg)(func(ctx *fasthttp.RequestCtx) {})

	var rc fasthttp.RequestCtx
	h(&rc)

	assert.Equal(t, "nosniff", string(rc.Response.Header.Peek("X-Content-Type-Options")))
	assert.Equal(t, "DENY", string(rc.Response.Header.Peek("X-Frame-Options")))
	assert.Equal(t, "no-referrer", string(rc.Response.Header.Peek("Referrer-Policy")))
	assert.Equal(t, "default-src 'none'", string(rc.Response.Header.Peek("Content-Security-Policy")))
	assert.Equal(t, "webpool", string(rc.Response.Header.Peek("X-Served-By")))
}
