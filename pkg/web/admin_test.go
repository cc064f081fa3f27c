package web

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fluxorio/webpool/pkg/core"
	prom "github.com/fluxorio/webpool/pkg/observability/prometheus"
	"github.com/fluxorio/webpool/pkg/web/health"
	"github.com/fluxorio/webpool/pkg/worker"
)

func serveAdmin(h fasthttp.RequestHandler, method, path string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	h(&ctx)
	return &ctx
}

func newTestAdmin(t *testing.T) (*AdminServer, *worker.Pool) {
	t.Helper()
	reg := prometheus.NewRegistry()
	pool := worker.NewPool(2,
		worker.WithLogger(core.NopLogger()),
		worker.WithName("admin-test"),
		worker.WithMetrics(prom.NewPoolMetrics(reg)),
	)
	registry := health.NewRegistry()
	registry.Register("pool", health.PoolChecker(pool))

	return NewAdminServer(AdminConfig{
		Addr:     "127.0.0.1:0",
		Registry: reg,
		Health:   registry,
		Pool:     pool,
		Logger:   core.NopLogger(),
	}), pool
}

func TestAdminServer_Routes(t *testing.T) {
	admin, pool := newTestAdmin(t)
	h := admin.Handler()

	done := make(chan struct{})
	pool.Submit(func() { close(done) })
	<-done

	ctx := serveAdmin(h, "GET", "/metrics")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.True(t, strings.Contains(string(ctx.Response.Body()), "webpool_pool_jobs_submitted_total"))

	ctx = serveAdmin(h, "GET", "/healthz")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.NotEmpty(t, ctx.Response.Header.Peek("X-Request-ID"))
	assert.Equal(t, "nosniff", string(ctx.Response.Header.Peek("X-Content-Type-Options")))

	ctx = serveAdmin(h, "GET", "/stats")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var stats worker.Stats
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &stats))
	assert.Equal(t, "admin-test", stats.Name)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, int64(1), stats.Submitted)

	assert.Equal(t, fasthttp.StatusNotFound, serveAdmin(h, "GET", "/nope").Response.StatusCode())
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, serveAdmin(h, "POST", "/stats").Response.StatusCode())

	pool.Shutdown()

	ctx = serveAdmin(h, "GET", "/healthz")
	assert.Equal(t, fasthttp.StatusServiceUnavailable, ctx.Response.StatusCode())
}

func TestAdminServer_StartShutdown(t *testing.T) {
	admin, pool := newTestAdmin(t)
	defer pool.Shutdown()

	require.NoError(t, admin.Listen())
	served := make(chan error, 1)
	go func() { served <- admin.Serve() }()

	status, body, err := fasthttp.Get(nil, "http://"+admin.BoundAddr().String()+"/stats")
	require.NoError(t, err)
	assert.Equal(t, fasthttp.StatusOK, status)
	assert.Contains(t, string(body), `"state":"ACTIVE"`)

	require.NoError(t, admin.Shutdown(context.Background()))
	assert.NoError(t, <-served)
}

func TestAdminServer_ShutdownBeforeServe(t *testing.T) {
	admin, pool := newTestAdmin(t)
	defer pool.Shutdown()

	require.NoError(t, admin.Listen())
	addr := admin.BoundAddr().String()
	require.NoError(t, admin.Shutdown(context.Background()))

	served := make(chan error, 1)
	go func() { served <- admin.Serve() }()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve blocked after Shutdown")
	}

	_, err := net.DialTimeout("tcp", addr, 100*time.Millisecond)
	assert.Error(t, err, "admin listener should be closed")
}
