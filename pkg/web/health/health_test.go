package health

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/core/fsm"
	"github.com/fluxorio/webpool/pkg/worker"
)

type fakePool struct {
	state fsm.State
	size  int
	live  int
}

func (p fakePool) State() fsm.State { return p.state }
func (p fakePool) Size() int        { return p.size }
func (p fakePool) LiveWorkers() int { return p.live }

func TestRegistry_Check(t *testing.T) {
	r := NewRegistry()
	r.Register("ok", func(context.Context) error { return nil })
	r.Register("bad", func(context.Context) error { return errors.New("broken") })
	r.RegisterWithTimeout("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)

	assert.Equal(t, []string{"bad", "ok", "slow"}, r.Names())

	results := r.Check(context.Background())
	require.Len(t, results, 3)
	assert.Equal(t, StatusUp, results["ok"].Status)
	assert.Equal(t, StatusDown, results["bad"].Status)
	assert.Equal(t, "broken", results["bad"].Message)
	assert.Equal(t, StatusDown, results["slow"].Status)
	assert.Equal(t, StatusDown, Overall(results))

	r.Unregister("bad")
	r.Unregister("slow")
	assert.Equal(t, StatusUp, Overall(r.Check(context.Background())))
}

func TestPoolChecker(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, PoolChecker(fakePool{worker.StateActive, 4, 4})(ctx))
	assert.Error(t, PoolChecker(fakePool{worker.StateActive, 4, 3})(ctx))
	assert.Error(t, PoolChecker(fakePool{worker.StateDraining, 4, 4})(ctx))

	pool := worker.NewPool(2, worker.WithLogger(core.NopLogger()))
	check := PoolChecker(pool)
	assert.NoError(t, check(ctx))
	pool.Shutdown()
	assert.Error(t, check(ctx))
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.Register("pool", PoolChecker(fakePool{worker.StateActive, 1, 1}))

	var rc fasthttp.RequestCtx
	Handler(r)(&rc)
	assert.Equal(t, fasthttp.StatusOK, rc.Response.StatusCode())

	var resp Response
	require.NoError(t, json.Unmarshal(rc.Response.Body(), &resp))
	assert.Equal(t, StatusUp, resp.Status)

	r.Register("pool", PoolChecker(fakePool{worker.StateStopped, 1, 0}))
	var down fasthttp.RequestCtx
	Handler(r)(&down)
	assert.Equal(t, fasthttp.StatusServiceUnavailable, down.Response.StatusCode())
}
