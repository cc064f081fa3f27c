package health

import (
	"context"
	"fmt"

	"github.com/fluxorio/webpool/pkg/core/fsm"
	"github.com/fluxorio/webpool/pkg/worker"
)

// PoolStatus is the part of a worker pool the pool check looks at
type PoolStatus interface {
	State() fsm.State
	Size() int
	LiveWorkers() int
}

// PoolChecker reports DOWN once the pool is shutting down or has lost a
// worker. Lost workers are never respawned, so DOWN is permanent.
func PoolChecker(pool PoolStatus) Checker {
	return func(ctx context.Context) error {
		if state := pool.State(); state != worker.StateActive {
			return fmt.Errorf("pool is %s", state)
		}
		if live, size := pool.LiveWorkers(), pool.Size(); live < size {
			return fmt.Errorf("%d of %d workers live", live, size)
		}
		return nil
	}
}
