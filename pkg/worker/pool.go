package worker

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/core/fsm"
)

// Pool lifecycle states
const (
	StateActive   fsm.State = "ACTIVE"
	StateDraining fsm.State = "DRAINING"
	StateStopped  fsm.State = "STOPPED"
)

const (
	eventShutdown fsm.Event = "SHUTDOWN"
	eventJoined   fsm.Event = "JOINED"
)

// Pool owns a fixed set of workers and the send side of their job channel.
type Pool struct {
	opts      options
	log       core.Logger
	ch        *jobChannel
	workers   []*worker
	lifecycle *fsm.FSM

	live           atomic.Int32
	submitted      atomic.Int64
	completed      atomic.Int64
	panicked       atomic.Int64
	submitFailures atomic.Int64
	dropped        atomic.Int64

	shutdownOnce sync.Once
}

// NewPool starts a pool of size workers.
// It panics if size is not positive: a pool without workers can never run
// anything, so asking for one is a programming error.
func NewPool(size int, opts ...Option) *Pool {
	core.FailFast(core.ValidatePoolSize(size))

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{
		opts: o,
		log:  o.logger.WithFields(map[string]interface{}{"pool": o.name}),
		ch:   newJobChannel(),
		lifecycle: fsm.NewFSM(StateActive,
			fsm.Transition{From: StateActive, Event: eventShutdown, To: StateDraining},
			fsm.Transition{From: StateDraining, Event: eventJoined, To: StateStopped},
		),
		workers: make([]*worker, 0, size),
	}
	p.lifecycle.OnEnter(StateStopped, func(fsm.State, fsm.Event) {
		p.log.Info("Worker pool stopped")
	})

	for id := 0; id < size; id++ {
		w := newWorker(id, p)
		p.workers = append(p.workers, w)
		w.start()
	}

	p.log.Info(fmt.Sprintf("Worker pool started with %d workers", size))
	return p
}

// Submit enqueues job for execution on some worker and returns immediately.
// A job that cannot be enqueued (the pool has shut down) is logged and
// dropped. Submit panics if job is nil.
func (p *Pool) Submit(job Job) {
	core.FailFast(validateJob(job))

	p.submitted.Add(1)
	if err := p.ch.send(newJobMessage(job)); err != nil {
		p.submitted.Add(-1)
		p.submitFailures.Add(1)
		p.opts.metrics.SubmitFailed()
		p.log.Error(fmt.Sprintf("Failed to send job: %v", err))
		return
	}
	p.opts.metrics.Submitted()
}

func validateJob(job Job) error {
	if job == nil {
		return &core.ValidationError{Code: core.CodeInvalidJob, Message: "job cannot be nil"}
	}
	return nil
}

// Shutdown sends one terminate message per worker, then joins every worker
// in index order. It blocks until all workers have exited; a worker that
// ended abnormally is logged and the remaining workers are still joined.
// Calling Shutdown again waits for the first call and returns.
// Shutdown must not be called from inside a job: it would wait on its own
// worker forever.
func (p *Pool) Shutdown() {
	p.shutdownOnce.Do(p.shutdown)
}

// Close implements io.Closer.
func (p *Pool) Close() error {
	p.Shutdown()
	return nil
}

func (p *Pool) shutdown() {
	if _, err := p.lifecycle.Trigger(eventShutdown); err != nil {
		p.log.Error(fmt.Sprintf("Failed to begin shutdown: %v", err))
		return
	}

	// every terminate is queued before the first join
	p.log.Info("Sending terminate message to all workers.")
	for range p.workers {
		if err := p.ch.send(terminateMessage); err != nil {
			p.log.Error(fmt.Sprintf("Failed to send terminate message: %v", err))
		}
	}

	for _, w := range p.workers {
		p.log.Info(fmt.Sprintf("Shutting down worker: %d", w.id))
		if err := w.join(); err != nil {
			p.log.Error(fmt.Sprintf("Failed to join worker %d: %v", w.id, err))
		}
	}

	p.ch.close()
	if n := p.ch.discard(); n > 0 {
		p.dropped.Add(int64(n))
		p.log.Error(fmt.Sprintf("Dropped %d jobs submitted during shutdown", n))
	}

	if _, err := p.lifecycle.Trigger(eventJoined); err != nil {
		p.log.Error(fmt.Sprintf("Failed to finish shutdown: %v", err))
	}
}

// Name returns the pool name.
func (p *Pool) Name() string {
	return p.opts.name
}

// Size returns the number of workers the pool was built with.
func (p *Pool) Size() int {
	return len(p.workers)
}

// LiveWorkers returns the number of worker goroutines that have not exited.
func (p *Pool) LiveWorkers() int {
	return int(p.live.Load())
}

// State returns the pool lifecycle state.
func (p *Pool) State() fsm.State {
	return p.lifecycle.CurrentState()
}

// QueueDepth returns the number of messages waiting in the job channel.
func (p *Pool) QueueDepth() int {
	return p.ch.len()
}

// WorkerStatuses returns the status of every worker, by index.
func (p *Pool) WorkerStatuses() []Status {
	statuses := make([]Status, len(p.workers))
	for i, w := range p.workers {
		statuses[i] = w.Status()
	}
	return statuses
}
