package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/fluxorio/webpool/pkg/observability/otel"
)

// Status is what a single worker goroutine is doing.
type Status int32

const (
	StatusWaiting Status = iota
	StatusRunning
	StatusTerminated
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "WAITING"
	case StatusRunning:
		return "RUNNING"
	case StatusTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}

type worker struct {
	id    int
	pool  *Pool
	status atomic.Int32
	done  chan struct{}
	// fault is the value recovered when the loop itself panicked.
	// Written before done is closed.
	fault interface{}
}

func newWorker(id int, pool *Pool) *worker {
	return &worker{
		id:   id,
		pool: pool,
		done: make(chan struct{}),
	}
}

func (w *worker) start() {
	w.pool.live.Add(1)
	w.pool.opts.metrics.WorkerStarted()
	go w.run()
}

func (w *worker) run() {
	log := w.pool.log
	defer func() {
		if r := recover(); r != nil {
			w.fault = r
			log.Error(fmt.Sprintf("Worker %d: loop panicked: %v\n%s", w.id, r, debug.Stack()))
		}
		w.setStatus(StatusTerminated)
		w.pool.live.Add(-1)
		w.pool.opts.metrics.WorkerExited()
		close(w.done)
	}()

	for {
		w.setStatus(StatusWaiting)
		msg, err := w.pool.ch.recv()
		if err != nil {
			// no retry: a broken channel stays broken
			log.Error(fmt.Sprintf("Worker %d: channel disconnected: %v", w.id, err))
			return
		}

		switch msg.kind {
		case msgNewJob:
			w.setStatus(StatusRunning)
			log.Debug(fmt.Sprintf("Worker %d got a job; executing.", w.id))
			w.execute(msg.job)
		case msgTerminate:
			log.Info(fmt.Sprintf("Worker %d was told to terminate.", w.id))
			return
		}
	}
}

// execute runs job inside a recover boundary so a panicking job does not
// take the worker down with it.
func (w *worker) execute(job Job) {
	p := w.pool
	_, span := otel.StartJobSpan(context.Background(), p.opts.tracer, p.opts.name, w.id)
	start := time.Now()

	var recovered interface{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				recovered = r
				p.log.Error(fmt.Sprintf("Worker %d: job panicked: %v\n%s", w.id, r, debug.Stack()))
			}
		}()
		job()
	}()

	otel.EndJobSpan(span, recovered)
	p.opts.metrics.JobDone(time.Since(start), recovered != nil)
	if recovered != nil {
		p.panicked.Add(1)
	} else {
		p.completed.Add(1)
	}
}

// join waits for the worker goroutine to exit.
func (w *worker) join() error {
	<-w.done
	if w.fault != nil {
		return fmt.Errorf("worker %d ended abnormally: %v", w.id, w.fault)
	}
	return nil
}

func (w *worker) setStatus(s Status) {
	w.status.Store(int32(s))
}

func (w *worker) Status() Status {
	return Status(w.status.Load())
}
