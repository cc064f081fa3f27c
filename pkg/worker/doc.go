// Package worker provides a fixed-size pool of long-lived worker goroutines
// fed by one shared, unbounded job queue.
//
// # Basic Usage
//
//	pool := worker.NewPool(4)
//	defer pool.Shutdown()
//
//	pool.Submit(func() {
//	    // do work
//	})
//
// # Shutdown
//
// Shutdown enqueues one terminate message per worker behind every job
// already queued, then joins the workers in index order. Jobs queued before
// Shutdown therefore run before it returns. Jobs submitted while Shutdown is
// in progress race with the terminate messages and may be dropped; after
// Shutdown returns, Submit only logs the failure.
//
// Shutdown must not be called from inside a job: the worker running it
// would wait on itself.
//
// # Failures
//
// NewPool panics when size is not positive. Submit never returns an error.
// A job that panics is recovered, logged and counted; its worker keeps
// serving. A worker whose receive fails exits and is not replaced.
package worker
