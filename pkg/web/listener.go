package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/worker"
)

// Submitter accepts jobs for asynchronous execution
type Submitter interface {
	Submit(job worker.Job)
}

// Listener accepts TCP connections and hands each one to Pool as a job.
type Listener struct {
	Addr string
	// MaxConnections stops the listener after that many accepted
	// connections; 0 means no limit.
	MaxConnections int
	Pool           Submitter
	Handler        ConnHandler
	Logger         core.Logger

	mu sync.Mutex
	ln net.Listener
}

// Listen binds Addr. Serve calls it when it has not been called yet.
func (l *Listener) Listen() error {
	if err := core.ValidateAddress(l.Addr); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", l.Addr, err)
	}
	l.ln = ln
	return nil
}

// BoundAddr returns the bound address, or nil before Listen.
func (l *Listener) BoundAddr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Serve accepts connections until MaxConnections is reached or ctx is
// cancelled. It returns an error only when binding fails.
func (l *Listener) Serve(ctx context.Context) error {
	if l.Pool == nil || l.Handler == nil {
		return &core.ValidationError{Code: core.CodeInvalidConfig, Message: "listener needs a pool and a handler"}
	}
	if err := l.Listen(); err != nil {
		return err
	}

	log := l.Logger
	if log == nil {
		log = core.DefaultLogger()
	}

	l.mu.Lock()
	ln := l.ln
	l.mu.Unlock()
	defer ln.Close()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	log.Info(fmt.Sprintf("Listening on %s", ln.Addr()))

	var tempDelay time.Duration
	accepted := 0
	for l.MaxConnections <= 0 || accepted < l.MaxConnections {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			log.Error(fmt.Sprintf("Error accepting connection: %v", err))
			// back off so a persistent accept error does not spin
			if tempDelay == 0 {
				tempDelay = 5 * time.Millisecond
			} else if tempDelay *= 2; tempDelay > time.Second {
				tempDelay = time.Second
			}
			time.Sleep(tempDelay)
			continue
		}
		tempDelay = 0
		accepted++

		requestID := core.NewRequestID()
		connCtx := core.WithRequestID(context.WithoutCancel(ctx), requestID)
		log.WithFields(map[string]interface{}{
			"request_id": requestID,
			"peer":       conn.RemoteAddr().String(),
		}).Debug("Connection established!")

		l.Pool.Submit(func() {
			l.Handler.Handle(connCtx, conn)
		})
	}

	log.Info("Shutting Down")
	return nil
}
