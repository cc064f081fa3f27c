package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/valyala/fasthttp"

	"github.com/fluxorio/webpool/pkg/core"
	prom "github.com/fluxorio/webpool/pkg/observability/prometheus"
	"github.com/fluxorio/webpool/pkg/web/health"
	"github.com/fluxorio/webpool/pkg/web/middleware"
	"github.com/fluxorio/webpool/pkg/web/middleware/security"
	"github.com/fluxorio/webpool/pkg/worker"
)

// StatsSource provides the snapshot served on /stats
type StatsSource interface {
	Stats() worker.Stats
}

// AdminConfig configures the admin server
type AdminConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Registry is scraped on /metrics (default: the observability DefaultRegistry)
	Registry *prometheus.Registry
	Health   *health.Registry
	Pool     StatsSource
	Logger   core.Logger
}

// AdminServer exposes /metrics, /healthz and /stats over fasthttp
type AdminServer struct {
	config  AdminConfig
	server  *fasthttp.Server
	metrics fasthttp.RequestHandler
	health  fasthttp.RequestHandler
	log     core.Logger

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

// NewAdminServer creates an admin server; call Start, or Listen then Serve.
func NewAdminServer(config AdminConfig) *AdminServer {
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 10 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 10 * time.Second
	}
	if config.Health == nil {
		config.Health = health.NewRegistry()
	}
	log := config.Logger
	if log == nil {
		log = core.DefaultLogger()
	}

	s := &AdminServer{
		config:  config,
		metrics: prom.FastHTTPHandler(config.Registry),
		health:  health.Handler(config.Health),
		log:     log,
	}
	s.server = &fasthttp.Server{
		Handler: middleware.Chain(s.route,
			middleware.Logging(middleware.LoggingConfig{Logger: log, SkipPaths: []string{"/healthz", "/metrics"}}),
			security.Headers(security.DefaultHeadersConfig()),
		),
		Name:                  "webpool-admin",
		ReadTimeout:           config.ReadTimeout,
		WriteTimeout:          config.WriteTimeout,
		NoDefaultServerHeader: true,
		ReduceMemoryUsage:     true,
	}
	return s
}

// Handler returns the fully wrapped request handler
func (s *AdminServer) Handler() fasthttp.RequestHandler {
	return s.server.Handler
}

func (s *AdminServer) route(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
		return
	}

	switch string(ctx.Path()) {
	case "/metrics":
		s.metrics(ctx)
	case "/healthz":
		s.health(ctx)
	case "/stats":
		s.stats(ctx)
	default:
		ctx.Error("Not Found", fasthttp.StatusNotFound)
	}
}

func (s *AdminServer) stats(ctx *fasthttp.RequestCtx) {
	if s.config.Pool == nil {
		ctx.Error("no pool attached", fasthttp.StatusServiceUnavailable)
		return
	}
	body, err := json.Marshal(s.config.Pool.Stats())
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}

// Listen binds the configured address
func (s *AdminServer) Listen() error {
	if err := core.ValidateAddress(s.config.Addr); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind admin server %s: %w", s.config.Addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// BoundAddr returns the bound address, or nil before Listen.
func (s *AdminServer) BoundAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve blocks serving requests until Shutdown.
func (s *AdminServer) Serve() error {
	s.mu.Lock()
	ln, closed := s.ln, s.closed
	s.mu.Unlock()
	if closed {
		if ln != nil {
			ln.Close()
		}
		return nil
	}
	if ln == nil {
		return &core.ValidationError{Code: core.CodeInvalidConfig, Message: "admin server is not listening"}
	}
	s.log.Info(fmt.Sprintf("Admin server listening on %s", ln.Addr()))
	return s.server.Serve(ln)
}

// Start binds and serves
func (s *AdminServer) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Shutdown stops accepting and waits for open requests until ctx expires.
// It may run before Serve, in which case Serve returns at once.
func (s *AdminServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true

	err := s.server.ShutdownWithContext(ctx)
	// the listener is not known to fasthttp until Serve reaches Accept
	if s.ln != nil {
		if cerr := s.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
			err = cerr
		}
	}
	return err
}
