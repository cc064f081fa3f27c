// Package web serves static pages over raw TCP connections dispatched to a
// worker pool, and exposes an admin endpoint for metrics, health and stats.
package web

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/fluxorio/webpool/pkg/core"
	"github.com/fluxorio/webpool/pkg/observability/otel"
)

// Request lines the static handler routes on
var (
	routeIndex = []byte("GET / HTTP/1.1\r\n")
	routeSleep = []byte("GET /sleep HTTP/1.1\r\n")
)

const (
	statusOK       = "HTTP/1.1 200 OK"
	statusNotFound = "HTTP/1.1 404 NOT FOUND"

	serverErrorResponse = "HTTP/1.1 500 INTERNAL SERVER ERROR\r\n\r\nServer Error"

	defaultBufferSize = 1024
	defaultSleepDelay = 5 * time.Second
)

// ConnHandler serves one accepted connection and closes it.
type ConnHandler interface {
	Handle(ctx context.Context, conn net.Conn)
}

// StaticHandler answers a single request per connection with a file from Root.
type StaticHandler struct {
	Root       string
	BufferSize int
	SleepDelay time.Duration
	Logger     core.Logger
}

// Handle reads the request, writes the response and closes conn.
func (h *StaticHandler) Handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	log := h.logger().WithContext(ctx)
	ctx, span := otel.StartConnSpan(ctx, peerIP(conn))

	size := h.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	buf := make([]byte, size)
	n, err := conn.Read(buf)
	if err != nil {
		log.Error(fmt.Sprintf("Failed to read from stream: %v", err))
		otel.EndConnSpan(span, 0, err)
		return
	}
	request := buf[:n]

	status, file := h.route(ctx, request)

	var response []byte
	code := 200
	contents, err := os.ReadFile(filepath.Join(h.Root, file))
	if err != nil {
		log.Error(fmt.Sprintf("Failed to read %s: %v", file, err))
		response = []byte(serverErrorResponse)
		code = 500
	} else {
		if status == statusNotFound {
			code = 404
		}
		response = buildResponse(status, contents)
	}

	w := bufio.NewWriter(conn)
	if _, err = w.Write(response); err == nil {
		err = w.Flush()
	}
	if err != nil {
		log.Error(fmt.Sprintf("Failed to write response: %v", err))
	}
	otel.EndConnSpan(span, code, err)
}

func (h *StaticHandler) route(ctx context.Context, request []byte) (status, file string) {
	switch {
	case bytes.HasPrefix(request, routeIndex):
		return statusOK, "index.html"
	case bytes.HasPrefix(request, routeSleep):
		delay := h.SleepDelay
		if delay <= 0 {
			delay = defaultSleepDelay
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
		}
		return statusOK, "index.html"
	default:
		return statusNotFound, "404.html"
	}
}

func (h *StaticHandler) logger() core.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return core.DefaultLogger()
}

func buildResponse(status string, body []byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\r\nContent-Length: %d\r\n\r\n", status, len(body))
	b.Write(body)
	return b.Bytes()
}

func peerIP(conn net.Conn) string {
	addr := conn.RemoteAddr()
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
