package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Handler returns an HTTP handler for the metrics endpoint (for standard http)
func Handler() http.Handler {
	return HandlerFor(DefaultRegistry)
}

// HandlerFor returns an HTTP handler for a custom registry
func HandlerFor(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// FastHTTPHandler returns a fasthttp handler serving registry.
// A nil registry serves DefaultRegistry.
func FastHTTPHandler(registry *prometheus.Registry) fasthttp.RequestHandler {
	if registry == nil {
		registry = DefaultRegistry
	}
	return fasthttpadaptor.NewFastHTTPHandler(HandlerFor(registry))
}
