package health

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"
)

// Response is the body served by Handler
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// Handler serves the registry as JSON: 200 when every check is UP, 503
// otherwise.
func Handler(registry *Registry) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		results := registry.Check(context.Background())
		status := Overall(results)

		body, err := json.Marshal(Response{
			Status:    status,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Checks:    results,
			RequestID: string(ctx.Response.Header.Peek("X-Request-ID")),
		})
		if err != nil {
			ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
			return
		}

		ctx.SetContentType("application/json")
		if status == StatusDown {
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		} else {
			ctx.SetStatusCode(fasthttp.StatusOK)
		}
		ctx.SetBody(body)
	}
}
