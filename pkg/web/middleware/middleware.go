// Package middleware holds fasthttp handler wrappers used by the admin server.
package middleware

import "github.com/valyala/fasthttp"

// Middleware wraps a fasthttp handler
type Middleware func(next fasthttp.RequestHandler) fasthttp.RequestHandler

// Chain applies middlewares so that the first one is the outermost
func Chain(h fasthttp.RequestHandler, mws ...Middleware) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
