// Package middleware provides small http.Handler wrappers composed
// around each route: request-id injection with structured access
// logging, and a global CORS policy.
package middleware

import "net/http"

// Use wraps handler (an http.HandlerFunc) with the given middlewares,
// applied outermost-first: Use(h, a, b) serves requests through a, then
// b, then h.
func Use(handler http.HandlerFunc, mw ...func(http.Handler) http.Handler) http.Handler {
	var h http.Handler = handler

	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}

	return h
}
