// Package middleware holds the echo middleware shared by every route.
//
// It covers the cross-cutting concerns: request ids, request-scoped
// logging, New Relic tracing, CORS, rate limiting, panic recovery and
// turning errors into JSON responses.
package middleware
