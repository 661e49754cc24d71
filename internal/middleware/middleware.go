// Package middleware stores global and route-specific middleware.
//
// These intercept requests to handle cross-cutting concerns
// such as request ids, request-scoped logging, tracing, metrics,
// CORS, rate limiting, and panic recovery
package middleware
