// Package middleware holds the HTTP middleware shared by every route:
// request ids, Prometheus request metrics and bearer token auth.
package middleware
