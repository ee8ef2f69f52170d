// Package middleware provides the HTTP middleware chained in front of the
// service's router: request ids, request logging and metrics.
package middleware
