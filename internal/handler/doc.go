// Package handler implements the root HTTP handler of the service.
package handler
