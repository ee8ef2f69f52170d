// Package httpserver runs the service's HTTP listener. Binding is a separate
// step so the caller can treat bind failures as fatal before anything else
// starts.
package httpserver
