package middleware

import (
	"net/http"
	"time"

	"github.com/angeloszaimis/hello-backend/internal/metrics"
)

// RouteLabeler names the route a request belongs to for metric labels. It
// must return a bounded set of values.
type RouteLabeler func(*http.Request) string

// Instrument reports every completed request to collector.
func Instrument(collector *metrics.Collector, routeLabel RouteLabeler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newStatusRecorder(w)

			next.ServeHTTP(wrapped, r)

			collector.Emit(metrics.MetricEvent{
				Type:       metrics.EventRequestCompleted,
				Timestamp:  start,
				Method:     r.Method,
				Route:      routeLabel(r),
				StatusCode: wrapped.statusCode,
				Duration:   time.Since(start),
			})
		})
	}
}
