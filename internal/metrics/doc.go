// Package metrics collects request and periodic task metrics for the service.
//
// Producers hand MetricEvents to a Collector, which records them into
// Prometheus series from its own goroutine. Emit never blocks the request
// path: when the buffer is full the event is dropped.
//
//	collector := metrics.NewCollector(1000, logger)
//	go collector.Run(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventRequestCompleted,
//		Method:     http.MethodGet,
//		Route:      "/",
//		StatusCode: http.StatusOK,
//		Duration:   3 * time.Millisecond,
//	})
//
//	mux.Handle("/metrics", collector.Handler())
//
// Buffered events are drained when the collector stops.
package metrics
