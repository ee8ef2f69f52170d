package metrics

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.metrics.Registry(), promhttp.HandlerOpts{
		ErrorLog: errorLog{c.logger},
	})
}

// errorLog adapts slog to promhttp.Logger.
type errorLog struct {
	logger *slog.Logger
}

func (l errorLog) Println(v ...interface{}) {
	l.logger.Error("Metrics exposition failed", slog.String("err", fmt.Sprint(v...)))
}
