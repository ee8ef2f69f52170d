package main

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"

	"github.com/angeloszaimis/hello-backend/config"
	"github.com/angeloszaimis/hello-backend/internal/metrics"
	"github.com/angeloszaimis/hello-backend/internal/middleware"
)

const unmatchedRoute = "unmatched"

func setupRouter(greetingHandler http.Handler, collector *metrics.Collector, metricsCfg config.MetricsConfig, log *slog.Logger) http.Handler {
	router := mux.NewRouter()

	router.Handle("/", greetingHandler).Methods(http.MethodGet, http.MethodHead)

	if metricsCfg.Enabled {
		router.Handle(metricsCfg.Path, collector.Handler()).Methods(http.MethodGet)
	}

	return alice.New(
		middleware.RequestID,
		middleware.RequestLogger(log),
		middleware.Instrument(collector, routeLabel(router)),
	).Then(router)
}

// routeLabel maps a request to the template of the route that serves it, so
// metric labels stay bounded no matter what paths clients send.
func routeLabel(router *mux.Router) middleware.RouteLabeler {
	return func(r *http.Request) string {
		var match mux.RouteMatch
		if !router.Match(r, &match) || match.Route == nil {
			return unmatchedRoute
		}

		tpl, err := match.Route.GetPathTemplate()
		if err != nil {
			return unmatchedRoute
		}
		return tpl
	}
}
