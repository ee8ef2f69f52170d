package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/angeloszaimis/hello-backend/config"
	"github.com/angeloszaimis/hello-backend/internal/greeting"
	"github.com/angeloszaimis/hello-backend/internal/handler"
	"github.com/angeloszaimis/hello-backend/internal/httpserver"
	"github.com/angeloszaimis/hello-backend/internal/metrics"
	"github.com/angeloszaimis/hello-backend/internal/task"
)

const metricsBufferSize = 1000

type application struct {
	config    *config.Config
	logger    *slog.Logger
	collector *metrics.Collector
	server    *httpserver.Server
	runner    *task.Runner
}

// newApplication wires every component from cfg. The task runner is only
// built when the task is enabled. taskOpts are appended to the runner's
// options.
func newApplication(cfg *config.Config, log *slog.Logger, taskOpts ...task.Option) (*application, error) {
	collector := metrics.NewCollector(metricsBufferSize, log.With(slog.String("component", "metrics")))

	greetingHandler, err := handler.NewGreetingHandler(log)
	if err != nil {
		return nil, fmt.Errorf("failed to create greeting handler: %w", err)
	}

	router := setupRouter(greetingHandler, collector, cfg.Metrics, log.With(slog.String("component", "http")))

	srv, err := httpserver.New(cfg.Server.Address(), router,
		httpserver.WithLogger(log.With(slog.String("component", "http"))))
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	app := &application{
		config:    cfg,
		logger:    log,
		collector: collector,
		server:    srv,
	}

	if cfg.Task.Enabled {
		interval, err := cfg.Task.IntervalDuration()
		if err != nil {
			return nil, fmt.Errorf("invalid task interval: %w", err)
		}

		opts := append([]task.Option{
			task.WithLogger(log.With(slog.String("component", "task"))),
			task.WithCollector(collector),
		}, taskOpts...)

		runner, err := task.New(cfg.Task.Name, interval, greeting.Job(log), opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create task runner: %w", err)
		}
		app.runner = runner
	}

	return app, nil
}

// runnables lists the supervised components in start order.
func (app *application) runnables() []supervisor.Runnable {
	runnables := []supervisor.Runnable{app.collector, app.server}
	if app.runner != nil {
		runnables = append(runnables, app.runner)
	}
	return runnables
}

// run binds the listener and supervises every component until ctx is
// cancelled or the process receives SIGINT/SIGTERM. A bind failure is
// returned before anything starts.
func (app *application) run(ctx context.Context) error {
	if err := app.server.Listen(); err != nil {
		return err
	}

	super, err := supervisor.New(
		supervisor.WithContext(ctx),
		supervisor.WithLogHandler(app.logger.Handler()),
		supervisor.WithRunnables(app.runnables()...),
	)
	if err != nil {
		return fmt.Errorf("failed to create supervisor: %w", err)
	}

	if err := super.Run(); err != nil {
		return fmt.Errorf("failed to run server: %w", err)
	}

	return nil
}
