package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/angeloszaimis/hello-backend/config"
	"github.com/angeloszaimis/hello-backend/pkg/logger"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Failures are logged where they happen.
	if err := newCommand(os.Stdout).Run(ctx, os.Args); err != nil {
		cancel()
		os.Exit(1)
	}
}

// newCommand builds the root command. Service logs go to out.
func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "hello-backend",
		Usage:   "Serve the Hello Backend greeting and announce it periodically",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML configuration file",
				Sources: cli.EnvVars("HELLO_BACKEND_CONFIG"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx, cmd.String("config"), out)
		},
	}
}

func serve(ctx context.Context, configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Level == config.LogLevelDebug, cfg.Server.Environment, out)

	app, err := newApplication(cfg, log)
	if err != nil {
		log.Error("Failed to initialize application", slog.Any("err", err))
		return err
	}

	log.Info("Starting hello-backend",
		slog.String("version", Version),
		slog.String("address", cfg.Server.Address()),
		slog.Bool("task_enabled", cfg.Task.Enabled),
		slog.String("task_interval", cfg.Task.Interval))

	if err := app.run(ctx); err != nil {
		log.Error("Service stopped with error", slog.Any("err", err))
		return err
	}

	log.Info("Shutdown complete")
	return nil
}
