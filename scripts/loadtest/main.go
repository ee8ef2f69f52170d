// Loadtest fires concurrent requests at a running hello-backend and checks
// that every answer carries the greeting payload and a request id.
//
// Usage:
//
//	go run ./scripts/loadtest --url http://localhost:5000/ --concurrency 10 --requests 1000
//	go run ./scripts/loadtest --method HEAD --requests 5000 --out summary.json
//
// The exit code is 2 when any request failed.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "loadtest: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "loadtest",
		Usage: "Load test the greeting endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:5000/", Usage: "Target URL"},
			&cli.StringFlag{Name: "method", Value: http.MethodGet, Usage: "GET or HEAD"},
			&cli.IntFlag{Name: "concurrency", Aliases: []string{"c"}, Value: 10, Usage: "Number of concurrent workers"},
			&cli.IntFlag{Name: "requests", Aliases: []string{"n"}, Value: 100, Usage: "Total number of requests to send"},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second, Usage: "Per-request timeout"},
			&cli.StringFlag{Name: "out", Usage: "Write a JSON summary to this file"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			opts := options{
				URL:         cmd.String("url"),
				Method:      strings.ToUpper(cmd.String("method")),
				Concurrency: int(cmd.Int("concurrency")),
				Requests:    int(cmd.Int("requests")),
				Timeout:     cmd.Duration("timeout"),
			}
			if opts.Method != http.MethodGet && opts.Method != http.MethodHead {
				return fmt.Errorf("unsupported method %q", opts.Method)
			}

			client := &http.Client{
				Transport: &http.Transport{MaxIdleConnsPerHost: opts.Concurrency},
			}

			summary, err := run(ctx, client, opts)
			if err != nil {
				return err
			}
			printSummary(os.Stdout, summary)

			if out := cmd.String("out"); out != "" {
				if err := writeJSON(out, summary); err != nil {
					return err
				}
				fmt.Printf("\nWrote JSON summary to %s\n", out)
			}

			if summary.Failure > 0 {
				os.Exit(2)
			}
			return nil
		},
	}
}

func writeJSON(path string, summary *Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create json file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
