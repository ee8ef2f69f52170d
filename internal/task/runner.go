package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/hello-backend/internal/clock"
	"github.com/angeloszaimis/hello-backend/internal/metrics"
)

var (
	ErrStopped         = errors.New("task runner stopped")
	ErrAlreadyRunning  = errors.New("task runner already running")
	ErrInvalidInterval = errors.New("task interval must be positive")
	ErrMissingName     = errors.New("task name is required")
	ErrMissingJob      = errors.New("task job is required")
)

// Job is the body executed on every tick.
type Job func(ctx context.Context) error

// Runner executes a Job once per interval.
type Runner struct {
	name     string
	interval time.Duration
	job      Job

	clock     clock.Interface
	logger    *slog.Logger
	collector *metrics.Collector

	running  atomic.Bool
	started  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
}

type Option func(*Runner)

// WithClock replaces the system clock, mostly for tests.
func WithClock(c clock.Interface) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithCollector reports every execution to collector.
func WithCollector(collector *metrics.Collector) Option {
	return func(r *Runner) {
		r.collector = collector
	}
}

func New(name string, interval time.Duration, job Job, opts ...Option) (*Runner, error) {
	if name == "" {
		return nil, ErrMissingName
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, interval)
	}
	if job == nil {
		return nil, ErrMissingJob
	}

	r := &Runner{
		name:     name,
		interval: interval,
		job:      job,
		clock:    clock.System(),
		logger:   slog.Default(),
		stopCh:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = r.logger.With(slog.String("task", name))

	return r, nil
}

func (r *Runner) String() string {
	return fmt.Sprintf("TaskRunner[%s]", r.name)
}

// IsRunning reports whether Run is currently scheduling executions.
func (r *Runner) IsRunning() bool {
	return r.running.Load()
}

// Run executes the job every interval until ctx is cancelled or Stop is
// called. The first execution happens one interval after Run starts. A
// concurrent second call returns ErrAlreadyRunning; any call after Run has
// returned gets ErrStopped.
func (r *Runner) Run(ctx context.Context) error {
	select {
	case <-r.stopCh:
		return ErrStopped
	default:
	}

	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	// A runner is single use: once Run returns, later calls get ErrStopped.
	defer r.Stop()

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	r.running.Store(true)
	defer r.running.Store(false)

	r.logger.Info("Task runner started",
		slog.Duration("interval", r.interval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Task runner stopped", slog.String("reason", "context done"))
			return nil

		case <-r.stopCh:
			r.logger.Info("Task runner stopped", slog.String("reason", "stop requested"))
			return nil

		case <-ticker.C():
			// A tick racing with shutdown must not run the job.
			select {
			case <-ctx.Done():
				continue
			case <-r.stopCh:
				continue
			default:
			}

			r.execute(ctx)
		}
	}
}

// Stop ends Run. It is safe to call more than once and before Run.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
}

func (r *Runner) execute(ctx context.Context) {
	start := r.clock.Now()
	result := metrics.TaskResultOK

	defer func() {
		if p := recover(); p != nil {
			result = metrics.TaskResultPanic
			r.logger.Error("Task panicked", slog.Any("panic", p))
		}

		r.collector.Emit(metrics.MetricEvent{
			Type:      metrics.EventTaskCompleted,
			Timestamp: start,
			Task:      r.name,
			Result:    result,
			Duration:  r.clock.Now().Sub(start),
		})
	}()

	if err := r.job(ctx); err != nil {
		result = metrics.TaskResultError
		r.logger.Error("Task failed", slog.Any("err", err))
		return
	}

	r.logger.Debug("Task completed")
}
