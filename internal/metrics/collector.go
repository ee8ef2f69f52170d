package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type EventType string

const (
	EventRequestCompleted EventType = "request_completed"
	EventTaskCompleted    EventType = "task_completed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Method     string
	Route      string
	StatusCode int
	Duration   time.Duration
	Task       string
	Result     string
}

type Collector struct {
	eventCh  chan MetricEvent
	metrics  *Metrics
	logger   *slog.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Emit queues an event without blocking. Events are dropped when the buffer
// is full. Emit on a nil Collector is a no-op.
func (c *Collector) Emit(event MetricEvent) {
	if c == nil {
		return
	}

	select {
	case c.eventCh <- event:
	default:
	}
}

// Metrics returns the series the collector records into.
func (c *Collector) Metrics() *Metrics {
	return c.metrics
}

func (c *Collector) String() string {
	return "MetricsCollector"
}

// Run processes events until ctx is cancelled or Stop is called, then drains
// whatever is still buffered.
func (c *Collector) Run(ctx context.Context) error {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			c.drain()
			return nil
		case <-c.stopCh:
			c.drain()
			return nil
		}
	}
}

func (c *Collector) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestCompleted:
		c.metrics.RecordRequest(event.Method, event.Route, event.StatusCode, event.Duration)

	case EventTaskCompleted:
		c.metrics.RecordTaskRun(event.Task, event.Result, event.Timestamp)

	default:
		c.logger.Debug("Ignoring unknown metric event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}
