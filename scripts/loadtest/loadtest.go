package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/hello-backend/internal/greeting"
	"github.com/angeloszaimis/hello-backend/internal/middleware"
)

type options struct {
	URL         string
	Method      string
	Concurrency int
	Requests    int
	Timeout     time.Duration
}

// Latencies summarises a set of request durations in milliseconds.
type Latencies struct {
	Samples int     `json:"samples"`
	Min     float64 `json:"min_ms"`
	Avg     float64 `json:"avg_ms"`
	Max     float64 `json:"max_ms"`
	P50     float64 `json:"p50_ms"`
	P90     float64 `json:"p90_ms"`
	P95     float64 `json:"p95_ms"`
	P99     float64 `json:"p99_ms"`
}

// Summary is the outcome of one load test run.
type Summary struct {
	Target        string         `json:"target"`
	Method        string         `json:"method"`
	Requests      int            `json:"requests"`
	Concurrency   int            `json:"concurrency"`
	Sent          int32          `json:"total_sent"`
	Success       int32          `json:"success"`
	Failure       int32          `json:"failure"`
	Mismatched    int32          `json:"mismatched"`
	MissingIDs    int32          `json:"missing_request_ids"`
	StatusCodes   map[int]int    `json:"status_codes"`
	Duration      time.Duration  `json:"-"`
	DurationMS    int64          `json:"duration_ms"`
	ThroughputRPS float64        `json:"throughput_rps"`
	Latency       Latencies      `json:"latency"`
	Errors        map[string]int `json:"errors,omitempty"`
}

// run fires opts.Requests requests at opts.URL from opts.Concurrency workers.
// A response only counts as a success when it is a 200 carrying the greeting
// payload (GET) or an empty body (HEAD).
func run(ctx context.Context, client *http.Client, opts options) (*Summary, error) {
	if opts.Concurrency < 1 || opts.Requests < 1 {
		return nil, fmt.Errorf("concurrency and requests must be positive")
	}

	want, err := json.Marshal(greeting.Hello())
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Target:      opts.URL,
		Method:      opts.Method,
		Requests:    opts.Requests,
		Concurrency: opts.Concurrency,
		StatusCodes: map[int]int{},
		Errors:      map[string]int{},
	}

	var (
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, opts.Requests)
		sent      atomic.Int32
		success   atomic.Int32
		failure   atomic.Int32
		mismatch  atomic.Int32
		missingID atomic.Int32
		wg        sync.WaitGroup
	)

	jobs := make(chan int)
	start := time.Now()

	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				sent.Add(1)

				reqCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
				req, err := http.NewRequestWithContext(reqCtx, opts.Method, opts.URL, nil)
				if err != nil {
					cancel()
					failure.Add(1)
					continue
				}

				began := time.Now()
				resp, err := client.Do(req)
				if err != nil {
					cancel()
					dur := time.Since(began)
					failure.Add(1)
					mu.Lock()
					latencies = append(latencies, dur)
					summary.Errors[err.Error()]++
					mu.Unlock()
					continue
				}

				body, readErr := io.ReadAll(resp.Body)
				resp.Body.Close()
				cancel()
				dur := time.Since(began)

				mu.Lock()
				latencies = append(latencies, dur)
				summary.StatusCodes[resp.StatusCode]++
				mu.Unlock()

				if resp.Header.Get(middleware.RequestIDHeader) == "" {
					missingID.Add(1)
				}

				ok := readErr == nil && resp.StatusCode == http.StatusOK
				if ok && !bodyMatches(opts.Method, body, want) {
					mismatch.Add(1)
					ok = false
				}

				if ok {
					success.Add(1)
				} else {
					failure.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < opts.Requests; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	summary.Duration = time.Since(start)
	summary.DurationMS = summary.Duration.Milliseconds()
	summary.Sent = sent.Load()
	summary.Success = success.Load()
	summary.Failure = failure.Load()
	summary.Mismatched = mismatch.Load()
	summary.MissingIDs = missingID.Load()
	if summary.Duration > 0 {
		summary.ThroughputRPS = float64(summary.Sent) / summary.Duration.Seconds()
	}
	summary.Latency = summarize(latencies)

	return summary, nil
}

func bodyMatches(method string, body, want []byte) bool {
	if method == http.MethodHead {
		return len(body) == 0
	}
	return string(body) == string(want)
}

func summarize(samples []time.Duration) Latencies {
	if len(samples) == 0 {
		return Latencies{}
	}

	sorted := make([]time.Duration, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, d := range sorted {
		sum += d
	}

	pick := func(pct float64) float64 {
		return ms(sorted[int(float64(len(sorted)-1)*pct)])
	}

	return Latencies{
		Samples: len(sorted),
		Min:     ms(sorted[0]),
		Avg:     ms(sum / time.Duration(len(sorted))),
		Max:     ms(sorted[len(sorted)-1]),
		P50:     pick(0.50),
		P90:     pick(0.90),
		P95:     pick(0.95),
		P99:     pick(0.99),
	}
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

func printSummary(w io.Writer, r *Summary) {
	fmt.Fprintln(w, "--- Load Test Summary ---")
	fmt.Fprintf(w, "Target: %s %s\n", r.Method, r.Target)
	fmt.Fprintf(w, "Requests: %d  Concurrency: %d\n", r.Requests, r.Concurrency)
	fmt.Fprintf(w, "Total sent: %d  Success: %d  Failure: %d  Mismatched: %d  Missing request ids: %d\n",
		r.Sent, r.Success, r.Failure, r.Mismatched, r.MissingIDs)
	fmt.Fprintf(w, "Duration: %v  Throughput: %.2f req/s\n", r.Duration, r.ThroughputRPS)

	fmt.Fprintln(w, "\nStatus codes:")
	codes := make([]int, 0, len(r.StatusCodes))
	for code := range r.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(w, "  %d -> %d\n", code, r.StatusCodes[code])
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "\nTransport errors:")
		for msg, n := range r.Errors {
			fmt.Fprintf(w, "  %s -> %d\n", msg, n)
		}
	}

	l := r.Latency
	if l.Samples > 0 {
		fmt.Fprintln(w, "\nLatencies:")
		fmt.Fprintf(w, "  samples=%d min=%.3fms avg=%.3fms max=%.3fms p50=%.3fms p90=%.3fms p95=%.3fms p99=%.3fms\n",
			l.Samples, l.Min, l.Avg, l.Max, l.P50, l.P90, l.P95, l.P99)
	}
}
