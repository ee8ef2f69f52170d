// Package task runs a job on a fixed interval until it is stopped. A Runner is
// either running or stopped; it enters running when Run is called and leaves
// it exactly once, on Stop or context cancellation. Job failures are logged
// and do not stop the runner.
package task
