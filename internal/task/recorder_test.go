package task_test

import (
	"context"
	"log/slog"
	"sync"
)

// recordingHandler keeps every record it handles so specs can count
// emissions without touching stdout.
type recordingHandler struct {
	mutex   *sync.Mutex
	records *[]slog.Record
	attrs   []slog.Attr
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{
		mutex:   &sync.Mutex{},
		records: &[]slog.Record{},
	}
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	r = r.Clone()
	r.AddAttrs(h.attrs...)
	*h.records = append(*h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &recordingHandler{
		mutex:   h.mutex,
		records: h.records,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *recordingHandler) WithGroup(string) slog.Handler {
	return h
}

// count returns how many records carry msg.
func (h *recordingHandler) count(msg string) int {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	n := 0
	for _, r := range *h.records {
		if r.Message == msg {
			n++
		}
	}
	return n
}

// payloads returns the "payload" attribute of every record carrying msg.
func (h *recordingHandler) payloads(msg string) []string {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	var out []string
	for _, r := range *h.records {
		if r.Message != msg {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "payload" {
				out = append(out, a.Value.String())
			}
			return true
		})
	}
	return out
}
