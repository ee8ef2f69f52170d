package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/hello-backend/internal/greeting"
)

// GreetingHandler answers with the greeting payload.
type GreetingHandler struct {
	logger *slog.Logger
	body   []byte
}

func NewGreetingHandler(logger *slog.Logger) (*GreetingHandler, error) {
	body, err := json.Marshal(greeting.Hello())
	if err != nil {
		return nil, err
	}

	return &GreetingHandler{
		logger: logger,
		body:   body,
	}, nil
}

func (h *GreetingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	if _, err := w.Write(h.body); err != nil {
		h.logger.Debug("Failed to write greeting", slog.Any("err", err))
	}
}
