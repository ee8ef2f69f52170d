// Package greeting holds the constant payload the service answers with and the
// periodic job that announces it on the log.
package greeting

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Message is the greeting carried in every payload.
const Message = "Hello Backend"

// Payload is the response object served on the root route.
type Payload struct {
	Data string `json:"data"`
}

var hello = Payload{Data: Message}

// Hello returns the greeting payload.
func Hello() Payload {
	return hello
}

// Job returns a task body that writes the greeting payload to logger as a
// single Info record under the "payload" key.
func Job(logger *slog.Logger) func(context.Context) error {
	return func(ctx context.Context) error {
		body, err := json.Marshal(Hello())
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "Periodic greeting",
			slog.String("payload", string(body)))

		return nil
	}
}
