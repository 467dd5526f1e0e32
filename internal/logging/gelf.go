package logging

import (
	"fmt"
	"log/slog"

	"github.com/Graylog2/go-gelf/gelf"
)

// NewGelfHandler ships log records to a Graylog endpoint (UDP GELF).
// Pass the result to SlogManager.Setup as an extra handler.
func NewGelfHandler(address, level string) (slog.Handler, error) {
	w, err := gelf.NewWriter(address)
	if err != nil {
		return nil, fmt.Errorf("connecting gelf writer: %w", err)
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}), nil
}
