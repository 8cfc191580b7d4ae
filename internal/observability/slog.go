// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/stolasapp/ende/internal/config"
)

// InitSlog initializes a logger writing to stderr with the given config. When
// running in a terminal, it uses a human-readable text format; otherwise it
// uses JSON for structured logging.
func InitSlog(cfg *config.Config) *slog.Logger {
	return NewLogger(cfg, os.Stderr, term.IsTerminal(int(os.Stdin.Fd())))
}

// NewLogger builds a logger writing text records when human is set and JSON
// records otherwise. Source locations are included in dev mode.
func NewLogger(cfg *config.Config, w io.Writer, human bool) *slog.Logger {
	// an invalid level has already been rejected by config validation
	lvl, _ := cfg.Level()
	opts := &slog.HandlerOptions{
		AddSource: cfg.DevMode,
		Level:     lvl,
	}
	var handler slog.Handler
	if human {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}
