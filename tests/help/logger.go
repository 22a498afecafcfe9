package help

import (
	"log/slog"
	"os"
)

func Logger() *slog.Logger {
	// Info keeps the per-sample status lines visible without worker noise.
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	h := slog.NewTextHandler(os.Stdout, opts)

	log := slog.New(h).With(
		slog.String("service", "jaws"),
		slog.String("env", "test"),
	)

	return log
}

// QuietLogger discards everything. For tests that assert on behavior, not
// on output.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}
