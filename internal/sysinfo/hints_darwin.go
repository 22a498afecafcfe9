//go:build darwin

package sysinfo

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// ApplyHints raises process priority. Darwin has no OOM-score interface,
// so only the priority hint applies. Best effort, never fatal.
func ApplyHints(niceness, oomScoreAdj int, logger *slog.Logger) {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, niceness); err != nil {
		logger.Warn("could not raise process priority", "niceness", niceness, "err", err)
	}
	_ = oomScoreAdj
}
