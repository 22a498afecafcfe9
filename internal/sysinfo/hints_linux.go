//go:build linux

package sysinfo

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

// ApplyHints raises process priority and lowers the OOM score. Both are
// best effort: denial is logged once and never fatal.
func ApplyHints(niceness, oomScoreAdj int, logger *slog.Logger) {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, niceness); err != nil {
		logger.Warn("could not raise process priority", "niceness", niceness, "err", err)
	}

	if err := writeOOMScoreAdj(oomScoreAdj); err != nil {
		logger.Warn("could not adjust OOM score", "oom_score_adj", oomScoreAdj, "err", err)
	}
}

// writeOOMScoreAdj touches per-process runtime state only, never a
// persistent configuration file.
func writeOOMScoreAdj(score int) error {
	f, err := os.OpenFile("/proc/self/oom_score_adj", os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open oom_score_adj: %w", err)
	}
	defer f.Close()

	if _, err = f.WriteString(strconv.Itoa(score)); err != nil {
		return fmt.Errorf("write oom_score_adj: %w", err)
	}
	return nil
}
