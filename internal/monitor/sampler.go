package monitor

import (
	"github.com/jawsmem/jaws/internal/buffer"
	"github.com/jawsmem/jaws/internal/engine"
)

// BufferStats is the monitor's read-only view of the buffer manager, plus
// its one permitted side effect: triggering relocks.
type BufferStats interface {
	AchievedBytes() int64
	TargetBytes() int64
	Metrics() buffer.Metrics
	RelockSweep() (relocked, failed int)
}

// PatternStats exposes the engine's cumulative counters.
type PatternStats interface {
	Metrics() engine.Metrics
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	passes       int64
	bytesWritten int64
	bytesRead    int64

	relockAttempts int64
	relocked       int64
	relockFailures int64
}

func takeSnapshot(buf BufferStats, eng PatternStats) snapshot {
	bm := buf.Metrics()
	em := eng.Metrics()
	return snapshot{
		passes:         em.Passes,
		bytesWritten:   em.BytesWritten,
		bytesRead:      em.BytesRead,
		relockAttempts: bm.RelockAttempts,
		relocked:       bm.Relocked,
		relockFailures: bm.RelockFailures,
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		passes:         delta(prev.passes, cur.passes),
		bytesWritten:   delta(prev.bytesWritten, cur.bytesWritten),
		bytesRead:      delta(prev.bytesRead, cur.bytesRead),
		relockAttempts: delta(prev.relockAttempts, cur.relockAttempts),
		relocked:       delta(prev.relocked, cur.relocked),
		relockFailures: delta(prev.relockFailures, cur.relockFailures),
	}
}

func delta(prev, cur int64) int64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}
