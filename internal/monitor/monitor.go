// Package monitor samples process residency and CPU on a fixed period and
// reports it. Structurally read-only with respect to the buffer; its only
// side effect is triggering relock attempts when swapped bytes show up.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jawsmem/jaws/internal/shared/bytes"
)

type Monitor struct {
	clk      clock.Clock
	interval time.Duration
	log      *slog.Logger
	src      StatSource
	buf      BufferStats
	eng      PatternStats

	cancel    context.CancelFunc
	done      chan struct{}
	started   bool
	startedAt time.Time
}

func New(
	clk clock.Clock,
	interval time.Duration,
	logger *slog.Logger,
	src StatSource,
	buf BufferStats,
	eng PatternStats,
) *Monitor {
	return &Monitor{
		clk:      clk,
		interval: interval,
		log:      logger,
		src:      src,
		buf:      buf,
		eng:      eng,
		done:     make(chan struct{}),
	}
}

func (m *Monitor) Start(ctx context.Context) {
	if m.started {
		return
	}
	m.started = true
	m.startedAt = m.clk.Now()

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.loop(ctx)
}

// Stop ends sampling and emits the final summary.
func (m *Monitor) Stop() {
	if !m.started {
		return
	}
	m.cancel()
	<-m.done
	m.summary()
}

func (m *Monitor) loop(ctx context.Context) {
	defer close(m.done)

	ticker := m.clk.Ticker(m.interval)
	defer ticker.Stop()

	prev := takeSnapshot(m.buf, m.eng)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := takeSnapshot(m.buf, m.eng)
			m.sample(deltaSnapshot(prev, cur))
			prev = cur
		}
	}
}

func (m *Monitor) sample(d snapshot) {
	stats, err := m.src.Sample()
	if err != nil {
		m.log.Warn("process stat sample failed", "err", err)
		return
	}

	if stats.SwappedBytes > 0 {
		relocked, failed := m.buf.RelockSweep()
		m.log.Warn("swapped bytes observed, relock triggered",
			"swapped", bytes.FmtMem(stats.SwappedBytes),
			"relocked", relocked,
			"relock_failed", failed,
		)
	}

	achieved := m.buf.AchievedBytes()
	target := m.buf.TargetBytes()
	var ratio float64
	if target > 0 {
		ratio = float64(achieved) / float64(target)
	}

	m.log.Info("status",
		"elapsed", m.clk.Since(m.startedAt).Round(time.Second).String(),
		"resident", bytes.FmtMem(stats.ResidentBytes),
		"achieved", bytes.FmtMem(uint64(achieved)),
		"target", bytes.FmtMem(uint64(target)),
		"achieved_ratio", ratio,
		"swapped", bytes.FmtMem(stats.SwappedBytes),
		"cpu_pct", stats.CPUPercent,
		"passes", d.passes,
		"bytes_written", d.bytesWritten,
	)
}

func (m *Monitor) summary() {
	bm := m.buf.Metrics()
	m.log.Info("final summary",
		"achieved", bytes.FmtMem(uint64(m.buf.AchievedBytes())),
		"target", bytes.FmtMem(uint64(m.buf.TargetBytes())),
		"duration", m.clk.Since(m.startedAt).Round(time.Millisecond).String(),
		"failed_chunks", bm.FailedSpans,
		"degraded_chunks", bm.Degraded,
		"relock_failures", bm.RelockFailures,
	)
}
