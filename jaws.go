// Package jaws reserves and pins a fraction of physical memory, then keeps
// it hot with intensity-driven access patterns, emulating application
// memory pressure for hardware validation and bandwidth emulation.
//
// The package is the lifecycle controller: it owns the run state, wires
// the capacity planner, buffer manager, pattern engine and monitor, and
// sequences startup and shutdown between them.
package jaws

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/jawsmem/jaws/config"
	"github.com/jawsmem/jaws/internal/buffer"
	"github.com/jawsmem/jaws/internal/engine"
	"github.com/jawsmem/jaws/internal/monitor"
	"github.com/jawsmem/jaws/internal/plan"
	"github.com/jawsmem/jaws/internal/runstate"
	"github.com/jawsmem/jaws/internal/sysinfo"
)

// Summary is the final report of a run, captured just before release.
type Summary struct {
	TargetBytes    int64
	AchievedBytes  int64
	Duration       time.Duration
	FailedChunks   int64
	DegradedChunks int64
}

type Jaws struct {
	cfg   *config.Config
	log   *slog.Logger
	state *runstate.State
	buf   *buffer.Manager
	eng   *engine.Engine
	mon   *monitor.Monitor

	startedAt time.Time
	summary   Summary
}

// New validates the configuration and wires the components. Nothing
// privileged happens here; allocation starts in Run.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Jaws, error) {
	cfg.Adjust()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	state := runstate.New(ctx)
	buf := buffer.New(buffer.Config{
		MinChunk:    int64(cfg.Alloc.MinChunk),
		MaxAttempts: cfg.Alloc.MaxAttempts,
	}, logger, buffer.NewSystemMemory())

	prof := engine.ProfileFor(cfg.Intensity, cfg.Static, runtime.NumCPU())
	eng := engine.New(prof, cfg.Shutdown.Timeout, logger)

	var mon *monitor.Monitor
	if cfg.Monitor.Enabled() {
		src, err := monitor.NewProcessSource()
		if err != nil {
			logger.Warn("monitoring disabled, process stats unavailable", "err", err)
		} else {
			mon = monitor.New(clock.New(), cfg.Monitor.Interval, logger, src, buf, eng)
		}
	}

	return &Jaws{cfg: cfg, log: logger, state: state, buf: buf, eng: eng, mon: mon}, nil
}

// Run drives a full pressure run: allocate, touch, lock, pattern, monitor,
// then tear everything down when the context is cancelled or the
// configured duration elapses.
func (j *Jaws) Run() error {
	probe := sysinfo.Probe()
	if !probe.Root && !probe.MemlockInf {
		j.log.Warn("running without elevated privilege; locking may degrade",
			"euid", probe.EUID,
			"memlock_limit", probe.MemlockCur,
		)
	}

	target := int64(j.cfg.Target)
	if target <= 0 {
		total, err := sysinfo.TotalMemory()
		if err != nil {
			return fmt.Errorf("query total memory: %w", err)
		}
		target, err = plan.TargetBytes(j.cfg.Percent, total)
		if err != nil {
			return fmt.Errorf("%w: %v", config.ErrInvalid, err)
		}
	}
	sizes := plan.ChunkPlan(target, int64(j.cfg.ChunkSize))

	j.log.Info("starting allocation",
		"target_bytes", target,
		"chunks", len(sizes),
		"chunk_bytes", int64(j.cfg.ChunkSize),
	)

	j.startedAt = time.Now()
	if err := j.state.Advance(runstate.Allocating); err != nil {
		return err
	}
	if err := j.buf.Allocate(j.state.Context(), sizes); err != nil {
		j.teardown()
		return err
	}

	if err := j.state.Advance(runstate.Locking); err != nil {
		return err
	}
	j.buf.LockAll()

	if j.cfg.Hints.Enabled() {
		sysinfo.ApplyHints(j.cfg.Hints.Niceness, j.cfg.Hints.OOMScoreAdj, j.log)
	}

	if err := j.state.Advance(runstate.Running); err != nil {
		return err
	}
	j.eng.Start(j.state.Context(), j.buf.Set())
	if j.mon != nil {
		j.mon.Start(j.state.Context())
	}

	j.log.Info("running",
		"achieved_bytes", j.buf.AchievedBytes(),
		"target_bytes", target,
	)

	j.await()
	return j.teardown()
}

// await blocks until the shared cancellation flag rises or the configured
// duration elapses.
func (j *Jaws) await() {
	if j.cfg.Duration <= 0 {
		<-j.state.Context().Done()
		return
	}

	after := time.NewTimer(j.cfg.Duration)
	defer after.Stop()
	select {
	case <-j.state.Context().Done():
	case <-after.C:
	}
}

// teardown sequences shutdown: cancellation, engine stop with bounded
// wait, monitor stop, buffer release. Reachable from any live phase so
// the abnormal-termination path can always free the buffer.
func (j *Jaws) teardown() error {
	if err := j.state.Advance(runstate.ShuttingDown); err != nil {
		// already shutting down or terminated
		return nil
	}
	j.state.Cancel()

	stopErr := j.eng.Stop()
	if j.mon != nil {
		j.mon.Stop()
	}

	bm := j.buf.Metrics()
	j.summary = Summary{
		TargetBytes:    j.buf.TargetBytes(),
		AchievedBytes:  j.buf.AchievedBytes(),
		Duration:       time.Since(j.startedAt),
		FailedChunks:   bm.FailedSpans,
		DegradedChunks: bm.Degraded,
	}

	releaseErr := j.buf.ReleaseAll()

	if err := j.state.Advance(runstate.Terminated); err != nil {
		j.log.Error("terminate transition failed", "err", err)
	}

	if stopErr != nil {
		// workers did not observe cancellation in time; forced termination
		// is the caller's last resort
		return stopErr
	}
	return releaseErr
}

// Summary returns the final report. Valid after Run returns.
func (j *Jaws) Summary() Summary {
	return j.summary
}

// Phase exposes the current run phase, mainly for tests and callers that
// surface progress.
func (j *Jaws) Phase() runstate.Phase {
	return j.state.Phase()
}
