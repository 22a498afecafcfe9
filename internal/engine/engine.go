// Package engine owns the pool of pattern workers that keep the buffer hot.
// The (intensity, mode) pair maps deterministically onto worker count,
// cadence and pattern mix; workers then run independent touch loops until
// the shared cancellation flag is observed at a pass boundary.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jawsmem/jaws/internal/buffer"
	"github.com/jawsmem/jaws/internal/shared/rate"
)

// ErrStopTimeout reports workers failing to observe cancellation within
// the shutdown bound. Fatal: the lifecycle controller escalates it to a
// forced termination.
var ErrStopTimeout = errors.New("pattern workers did not stop within timeout")

type Engine struct {
	prof        Profile
	log         *slog.Logger
	stopTimeout time.Duration

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  bool
	counters *engineCounters
	pageSize int
}

func New(prof Profile, stopTimeout time.Duration, logger *slog.Logger) *Engine {
	return &Engine{
		prof:        prof,
		log:         logger,
		stopTimeout: stopTimeout,
		counters:    newEngineCounters(),
		pageSize:    os.Getpagesize(),
	}
}

func (e *Engine) Profile() Profile {
	return e.prof
}

func (e *Engine) Metrics() Metrics {
	return e.counters.snapshot()
}

// Start spawns all workers over the set. The set must be structurally
// frozen before Start and stay frozen until after Stop.
func (e *Engine) Start(ctx context.Context, set *buffer.Set) {
	if e.started {
		return
	}
	e.started = true

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	var pacer *rate.Jitter
	if e.prof.Cadence == 0 && e.prof.PacePerSec > 0 {
		pacer = rate.NewJitter(ctx, e.prof.PacePerSec*e.prof.Workers)
	}

	e.log.Info("pattern engine starting",
		"workers", e.prof.Workers,
		"cadence", e.prof.Cadence.String(),
		"intensity", e.prof.Intensity,
		"static", e.prof.Static,
	)

	for i := 0; i < e.prof.Workers; i++ {
		w := &worker{
			id:       i,
			kind:     e.prof.Kinds[i],
			prof:     e.prof,
			set:      set,
			counters: e.counters,
			pacer:    pacer,
			pageSize: e.pageSize,
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			w.run(ctx)
		}()
	}
}

// Stop raises cancellation and blocks until every worker exits or the
// shutdown bound elapses.
func (e *Engine) Stop() error {
	if !e.started {
		return nil
	}
	e.cancel()

	if err := waitTimeout(&e.wg, e.stopTimeout); err != nil {
		e.log.Error("pattern engine stop timed out", "timeout", e.stopTimeout.String())
		return err
	}

	m := e.counters.snapshot()
	e.log.Info("pattern engine stopped",
		"passes", m.Passes, "bytes_written", m.BytesWritten, "bytes_read", m.BytesRead)
	return nil
}

func waitTimeout(wg *sync.WaitGroup, d time.Duration) error {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	after := time.NewTimer(d)
	defer after.Stop()

	select {
	case <-done:
		return nil
	case <-after.C:
		return ErrStopTimeout
	}
}
