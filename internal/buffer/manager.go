// Package buffer owns chunk lifecycle: allocation with degraded-mode
// retries, page commitment, locking with per-chunk fallback, relocking and
// release. The chunk state machine is
//
//	Unallocated -> Allocated -> Touched -> {Locked | LockDegraded} -> Released
//
// with Released reachable from any state during shutdown.
package buffer

import (
	"context"
	"encoding/binary"
	"errors"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/zeebo/xxh3"
)

// ErrNothingAllocated is returned when every allocation attempt failed.
// It is the only fatal allocation outcome; partial shortfalls are reported
// and recovered locally.
var ErrNothingAllocated = errors.New("no memory could be allocated")

// Config tunes the degraded-allocation policy.
type Config struct {
	// MinChunk is the halving floor. Retries never request less.
	MinChunk int64

	// MaxAttempts bounds denials absorbed per planned chunk.
	MaxAttempts int
}

// Manager allocates, commits, locks and releases the buffer set.
type Manager struct {
	mu  sync.Mutex // structural mutation and release idempotence
	cfg Config
	log *slog.Logger
	mem OSMemory

	set       *Set
	lockedAll bool
	released  bool
	counters  *managerCounters
}

func New(cfg Config, logger *slog.Logger, mem OSMemory) *Manager {
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 1 << 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Manager{
		cfg:      cfg,
		log:      logger,
		mem:      mem,
		set:      newSet(0),
		counters: newManagerCounters(),
	}
}

// Set returns the buffer set. Its structure is stable once Allocate has
// returned and until ReleaseAll runs.
func (m *Manager) Set() *Set {
	return m.set
}

func (m *Manager) Metrics() Metrics {
	return m.counters.snapshot()
}

func (m *Manager) AchievedBytes() int64 {
	return m.set.AchievedBytes()
}

func (m *Manager) TargetBytes() int64 {
	return m.set.TargetBytes()
}

// Allocate maps, commits and records chunks per the plan. A denied size is
// retried at half, down to the MinChunk floor and within MaxAttempts;
// each successful reduced mapping becomes an additional chunk so the total
// requested size is preserved where possible. Exhausted retries reduce
// achieved bytes and are reported; the only fatal outcome is ending with
// zero bytes allocated.
func (m *Manager) Allocate(ctx context.Context, sizes []int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var target int64
	for _, s := range sizes {
		target += s
	}
	m.set = newSet(target)

	for _, size := range sizes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		m.allocateSpan(size)
	}

	if m.set.Len() == 0 {
		return ErrNothingAllocated
	}

	if short := m.counters.shortfallBytes.Load(); short > 0 {
		m.log.Warn("allocation shortfall",
			"target_bytes", target,
			"achieved_bytes", m.set.AchievedBytes(),
			"shortfall_bytes", short,
			"failed_spans", m.counters.failedSpans.Load(),
		)
	}
	return nil
}

// allocateSpan covers size bytes with one or more chunks, halving on
// denial. Touch failures count as denials of the same size: the region is
// unmapped and the halving policy continues.
func (m *Manager) allocateSpan(size int64) {
	remaining := size
	cur := size
	attempts := 0

	for remaining > 0 {
		if cur > remaining {
			cur = remaining
		}

		m.counters.mapCalls.Add(1)
		data, err := m.mem.Map(cur)
		if err == nil {
			chunk := newChunk(data, cur, m.set.Len(), attempts)
			if terr := m.touch(chunk); terr != nil {
				_ = m.mem.Unmap(data)
				chunk.release()
				err = terr
			} else {
				m.set.append(chunk)
				remaining -= cur
				continue
			}
		}

		attempts++
		half := cur / 2
		if attempts >= m.cfg.MaxAttempts || half < m.cfg.MinChunk {
			m.counters.failedSpans.Add(1)
			m.counters.shortfallBytes.Add(remaining)
			m.log.Warn("chunk allocation abandoned",
				"requested_bytes", size,
				"unfilled_bytes", remaining,
				"attempts", attempts,
				"err", err,
			)
			return
		}
		m.counters.mapRetries.Add(1)
		m.log.Debug("allocation denied, halving",
			"denied_bytes", cur, "retry_bytes", half, "attempt", attempts, "err", err)
		cur = half
	}
}

// touch writes the chunk's deterministic pattern byte at every page stride,
// forcing physical commitment before any locking runs.
func (m *Manager) touch(c *Chunk) error {
	if err := m.mem.Touch(c.data, patternByte(c.ordinal)); err != nil {
		return err
	}
	if err := c.advance(Touched); err != nil {
		return err
	}
	m.counters.touchedBytes.Add(c.size)
	return nil
}

// patternByte derives the fill byte for a chunk from its ordinal. Nonzero
// and varying across chunks, so committed pages cannot collapse back into
// the shared zero page or be merged by same-page deduplication.
func patternByte(ordinal int) byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(ordinal))
	return byte(xxh3.Hash(buf[:])) | 1
}

// LockAll pins the buffer. It first attempts a process-wide lock of all
// current and future mappings; on denial it falls back per chunk to a
// regional lock. Chunks that even the fallback cannot pin enter
// LockDegraded: still committed via touching, kept resident only by the
// pattern workers. Never fatal, reported once.
func (m *Manager) LockAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.mem.LockAll()
	if err == nil {
		m.lockedAll = true
		for _, c := range m.set.chunks {
			if c.State() == Touched {
				if aerr := c.advance(Locked); aerr == nil {
					m.counters.locked.Add(1)
				}
			}
		}
		m.log.Info("locked all mappings", "chunks", m.set.Len())
		return
	}
	m.log.Warn("process-wide lock denied, falling back to per-chunk locks", "err", err)

	var degraded int64
	for _, c := range m.set.chunks {
		if c.State() != Touched {
			continue
		}
		if err := m.mem.Lock(c.data); err != nil {
			if aerr := c.advance(LockDegraded); aerr == nil {
				m.counters.degraded.Add(1)
				degraded++
			}
			continue
		}
		c.regionLocked = true
		if aerr := c.advance(Locked); aerr == nil {
			m.counters.locked.Add(1)
		}
	}

	if degraded > 0 {
		m.log.Warn("some chunks are lock-degraded; residency relies on pattern writes",
			"degraded", degraded, "locked", m.counters.locked.Load())
	}
}

// Relock retries the regional lock for one degraded chunk. At most one
// relock is in flight per chunk; a losing caller returns false with no
// error.
func (m *Manager) Relock(c *Chunk) (bool, error) {
	if c.State() != LockDegraded {
		return false, nil
	}
	if !c.relocking.CompareAndSwap(false, true) {
		return false, nil
	}
	defer c.relocking.Store(false)

	m.counters.relockAttempts.Add(1)
	if err := m.mem.Lock(c.data); err != nil {
		m.counters.relockFailures.Add(1)
		return false, err
	}
	c.regionLocked = true
	if err := c.advance(Locked); err != nil {
		// lost a race with release; drop the pin we just took
		_ = m.mem.Unlock(c.data)
		return false, nil
	}
	m.counters.relocked.Add(1)
	m.counters.degraded.Add(-1)
	m.counters.locked.Add(1)
	return true, nil
}

// RelockSweep retries the lock for every degraded chunk. The monitor calls
// it when swapped bytes are observed.
func (m *Manager) RelockSweep() (relocked, failed int) {
	for _, c := range m.set.Chunks() {
		if c.State() != LockDegraded {
			continue
		}
		ok, err := m.Relock(c)
		switch {
		case ok:
			relocked++
		case err != nil:
			failed++
		}
	}
	return relocked, failed
}

// ReleaseAll unlocks and unmaps every chunk in reverse allocation order.
// Idempotent: the second call is a no-op and never errors. Safe from the
// shutdown-signal path, including before allocation completed.
func (m *Manager) ReleaseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.released {
		return nil
	}
	m.released = true

	var merr *multierror.Error

	if m.lockedAll {
		if err := m.mem.UnlockAll(); err != nil {
			merr = multierror.Append(merr, err)
		}
		m.lockedAll = false
	}

	chunks := m.set.chunks
	for i := len(chunks) - 1; i >= 0; i-- {
		c := chunks[i]
		if c.State() == Released {
			continue
		}
		data := c.data
		if c.regionLocked {
			if err := m.mem.Unlock(data); err != nil {
				merr = multierror.Append(merr, err)
			}
			c.regionLocked = false
		}
		if err := m.mem.Unmap(data); err != nil {
			merr = multierror.Append(merr, err)
		}
		c.release()
	}

	m.log.Info("buffer released", "chunks", len(chunks))
	return merr.ErrorOrNil()
}
