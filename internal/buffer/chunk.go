package buffer

import (
	"fmt"
	"sync/atomic"
)

// State is the lifecycle position of a chunk. Transitions only move
// forward, except Released which is terminal and reachable from any state
// during shutdown.
type State int32

const (
	Unallocated State = iota
	Allocated
	Touched
	Locked
	LockDegraded
	Released
)

func (s State) String() string {
	switch s {
	case Unallocated:
		return "unallocated"
	case Allocated:
		return "allocated"
	case Touched:
		return "touched"
	case Locked:
		return "locked"
	case LockDegraded:
		return "lock_degraded"
	case Released:
		return "released"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Resident reports whether the chunk counts toward achieved bytes:
// physically committed via touching, locked or not.
func (s State) Resident() bool {
	return s == Touched || s == Locked || s == LockDegraded
}

var chunkTransitions = map[State][]State{
	Unallocated:  {Allocated},
	Allocated:    {Touched},
	Touched:      {Locked, LockDegraded},
	LockDegraded: {Locked}, // successful relock promotes the chunk
	Locked:       {},
}

// Chunk is one contiguous mapped region, the granularity of allocation and
// locking.
type Chunk struct {
	data     []byte
	size     int64
	ordinal  int
	attempts int // allocation denials absorbed before this chunk mapped

	state atomic.Int32

	// regionLocked marks chunks pinned by a per-region mlock (as opposed to
	// a process-wide mlockall), so release knows what to munlock.
	regionLocked bool

	// relocking is the per-chunk single-flight guard: at most one relock
	// attempt may be in flight for a chunk.
	relocking atomic.Bool
}

func newChunk(data []byte, size int64, ordinal, attempts int) *Chunk {
	c := &Chunk{data: data, size: size, ordinal: ordinal, attempts: attempts}
	c.state.Store(int32(Allocated))
	return c
}

func (c *Chunk) Size() int64  { return c.size }
func (c *Chunk) Ordinal() int { return c.ordinal }

func (c *Chunk) State() State {
	return State(c.state.Load())
}

// Data exposes the raw region for pattern passes. Concurrent unsynchronized
// writes and reads through this slice are intentional: no invariant depends
// on byte values, only on the pages staying resident.
func (c *Chunk) Data() []byte {
	return c.data
}

// advance moves the chunk forward in its state machine.
func (c *Chunk) advance(next State) error {
	for {
		cur := State(c.state.Load())
		if cur == next {
			return nil
		}
		if !legalChunkTransition(cur, next) {
			return fmt.Errorf("chunk %d: illegal transition %s -> %s", c.ordinal, cur, next)
		}
		if c.state.CompareAndSwap(int32(cur), int32(next)) {
			return nil
		}
	}
}

// release marks the chunk Released regardless of its current state.
func (c *Chunk) release() {
	c.state.Store(int32(Released))
	c.data = nil
}

func legalChunkTransition(from, to State) bool {
	if to == Released {
		return true
	}
	for _, s := range chunkTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
