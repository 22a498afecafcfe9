// Package runstate holds the single shared run state of a pressure run:
// the current phase and the cancellation signal. It is created once at
// startup, mutated only by the lifecycle controller and observed by every
// other component.
package runstate

import (
	"context"
	"fmt"
	"sync/atomic"
)

type Phase int32

const (
	Initializing Phase = iota
	Allocating
	Locking
	Running
	ShuttingDown
	Terminated
)

func (p Phase) String() string {
	switch p {
	case Initializing:
		return "initializing"
	case Allocating:
		return "allocating"
	case Locking:
		return "locking"
	case Running:
		return "running"
	case ShuttingDown:
		return "shutting_down"
	case Terminated:
		return "terminated"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// transitions enumerates every legal phase edge. ShuttingDown is reachable
// from any live phase so an abnormal-termination path can always tear down.
var transitions = map[Phase][]Phase{
	Initializing: {Allocating, ShuttingDown},
	Allocating:   {Locking, ShuttingDown},
	Locking:      {Running, ShuttingDown},
	Running:      {ShuttingDown},
	ShuttingDown: {Terminated},
	Terminated:   {},
}

// State is the shared run state. The phase is advanced only by the
// lifecycle controller; everyone else reads it.
type State struct {
	phase  atomic.Int32
	ctx    context.Context
	cancel context.CancelFunc
}

func New(ctx context.Context) *State {
	ctx, cancel := context.WithCancel(ctx)
	s := &State{ctx: ctx, cancel: cancel}
	s.phase.Store(int32(Initializing))
	return s
}

func (s *State) Phase() Phase {
	return Phase(s.phase.Load())
}

// Advance moves the state to next, enforcing the transition table.
func (s *State) Advance(next Phase) error {
	for {
		cur := Phase(s.phase.Load())
		if cur == next {
			return nil
		}
		if !legal(cur, next) {
			return fmt.Errorf("illegal phase transition %s -> %s", cur, next)
		}
		if s.phase.CompareAndSwap(int32(cur), int32(next)) {
			return nil
		}
	}
}

func legal(from, to Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Context carries the shared cancellation signal. Workers and the monitor
// check it at pass/sample boundaries only.
func (s *State) Context() context.Context {
	return s.ctx
}

// Cancel raises the shared cancellation flag.
func (s *State) Cancel() {
	s.cancel()
}

// Cancelled reports whether the cancellation flag has been raised.
func (s *State) Cancelled() bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
		return false
	}
}
