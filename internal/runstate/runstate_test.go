package runstate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForwardTransitions(t *testing.T) {
	s := New(context.Background())
	require.Equal(t, Initializing, s.Phase())

	for _, next := range []Phase{Allocating, Locking, Running, ShuttingDown, Terminated} {
		require.NoError(t, s.Advance(next))
		require.Equal(t, next, s.Phase())
	}
}

func TestBackwardTransitionRejected(t *testing.T) {
	s := New(context.Background())
	require.NoError(t, s.Advance(Allocating))
	require.NoError(t, s.Advance(Locking))
	require.Error(t, s.Advance(Allocating))
	require.Equal(t, Locking, s.Phase())
}

func TestShuttingDownReachableFromAnyLivePhase(t *testing.T) {
	for _, from := range []Phase{Initializing, Allocating, Locking, Running} {
		s := New(context.Background())
		for _, step := range []Phase{Allocating, Locking, Running} {
			if step > from {
				break
			}
			require.NoError(t, s.Advance(step))
		}
		require.NoError(t, s.Advance(ShuttingDown))
	}
}

func TestTerminatedIsTerminal(t *testing.T) {
	s := New(context.Background())
	require.NoError(t, s.Advance(ShuttingDown))
	require.NoError(t, s.Advance(Terminated))
	require.Error(t, s.Advance(Running))
	require.Error(t, s.Advance(ShuttingDown))
}

func TestSkipPhaseRejected(t *testing.T) {
	s := New(context.Background())
	require.Error(t, s.Advance(Running))
	require.Error(t, s.Advance(Terminated))
}

func TestAdvanceToCurrentIsNoOp(t *testing.T) {
	s := New(context.Background())
	require.NoError(t, s.Advance(Allocating))
	require.NoError(t, s.Advance(Allocating))
	require.Equal(t, Allocating, s.Phase())
}

func TestCancel(t *testing.T) {
	s := New(context.Background())
	require.False(t, s.Cancelled())
	s.Cancel()
	require.True(t, s.Cancelled())

	select {
	case <-s.Context().Done():
	default:
		t.Fatal("context not cancelled")
	}
}

func TestCancelPropagatesFromParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx)
	cancel()
	require.True(t, s.Cancelled())
}
