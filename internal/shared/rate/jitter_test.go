package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJitterPacesTakes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	j := NewJitter(ctx, 100)

	start := time.Now()
	for i := 0; i < 20; i++ {
		j.Take()
	}
	elapsed := time.Since(start)

	// 20 takes at 100/s should need on the order of 200ms minus burst slack.
	require.Greater(t, elapsed, 50*time.Millisecond)
}

func TestJitterChanClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	j := NewJitter(ctx, 1000)

	j.Take()
	cancel()

	select {
	case <-time.After(2 * time.Second):
		t.Fatal("jitter channel did not close after cancel")
	case _, ok := <-drain(j.Chan()):
		_ = ok // channel eventually closes; reaching here is enough
	}
}

// drain consumes pending slots until the channel closes or empties.
func drain(ch <-chan struct{}) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		for range ch {
		}
	}()
	return out
}
