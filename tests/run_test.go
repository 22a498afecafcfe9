package tests

import (
	"context"
	"testing"
	"time"

	"github.com/jawsmem/jaws"
	"github.com/jawsmem/jaws/config"
	"github.com/jawsmem/jaws/internal/runstate"
	"github.com/jawsmem/jaws/tests/help"
	"github.com/stretchr/testify/require"
)

func TestRunBoundedDuration(t *testing.T) {
	cfg := help.BoundedCfg(400 * time.Millisecond)

	j, err := jaws.New(context.Background(), cfg, help.QuietLogger())
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, j.Run())
	require.GreaterOrEqual(t, time.Since(start), 400*time.Millisecond)

	s := j.Summary()
	require.Equal(t, int64(4*1024*1024), s.TargetBytes)
	require.Equal(t, s.TargetBytes, s.AchievedBytes)
	require.Zero(t, s.FailedChunks)
	require.Equal(t, runstate.Terminated, j.Phase())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	j, err := jaws.New(ctx, help.Cfg(), help.QuietLogger())
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- j.Run() }()

	time.Sleep(300 * time.Millisecond)
	require.Equal(t, runstate.Running, j.Phase())
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after cancellation")
	}
	require.Equal(t, runstate.Terminated, j.Phase())
	require.Equal(t, j.Summary().TargetBytes, j.Summary().AchievedBytes)
}

func TestRunStaticProfile(t *testing.T) {
	cfg := help.StaticCfg()
	cfg.Duration = 300 * time.Millisecond

	j, err := jaws.New(context.Background(), cfg, help.QuietLogger())
	require.NoError(t, err)
	require.NoError(t, j.Run())
	require.Equal(t, j.Summary().TargetBytes, j.Summary().AchievedBytes)
}

func TestRunWithoutMonitor(t *testing.T) {
	cfg := help.NoMonitorCfg()
	cfg.Duration = 200 * time.Millisecond

	j, err := jaws.New(context.Background(), cfg, help.QuietLogger())
	require.NoError(t, err)
	require.NoError(t, j.Run())
	require.Equal(t, runstate.Terminated, j.Phase())
}

func TestNewRejectsBadPercent(t *testing.T) {
	cfg := help.Cfg()
	cfg.Target = 0
	cfg.Percent = 96

	_, err := jaws.New(context.Background(), cfg, help.QuietLogger())
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewRejectsBadIntensity(t *testing.T) {
	cfg := help.Cfg()
	cfg.Intensity = 11

	_, err := jaws.New(context.Background(), cfg, help.QuietLogger())
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestRunReleasesOddRemainderTarget(t *testing.T) {
	cfg := help.Cfg()
	// 2.5MB target with 1MB chunks leaves a 512KB remainder chunk.
	cfg.Target = config.Size(2*1024*1024 + 512*1024)
	cfg.Duration = 200 * time.Millisecond

	j, err := jaws.New(context.Background(), cfg, help.QuietLogger())
	require.NoError(t, err)
	require.NoError(t, j.Run())

	s := j.Summary()
	require.Equal(t, int64(cfg.Target), s.TargetBytes)
	require.Equal(t, s.TargetBytes, s.AchievedBytes)
}
