package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default(50)
	require.NoError(t, cfg.Validate())
	require.Equal(t, DefaultChunkSize, cfg.ChunkSize)
	require.Equal(t, DefaultIntensity, cfg.Intensity)
	require.Equal(t, DefaultStopTimeout, cfg.Shutdown.Timeout)
	require.True(t, cfg.Monitor.Enabled())
	require.Equal(t, DefaultSampleEvery, cfg.Monitor.Interval)
}

func TestValidatePercentRange(t *testing.T) {
	for _, percent := range []int{0, -5, 96, 200} {
		cfg := Default(percent)
		require.ErrorIs(t, cfg.Validate(), ErrInvalid, "percent=%d", percent)
	}
	for _, percent := range []int{1, 30, 50, 75, 95} {
		cfg := Default(percent)
		require.NoError(t, cfg.Validate(), "percent=%d", percent)
	}
}

func TestValidateTargetOverridesPercent(t *testing.T) {
	cfg := Default(0)
	cfg.Target = 64 * 1024 * 1024
	require.NoError(t, cfg.Validate())
}

func TestValidateIntensity(t *testing.T) {
	cfg := Default(50)
	cfg.Intensity = 11
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)
	cfg.Intensity = -1
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestValidateMinChunkFloor(t *testing.T) {
	cfg := Default(50)
	cfg.ChunkSize = 512 * 1024
	cfg.Alloc.MinChunk = 1024 * 1024
	require.ErrorIs(t, cfg.Validate(), ErrInvalid)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jaws.yaml")
	data := `
percent: 50
chunk_size: 100MB
intensity: 7
static: false
duration: 30s
alloc:
  min_chunk: 1MB
  max_attempts: 4
shutdown:
  timeout: 10s
monitor:
  interval: 2s
hints:
  niceness: -10
  oom_score_adj: -1000
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.Percent)
	require.Equal(t, Size(100*1024*1024), cfg.ChunkSize)
	require.Equal(t, 7, cfg.Intensity)
	require.Equal(t, 30*time.Second, cfg.Duration)
	require.Equal(t, Size(1024*1024), cfg.Alloc.MinChunk)
	require.Equal(t, 4, cfg.Alloc.MaxAttempts)
	require.Equal(t, 10*time.Second, cfg.Shutdown.Timeout)
	require.Equal(t, 2*time.Second, cfg.Monitor.Interval)
	require.True(t, cfg.Hints.Enabled())
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jaws.yaml")
	require.NoError(t, os.WriteFile(path, []byte("percent: 150\n"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
