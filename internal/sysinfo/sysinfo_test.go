package sysinfo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalMemoryPositive(t *testing.T) {
	total, err := TotalMemory()
	require.NoError(t, err)
	require.Greater(t, total, int64(0))
}

func TestMeminfoTotalParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meminfo")
	data := "MemTotal:        8388608 kB\nMemFree:         123456 kB\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	total, err := meminfoTotal(path)
	require.NoError(t, err)
	require.Equal(t, int64(8388608*1024), total)
}

func TestMeminfoTotalRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meminfo")
	require.NoError(t, os.WriteFile(path, []byte("MemFree: 1 kB\n"), 0o644))

	_, err := meminfoTotal(path)
	require.Error(t, err)
}

func TestPageSizePositive(t *testing.T) {
	require.Greater(t, PageSize(), 0)
}

func TestProbeReturnsEUID(t *testing.T) {
	r := Probe()
	require.Equal(t, os.Geteuid(), r.EUID)
	require.Equal(t, r.EUID == 0, r.Root)
}
