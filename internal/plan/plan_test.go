package plan

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const mb = 1024 * 1024

func TestTargetBytesRounding(t *testing.T) {
	totals := []int64{1, 4096, 8192 * mb, 1<<40 + 3}
	for _, total := range totals {
		for percent := MinPercent; percent <= MaxPercent; percent++ {
			got, err := TargetBytes(percent, total)
			require.NoError(t, err)

			want := math.Round(float64(total) * float64(percent) / 100.0)
			require.InDelta(t, want, float64(got), 1.0, "percent=%d total=%d", percent, total)
		}
	}
}

func TestTargetBytesRejectsOutOfRange(t *testing.T) {
	for _, percent := range []int{0, -1, 96, 100, 1000} {
		_, err := TargetBytes(percent, 8192*mb)
		require.ErrorIs(t, err, ErrPercentOutOfRange, "percent=%d", percent)
	}
}

func TestTargetBytesRejectsNonPositiveRAM(t *testing.T) {
	_, err := TargetBytes(50, 0)
	require.Error(t, err)
	_, err = TargetBytes(50, -1)
	require.Error(t, err)
}

func TestChunkPlanSumsToTarget(t *testing.T) {
	cases := []struct {
		target, chunk int64
	}{
		{4096 * mb, 100 * mb},
		{100 * mb, 100 * mb},
		{99 * mb, 100 * mb},
		{1, 100 * mb},
		{10*mb + 1, 3 * mb},
	}
	for _, c := range cases {
		sizes := ChunkPlan(c.target, c.chunk)
		var sum int64
		for _, s := range sizes {
			sum += s
		}
		require.Equal(t, c.target, sum, "target=%d chunk=%d", c.target, c.chunk)
	}
}

func TestChunkPlanRemainder(t *testing.T) {
	// 8192 MB total at 50% -> 4096 MB target -> 40 full 100 MB chunks
	// plus one 96 MB trailing chunk.
	target, err := TargetBytes(50, 8192*mb)
	require.NoError(t, err)
	require.Equal(t, int64(4096*mb), target)

	sizes := ChunkPlan(target, 100*mb)
	require.Len(t, sizes, 41)
	for i := 0; i < 40; i++ {
		require.Equal(t, int64(100*mb), sizes[i])
	}
	require.Equal(t, int64(96*mb), sizes[40])
}

func TestChunkPlanExactMultipleHasNoRemainder(t *testing.T) {
	sizes := ChunkPlan(400*mb, 100*mb)
	require.Len(t, sizes, 4)
	for _, s := range sizes {
		require.Equal(t, int64(100*mb), s)
	}
}

func TestPageAlign(t *testing.T) {
	require.Equal(t, int64(8192), PageAlign(8192+17, 4096))
	require.Equal(t, int64(4096), PageAlign(4096, 4096))
	// below one page: unchanged
	require.Equal(t, int64(100), PageAlign(100, 4096))
}
