// Package plan computes the byte target and chunk layout for a run.
// Everything here is pure arithmetic: no OS calls, no side effects, so the
// planner can run (and fail) before any privileged action is taken.
package plan

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinPercent and MaxPercent bound the requested RAM fraction. Above 95%
	// the allocator fights the kernel for the working set of everything
	// else on the host and the run degenerates into an OOM test.
	MinPercent = 1
	MaxPercent = 95
)

var ErrPercentOutOfRange = errors.New("percent out of range")

// TargetBytes converts a requested percentage of total RAM into a byte
// target, rounded to the nearest byte.
func TargetBytes(percent int, totalRAM int64) (int64, error) {
	if percent < MinPercent || percent > MaxPercent {
		return 0, fmt.Errorf("%w: %d (allowed %d..%d)", ErrPercentOutOfRange, percent, MinPercent, MaxPercent)
	}
	if totalRAM <= 0 {
		return 0, fmt.Errorf("total ram must be positive, got %d", totalRAM)
	}
	return int64(math.Round(float64(totalRAM) * float64(percent) / 100.0)), nil
}

// ChunkPlan splits target into an ordered sequence of chunk sizes:
// floor(target/chunkSize) full chunks plus one trailing remainder chunk
// when target is not an exact multiple. The sizes always sum to target.
func ChunkPlan(targetBytes, chunkSize int64) []int64 {
	if targetBytes <= 0 || chunkSize <= 0 {
		return nil
	}

	full := targetBytes / chunkSize
	rem := targetBytes % chunkSize

	n := full
	if rem > 0 {
		n++
	}

	sizes := make([]int64, 0, n)
	for i := int64(0); i < full; i++ {
		sizes = append(sizes, chunkSize)
	}
	if rem > 0 {
		sizes = append(sizes, rem)
	}
	return sizes
}

// PageAlign rounds size down to a whole number of pages. A size below one
// page is left untouched so tiny remainder chunks are not silently dropped.
func PageAlign(size int64, pageSize int) int64 {
	ps := int64(pageSize)
	if ps <= 0 || size < ps {
		return size
	}
	return (size / ps) * ps
}
