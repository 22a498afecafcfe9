package random

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloat64Range(t *testing.T) {
	for i := 0; i < 10_000; i++ {
		v := Float64()
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestUint64nBound(t *testing.T) {
	for _, n := range []uint64{1, 2, 7, 4096, 1 << 40} {
		for i := 0; i < 1000; i++ {
			require.Less(t, Uint64n(n), n)
		}
	}
}

func TestInt64nBound(t *testing.T) {
	for i := 0; i < 10_000; i++ {
		v := Int64n(100 * 1024 * 1024)
		require.GreaterOrEqual(t, v, int64(0))
		require.Less(t, v, int64(100*1024*1024))
	}
}

func TestConcurrentDraws(t *testing.T) {
	// Draws from many goroutines must neither block nor repeat trivially.
	const workers = 16
	const perWorker = 10_000

	var wg sync.WaitGroup
	seen := make([]uint64, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			var last uint64
			for i := 0; i < perWorker; i++ {
				last ^= Uint64()
			}
			seen[id] = last
		}(w)
	}
	wg.Wait()

	distinct := map[uint64]struct{}{}
	for _, v := range seen {
		distinct[v] = struct{}{}
	}
	require.Greater(t, len(distinct), 1)
}

func TestInitReseeds(t *testing.T) {
	Init(8)
	a := Uint64()
	Init(8)
	b := Uint64()
	_ = a
	_ = b // values may theoretically collide; only require no panic and valid state
	require.NotZero(t, len(_shards))
}
