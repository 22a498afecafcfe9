package engine

import "time"

// Kind is the access pattern a worker executes each pass.
type Kind int

const (
	Sequential Kind = iota
	Random
	Mixed
)

func (k Kind) String() string {
	switch k {
	case Sequential:
		return "sequential"
	case Random:
		return "random"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

const (
	cadenceLong     = 2 * time.Second
	cadenceModerate = 250 * time.Millisecond
	cadenceShort    = 50 * time.Millisecond

	// stride constants for the upper intensity bands. Both are multiples of
	// the cache line but never of the page, so consecutive accesses hit
	// distinct lines without settling into a page-aligned rhythm the
	// prefetcher can hide.
	strideOffPage      = 4032 // 63 cache lines
	strideCacheHostile = 8128 // 127 cache lines

	// pace bound per worker when the cadence is zero, so oversubscribed
	// workers still yield between passes instead of spinning flat out
	highIntensityPacePerSec = 500
)

// Profile is the deterministic worker configuration derived from
// (intensity, mode). Immutable once the run starts.
type Profile struct {
	Intensity     int
	Static        bool
	Workers       int
	Cadence       time.Duration
	Kinds         []Kind // one entry per worker
	Stride        int64  // sequential/mixed walk stride; 0 means page size
	WriteThenRead bool
	PacePerSec    int // per-worker pass pacing when Cadence is zero
}

// ProfileFor maps intensity (1..10) and mode onto a worker configuration.
// Static mode overrides the table entirely: one worker, long cadence,
// sequential touch only, regardless of intensity.
func ProfileFor(intensity int, static bool, cores int) Profile {
	if cores < 1 {
		cores = 1
	}

	if static {
		return Profile{
			Intensity: intensity,
			Static:    true,
			Workers:   1,
			Cadence:   cadenceLong,
			Kinds:     []Kind{Sequential},
		}
	}

	p := Profile{Intensity: intensity}
	switch {
	case intensity <= 3:
		p.Workers = 1
		p.Cadence = cadenceLong
		p.Kinds = kinds(p.Workers, func(int) Kind { return Sequential })

	case intensity <= 6:
		p.Workers = max(1, cores/2)
		p.Cadence = cadenceModerate
		// 50% sequential / 50% random
		p.Kinds = kinds(p.Workers, func(i int) Kind {
			if i%2 == 0 {
				return Sequential
			}
			return Random
		})

	case intensity <= 8:
		p.Workers = cores
		p.Cadence = cadenceShort
		p.Stride = strideOffPage
		// random-dominant: every fourth worker mixes in sequential walks
		p.Kinds = kinds(p.Workers, func(i int) Kind {
			if i%4 == 3 {
				return Mixed
			}
			return Random
		})

	default: // 9..10
		p.Workers = max(4, cores*2)
		p.Cadence = 0
		p.Stride = strideCacheHostile
		p.WriteThenRead = true
		p.PacePerSec = highIntensityPacePerSec
		p.Kinds = kinds(p.Workers, func(int) Kind { return Random })
	}
	return p
}

func kinds(n int, pick func(i int) Kind) []Kind {
	ks := make([]Kind, n)
	for i := range ks {
		ks[i] = pick(i)
	}
	return ks
}
