package engine

import "sync/atomic"

type engineCounters struct {
	passes       atomic.Int64
	bytesWritten atomic.Int64
	bytesRead    atomic.Int64
	checksum     atomic.Uint64 // read-back sink; keeps reads observable
}

func newEngineCounters() *engineCounters {
	return &engineCounters{}
}

// Metrics is a point-in-time copy of the engine counters.
type Metrics struct {
	Passes       int64
	BytesWritten int64
	BytesRead    int64
}

func (c *engineCounters) snapshot() Metrics {
	return Metrics{
		Passes:       c.passes.Load(),
		BytesWritten: c.bytesWritten.Load(),
		BytesRead:    c.bytesRead.Load(),
	}
}
