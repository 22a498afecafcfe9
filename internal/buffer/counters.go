package buffer

import "sync/atomic"

type managerCounters struct {
	mapCalls       atomic.Int64 // Map attempts, successful or not
	mapRetries     atomic.Int64 // denials answered with a halved size
	failedSpans    atomic.Int64 // planned chunks whose retries exhausted
	shortfallBytes atomic.Int64 // bytes abandoned after exhausted retries
	touchedBytes   atomic.Int64
	locked         atomic.Int64
	degraded       atomic.Int64
	relockAttempts atomic.Int64
	relocked       atomic.Int64
	relockFailures atomic.Int64
}

func newManagerCounters() *managerCounters {
	return &managerCounters{}
}

// Metrics is a point-in-time copy of the manager counters.
type Metrics struct {
	MapCalls       int64
	MapRetries     int64
	FailedSpans    int64
	ShortfallBytes int64
	TouchedBytes   int64
	Locked         int64
	Degraded       int64
	RelockAttempts int64
	Relocked       int64
	RelockFailures int64
}

func (c *managerCounters) snapshot() Metrics {
	return Metrics{
		MapCalls:       c.mapCalls.Load(),
		MapRetries:     c.mapRetries.Load(),
		FailedSpans:    c.failedSpans.Load(),
		ShortfallBytes: c.shortfallBytes.Load(),
		TouchedBytes:   c.touchedBytes.Load(),
		Locked:         c.locked.Load(),
		Degraded:       c.degraded.Load(),
		RelockAttempts: c.relockAttempts.Load(),
		Relocked:       c.relocked.Load(),
		RelockFailures: c.relockFailures.Load(),
	}
}
