package help

import (
	"time"

	"github.com/jawsmem/jaws/config"
)

// Cfg returns a tiny explicit-target configuration safe to run unprivileged
// on any CI box: 4MB held in 1MB chunks, lowest intensity, short monitor
// period.
func Cfg() *config.Config {
	c := &config.Config{
		Target:    config.Size(4 * 1024 * 1024),
		ChunkSize: config.Size(1024 * 1024),
		Intensity: 1,
		Alloc: config.AllocCfg{
			MinChunk:    config.Size(256 * 1024),
			MaxAttempts: 3,
		},
		Shutdown: config.ShutdownCfg{
			Timeout: 5 * time.Second,
		},
		Monitor: &config.MonitorCfg{
			Interval: 200 * time.Millisecond,
		},
	}
	c.Adjust()
	return c
}

// StaticCfg holds the same tiny buffer with the single-worker sequential
// profile.
func StaticCfg() *config.Config {
	c := Cfg()
	c.Static = true
	return c
}

// BoundedCfg runs for a fixed short duration instead of waiting for a
// signal.
func BoundedCfg(d time.Duration) *config.Config {
	c := Cfg()
	c.Duration = d
	return c
}

// NoMonitorCfg disables sampling and swap-triggered relocking.
func NoMonitorCfg() *config.Config {
	c := Cfg()
	c.Monitor = nil
	return c
}
