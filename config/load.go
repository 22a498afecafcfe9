package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid marks configuration errors. They are always detected before
// any privileged action and abort startup.
var ErrInvalid = errors.New("invalid config")

const (
	DefaultChunkSize    = Size(100 * 1024 * 1024)
	DefaultIntensity    = 5
	DefaultMinChunk     = Size(1024 * 1024)
	DefaultMaxAttempts  = 5
	DefaultStopTimeout  = 5 * time.Second
	DefaultSampleEvery  = 5 * time.Second
	DefaultNiceness     = -10
	DefaultOOMScoreAdj  = -1000
)

// Default returns a runnable configuration for the given percent.
func Default(percent int) *Config {
	cfg := &Config{
		Percent: percent,
		Monitor: &MonitorCfg{},
		Hints:   &HintsCfg{Niceness: DefaultNiceness, OOMScoreAdj: DefaultOOMScoreAdj},
	}
	cfg.Adjust()
	return cfg
}

// Load reads and validates a yaml configuration file.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	var cfg *Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	cfg.Adjust()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Adjust fills derived and defaulted fields. It never overrides a value the
// operator set explicitly.
func (cfg *Config) Adjust() {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Intensity == 0 {
		cfg.Intensity = DefaultIntensity
	}
	if cfg.Alloc.MinChunk <= 0 {
		cfg.Alloc.MinChunk = DefaultMinChunk
	}
	if cfg.Alloc.MaxAttempts <= 0 {
		cfg.Alloc.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Shutdown.Timeout <= 0 {
		cfg.Shutdown.Timeout = DefaultStopTimeout
	}
	if cfg.Monitor.Enabled() && cfg.Monitor.Interval <= 0 {
		cfg.Monitor.Interval = DefaultSampleEvery
	}
}

// Validate checks the record before anything privileged happens.
func (cfg *Config) Validate() error {
	if cfg.Target <= 0 {
		if cfg.Percent < 1 || cfg.Percent > 95 {
			return fmt.Errorf("%w: percent %d outside 1..95", ErrInvalid, cfg.Percent)
		}
	}
	if cfg.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", ErrInvalid, cfg.ChunkSize)
	}
	if cfg.Intensity < 1 || cfg.Intensity > 10 {
		return fmt.Errorf("%w: intensity %d outside 1..10", ErrInvalid, cfg.Intensity)
	}
	if cfg.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", ErrInvalid)
	}
	if cfg.Alloc.MinChunk > cfg.ChunkSize {
		return fmt.Errorf("%w: alloc.min_chunk %d exceeds chunk_size %d", ErrInvalid, cfg.Alloc.MinChunk, cfg.ChunkSize)
	}
	if cfg.Monitor.Enabled() && cfg.Monitor.Interval <= 0 {
		return fmt.Errorf("%w: monitor.interval must be positive", ErrInvalid)
	}
	return nil
}
