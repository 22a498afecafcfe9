package config

import (
	"time"

	"github.com/jawsmem/jaws/internal/shared/bytes"
	"gopkg.in/yaml.v3"
)

// Size is a byte count that unmarshals from human strings ("100MB", "2G")
// as well as bare numbers.
type Size int64

func (s *Size) UnmarshalYAML(value *yaml.Node) error {
	n, err := bytes.ParseSize(value.Value)
	if err != nil {
		return err
	}
	*s = Size(n)
	return nil
}

// Config is the validated configuration record the library consumes.
// Command-line parsing and system-wide tuning live outside; by the time a
// Config reaches jaws.New it must already be validated.
type Config struct {
	// Percent of total system memory to reserve. Allowed range is 1..95.
	Percent int `yaml:"percent"`

	// Target optionally pins an explicit byte target instead of a percent.
	// When nonzero it takes precedence over Percent. Mainly an operator and
	// test override; normal runs use Percent.
	Target Size `yaml:"target"`

	// ChunkSize is the allocation and locking granularity.
	ChunkSize Size `yaml:"chunk_size"`

	// Intensity (1..10) drives worker count, cadence and pattern randomness.
	Intensity int `yaml:"intensity"`

	// Static overrides the intensity table entirely: one worker, long
	// cadence, sequential touch only. Minimal CPU, residency preserved.
	Static bool `yaml:"static"`

	// Duration bounds the run. Zero means run until a termination signal.
	Duration time.Duration `yaml:"duration"`

	// Alloc tunes the degraded-allocation policy.
	Alloc AllocCfg `yaml:"alloc"`

	// Shutdown bounds worker teardown.
	Shutdown ShutdownCfg `yaml:"shutdown"`

	// Monitor configures periodic residency/CPU reporting.
	// If nil, monitoring and swap-triggered relocking are disabled.
	Monitor *MonitorCfg `yaml:"monitor"`

	// Hints configures best-effort process priority and OOM-score
	// adjustment. If nil, no hints are applied.
	Hints *HintsCfg `yaml:"hints"`
}

type AllocCfg struct {
	// MinChunk is the floor the halving retry policy stops at.
	MinChunk Size `yaml:"min_chunk"`

	// MaxAttempts bounds halving retries per planned chunk.
	MaxAttempts int `yaml:"max_attempts"`
}

type ShutdownCfg struct {
	// Timeout bounds the wait for workers to observe cancellation.
	// Exceeding it is fatal and forces termination.
	Timeout time.Duration `yaml:"timeout"`
}

type MonitorCfg struct {
	// Interval between status samples.
	Interval time.Duration `yaml:"interval"`
}

func (cfg *MonitorCfg) Enabled() bool {
	return cfg != nil
}

type HintsCfg struct {
	// Niceness is the process priority to request. Negative values raise
	// priority and usually require root.
	Niceness int `yaml:"niceness"`

	// OOMScoreAdj is written to /proc/self/oom_score_adj. -1000 makes the
	// process effectively unkillable by the OOM killer.
	OOMScoreAdj int `yaml:"oom_score_adj"`
}

func (cfg *HintsCfg) Enabled() bool {
	return cfg != nil
}
