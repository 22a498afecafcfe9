package monitor

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcStats is one residency/CPU sample for the running process.
type ProcStats struct {
	ResidentBytes uint64
	SwappedBytes  uint64
	CPUPercent    float64
}

// StatSource produces process-level samples.
type StatSource interface {
	Sample() (ProcStats, error)
}

type processSource struct {
	proc *process.Process
}

// NewProcessSource samples the current process via the OS process table.
func NewProcessSource() (StatSource, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("open process stats: %w", err)
	}
	return &processSource{proc: p}, nil
}

func (s *processSource) Sample() (ProcStats, error) {
	mi, err := s.proc.MemoryInfo()
	if err != nil {
		return ProcStats{}, fmt.Errorf("memory info: %w", err)
	}

	// interval 0 reports utilization since the previous call, which lines
	// up with the monitor period
	cpu, err := s.proc.Percent(0)
	if err != nil {
		cpu = 0
	}

	return ProcStats{
		ResidentBytes: mi.RSS,
		SwappedBytes:  mi.Swap,
		CPUPercent:    cpu,
	}, nil
}
