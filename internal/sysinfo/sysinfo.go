// Package sysinfo wraps the platform collaborators: total-memory query,
// privilege probing and best-effort process hints. Nothing here mutates
// persistent system configuration; tuning files (swappiness, memlock
// limits) belong to the operator, before and after a run.
package sysinfo

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/mem"
)

// TotalMemory returns total physical memory in bytes. The process table
// query is preferred; /proc/meminfo is the fallback when it is
// unavailable.
func TotalMemory() (int64, error) {
	vm, err := mem.VirtualMemory()
	if err == nil && vm.Total > 0 {
		return int64(vm.Total), nil
	}
	return meminfoTotal("/proc/meminfo")
}

func meminfoTotal(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		keyval := strings.SplitN(line, ":", 2)
		if len(keyval) != 2 || keyval[0] != "MemTotal" {
			continue
		}
		valunit := strings.Fields(strings.TrimSpace(keyval[1]))
		if len(valunit) != 2 || valunit[1] != "kB" {
			return 0, fmt.Errorf("unexpected MemTotal format: %q", line)
		}
		kb, err := strconv.ParseInt(valunit[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse MemTotal: %w", err)
		}
		return kb * 1024, nil
	}
	return 0, fmt.Errorf("MemTotal not found in %s", path)
}

func PageSize() int {
	return os.Getpagesize()
}
