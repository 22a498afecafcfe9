//go:build linux || darwin

package sysinfo

import (
	"os"

	"golang.org/x/sys/unix"
)

// PrivilegeReport describes what the locking path can expect. It is
// advisory: insufficient privilege degrades locking rather than aborting
// the run.
type PrivilegeReport struct {
	EUID       int
	Root       bool
	MemlockCur uint64
	MemlockMax uint64
	MemlockInf bool
}

// Probe inspects effective UID and the locked-memory resource limit.
func Probe() PrivilegeReport {
	r := PrivilegeReport{EUID: os.Geteuid()}
	r.Root = r.EUID == 0

	var lim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &lim); err == nil {
		r.MemlockCur = uint64(lim.Cur)
		r.MemlockMax = uint64(lim.Max)
		r.MemlockInf = lim.Cur == unix.RLIM_INFINITY
	}
	return r
}
