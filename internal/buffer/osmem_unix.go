//go:build linux || darwin

package buffer

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sys/unix"
)

// sysMemory is the production OSMemory backed by mmap/mlock.
type sysMemory struct {
	pageSize int
}

// NewSystemMemory returns the mmap/mlock-backed OSMemory.
func NewSystemMemory() OSMemory {
	return &sysMemory{pageSize: os.Getpagesize()}
}

func (s *sysMemory) Map(size int64) ([]byte, error) {
	data, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return data, nil
}

func (s *sysMemory) Unmap(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

func (s *sysMemory) Touch(data []byte, pattern byte) error {
	for i := 0; i < len(data); i += s.pageSize {
		data[i] = pattern
	}
	if n := len(data); n > 0 {
		data[n-1] = pattern
	}
	runtime.KeepAlive(data)
	return nil
}

func (s *sysMemory) LockAll() error {
	if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
		return fmt.Errorf("mlockall: %w", err)
	}
	return nil
}

func (s *sysMemory) UnlockAll() error {
	if err := unix.Munlockall(); err != nil {
		return fmt.Errorf("munlockall: %w", err)
	}
	return nil
}

func (s *sysMemory) Lock(data []byte) error {
	if err := unix.Mlock(data); err != nil {
		return fmt.Errorf("mlock: %w", err)
	}
	return nil
}

func (s *sysMemory) Unlock(data []byte) error {
	if err := unix.Munlock(data); err != nil {
		return fmt.Errorf("munlock: %w", err)
	}
	return nil
}

func (s *sysMemory) PageSize() int {
	return s.pageSize
}
