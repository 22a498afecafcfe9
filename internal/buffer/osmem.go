package buffer

// OSMemory abstracts the platform memory primitives so the manager's
// retry/fallback policy can be exercised in tests without privileges or
// real allocations.
type OSMemory interface {
	// Map returns an anonymous private mapping of size bytes.
	Map(size int64) ([]byte, error)

	// Unmap releases a mapping returned by Map.
	Unmap(data []byte) error

	// Touch writes pattern at every page-sized stride, forcing physical
	// commitment of the region. Must run before locking: mlock only pins
	// pages that are already resident.
	Touch(data []byte, pattern byte) error

	// LockAll pins all current and future mappings of the process.
	LockAll() error

	// UnlockAll undoes LockAll.
	UnlockAll() error

	// Lock pins a single region.
	Lock(data []byte) error

	// Unlock unpins a single region.
	Unlock(data []byte) error

	PageSize() int
}
