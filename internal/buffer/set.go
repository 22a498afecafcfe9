package buffer

// Set is the ordered collection of chunks for one run, in allocation order.
// Structure is mutated only during the Allocating and ShuttingDown phases;
// while the run is live the Set is structurally immutable and only chunk
// contents change.
type Set struct {
	chunks      []*Chunk
	targetBytes int64
}

func newSet(targetBytes int64) *Set {
	return &Set{targetBytes: targetBytes}
}

func (s *Set) append(c *Chunk) {
	s.chunks = append(s.chunks, c)
}

// Chunks returns the chunk slice. Callers must not grow or reorder it.
func (s *Set) Chunks() []*Chunk {
	return s.chunks
}

func (s *Set) Len() int {
	return len(s.chunks)
}

func (s *Set) TargetBytes() int64 {
	return s.targetBytes
}

// AchievedBytes sums the sizes of chunks that reached at least Touched,
// the observable measure of progress toward the target.
func (s *Set) AchievedBytes() int64 {
	var sum int64
	for _, c := range s.chunks {
		if c.State().Resident() {
			sum += c.Size()
		}
	}
	return sum
}
