package engine

import (
	"context"
	"time"

	"github.com/jawsmem/jaws/internal/buffer"
	"github.com/jawsmem/jaws/internal/shared/random"
	"github.com/jawsmem/jaws/internal/shared/rate"
)

// worker executes pattern passes over the buffer in an independent loop.
// Workers pick chunks freely, so their ranges overlap other workers'
// without coordination; the resulting data races on chunk contents are
// intentional and harmless, residency being the only thing that matters.
type worker struct {
	id       int
	kind     Kind
	prof     Profile
	set      *buffer.Set
	counters *engineCounters
	pacer    *rate.Jitter
	pageSize int
}

func (w *worker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.pass()
		w.counters.passes.Add(1)

		switch {
		case w.prof.Cadence > 0:
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.prof.Cadence):
			}
		case w.pacer != nil:
			select {
			case <-ctx.Done():
				return
			case <-w.pacer.Chan():
			}
		}
	}
}

// pass touches one chunk according to the worker's pattern kind.
func (w *worker) pass() {
	chunks := w.set.Chunks()
	if len(chunks) == 0 {
		return
	}
	c := chunks[random.Intn(len(chunks))]
	if !c.State().Resident() {
		return
	}
	data := c.Data()
	if len(data) == 0 {
		return
	}

	switch w.kind {
	case Sequential:
		w.sequentialPass(data)
	case Random:
		w.randomPass(data)
	case Mixed:
		w.sequentialPass(data)
		w.randomPass(data)
	}
}

func (w *worker) stride() int64 {
	if w.prof.Stride > 0 {
		return w.prof.Stride
	}
	return int64(w.pageSize)
}

// sequentialPass walks the chunk start to end at the profile stride,
// bumping one byte per step.
func (w *worker) sequentialPass(data []byte) {
	stride := w.stride()
	size := int64(len(data))

	var written int64
	for off := int64(0); off < size; off += stride {
		data[off]++
		written++
	}
	w.counters.bytesWritten.Add(written)
}

// randomPass draws one offset per page worth of chunk, writing and, at the
// highest intensities, reading the byte straight back.
func (w *worker) randomPass(data []byte) {
	size := int64(len(data))
	draws := size / int64(w.pageSize)
	if draws < 1 {
		draws = 1
	}

	var sink uint64
	var written, read int64
	for i := int64(0); i < draws; i++ {
		off := random.Int64n(size)
		data[off]++
		written++
		if w.prof.WriteThenRead {
			sink += uint64(data[off])
			read++
		}
	}
	w.counters.bytesWritten.Add(written)
	if read > 0 {
		w.counters.bytesRead.Add(read)
		w.counters.checksum.Add(sink)
	}
}
