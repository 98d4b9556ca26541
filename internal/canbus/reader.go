package canbus

import (
	"sync/atomic"
	"time"

	"github.com/brutella/can"
)

// Stats are the reader's lifetime counters, safe to read from any
// goroutine.
type Stats struct {
	FramesSeen     uint64
	FramesRejected uint64
	FramesIgnored  uint64
}

// Reader decodes engine-speed frames off the bus handler goroutine and
// hands the latest sample to the render tick through an atomic cell.
// Single writer (the bus handler), any number of readers; no locks on
// either side.
type Reader struct {
	frameID uint32
	maxRPM  uint32
	now     func() time.Time

	latest       atomic.Pointer[TelemetrySample]
	lastValid    atomic.Int64 // unix nanos of the last accepted frame
	consecErrors atomic.Int32

	framesSeen     atomic.Uint64
	framesRejected atomic.Uint64
	framesIgnored  atomic.Uint64
}

// NewReader creates a reader for the given broadcast identifier.
// Decoded RPM above maxRPM is rejected as a corrupt frame.
func NewReader(frameID, maxRPM uint32) *Reader {
	r := &Reader{
		frameID: frameID,
		maxRPM:  maxRPM,
		now:     time.Now,
	}
	r.lastValid.Store(time.Now().UnixNano())

	return r
}

// Handle processes one bus frame. It is the subscription callback and
// runs on the bus goroutine: bounded work, no blocking, no allocation
// beyond the published sample.
func (r *Reader) Handle(frm can.Frame) {
	// Other traffic on a shared bus is not an error in the engine feed.
	if frm.ID != r.frameID {
		r.framesIgnored.Add(1)
		return
	}

	r.framesSeen.Add(1)

	sample, err := DecodeSample(frm, r.maxRPM, r.now())
	if err != nil {
		r.framesRejected.Add(1)
		r.consecErrors.Add(1)
		return
	}

	r.latest.Store(&sample)
	r.lastValid.Store(sample.Timestamp.UnixNano())
	r.consecErrors.Store(0)
}

// Latest returns the most recently accepted sample, or nil before the
// first valid frame. The returned sample is immutable.
func (r *Reader) Latest() *TelemetrySample {
	return r.latest.Load()
}

// LastValidFrame returns when the last frame was accepted.
func (r *Reader) LastValidFrame() time.Time {
	return time.Unix(0, r.lastValid.Load())
}

// ConsecutiveErrors returns the current run of rejected frames.
func (r *Reader) ConsecutiveErrors() int {
	return int(r.consecErrors.Load())
}

// Stats returns the lifetime frame counters.
func (r *Reader) Stats() Stats {
	return Stats{
		FramesSeen:     r.framesSeen.Load(),
		FramesRejected: r.framesRejected.Load(),
		FramesIgnored:  r.framesIgnored.Load(),
	}
}
