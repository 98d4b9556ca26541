package canbus

import (
	"time"
)

const (
	// DefaultStaleTimeout is how long the engine feed may go silent
	// before the link is declared degraded. The broadcast arrives every
	// 10-20ms on a healthy bus, so half a second of silence means the
	// bus or the controller is gone, not just a dropped frame.
	DefaultStaleTimeout = 500 * time.Millisecond

	// DefaultErrorThreshold is the run of consecutive rejected frames
	// that degrades the link even while frames keep arriving.
	DefaultErrorThreshold = 10
)

// LinkHealth is the monitor's view of the engine feed at one tick.
type LinkHealth struct {
	LastValidFrame    time.Time
	ConsecutiveErrors int
	Degraded          bool
}

// Monitor watches the reader's frame clock and error run and decides
// when the link is degraded. It is driven from the render tick only;
// Tick is not safe for concurrent use.
type Monitor struct {
	reader       *Reader
	staleTimeout time.Duration
	errThreshold int

	wasDegraded bool
	reinits     uint64
}

// NewMonitor creates a monitor over the given reader with the default
// staleness window and error threshold.
func NewMonitor(reader *Reader) *Monitor {
	return &Monitor{
		reader:       reader,
		staleTimeout: DefaultStaleTimeout,
		errThreshold: DefaultErrorThreshold,
	}
}

// NewMonitorWithLimits creates a monitor with explicit limits.
func NewMonitorWithLimits(reader *Reader, staleTimeout time.Duration, errThreshold int) *Monitor {
	return &Monitor{
		reader:       reader,
		staleTimeout: staleTimeout,
		errThreshold: errThreshold,
	}
}

// Tick evaluates link health at the given instant. The second return is
// true exactly once per degradation episode, on the tick the link goes
// down; the caller uses it to reinitialize the bus controller without
// resetting it level-triggered every tick. Recovery needs no edge: the
// next accepted frame resets the error run and clears the flag.
func (m *Monitor) Tick(now time.Time) (LinkHealth, bool) {
	health := LinkHealth{
		LastValidFrame:    m.reader.LastValidFrame(),
		ConsecutiveErrors: m.reader.ConsecutiveErrors(),
	}

	health.Degraded = now.Sub(health.LastValidFrame) > m.staleTimeout ||
		health.ConsecutiveErrors > m.errThreshold

	reinit := health.Degraded && !m.wasDegraded
	m.wasDegraded = health.Degraded
	if reinit {
		m.reinits++
	}

	return health, reinit
}

// Reinits returns how many degradation episodes have triggered a bus
// reinitialization since startup.
func (m *Monitor) Reinits() uint64 {
	return m.reinits
}
