package canbus

import (
	"math"
	"sync"
	"time"

	"github.com/brutella/can"
)

const (
	demoFramePeriod = 20 * time.Millisecond
	demoIdleRPM     = 850
	demoSweepRange  = 6800
	demoTopSpeed    = 180
)

// DemoController synthesizes an engine-speed sweep so the strip can be
// exercised on a bench without a vehicle. It produces the same frames
// the real bus would carry, through the same handler path.
type DemoController struct {
	mu     sync.Mutex
	stop   chan struct{}
	done   chan struct{}
	resets uint64
}

func NewDemoController() *DemoController {
	return &DemoController{}
}

// Start begins emitting frames at the bus broadcast rate.
func (d *DemoController) Start(handler func(can.Frame)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stop != nil {
		return nil
	}
	d.stop = make(chan struct{})
	d.done = make(chan struct{})

	go d.run(handler, d.stop, d.done)

	return nil
}

func (d *DemoController) run(handler func(can.Frame), stop chan struct{}, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(demoFramePeriod)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			t := now.Sub(start).Seconds()
			handler(demoFrame(t))
		}
	}
}

// demoFrame sweeps RPM between idle and the rev limiter and derives a
// vehicle speed from it, holding a stationary phase at the start of
// each cycle so every display state gets exercised.
func demoFrame(t float64) can.Frame {
	s := math.Sin(t * 0.3)
	rpm := uint32(demoIdleRPM + demoSweepRange*s*s)

	speed := uint32(0)
	if phase := math.Mod(t, 40); phase > 8 {
		speed = uint32(float64(demoTopSpeed) * s * s)
	}

	return EncodeSample(rpm, speed)
}

// Reset restarts the sweep; on the demo source this only counts the
// request so tests and logs can observe reinit behavior.
func (d *DemoController) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resets++

	return nil
}

// Close stops the frame generator.
func (d *DemoController) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stop == nil {
		return nil
	}
	close(d.stop)
	<-d.done
	d.stop = nil
	d.done = nil

	return nil
}
