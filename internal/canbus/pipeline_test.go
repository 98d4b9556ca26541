package canbus

import (
	"testing"
	"time"

	"codeberg.org/halvor/revstrip/internal/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resolveTick runs one scheduler pass: health first, then
// classification, exactly as the render loop does.
func resolveTick(t *testing.T, r *Reader, m *Monitor, now time.Time, z classify.Zones) (classify.DisplayState, bool) {
	t.Helper()

	health, reinit := m.Tick(now)
	sample := r.Latest()

	var rpm uint32
	stationary := false
	if sample != nil {
		rpm = sample.RPM
		stationary = sample.Stationary(z.StationaryMax)
	}

	return classify.ForTick(health.Degraded, sample != nil, rpm, stationary, z), reinit
}

// A frame stream ramping from 1000 to 8000 rpm over 5 seconds must walk
// the zones in order with no other states and no reordering.
func TestScenarioRPMRamp(t *testing.T) {
	clock := newFakeClock()
	r := newTestReader(clock)
	m := NewMonitor(r)
	z := classify.DefaultZones()

	var states []classify.DisplayState
	var last classify.DisplayState = -1

	const frames = 250 // 5s at 20ms
	for i := 0; i <= frames; i++ {
		now := clock.Advance(20 * time.Millisecond)
		rpm := uint32(1000 + 7000*i/frames)
		r.Handle(EncodeSample(rpm, 60))

		state, reinit := resolveTick(t, r, m, now, z)
		require.False(t, reinit, "healthy stream must never reinit the bus")
		if state != last {
			states = append(states, state)
			last = state
		}
	}

	assert.Equal(t, []classify.DisplayState{
		classify.StallWarning,
		classify.Efficiency,
		classify.PowerBand,
		classify.ShiftWarning,
		classify.RevLimit,
	}, states)
}

// Silence on the bus longer than the staleness window must surface as
// LinkError with exactly one reinit; a single valid frame afterwards
// clears the error on that same tick.
func TestScenarioLinkLossAndRecovery(t *testing.T) {
	clock := newFakeClock()
	r := newTestReader(clock)
	m := NewMonitor(r)
	z := classify.DefaultZones()

	r.Handle(EncodeSample(3000, 60))
	state, _ := resolveTick(t, r, m, clock.Advance(20*time.Millisecond), z)
	require.Equal(t, classify.PowerBand, state)

	reinits := 0
	sawError := false
	for elapsed := time.Duration(0); elapsed < 2*DefaultStaleTimeout; elapsed += 20 * time.Millisecond {
		state, reinit := resolveTick(t, r, m, clock.Advance(20*time.Millisecond), z)
		if reinit {
			reinits++
		}
		if state == classify.LinkError {
			sawError = true
		}
	}
	assert.True(t, sawError)
	assert.Equal(t, 1, reinits, "one reinit per degradation episode")

	clock.Advance(20 * time.Millisecond)
	r.Handle(EncodeSample(3200, 60))
	state, reinit := resolveTick(t, r, m, clock.Now(), z)
	assert.False(t, reinit)
	assert.Equal(t, classify.PowerBand, state, "recovery on the tick the frame arrives")
}

func TestDemoControllerProducesDecodableFrames(t *testing.T) {
	for _, tSec := range []float64{0, 1.5, 4, 9, 20, 33} {
		frm := demoFrame(tSec)
		sample, err := DecodeSample(frm, testMaxRPM, time.Now())
		require.NoError(t, err, "t=%v", tSec)
		assert.LessOrEqual(t, sample.RPM, uint32(demoIdleRPM+demoSweepRange))
		assert.True(t, sample.SpeedKnown)
	}
}
