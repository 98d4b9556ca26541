package render

import (
	"math"
	"time"

	"codeberg.org/halvor/revstrip/internal/classify"
	"codeberg.org/halvor/revstrip/internal/errors"
)

const (
	// Idle/LinkError sequential reveal advances one cell per step.
	revealStep = 120 * time.Millisecond

	// StallWarning pulse.
	stallPeriod        = 1200 * time.Millisecond
	stallBrightnessMin = 40
	stallBrightnessMax = 255

	// ShiftWarning flash half-period bounds. The half-period shrinks
	// linearly from slow at the zone floor to fast at the zone ceiling.
	flashSlow = 160 * time.Millisecond
	flashFast = 40 * time.Millisecond

	// Efficiency lights this many cells at each end of the strip.
	efficiencyCellsPerSide = 2
	efficiencyBrightness   = 120
)

// Context carries everything a render call depends on. The engine is a
// pure function of this value: same context, same buffer, no hidden
// state between ticks.
type Context struct {
	State    classify.DisplayState
	RPM      uint32
	Now      time.Duration // elapsed monotonic time since engine start
	Sequence Sequence
}

// Engine computes the per-cell color/brightness buffer for a tick.
type Engine struct {
	cells int
	zones classify.Zones
}

// NewEngine creates an engine for a strip of the given cell count.
func NewEngine(cells int, zones classify.Zones) (*Engine, error) {
	errFactory := errors.New()

	if cells < 2 {
		return nil, errFactory.WithData(ErrInvalidCellCount, cells)
	}
	if err := zones.Validate(); err != nil {
		return nil, err
	}

	return &Engine{cells: cells, zones: zones}, nil
}

// Cells returns the strip length the engine renders for.
func (e *Engine) Cells() int {
	return e.cells
}

// SetZones swaps the calibration without rebuilding the engine, so a
// configuration update on the low-rate link takes effect on the next
// tick.
func (e *Engine) SetZones(zones classify.Zones) error {
	if err := zones.Validate(); err != nil {
		return err
	}
	e.zones = zones

	return nil
}

// Render produces the buffer for one tick. Unlit cells are zeroed; the
// caller hands the buffer to the output driver and discards it.
func (e *Engine) Render(ctx Context) CellBuffer {
	buf := make(CellBuffer, e.cells)

	switch ctx.State {
	case classify.Idle:
		e.renderReveal(buf, ctx, ColorIdle)
	case classify.LinkError:
		e.renderReveal(buf, ctx, ColorLinkError)
	case classify.Efficiency:
		e.renderEfficiency(buf)
	case classify.StallWarning:
		e.renderStall(buf, ctx)
	case classify.PowerBand:
		e.renderPowerBand(buf, ctx)
	case classify.ShiftWarning:
		e.renderShift(buf, ctx)
	case classify.RevLimit:
		e.renderRevLimit(buf)
	}

	return buf
}

// renderReveal is the sequential "pepper" reveal: the position walks
// out one whole cell per fixed step and wraps. Time-driven only, RPM
// plays no part.
func (e *Engine) renderReveal(buf CellBuffer, ctx Context, c Color) {
	travel := span(e.cells, ctx.Sequence)
	steps := int64(ctx.Now/revealStep) % int64(travel+1)
	applyFill(buf, steps*posScale, ctx.Sequence, c)
}

func (e *Engine) renderEfficiency(buf CellBuffer) {
	for i := 0; i < efficiencyCellsPerSide && i < len(buf); i++ {
		buf[i] = Cell{Color: ColorEfficiency, Brightness: efficiencyBrightness}
		buf[len(buf)-1-i] = Cell{Color: ColorEfficiency, Brightness: efficiencyBrightness}
	}
}

// renderStall pulses position and brightness on one sinusoid. RPM only
// gates the state; the waveform is purely time-driven and recomputed
// from the clock each tick.
func (e *Engine) renderStall(buf CellBuffer, ctx Context) {
	w := sineWave(ctx.Now, stallPeriod) // fixed-point 0..posScale

	travel := int64(span(e.cells, ctx.Sequence))
	pos := travel * w

	brightness := int64(stallBrightnessMin + (stallBrightnessMax-stallBrightnessMin)*w/posScale)

	applyFill(buf, pos, ctx.Sequence, ColorStall)
	for i := range buf {
		if buf[i].Brightness > 0 {
			buf[i].Brightness = uint8(int64(buf[i].Brightness) * brightness / fullBrightness)
		}
	}
}

func (e *Engine) renderPowerBand(buf CellBuffer, ctx Context) {
	zoneMin := e.zones.EfficiencyMax + 1
	zoneMax := e.zones.PowerBandMax

	pos := FillPosition(ctx.RPM, zoneMin, zoneMax, span(e.cells, ctx.Sequence))
	maxPos := int64(span(e.cells, ctx.Sequence)) * posScale

	c := blend3(ColorPowerLow, ColorPowerMid, ColorPowerHigh, pos, maxPos)
	applyFill(buf, pos, ctx.Sequence, c)
}

func (e *Engine) renderShift(buf CellBuffer, ctx Context) {
	zoneMin := e.zones.PowerBandMax + 1
	zoneMax := e.zones.ShiftMax

	pos := FillPosition(ctx.RPM, zoneMin, zoneMax, span(e.cells, ctx.Sequence))
	applyFill(buf, pos, ctx.Sequence, ColorPowerHigh)

	// The gap ahead of the bars flashes between the two shift colors,
	// accelerating with RPM. The fractional boundary cell belongs to
	// the fill, not the gap.
	gapStart := int(pos / posScale)
	if pos%posScale >= fracFloor {
		gapStart++
	}

	c := ColorShiftA
	if flashPhase(ctx.Now, FlashHalfPeriod(ctx.RPM, zoneMin, zoneMax)) {
		c = ColorShiftB
	}

	for _, i := range unfilled(e.cells, gapStart, ctx.Sequence) {
		buf[i] = Cell{Color: c, Brightness: fullBrightness}
	}
}

func (e *Engine) renderRevLimit(buf CellBuffer) {
	for i := range buf {
		buf[i] = Cell{Color: ColorRevLimit, Brightness: fullBrightness}
	}
}

// FillPosition maps RPM onto the fill travel in milli-cells: 0 at the
// zone floor, travel*1000 at the zone ceiling, strictly monotonic in
// between. Integer math throughout.
func FillPosition(rpm, zoneMin, zoneMax uint32, travel int) int64 {
	if zoneMax <= zoneMin {
		return 0
	}
	if rpm <= zoneMin {
		return 0
	}
	if rpm >= zoneMax {
		return int64(travel) * posScale
	}

	return int64(rpm-zoneMin) * int64(travel) * posScale / int64(zoneMax-zoneMin)
}

// FlashHalfPeriod interpolates the shift flasher's half-period between
// the slow and fast bounds across the zone. Strictly decreasing in RPM,
// clamped at the bounds.
func FlashHalfPeriod(rpm, zoneMin, zoneMax uint32) time.Duration {
	if rpm <= zoneMin || zoneMax <= zoneMin {
		return flashSlow
	}
	if rpm >= zoneMax {
		return flashFast
	}

	spread := int64(flashSlow - flashFast)
	return flashSlow - time.Duration(spread*int64(rpm-zoneMin)/int64(zoneMax-zoneMin))
}

// sineWave evaluates (sin(2*pi*t/period)+1)/2 as fixed-point 0..posScale,
// recomputed from the clock each call.
func sineWave(now time.Duration, period time.Duration) int64 {
	phase := float64(now%period) / float64(period)
	w := (math.Sin(2*math.Pi*phase) + 1) / 2

	return int64(w * posScale)
}

// flashPhase reports which half of the flash cycle the clock is in.
func flashPhase(now time.Duration, halfPeriod time.Duration) bool {
	if halfPeriod <= 0 {
		return false
	}

	return (now/halfPeriod)%2 == 1
}
