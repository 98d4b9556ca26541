// Package classify maps engine speed onto the small closed set of
// display states driving the LED strip.
package classify

import (
	"codeberg.org/halvor/revstrip/internal/errors"
)

// DisplayState is the visual state the strip renders. Exactly one state
// applies at any tick.
type DisplayState int

const (
	Idle DisplayState = iota
	Efficiency
	StallWarning
	PowerBand
	ShiftWarning
	RevLimit
	LinkError
)

func (s DisplayState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Efficiency:
		return "efficiency"
	case StallWarning:
		return "stall_warning"
	case PowerBand:
		return "power_band"
	case ShiftWarning:
		return "shift_warning"
	case RevLimit:
		return "rev_limit"
	case LinkError:
		return "link_error"
	default:
		return "unknown"
	}
}

// Zones holds the six calibration thresholds that partition the RPM axis.
// Bounds are inclusive; each zone starts one above the previous zone's max.
type Zones struct {
	StallMax      uint32 // 0..StallMax -> StallWarning
	EfficiencyMax uint32 // StallMax+1..EfficiencyMax -> Efficiency
	PowerBandMax  uint32 // EfficiencyMax+1..PowerBandMax -> PowerBand
	ShiftMax      uint32 // PowerBandMax+1..ShiftMax -> ShiftWarning, above -> RevLimit
	MaxValidRPM   uint32 // decode sanity bound, not a display zone
	StationaryMax uint32 // vehicle speed (km/h) at or below which the vehicle is stationary
}

// DefaultZones returns the stock vehicle calibration.
func DefaultZones() Zones {
	return Zones{
		StallMax:      1999,
		EfficiencyMax: 2500,
		PowerBandMax:  4500,
		ShiftMax:      7199,
		MaxValidRPM:   12000,
		StationaryMax: 3,
	}
}

// Validate checks that the thresholds are strictly increasing so the
// zones stay disjoint and contiguous.
func (z Zones) Validate() error {
	errFactory := errors.New()

	if !(z.StallMax < z.EfficiencyMax && z.EfficiencyMax < z.PowerBandMax && z.PowerBandMax < z.ShiftMax) {
		return errFactory.WithData(errors.ErrInvalidZones, z)
	}
	if z.MaxValidRPM <= z.ShiftMax {
		return errFactory.WithData(errors.ErrInvalidZones, "max valid RPM below shift zone")
	}

	return nil
}

// Classify maps an RPM reading and the stationary flag onto a display
// state. Total over all RPM values: every input maps to exactly one
// state. Stationary forces Idle regardless of RPM. Link degradation is
// handled by the caller, which forces LinkError before ever consulting
// the classifier.
func Classify(rpm uint32, stationary bool, z Zones) DisplayState {
	if stationary {
		return Idle
	}

	switch {
	case rpm <= z.StallMax:
		return StallWarning
	case rpm <= z.EfficiencyMax:
		return Efficiency
	case rpm <= z.PowerBandMax:
		return PowerBand
	case rpm <= z.ShiftMax:
		return ShiftWarning
	default:
		return RevLimit
	}
}

// ForTick resolves the display state for one render tick. Link
// degradation takes absolute priority. Before the first sample arrives
// the strip shows the idle reveal rather than an error, since the
// monitor has not yet had a chance to judge the link.
func ForTick(degraded, haveSample bool, rpm uint32, stationary bool, z Zones) DisplayState {
	if degraded {
		return LinkError
	}
	if !haveSample {
		return Idle
	}

	return Classify(rpm, stationary, z)
}
