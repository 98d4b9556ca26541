package render

// Color is an 8-bit RGB triple. All color math stays in integer space;
// nothing here accumulates across ticks.
type Color struct {
	R, G, B uint8
}

// Default zone palette. The power band blends across three waypoints so
// the efficiency sub-bands inside the zone read at a glance.
var (
	ColorIdle      = Color{R: 40, G: 40, B: 60}
	ColorEfficiency = Color{R: 0, G: 160, B: 40}
	ColorStall     = Color{R: 0, G: 60, B: 200}
	ColorPowerLow  = Color{R: 0, G: 200, B: 0}
	ColorPowerMid  = Color{R: 220, G: 180, B: 0}
	ColorPowerHigh = Color{R: 255, G: 100, B: 0}
	ColorShiftA    = Color{R: 255, G: 0, B: 0}
	ColorShiftB    = Color{R: 0, G: 0, B: 255}
	ColorRevLimit  = Color{R: 255, G: 0, B: 0}
	ColorLinkError = Color{R: 255, G: 70, B: 0}
)

// lerpColor blends a toward b by num/den using integer math. num is
// clamped into [0, den].
func lerpColor(a, b Color, num, den int64) Color {
	if den <= 0 {
		return a
	}
	if num < 0 {
		num = 0
	}
	if num > den {
		num = den
	}

	return Color{
		R: uint8(int64(a.R) + (int64(b.R)-int64(a.R))*num/den),
		G: uint8(int64(a.G) + (int64(b.G)-int64(a.G))*num/den),
		B: uint8(int64(a.B) + (int64(b.B)-int64(a.B))*num/den),
	}
}

// blend3 blends across three waypoints: a..b over the first half of the
// travel, b..c over the second.
func blend3(a, b, c Color, num, den int64) Color {
	if den <= 0 {
		return a
	}
	half := den / 2
	if num <= half {
		return lerpColor(a, b, num, half)
	}

	return lerpColor(b, c, num-half, den-half)
}
