package render

// Fill positions are fixed-point milli-cells: posScale units per cell.
// Every position is recomputed from the tick clock or the RPM value, so
// there is no accumulated state to drift.
const (
	posScale = 1000

	// fracFloor suppresses the partial cell below 5% so the boundary
	// cell does not flicker as the position dithers around a whole cell.
	fracFloor = posScale / 20

	fullBrightness = 255
)

// Cell is one LED's color and brightness for the current tick.
type Cell struct {
	Color      Color
	Brightness uint8
}

// CellBuffer is the per-tick output of the engine, one entry per
// physical LED, index 0 at the left end of the strip.
type CellBuffer []Cell

// span returns the fill travel in cells: half the strip for mirrored
// sequences, the whole strip otherwise.
func span(cells int, seq Sequence) int {
	if seq.Mirrored() {
		return cells / 2
	}

	return cells
}

// cellsFor maps travel index j (0 = start of growth) to physical cell
// indices for the sequence. Mirrored sequences light two cells per
// travel step.
func cellsFor(cells, j int, seq Sequence) (int, int, bool) {
	switch seq {
	case LeftToRight:
		return j, 0, false
	case RightToLeft:
		return cells - 1 - j, 0, false
	case CenterIn:
		return j, cells - 1 - j, true
	default: // CenterOut
		return (cells-1)/2 - j, cells/2 + j, true
	}
}

// applyFill lights the strip up to fill position pos (milli-cells along
// the travel) in the given color. Cells before the position are fully
// lit; the boundary cell is lit at the fractional brightness; cells
// past it stay untouched.
func applyFill(buf CellBuffer, pos int64, seq Sequence, c Color) {
	n := len(buf)
	travel := span(n, seq)

	maxPos := int64(travel) * posScale
	if pos < 0 {
		pos = 0
	}
	if pos > maxPos {
		pos = maxPos
	}

	whole := int(pos / posScale)
	frac := pos % posScale

	for j := 0; j < whole && j < travel; j++ {
		setTravelCell(buf, j, seq, c, fullBrightness)
	}

	if whole < travel && frac >= fracFloor {
		b := uint8(frac * fullBrightness / posScale)
		setTravelCell(buf, whole, seq, c, b)
	}
}

func setTravelCell(buf CellBuffer, j int, seq Sequence, c Color, brightness uint8) {
	a, b, mirrored := cellsFor(len(buf), j, seq)
	if a >= 0 && a < len(buf) {
		buf[a] = Cell{Color: c, Brightness: brightness}
	}
	if mirrored && b >= 0 && b < len(buf) && b != a {
		buf[b] = Cell{Color: c, Brightness: brightness}
	}
}

// unfilled returns the physical cells not covered by a fill of whole
// cells, i.e. the gap the shift flasher paints into.
func unfilled(cells int, wholeFilled int, seq Sequence) []int {
	travel := span(cells, seq)
	if wholeFilled >= travel {
		return nil
	}

	gap := make([]int, 0, cells)
	for j := wholeFilled; j < travel; j++ {
		a, b, mirrored := cellsFor(cells, j, seq)
		gap = append(gap, a)
		if mirrored && b != a {
			gap = append(gap, b)
		}
	}

	return gap
}
