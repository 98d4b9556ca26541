// Package strip drives the addressable LED chain. One Write per render
// tick pushes the whole cell buffer out in the chain's native framing.
package strip

import (
	"io"

	"codeberg.org/halvor/revstrip/internal/errors"
	"codeberg.org/halvor/revstrip/internal/render"
)

// Driver transmits a complete cell buffer to the physical strip.
type Driver interface {
	Write(buf render.CellBuffer) error
	Close() error
}

// APA102 chain framing: a zero start frame, one 4-byte slot per LED
// with a 3-bit header plus 5-bit brightness, then an all-ones end
// frame long enough to clock the last LED through.
const (
	ledFrameHeader = 0xE0
	maxGlobal5bit  = 31
)

// APA102 renders cell buffers into APA102/DotStar wire frames on an
// io.Writer (an SPI device node or a USB serial bridge).
type APA102 struct {
	w          io.Writer
	cells      int
	brightness int // global percent 0..100
	frame      []byte
}

// NewAPA102 creates a driver for a chain of the given length.
// brightnessPercent scales every cell's 5-bit brightness slot.
func NewAPA102(w io.Writer, cells, brightnessPercent int) (*APA102, error) {
	errFactory := errors.New()

	if brightnessPercent < 0 || brightnessPercent > 100 {
		return nil, errFactory.WithData(ErrBadBrightness, brightnessPercent)
	}

	return &APA102{
		w:          w,
		cells:      cells,
		brightness: brightnessPercent,
		frame:      make([]byte, frameLen(cells)),
	}, nil
}

// SetBrightness updates the global brightness scalar. Takes effect on
// the next Write.
func (d *APA102) SetBrightness(percent int) error {
	errFactory := errors.New()

	if percent < 0 || percent > 100 {
		return errFactory.WithData(ErrBadBrightness, percent)
	}
	d.brightness = percent

	return nil
}

// Write transmits one buffer. The buffer must match the configured
// chain length; the strip never shows a partial update.
func (d *APA102) Write(buf render.CellBuffer) error {
	errFactory := errors.New()

	if len(buf) != d.cells {
		return errFactory.WithData(ErrBadBufferSize, len(buf))
	}

	d.encode(buf)
	if _, err := d.w.Write(d.frame); err != nil {
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	return nil
}

func (d *APA102) encode(buf render.CellBuffer) {
	// Start frame: 4 zero bytes.
	off := 0
	for i := 0; i < 4; i++ {
		d.frame[off] = 0x00
		off++
	}

	for _, cell := range buf {
		d.frame[off] = ledFrameHeader | globalSlot(cell.Brightness, d.brightness)
		d.frame[off+1] = cell.Color.B
		d.frame[off+2] = cell.Color.G
		d.frame[off+3] = cell.Color.R
		off += 4
	}

	// End frame: one set bit per two LEDs keeps the clock running long
	// enough for the tail of the chain.
	for off < len(d.frame) {
		d.frame[off] = 0xFF
		off++
	}
}

// Close is a no-op for the framing layer; the owner closes the port.
func (d *APA102) Close() error {
	return nil
}

func frameLen(cells int) int {
	return 4 + cells*4 + (cells/2+7)/8 + 1
}

// globalSlot folds the cell's 8-bit brightness and the global percent
// into the APA102 5-bit brightness field.
func globalSlot(cellBrightness uint8, percent int) byte {
	v := int(cellBrightness) * percent * maxGlobal5bit / (255 * 100)
	if v > maxGlobal5bit {
		v = maxGlobal5bit
	}
	if cellBrightness > 0 && percent > 0 && v == 0 {
		// Keep a deliberately lit cell from rounding to fully off.
		v = 1
	}

	return byte(v)
}
