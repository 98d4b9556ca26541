package canbus

import (
	"encoding/binary"
	"time"

	"codeberg.org/halvor/revstrip/internal/errors"
	"github.com/brutella/can"
)

const (
	// EngineFrameID is the broadcast identifier of the engine-speed frame.
	EngineFrameID uint32 = 0x316

	// rpmShift undoes the 4x resolution of the raw field: raw = RPM * 4.
	rpmShift = 2

	// rpmFieldLen is the minimum payload length carrying the RPM field.
	rpmFieldLen = 2

	// speedFieldEnd is the payload length at which the vehicle-speed
	// field (bytes 2..3) is present.
	speedFieldEnd = 4
)

// TelemetrySample is one decoded engine-speed broadcast. Immutable once
// constructed; it lives for a single render tick.
type TelemetrySample struct {
	RPM        uint32
	Speed      uint32
	SpeedKnown bool
	Timestamp  time.Time
}

// Stationary reports whether the vehicle speed is at or below the
// near-zero cutoff. Unknown speed is treated as moving so a lost speed
// field never blanks the strip.
func (s *TelemetrySample) Stationary(cutoff uint32) bool {
	return s.SpeedKnown && s.Speed <= cutoff
}

// DecodeSample extracts a telemetry sample from an engine-speed frame.
// RPM is a big-endian uint16 in bytes 0..1 at 4x resolution; the shift
// truncates, matching the vehicle's own instrument cluster. Vehicle
// speed rides in bytes 2..3 when the payload is long enough.
func DecodeSample(frm can.Frame, maxRPM uint32, now time.Time) (TelemetrySample, error) {
	errFactory := errors.New()

	if frm.ID != EngineFrameID {
		return TelemetrySample{}, errFactory.WithData(ErrWrongFrameID, frm.ID)
	}
	if int(frm.Length) < rpmFieldLen {
		return TelemetrySample{}, errFactory.WithData(ErrFrameTooShort, frm.Length)
	}

	raw := binary.BigEndian.Uint16(frm.Data[0:rpmFieldLen])
	rpm := uint32(raw >> rpmShift)
	if rpm > maxRPM {
		return TelemetrySample{}, errFactory.WithData(ErrRPMOutOfRange, rpm)
	}

	sample := TelemetrySample{
		RPM:       rpm,
		Timestamp: now,
	}
	if int(frm.Length) >= speedFieldEnd {
		sample.Speed = uint32(binary.BigEndian.Uint16(frm.Data[rpmFieldLen:speedFieldEnd]))
		sample.SpeedKnown = true
	}

	return sample, nil
}

// EncodeSample packs RPM and speed into an engine-speed frame. Used by
// the demo source and by tests; the vehicle side of the bus does the
// same packing in its ECU firmware.
func EncodeSample(rpm, speed uint32) can.Frame {
	var data [8]uint8
	binary.BigEndian.PutUint16(data[0:2], uint16(rpm<<rpmShift))
	binary.BigEndian.PutUint16(data[2:4], uint16(speed))

	return can.Frame{
		ID:     EngineFrameID,
		Length: speedFieldEnd,
		Data:   data,
	}
}
