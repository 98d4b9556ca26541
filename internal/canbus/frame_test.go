package canbus

import (
	"testing"
	"time"

	"github.com/brutella/can"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxRPM = 12000

func TestDecodeSampleRPMScaling(t *testing.T) {
	now := time.Now()

	// Raw field is RPM*4; decode divides by 4 with integer truncation.
	tests := []struct {
		raw  uint16
		want uint32
	}{
		{0, 0},
		{1, 0},
		{3, 0},
		{4, 1},
		{3400, 850},
		{3401, 850},
		{3403, 850},
		{28800, 7200},
		{47999, 11999},
	}

	for _, tt := range tests {
		frm := can.Frame{ID: EngineFrameID, Length: 2}
		frm.Data[0] = byte(tt.raw >> 8)
		frm.Data[1] = byte(tt.raw)

		sample, err := DecodeSample(frm, testMaxRPM, now)
		require.NoError(t, err, "raw=%d", tt.raw)
		assert.Equal(t, tt.want, sample.RPM, "raw=%d", tt.raw)
		assert.False(t, sample.SpeedKnown)
	}
}

func TestDecodeSampleExhaustiveScaling(t *testing.T) {
	now := time.Now()

	// Decoded RPM must equal raw/4 exactly for every raw value that
	// stays inside the sanity bound.
	for raw := 0; raw <= int(testMaxRPM)*4+3; raw++ {
		frm := can.Frame{ID: EngineFrameID, Length: 2}
		frm.Data[0] = byte(raw >> 8)
		frm.Data[1] = byte(raw)

		sample, err := DecodeSample(frm, testMaxRPM, now)
		require.NoError(t, err, "raw=%d", raw)
		require.Equal(t, uint32(raw/4), sample.RPM, "raw=%d", raw)
	}
}

func TestDecodeSampleRejects(t *testing.T) {
	now := time.Now()

	t.Run("wrong frame id", func(t *testing.T) {
		frm := EncodeSample(3000, 50)
		frm.ID = 0x123
		_, err := DecodeSample(frm, testMaxRPM, now)
		assert.Error(t, err)
	})

	t.Run("payload too short", func(t *testing.T) {
		frm := can.Frame{ID: EngineFrameID, Length: 1}
		_, err := DecodeSample(frm, testMaxRPM, now)
		assert.Error(t, err)
	})

	t.Run("rpm above sanity bound", func(t *testing.T) {
		frm := can.Frame{ID: EngineFrameID, Length: 2}
		frm.Data[0] = 0xFF
		frm.Data[1] = 0xFF
		_, err := DecodeSample(frm, testMaxRPM, now)
		assert.Error(t, err)
	})
}

func TestDecodeSampleSpeedField(t *testing.T) {
	now := time.Now()

	frm := EncodeSample(3000, 72)
	sample, err := DecodeSample(frm, testMaxRPM, now)
	require.NoError(t, err)

	assert.Equal(t, uint32(3000), sample.RPM)
	assert.True(t, sample.SpeedKnown)
	assert.Equal(t, uint32(72), sample.Speed)
}

func TestStationary(t *testing.T) {
	s := TelemetrySample{Speed: 2, SpeedKnown: true}
	assert.True(t, s.Stationary(3))

	s = TelemetrySample{Speed: 4, SpeedKnown: true}
	assert.False(t, s.Stationary(3))

	// Unknown speed must not look stationary.
	s = TelemetrySample{Speed: 0, SpeedKnown: false}
	assert.False(t, s.Stationary(3))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Now()

	for _, rpm := range []uint32{0, 850, 2000, 4500, 7200, 11999} {
		sample, err := DecodeSample(EncodeSample(rpm, 60), testMaxRPM, now)
		require.NoError(t, err)
		assert.Equal(t, rpm, sample.RPM)
	}
}
