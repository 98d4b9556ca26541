package classify_test

import (
	"testing"

	"codeberg.org/halvor/revstrip/internal/classify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBoundaries(t *testing.T) {
	z := classify.DefaultZones()

	tests := []struct {
		name string
		rpm  uint32
		want classify.DisplayState
	}{
		{"zero", 0, classify.StallWarning},
		{"stall upper bound", 1999, classify.StallWarning},
		{"efficiency lower bound", 2000, classify.Efficiency},
		{"efficiency upper bound", 2500, classify.Efficiency},
		{"power band lower bound", 2501, classify.PowerBand},
		{"power band upper bound", 4500, classify.PowerBand},
		{"shift lower bound", 4501, classify.ShiftWarning},
		{"shift upper bound", 7199, classify.ShiftWarning},
		{"rev limit lower bound", 7200, classify.RevLimit},
		{"rev limit far above", 11999, classify.RevLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify.Classify(tt.rpm, false, z)
			assert.Equal(t, tt.want, got, "rpm=%d", tt.rpm)
		})
	}
}

func TestClassifyStationaryForcesIdle(t *testing.T) {
	z := classify.DefaultZones()

	for _, rpm := range []uint32{0, 800, 2000, 4500, 7200, 12000} {
		assert.Equal(t, classify.Idle, classify.Classify(rpm, true, z), "rpm=%d", rpm)
	}
}

// Every RPM value from 0 to the sanity bound must map to exactly one of
// the five RPM-driven states, with each zone contiguous and in order.
func TestClassifyPartitionsDomain(t *testing.T) {
	z := classify.DefaultZones()

	expected := []classify.DisplayState{
		classify.StallWarning,
		classify.Efficiency,
		classify.PowerBand,
		classify.ShiftWarning,
		classify.RevLimit,
	}

	seen := []classify.DisplayState{}
	var last classify.DisplayState = -1
	for rpm := uint32(0); rpm <= z.MaxValidRPM; rpm++ {
		s := classify.Classify(rpm, false, z)
		require.NotEqual(t, classify.Idle, s)
		require.NotEqual(t, classify.LinkError, s)
		if s != last {
			seen = append(seen, s)
			last = s
		}
	}

	// Each state appears exactly once and in ascending zone order: no
	// gaps, no overlaps, no reordering.
	assert.Equal(t, expected, seen)
}

func TestZonesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*classify.Zones)
		wantErr bool
	}{
		{"defaults", func(*classify.Zones) {}, false},
		{"stall above efficiency", func(z *classify.Zones) { z.StallMax = 3000 }, true},
		{"efficiency above power band", func(z *classify.Zones) { z.EfficiencyMax = 5000 }, true},
		{"power band above shift", func(z *classify.Zones) { z.PowerBandMax = 8000 }, true},
		{"sanity bound below shift", func(z *classify.Zones) { z.MaxValidRPM = 7000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := classify.DefaultZones()
			tt.mutate(&z)
			err := z.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDisplayStateString(t *testing.T) {
	assert.Equal(t, "power_band", classify.PowerBand.String())
	assert.Equal(t, "link_error", classify.LinkError.String())
	assert.Equal(t, "unknown", classify.DisplayState(99).String())
}
