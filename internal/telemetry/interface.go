package telemetry

import (
	"context"
	"time"
)

// Collector records pipeline snapshots for later analysis.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	Close() error
}

// Snapshot is one observation of the pipeline, taken on the render tick
// at the logging cadence.
type Snapshot struct {
	Timestamp    time.Time
	RPM          uint32
	Speed        uint32
	SpeedKnown   bool
	State        string
	LinkDegraded bool
	FramesSeen   uint64
	FramesBad    uint64
}
