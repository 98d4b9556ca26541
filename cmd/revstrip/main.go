package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/halvor/revstrip/internal/canbus"
	"codeberg.org/halvor/revstrip/internal/classify"
	"codeberg.org/halvor/revstrip/internal/config"
	"codeberg.org/halvor/revstrip/internal/logger"
	"codeberg.org/halvor/revstrip/internal/proto"
	"codeberg.org/halvor/revstrip/internal/render"
	"codeberg.org/halvor/revstrip/internal/store"
	"codeberg.org/halvor/revstrip/internal/strip"
	"codeberg.org/halvor/revstrip/internal/telemetry"
)

// telemetryCadence decimates render ticks into session-log rows.
const telemetryCadence = 500 * time.Millisecond

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := run(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
		os.Exit(1)
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func run(ctx context.Context) error {
	kv, err := store.OpenFileStore(cfg.StorePath)
	if err != nil {
		return err
	}
	settings, err := store.LoadSettings(kv)
	if err != nil {
		return err
	}
	logger.Info().Str("sequence", settings.Sequence().String()).Msg("Settings loaded")

	engine, err := render.NewEngine(cfg.Cells, cfg.Zones())
	if err != nil {
		return err
	}

	driver, closer, err := openStrip()
	if err != nil {
		return err
	}
	defer closer()

	reader := canbus.NewReader(canbus.EngineFrameID, cfg.Zones().MaxValidRPM)
	monitor := canbus.NewMonitorWithLimits(reader, cfg.StaleTimeout(), cfg.ErrorThreshold)

	controller := openController()
	if err := controller.Start(reader.Handle); err != nil {
		return err
	}
	defer controller.Close()

	// The configuration link runs entirely off the render path.
	if cfg.ProtoPort != "none" {
		handler := proto.NewHandler(settings)
		go handler.Listen(ctx, cfg.ProtoPort, cfg.ProtoBaud)
	}

	var collector telemetry.Collector
	if cfg.Telemetry {
		collector, err = telemetry.NewService(telemetry.Config{DBPath: cfg.TelemetryDB})
		if err != nil {
			// Diagnostics must never keep the strip dark.
			logger.Warn().Err(err).Msg("telemetry disabled")
		} else {
			defer collector.Close()
		}
	}

	return loop(ctx, reader, monitor, controller, engine, driver, settings, collector)
}

func openStrip() (strip.Driver, func(), error) {
	if cfg.StripPort == "none" {
		driver, err := strip.NewAPA102(io.Discard, cfg.Cells, cfg.Brightness)
		return driver, func() {}, err
	}

	port, err := strip.OpenSerialPort(cfg.StripPort, cfg.StripBaud)
	if err != nil {
		return nil, nil, err
	}

	driver, err := strip.NewAPA102(port, cfg.Cells, cfg.Brightness)
	if err != nil {
		port.Close()
		return nil, nil, err
	}

	return driver, func() { port.Close() }, nil
}

func openController() canbus.Controller {
	if cfg.BusInterface == "demo" {
		logger.Info().Msg("Using simulated engine-speed source")
		return canbus.NewDemoController()
	}

	return canbus.NewSocketCAN(cfg.BusInterface)
}

func loop(
	ctx context.Context,
	reader *canbus.Reader,
	monitor *canbus.Monitor,
	controller canbus.Controller,
	engine *render.Engine,
	driver strip.Driver,
	settings *store.Settings,
	collector telemetry.Collector,
) error {
	ticker := time.NewTicker(cfg.RenderInterval())
	defer ticker.Stop()

	start := time.Now()
	zones := cfg.Zones()
	lastState := classify.DisplayState(-1)
	lastRecord := start

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			health, reinit := monitor.Tick(now)
			if reinit {
				logger.Warn().
					Time("last_valid_frame", health.LastValidFrame).
					Int("consecutive_errors", health.ConsecutiveErrors).
					Msg("Link degraded, reinitializing bus controller")
				if err := controller.Reset(); err != nil {
					logger.Error().Err(err).Msg("bus reinitialization failed")
				}
			}

			sample := reader.Latest()
			var rpm uint32
			stationary := false
			if sample != nil {
				rpm = sample.RPM
				stationary = sample.Stationary(zones.StationaryMax)
			}

			state := classify.ForTick(health.Degraded, sample != nil, rpm, stationary, zones)
			if state != lastState {
				logger.Info().
					Str("state", state.String()).
					Uint32("rpm", rpm).
					Msg("Display state changed")
				lastState = state
			}

			buf := engine.Render(render.Context{
				State:    state,
				RPM:      rpm,
				Now:      now.Sub(start),
				Sequence: settings.Sequence(),
			})
			if err := driver.Write(buf); err != nil {
				logger.Error().Err(err).Msg("strip write failed")
			}

			if collector != nil && now.Sub(lastRecord) >= telemetryCadence {
				lastRecord = now
				record(ctx, collector, reader, health, state, rpm, sample)
			}
		}
	}
}

func record(
	ctx context.Context,
	collector telemetry.Collector,
	reader *canbus.Reader,
	health canbus.LinkHealth,
	state classify.DisplayState,
	rpm uint32,
	sample *canbus.TelemetrySample,
) {
	stats := reader.Stats()

	snapshot := &telemetry.Snapshot{
		Timestamp:    time.Now(),
		RPM:          rpm,
		State:        state.String(),
		LinkDegraded: health.Degraded,
		FramesSeen:   stats.FramesSeen,
		FramesBad:    stats.FramesRejected,
	}
	if sample != nil {
		snapshot.Speed = sample.Speed
		snapshot.SpeedKnown = sample.SpeedKnown
	}

	if err := collector.Record(ctx, snapshot); err != nil {
		logger.Debug().Err(err).Msg("telemetry record failed")
	}
}
