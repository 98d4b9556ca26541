package config

import (
	"os"
	"time"

	"codeberg.org/halvor/revstrip/internal/classify"
	"codeberg.org/halvor/revstrip/internal/errors"
	"github.com/spf13/viper"
)

const (
	defaultConfigPath = "/etc/revstrip.toml"
	envConfigPath     = "REVSTRIP_CONFIG"
)

type Config struct {
	Debug   bool `mapstructure:"debug"`
	Verbose bool `mapstructure:"verbose"`

	// Render tick period in milliseconds.
	IntervalMs int `mapstructure:"interval_ms"`

	// Strip geometry and output.
	Cells      int    `mapstructure:"cells"`
	Brightness int    `mapstructure:"brightness"`
	StripPort  string `mapstructure:"strip_port"`
	StripBaud  int    `mapstructure:"strip_baud"`

	// Engine-speed bus.
	BusInterface   string `mapstructure:"bus_interface"`
	StaleTimeoutMs int    `mapstructure:"stale_timeout_ms"`
	ErrorThreshold int    `mapstructure:"error_threshold"`

	// Companion-host configuration link.
	ProtoPort string `mapstructure:"proto_port"`
	ProtoBaud int    `mapstructure:"proto_baud"`

	// Non-volatile settings image.
	StorePath string `mapstructure:"store_path"`

	// Telemetry session log.
	Telemetry   bool   `mapstructure:"telemetry"`
	TelemetryDB string `mapstructure:"telemetry_db"`

	// RPM zone calibration.
	ZoneStallMax      uint32 `mapstructure:"zone_stall_max"`
	ZoneEfficiencyMax uint32 `mapstructure:"zone_efficiency_max"`
	ZonePowerBandMax  uint32 `mapstructure:"zone_power_band_max"`
	ZoneShiftMax      uint32 `mapstructure:"zone_shift_max"`
	ZoneMaxValidRPM   uint32 `mapstructure:"zone_max_valid_rpm"`
	ZoneStationaryMax uint32 `mapstructure:"zone_stationary_max"`
}

func setDefaults(v *viper.Viper) {
	zones := classify.DefaultZones()

	v.SetDefault("debug", false)
	v.SetDefault("verbose", false)
	v.SetDefault("interval_ms", 20)
	v.SetDefault("cells", 16)
	v.SetDefault("brightness", 80)
	v.SetDefault("strip_port", "/dev/ttyACM0")
	v.SetDefault("strip_baud", 115200)
	v.SetDefault("bus_interface", "can0")
	v.SetDefault("stale_timeout_ms", 500)
	v.SetDefault("error_threshold", 10)
	v.SetDefault("proto_port", "/dev/ttyUSB0")
	v.SetDefault("proto_baud", 9600)
	v.SetDefault("store_path", "/var/lib/revstrip/settings.nv")
	v.SetDefault("telemetry", false)
	v.SetDefault("telemetry_db", "/var/lib/revstrip/telemetry.db")
	v.SetDefault("zone_stall_max", zones.StallMax)
	v.SetDefault("zone_efficiency_max", zones.EfficiencyMax)
	v.SetDefault("zone_power_band_max", zones.PowerBandMax)
	v.SetDefault("zone_shift_max", zones.ShiftMax)
	v.SetDefault("zone_max_valid_rpm", zones.MaxValidRPM)
	v.SetDefault("zone_stationary_max", zones.StationaryMax)
}

// Load reads the TOML config file named by the REVSTRIP_CONFIG
// environment variable, falling back to /etc/revstrip.toml. A missing
// file is not an error; defaults apply.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	v.SetConfigType("toml")
	setDefaults(v)

	path := os.Getenv(envConfigPath)
	if path == "" {
		path = defaultConfigPath
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.IntervalMs <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "interval_ms must be positive")
	}
	if c.Cells < 2 {
		return errFactory.WithData(errors.ErrInvalidConfig, "cells must be at least 2")
	}
	if c.Brightness < 0 || c.Brightness > 100 {
		return errFactory.WithData(errors.ErrInvalidConfig, "brightness must be 0-100")
	}
	if c.ErrorThreshold <= 0 || c.StaleTimeoutMs <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "link health limits must be positive")
	}

	return c.Zones().Validate()
}

// Zones assembles the classifier calibration from the flat config keys.
func (c *Config) Zones() classify.Zones {
	return classify.Zones{
		StallMax:      c.ZoneStallMax,
		EfficiencyMax: c.ZoneEfficiencyMax,
		PowerBandMax:  c.ZonePowerBandMax,
		ShiftMax:      c.ZoneShiftMax,
		MaxValidRPM:   c.ZoneMaxValidRPM,
		StationaryMax: c.ZoneStationaryMax,
	}
}

// RenderInterval returns the render tick period.
func (c *Config) RenderInterval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// StaleTimeout returns the link staleness window.
func (c *Config) StaleTimeout() time.Duration {
	return time.Duration(c.StaleTimeoutMs) * time.Millisecond
}
