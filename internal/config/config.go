// Package config loads cleanbot configuration from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/teslashibe/go-cleanbot/pkg/gpio"
)

// EnvPrefix is stripped from environment variables before mapping.
const EnvPrefix = "CLEANBOT_"

// Drivers
const (
	DriverSim  = "sim"
	DriverGPIO = "gpio"
)

// Config is the full cleanbot configuration.
type Config struct {
	Robot  RobotConfig  `koanf:"robot"`
	Dwell  DwellConfig  `koanf:"dwell"`
	GPIO   GPIOConfig   `koanf:"gpio"`
	Sim    SimConfig    `koanf:"sim"`
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
}

// RobotConfig selects the hardware implementation.
type RobotConfig struct {
	Driver string `koanf:"driver"`
}

// DwellConfig sets how long actuators stay energised.
type DwellConfig struct {
	Wheel  time.Duration `koanf:"wheel"`
	Rotate time.Duration `koanf:"rotate"`
	UV     time.Duration `koanf:"uv"`
}

// GPIOConfig describes the board wiring and the fuel gauge.
type GPIOConfig struct {
	Pins      gpio.Pins `koanf:"pins"`
	Bus       string    `koanf:"bus"`
	GaugeAddr uint16    `koanf:"gauge_addr"`
	GaugeReg  uint8     `koanf:"gauge_reg"`
}

// SimConfig configures the simulated world.
type SimConfig struct {
	World        string `koanf:"world"`
	Charge       int    `koanf:"charge"`
	DrainPerMove int    `koanf:"drain_per_move"`
	DrainPerTurn int    `koanf:"drain_per_turn"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            string        `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the configuration used when nothing overrides it.
// The simulator runs with zero dwell.
func Default() *Config {
	return &Config{
		Robot: RobotConfig{Driver: DriverSim},
		GPIO: GPIOConfig{
			Pins:      gpio.DefaultPins(),
			GaugeAddr: gpio.DefaultGaugeAddr,
			GaugeReg:  gpio.DefaultGaugeReg,
		},
		Sim: SimConfig{Charge: 100},
		Server: ServerConfig{
			Port:            "8080",
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{Level: "info"},
	}
}

// HardwareDwell returns the dwell defaults for real motors.
func HardwareDwell() DwellConfig {
	return DwellConfig{
		Wheel:  gpio.DefaultWheelDwell,
		Rotate: gpio.DefaultRotateDwell,
		UV:     gpio.DefaultUVDwell,
	}
}

// Load reads configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables (CLEANBOT_SERVER_PORT, CLEANBOT_ROBOT_DRIVER, ...)
//  2. YAML file at path, if path is not empty
//  3. Default()
//
// Environment variables map on the first underscore after the prefix:
//
//	CLEANBOT_SERVER_PORT      -> server.port
//	CLEANBOT_SIM_DRAIN_PER_MOVE -> sim.drain_per_move
//
// Nested sections such as gpio.pins can only be set from YAML.
// When the gpio driver is selected and no dwell is configured, the
// hardware dwell defaults apply.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Robot.Driver == DriverGPIO && !k.Exists("dwell") {
		cfg.Dwell = HardwareDwell()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envKey maps CLEANBOT_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.Robot.Driver {
	case DriverSim, DriverGPIO:
	default:
		errs = append(errs, fmt.Errorf("robot.driver must be %q or %q, got %q", DriverSim, DriverGPIO, c.Robot.Driver))
	}

	if c.Dwell.Wheel < 0 || c.Dwell.Rotate < 0 || c.Dwell.UV < 0 {
		errs = append(errs, errors.New("dwell durations must not be negative"))
	}

	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	return errors.Join(errs...)
}
