package gpio

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/teslashibe/go-cleanbot/pkg/robot"
)

// Default dwell times on real hardware.
const (
	DefaultWheelDwell  = 1 * time.Second
	DefaultRotateDwell = 1 * time.Second
	DefaultUVDwell     = 30 * time.Second
)

// Config holds driver configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	Pins Pins

	// How long motors and the UV light stay energised per call
	WheelDwell  time.Duration
	RotateDwell time.Duration
	UVDwell     time.Duration

	Logger *slog.Logger
}

// Option is a functional option for configuring the driver.
type Option func(*Config)

// WithPins overrides the board wiring.
func WithPins(pins Pins) Option {
	return func(c *Config) {
		c.Pins = pins
	}
}

// WithDwell sets how long each actuator stays energised.
// Zero dwell is valid and keeps the pin sequence unchanged.
func WithDwell(wheel, rotate, uv time.Duration) Option {
	return func(c *Config) {
		c.WheelDwell = wheel
		c.RotateDwell = rotate
		c.UVDwell = uv
	}
}

// WithLogger sets the structured logger for the driver.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// DefaultConfig returns the reference robot configuration.
func DefaultConfig() *Config {
	return &Config{
		Pins:        DefaultPins(),
		WheelDwell:  DefaultWheelDwell,
		RotateDwell: DefaultRotateDwell,
		UVDwell:     DefaultUVDwell,
		Logger:      slog.Default(),
	}
}

// Driver implements robot.Hardware on a pin bank and a battery gauge.
type Driver struct {
	pins  PinBank
	gauge robot.BatteryGauge
	cfg   *Config

	sleep func(time.Duration)
}

// NewDriver creates a hardware driver. Call Setup before first use.
func NewDriver(pins PinBank, gauge robot.BatteryGauge, opts ...Option) *Driver {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Driver{
		pins:  pins,
		gauge: gauge,
		cfg:   cfg,
		sleep: time.Sleep,
	}
}

// Setup drives every output low and primes the infrared input.
func (d *Driver) Setup() error {
	for _, p := range d.cfg.Pins.Outputs() {
		if err := d.pins.Out(p, false); err != nil {
			return err
		}
	}
	if _, err := d.pins.In(d.cfg.Pins.Infrared); err != nil {
		return err
	}
	d.cfg.Logger.Debug("GPIO outputs reset", "outputs", len(d.cfg.Pins.Outputs()))
	return nil
}

// level is one step of a pin sequence.
type level struct {
	pin  int
	high bool
}

func (d *Driver) drive(steps ...level) error {
	for _, s := range steps {
		if err := d.pins.Out(s.pin, s.high); err != nil {
			return err
		}
	}
	return nil
}

// release drives every pin low, attempting all of them even after a failure.
func (d *Driver) release(pins ...int) error {
	var errs []error
	for _, p := range pins {
		if err := d.pins.Out(p, false); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ChargeLeft implements robot.BatteryGauge.
func (d *Driver) ChargeLeft() (int, error) {
	return d.gauge.ChargeLeft()
}

// ObstacleAhead implements robot.ObstacleSensor.
func (d *Driver) ObstacleAhead() (bool, error) {
	return d.pins.In(d.cfg.Pins.Infrared)
}

// DriveForward pulses the wheel motor clockwise for one cell.
func (d *Driver) DriveForward() error {
	p := d.cfg.Pins
	err := d.drive(
		level{p.AIN1, true},
		level{p.AIN2, false},
		level{p.PWMA, true},
		level{p.STBY, true},
	)
	if err == nil {
		d.sleep(d.cfg.WheelDwell)
	}
	if rerr := d.release(p.AIN1, p.AIN2, p.PWMA, p.STBY); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return fmt.Errorf("gpio: wheel motor: %w", err)
	}
	return nil
}

// Rotate pulses the rotation motor towards dir.
func (d *Driver) Rotate(dir robot.Direction) error {
	p := d.cfg.Pins

	var err error
	switch dir {
	case robot.Left:
		err = d.drive(level{p.BIN1, true}, level{p.BIN2, false})
	case robot.Right:
		err = d.drive(level{p.BIN1, false}, level{p.BIN2, true})
	default:
		return fmt.Errorf("gpio: rotation motor: unknown direction %q", dir)
	}
	if err == nil {
		err = d.drive(level{p.PWMB, true}, level{p.STBY, true})
	}
	if err == nil {
		d.sleep(d.cfg.RotateDwell)
	}
	if rerr := d.release(p.BIN1, p.BIN2, p.PWMB, p.STBY); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return fmt.Errorf("gpio: rotation motor: %w", err)
	}
	return nil
}

// IlluminateUV keeps the UV light on for one dwell period.
func (d *Driver) IlluminateUV() error {
	pin := d.cfg.Pins.UVLight
	err := d.pins.Out(pin, true)
	if err == nil {
		d.sleep(d.cfg.UVDwell)
	}
	if rerr := d.release(pin); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		return fmt.Errorf("gpio: uv light: %w", err)
	}
	return nil
}

// SetCleaningSystem implements robot.CleaningSystem.
func (d *Driver) SetCleaningSystem(on bool) error {
	return d.pins.Out(d.cfg.Pins.CleaningSystem, on)
}

// SetRechargeLED implements robot.RechargeLED.
func (d *Driver) SetRechargeLED(on bool) error {
	return d.pins.Out(d.cfg.Pins.RechargeLED, on)
}

// Ensure Driver implements robot.Hardware
var _ robot.Hardware = (*Driver)(nil)
