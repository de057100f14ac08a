// Package gpio drives a physical cleaning robot through board GPIO pins and an
// I2C fuel gauge. Pins are addressed by their physical header number.
package gpio

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// ErrPinNotFound is returned when the host has no pin for a header number.
var ErrPinNotFound = errors.New("gpio: pin not found")

// Pins is the board wiring, in physical header numbering.
type Pins struct {
	RechargeLED    int `koanf:"recharge_led"`
	CleaningSystem int `koanf:"cleaning_system"`
	Infrared       int `koanf:"infrared"`
	UVLight        int `koanf:"uv_light"`

	// Wheel motor (driver channel A)
	PWMA int `koanf:"pwma"`
	AIN2 int `koanf:"ain2"`
	AIN1 int `koanf:"ain1"`

	// Rotation motor (driver channel B)
	BIN1 int `koanf:"bin1"`
	BIN2 int `koanf:"bin2"`
	PWMB int `koanf:"pwmb"`

	// Motor driver standby, shared by both channels
	STBY int `koanf:"stby"`
}

// DefaultPins returns the wiring of the reference robot.
func DefaultPins() Pins {
	return Pins{
		RechargeLED:    12,
		CleaningSystem: 13,
		Infrared:       15,
		UVLight:        7,
		PWMA:           16,
		AIN2:           18,
		AIN1:           22,
		BIN1:           29,
		BIN2:           31,
		PWMB:           32,
		STBY:           33,
	}
}

// Outputs lists every output pin.
func (p Pins) Outputs() []int {
	return []int{
		p.RechargeLED, p.CleaningSystem, p.UVLight,
		p.PWMA, p.AIN2, p.AIN1,
		p.PWMB, p.BIN2, p.BIN1,
		p.STBY,
	}
}

// PinBank drives and samples pins by header number.
type PinBank interface {
	Out(pin int, high bool) error
	In(pin int) (bool, error)
}

// PeriphBank implements PinBank on top of periph.io host drivers.
type PeriphBank struct {
	mu     sync.Mutex
	pins   map[int]gpio.PinIO
	inputs map[int]bool
}

// OpenPeriph initializes the host drivers and returns a pin bank.
func OpenPeriph() (*PeriphBank, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio: host init: %w", err)
	}
	return &PeriphBank{
		pins:   make(map[int]gpio.PinIO),
		inputs: make(map[int]bool),
	}, nil
}

func (b *PeriphBank) lookup(n int) (gpio.PinIO, error) {
	if p, ok := b.pins[n]; ok {
		return p, nil
	}
	p := gpioreg.ByName(fmt.Sprintf("P1_%d", n))
	if p == nil {
		return nil, fmt.Errorf("%w: header pin %d", ErrPinNotFound, n)
	}
	b.pins[n] = p
	return p, nil
}

// Out drives a pin high or low.
func (b *PeriphBank) Out(n int, high bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.lookup(n)
	if err != nil {
		return err
	}
	delete(b.inputs, n)
	if err := p.Out(gpio.Level(high)); err != nil {
		return fmt.Errorf("gpio: drive pin %d: %w", n, err)
	}
	return nil
}

// In samples a pin, switching it to input on first use.
func (b *PeriphBank) In(n int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, err := b.lookup(n)
	if err != nil {
		return false, err
	}
	if !b.inputs[n] {
		if err := p.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return false, fmt.Errorf("gpio: configure pin %d: %w", n, err)
		}
		b.inputs[n] = true
	}
	return bool(p.Read()), nil
}

// Ensure PeriphBank implements PinBank
var _ PinBank = (*PeriphBank)(nil)
