package gpio

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// Fuel gauge defaults (MAX17048-style state-of-charge register).
const (
	DefaultGaugeAddr = 0x36
	DefaultGaugeReg  = 0x04
)

// Transactor performs one write-then-read transaction with a device.
// *i2c.Dev satisfies it.
type Transactor interface {
	Tx(w, r []byte) error
}

// FuelGauge reads the battery state of charge over I2C.
// The register holds the integer percentage in its first byte.
type FuelGauge struct {
	dev Transactor
	reg byte
}

// NewFuelGauge creates a gauge reading register reg of dev.
func NewFuelGauge(dev Transactor, reg byte) *FuelGauge {
	return &FuelGauge{dev: dev, reg: reg}
}

// OpenFuelGauge opens the named I2C bus ("" for the first one) and
// returns a gauge at addr along with the bus to close on shutdown.
func OpenFuelGauge(bus string, addr uint16, reg byte) (*FuelGauge, i2c.BusCloser, error) {
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, nil, fmt.Errorf("gpio: open i2c bus %q: %w", bus, err)
	}
	dev := &i2c.Dev{Bus: b, Addr: addr}
	return NewFuelGauge(dev, reg), b, nil
}

// ChargeLeft implements robot.BatteryGauge.
func (g *FuelGauge) ChargeLeft() (int, error) {
	buf := make([]byte, 2)
	if err := g.dev.Tx([]byte{g.reg}, buf); err != nil {
		return 0, fmt.Errorf("gpio: read fuel gauge: %w", err)
	}
	return int(buf[0]), nil
}
