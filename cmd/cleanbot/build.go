package main

import (
	"errors"
	"fmt"

	"github.com/teslashibe/go-cleanbot/internal/config"
	"github.com/teslashibe/go-cleanbot/internal/log"
	"github.com/teslashibe/go-cleanbot/pkg/gpio"
	"github.com/teslashibe/go-cleanbot/pkg/robot"
	"github.com/teslashibe/go-cleanbot/pkg/sim"
)

// body is a constructed robot plus the hooks its driver needs.
type body struct {
	robot *robot.CleaningRobot
	world *sim.World // nil on hardware
	close func() error
}

// reset returns the simulated body to the origin, if there is one.
func (b *body) reset() {
	if b.world != nil {
		b.world.Reset()
	}
}

// buildBody selects the hardware implementation from configuration.
// The interpreter itself never learns which one it got.
func buildBody(cfg *config.Config) (*body, error) {
	logger := log.Component("robot")

	switch cfg.Robot.Driver {
	case config.DriverGPIO:
		pins, err := gpio.OpenPeriph()
		if err != nil {
			return nil, err
		}
		gauge, bus, err := gpio.OpenFuelGauge(cfg.GPIO.Bus, cfg.GPIO.GaugeAddr, cfg.GPIO.GaugeReg)
		if err != nil {
			return nil, err
		}
		drv := gpio.NewDriver(pins, gauge,
			gpio.WithPins(cfg.GPIO.Pins),
			gpio.WithDwell(cfg.Dwell.Wheel, cfg.Dwell.Rotate, cfg.Dwell.UV),
			gpio.WithLogger(log.Component("gpio")),
		)
		if err := drv.Setup(); err != nil {
			return nil, errors.Join(err, bus.Close())
		}
		log.Info("GPIO driver ready", "bus", cfg.GPIO.Bus, "gauge_addr", fmt.Sprintf("%#x", cfg.GPIO.GaugeAddr))
		return &body{
			robot: robot.NewWithHardware(drv, robot.WithLogger(logger)),
			close: func() error {
				return errors.Join(drv.Setup(), bus.Close())
			},
		}, nil

	default:
		opts := []sim.Option{
			sim.WithCharge(cfg.Sim.Charge),
			sim.WithDrain(cfg.Sim.DrainPerMove, cfg.Sim.DrainPerTurn),
		}
		if cfg.Sim.World != "" {
			layout, err := sim.LoadLayout(cfg.Sim.World)
			if err != nil {
				return nil, err
			}
			opts = append(opts, layout.Options()...)
		}
		world := sim.NewWorld(opts...)
		log.Info("Simulated world ready", "charge", world.Snapshot().Charge, "world", cfg.Sim.World)
		return &body{
			robot: robot.NewWithHardware(world, robot.WithLogger(logger)),
			world: world,
			close: func() error { return nil },
		}, nil
	}
}
