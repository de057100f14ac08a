// Package robot implements the command interpreter of a grid cleaning robot.
//
// The interpreter never touches hardware directly. Sensors and actuators are
// reached through small, focused capability interfaces so that a GPIO-backed
// driver and a simulator can be swapped at construction time. Consumers should
// depend only on the interfaces they actually use.
package robot

// BatteryGauge reports the remaining battery charge.
// Values are passed through uninterpreted; the usual scale is 0-100.
type BatteryGauge interface {
	ChargeLeft() (int, error)
}

// ObstacleSensor reports whether an obstacle sits in the cell directly ahead.
type ObstacleSensor interface {
	ObstacleAhead() (bool, error)
}

// WheelMotor moves the robot one cell forward.
type WheelMotor interface {
	DriveForward() error
}

// RotationMotor turns the robot by 90 degrees in place.
type RotationMotor interface {
	Rotate(dir Direction) error
}

// CleaningSystem switches the cleaning subsystem.
type CleaningSystem interface {
	SetCleaningSystem(on bool) error
}

// RechargeLED switches the recharge indicator.
type RechargeLED interface {
	SetRechargeLED(on bool) error
}

// UVLight runs one illumination cycle of the UV light.
type UVLight interface {
	IlluminateUV() error
}

// Actuators is the composite of every output the interpreter drives.
// Each call is a bounded side effect; any dwell is the implementation's concern.
type Actuators interface {
	WheelMotor
	RotationMotor
	CleaningSystem
	RechargeLED
	UVLight
}

// Hardware combines all capabilities of one robot body.
// Both the GPIO driver and the simulator implement it.
type Hardware interface {
	BatteryGauge
	ObstacleSensor
	Actuators
}

// Ensure Mock implements Hardware
var _ Hardware = (*Mock)(nil)
