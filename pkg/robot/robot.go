package robot

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// LowBatteryThreshold is the highest charge still considered low.
const LowBatteryThreshold = 10

// CleaningRobot interprets commands for one robot body.
// It is not safe for concurrent use: exactly one command may be in flight.
type CleaningRobot struct {
	battery BatteryGauge
	sensor  ObstacleSensor
	act     Actuators

	logger *slog.Logger

	pos         Position
	heading     Heading
	initialized bool

	cleaningSystemOn bool
	rechargeLEDOn    bool
}

// Option configures a CleaningRobot.
type Option func(*CleaningRobot)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *CleaningRobot) {
		r.logger = logger
	}
}

// New creates an uninitialized robot over the given capabilities.
// Call Initialize before executing commands.
func New(battery BatteryGauge, sensor ObstacleSensor, act Actuators, opts ...Option) *CleaningRobot {
	r := &CleaningRobot{
		battery: battery,
		sensor:  sensor,
		act:     act,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewWithHardware creates a robot whose capabilities all come from hw.
func NewWithHardware(hw Hardware, opts ...Option) *CleaningRobot {
	return New(hw, hw, hw, opts...)
}

// Initialize places the robot at the origin facing North.
func (r *CleaningRobot) Initialize() {
	r.pos = Position{}
	r.heading = North
	r.initialized = true
}

// Place puts the robot at an arbitrary pose, marking it initialized.
func (r *CleaningRobot) Place(pos Position, heading Heading) error {
	if !heading.Valid() {
		return fmt.Errorf("place robot: invalid heading %q", heading)
	}
	r.pos = pos
	r.heading = heading
	r.initialized = true
	return nil
}

// Status renders the pose as "(x,y,H)".
func (r *CleaningRobot) Status() string {
	return fmt.Sprintf("(%d,%d,%s)", r.pos.X, r.pos.Y, r.heading)
}

// Position returns the current cell.
func (r *CleaningRobot) Position() Position {
	return r.pos
}

// Heading returns the current heading.
func (r *CleaningRobot) Heading() Heading {
	return r.heading
}

// CleaningSystemOn reports the last commanded cleaning system state.
func (r *CleaningRobot) CleaningSystemOn() bool {
	return r.cleaningSystemOn
}

// RechargeLEDOn reports the last commanded recharge indicator state.
func (r *CleaningRobot) RechargeLEDOn() bool {
	return r.rechargeLEDOn
}

// Telemetry returns a snapshot of the robot state.
func (r *CleaningRobot) Telemetry() Telemetry {
	return Telemetry{
		Position:         r.pos,
		Heading:          r.heading,
		CleaningSystemOn: r.cleaningSystemOn,
		RechargeLEDOn:    r.rechargeLEDOn,
		Initialized:      r.initialized,
	}
}

// Execute runs one command token and returns the status string:
// "(x,y,H)" normally, "!(x,y,H)" when the battery is low and
// "(x,y,H)(ox,oy)" when an obstacle blocks a forward move.
func (r *CleaningRobot) Execute(token string) (string, error) {
	rep, err := r.ExecuteReport(token)
	if err != nil {
		return "", err
	}
	return rep.Status, nil
}

// ExecuteReport is Execute with the outcome spelled out.
func (r *CleaningRobot) ExecuteReport(token string) (Report, error) {
	if !r.initialized {
		return Report{}, ErrNotInitialized
	}

	if err := r.ManageCleaningSystem(); err != nil {
		return Report{}, err
	}

	// The gauge is sampled again rather than reusing the reading above.
	charge, err := r.battery.ChargeLeft()
	if err != nil {
		return Report{}, fmt.Errorf("read charge: %w", err)
	}
	if charge <= LowBatteryThreshold {
		r.logger.Info("Low battery, command skipped", "command", token, "charge", charge)
		return r.report(token, "!"+r.Status(), OutcomeLowBattery, charge), nil
	}

	cmd, err := ParseCommand(token)
	if err != nil {
		return Report{}, err
	}

	switch cmd {
	case Forward:
		return r.forward(token, charge)
	case TurnRight:
		return r.turn(token, Right, charge)
	default:
		return r.turn(token, Left, charge)
	}
}

func (r *CleaningRobot) forward(token string, charge int) (Report, error) {
	next := r.pos.Ahead(r.heading)

	blocked, err := r.ObstacleFound()
	if err != nil {
		return Report{}, err
	}
	if blocked {
		r.logger.Debug("Obstacle ahead", "at", next.String(), "status", r.Status())
		rep := r.report(token, r.Status()+next.String(), OutcomeBlocked, charge)
		rep.Obstacle = &next
		return rep, nil
	}

	r.pos = next
	if err := r.act.DriveForward(); err != nil {
		return Report{}, fmt.Errorf("drive wheel motor: %w", err)
	}
	if err := r.act.IlluminateUV(); err != nil {
		return Report{}, fmt.Errorf("illuminate uv: %w", err)
	}

	r.logger.Debug("Moved", "status", r.Status())
	return r.report(token, r.Status(), OutcomeMoved, charge), nil
}

func (r *CleaningRobot) turn(token string, dir Direction, charge int) (Report, error) {
	if err := r.act.Rotate(dir); err != nil {
		return Report{}, fmt.Errorf("drive rotation motor: %w", err)
	}
	r.heading = r.heading.Turn(dir)

	r.logger.Debug("Turned", "direction", string(dir), "status", r.Status())
	return r.report(token, r.Status(), OutcomeTurned, charge), nil
}

func (r *CleaningRobot) report(token, status string, outcome Outcome, charge int) Report {
	return Report{
		Command:  token,
		Status:   status,
		Outcome:  outcome,
		Position: r.pos,
		Heading:  r.heading,
		Charge:   charge,
	}
}

// ObstacleFound reads the obstacle sensor. No debouncing, no history.
func (r *CleaningRobot) ObstacleFound() (bool, error) {
	found, err := r.sensor.ObstacleAhead()
	if err != nil {
		return false, fmt.Errorf("read obstacle sensor: %w", err)
	}
	return found, nil
}

// Run executes every token in commands in order, ignoring whitespace.
// It stops at the first error and returns the reports gathered so far.
func (r *CleaningRobot) Run(commands string) ([]Report, error) {
	var reports []Report
	for _, c := range commands {
		if unicode.IsSpace(c) {
			continue
		}
		rep, err := r.ExecuteReport(string(c))
		if err != nil {
			return reports, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

// Trail joins the status strings of reports with single spaces.
func Trail(reports []Report) string {
	parts := make([]string, len(reports))
	for i, rep := range reports {
		parts[i] = rep.Status
	}
	return strings.Join(parts, " ")
}
