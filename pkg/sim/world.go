// Package sim provides a simulated robot body on an integer grid.
//
// World implements every robot capability. It keeps its own ground-truth pose,
// updated only by actuator calls, so the obstacle sensor answers for the cell
// the body actually faces rather than the one the interpreter believes in.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/teslashibe/go-cleanbot/pkg/robot"
)

// ErrCollision is returned when the wheel motor drives into an obstacle.
var ErrCollision = errors.New("sim: drove into obstacle")

// World is a simulated grid with obstacles and a battery.
type World struct {
	mu sync.Mutex

	pos     robot.Position
	heading robot.Heading

	obstacles map[robot.Position]bool
	cleaned   map[robot.Position]int

	charge       int
	drainPerMove int
	drainPerTurn int

	cleaningOn bool
	rechargeOn bool
	uvCycles   int
}

// Option configures a World.
type Option func(*World)

// WithCharge sets the initial battery charge.
func WithCharge(charge int) Option {
	return func(w *World) {
		w.charge = charge
	}
}

// WithDrain sets how much charge each forward move and each turn costs.
func WithDrain(perMove, perTurn int) Option {
	return func(w *World) {
		w.drainPerMove = perMove
		w.drainPerTurn = perTurn
	}
}

// WithMoveDrain sets only the cost of a forward move.
func WithMoveDrain(n int) Option {
	return func(w *World) {
		w.drainPerMove = n
	}
}

// WithTurnDrain sets only the cost of a turn.
func WithTurnDrain(n int) Option {
	return func(w *World) {
		w.drainPerTurn = n
	}
}

// WithObstacles marks cells as blocked.
func WithObstacles(cells ...robot.Position) Option {
	return func(w *World) {
		for _, c := range cells {
			w.obstacles[c] = true
		}
	}
}

// WithStart sets the ground-truth starting pose.
func WithStart(pos robot.Position, heading robot.Heading) Option {
	return func(w *World) {
		w.pos = pos
		w.heading = heading
	}
}

// NewWorld creates a world with a full battery and the body at the origin
// facing North, the pose the interpreter assumes after Initialize.
func NewWorld(opts ...Option) *World {
	w := &World{
		heading:   robot.North,
		obstacles: make(map[robot.Position]bool),
		cleaned:   make(map[robot.Position]int),
		charge:    100,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ChargeLeft implements robot.BatteryGauge.
func (w *World) ChargeLeft() (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.charge, nil
}

// ObstacleAhead implements robot.ObstacleSensor.
func (w *World) ObstacleAhead() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.obstacles[w.pos.Ahead(w.heading)], nil
}

// DriveForward implements robot.WheelMotor.
func (w *World) DriveForward() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.pos.Ahead(w.heading)
	if w.obstacles[next] {
		return fmt.Errorf("%w at %s", ErrCollision, next)
	}
	w.pos = next
	w.drain(w.drainPerMove)
	return nil
}

// Rotate implements robot.RotationMotor.
func (w *World) Rotate(dir robot.Direction) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != robot.Left && dir != robot.Right {
		return fmt.Errorf("sim: unknown direction %q", dir)
	}
	w.heading = w.heading.Turn(dir)
	w.drain(w.drainPerTurn)
	return nil
}

// IlluminateUV implements robot.UVLight. The current cell counts as cleaned.
func (w *World) IlluminateUV() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.uvCycles++
	w.cleaned[w.pos]++
	return nil
}

// SetCleaningSystem implements robot.CleaningSystem.
func (w *World) SetCleaningSystem(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cleaningOn = on
	return nil
}

// SetRechargeLED implements robot.RechargeLED.
func (w *World) SetRechargeLED(on bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rechargeOn = on
	return nil
}

func (w *World) drain(n int) {
	w.charge -= n
	if w.charge < 0 {
		w.charge = 0
	}
}

// Recharge sets the battery to the given level.
func (w *World) Recharge(charge int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.charge = charge
}

// AddObstacle blocks a cell.
func (w *World) AddObstacle(cell robot.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.obstacles[cell] = true
}

// RemoveObstacle clears a cell.
func (w *World) RemoveObstacle(cell robot.Position) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.obstacles, cell)
}

// Reset moves the body back to the origin facing North.
// Obstacles, battery and cleaning history are kept.
func (w *World) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pos = robot.Position{}
	w.heading = robot.North
}

// Snapshot is the ground truth of a World at one instant.
type Snapshot struct {
	Position   robot.Position `json:"position"`
	Heading    robot.Heading  `json:"heading"`
	Charge     int            `json:"charge"`
	CleaningOn bool           `json:"cleaning_on"`
	RechargeOn bool           `json:"recharge_on"`
	UVCycles   int            `json:"uv_cycles"`
	Cleaned    int            `json:"cleaned_cells"`
}

// Snapshot returns the current ground truth.
func (w *World) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Position:   w.pos,
		Heading:    w.heading,
		Charge:     w.charge,
		CleaningOn: w.cleaningOn,
		RechargeOn: w.rechargeOn,
		UVCycles:   w.uvCycles,
		Cleaned:    len(w.cleaned),
	}
}

// Cleaned reports how many UV cycles a cell has received.
func (w *World) Cleaned(cell robot.Position) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cleaned[cell]
}

// Ensure World implements robot.Hardware
var _ robot.Hardware = (*World)(nil)
