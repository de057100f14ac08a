package robot

// Command is a single instruction token.
type Command string

// Commands understood by the interpreter.
const (
	Forward   Command = "f"
	TurnLeft  Command = "l"
	TurnRight Command = "r"
)

// ParseCommand validates a raw token.
func ParseCommand(token string) (Command, error) {
	switch c := Command(token); c {
	case Forward, TurnLeft, TurnRight:
		return c, nil
	}
	return "", &CommandError{Command: token}
}

// Outcome classifies the result of one executed command.
type Outcome string

const (
	OutcomeMoved      Outcome = "moved"
	OutcomeTurned     Outcome = "turned"
	OutcomeBlocked    Outcome = "blocked"
	OutcomeLowBattery Outcome = "low_battery"
)

// Report describes what one Execute call did.
// Status is the wire string; the other fields save callers from reparsing it.
type Report struct {
	Command  string    `json:"command"`
	Status   string    `json:"status"`
	Outcome  Outcome   `json:"outcome"`
	Position Position  `json:"position"`
	Heading  Heading   `json:"heading"`
	Obstacle *Position `json:"obstacle,omitempty"`
	Charge   int       `json:"charge"`
}

// Telemetry is a snapshot of the robot state for dashboards.
type Telemetry struct {
	Position         Position `json:"position"`
	Heading          Heading  `json:"heading"`
	CleaningSystemOn bool     `json:"cleaning_system_on"`
	RechargeLEDOn    bool     `json:"recharge_led_on"`
	Initialized      bool     `json:"initialized"`
}
