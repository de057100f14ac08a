package robot

import "fmt"

// Heading is the direction the robot faces, rendered as its single letter code.
type Heading string

// Headings
const (
	North Heading = "N"
	South Heading = "S"
	East  Heading = "E"
	West  Heading = "W"
)

// Direction is the parameter passed to the rotation motor.
type Direction string

const (
	Left  Direction = "l"
	Right Direction = "r"
)

var (
	rightOf = map[Heading]Heading{North: East, East: South, South: West, West: North}
	leftOf  = map[Heading]Heading{North: West, West: South, South: East, East: North}
)

// Valid reports whether h is one of the four compass headings.
func (h Heading) Valid() bool {
	_, ok := rightOf[h]
	return ok
}

// Right returns the heading after a clockwise quarter turn.
func (h Heading) Right() Heading {
	return rightOf[h]
}

// Left returns the heading after a counter-clockwise quarter turn.
func (h Heading) Left() Heading {
	return leftOf[h]
}

// Turn applies a rotation in the given direction.
func (h Heading) Turn(dir Direction) Heading {
	if dir == Left {
		return h.Left()
	}
	return h.Right()
}

// ParseHeading converts a single letter code into a Heading.
func ParseHeading(s string) (Heading, error) {
	h := Heading(s)
	if !h.Valid() {
		return "", fmt.Errorf("invalid heading %q", s)
	}
	return h, nil
}

// Position is a cell on the unbounded integer grid.
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Ahead returns the neighbouring cell in the direction of h.
// North increases Y, East increases X.
func (p Position) Ahead(h Heading) Position {
	switch h {
	case North:
		return Position{X: p.X, Y: p.Y + 1}
	case South:
		return Position{X: p.X, Y: p.Y - 1}
	case East:
		return Position{X: p.X + 1, Y: p.Y}
	case West:
		return Position{X: p.X - 1, Y: p.Y}
	}
	return p
}

// String renders the position as "(x,y)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
