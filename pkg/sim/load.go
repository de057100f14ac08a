package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/teslashibe/go-cleanbot/pkg/robot"
)

// Layout is the on-disk description of a world.
//
//	charge: 80
//	drain_per_move: 1
//	obstacles:
//	  - {x: 0, y: 3}
type Layout struct {
	Charge       *int             `yaml:"charge"`
	DrainPerMove *int             `yaml:"drain_per_move"`
	DrainPerTurn *int             `yaml:"drain_per_turn"`
	Obstacles    []robot.Position `yaml:"obstacles"`
}

// ParseLayout decodes a YAML world description.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("sim: parse layout: %w", err)
	}
	return &l, nil
}

// LoadLayout reads a YAML world description from disk.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sim: read layout: %w", err)
	}
	return ParseLayout(data)
}

// Options converts the layout into World options.
// Keys absent from the file leave earlier options in effect.
func (l *Layout) Options() []Option {
	opts := []Option{WithObstacles(l.Obstacles...)}
	if l.Charge != nil {
		opts = append(opts, WithCharge(*l.Charge))
	}
	if l.DrainPerMove != nil {
		opts = append(opts, WithMoveDrain(*l.DrainPerMove))
	}
	if l.DrainPerTurn != nil {
		opts = append(opts, WithTurnDrain(*l.DrainPerTurn))
	}
	return opts
}
