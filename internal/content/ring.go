package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duskforge/labyrinth/internal/dice"
)

// Ring is an immutable row from the magic rings table (spec §3, Magic Ring).
type Ring struct {
	Name         string  `yaml:"name"`
	Attribute    string  `yaml:"attribute"` // one of the seven attribute names
	MinMagnitude int     `yaml:"min_magnitude"`
	MaxMagnitude int     `yaml:"max_magnitude"`
	Penalty      bool    `yaml:"penalty"` // true: subtracts from the attribute instead of adding
	Cursed       bool    `yaml:"cursed"`
	Chance       float64 `yaml:"chance"` // weight among ring rows when selected
}

type ringListFile struct {
	Rings []Ring `yaml:"rings"`
}

// RingTable holds all magic ring rows.
type RingTable struct {
	rows    map[string]*Ring
	ordered []*Ring
}

// LoadRingTable reads ring rows from a YAML file.
func LoadRingTable(path string) (*RingTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ring table: %w", err)
	}
	var f ringListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse ring table: %w", err)
	}
	t := &RingTable{rows: make(map[string]*Ring, len(f.Rings))}
	for i := range f.Rings {
		r := &f.Rings[i]
		t.rows[r.Name] = r
		t.ordered = append(t.ordered, r)
	}
	return t, nil
}

func (t *RingTable) Get(name string) (*Ring, bool) { r, ok := t.rows[name]; return r, ok }
func (t *RingTable) Count() int                     { return len(t.rows) }
func (t *RingTable) All() []*Ring                   { return t.ordered }

// Random returns a ring row for chest/drop generation, weighted by Chance.
func (t *RingTable) Random(r *dice.Roller) (*Ring, bool) {
	if len(t.ordered) == 0 {
		return nil, false
	}
	weights := make([]float64, len(t.ordered))
	for i, row := range t.ordered {
		weights[i] = row.Chance
	}
	idx := pickWeighted(r, weights)
	if idx < 0 {
		return nil, false
	}
	return t.ordered[idx], true
}
