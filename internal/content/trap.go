package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duskforge/labyrinth/internal/dice"
)

// Trap effect kinds (spec §4.7).
const (
	TrapGoldDust  = "gold_dust"
	TrapPoison    = "poison"
	TrapRustWpn   = "rust_weapon"
	TrapDexDown   = "dex_down"
)

// Trap is an immutable row from the traps table.
type Trap struct {
	Name           string `yaml:"name"`
	DC             int    `yaml:"dc"`
	Die            string `yaml:"die"`
	Effect         string `yaml:"effect"`
	Amount         int    `yaml:"amount"`          // fixed gold/DEX subtraction for gold_dust/dex_down
	PoisonTurns    int    `yaml:"poison_turns"`     // duration for the poison effect
	PoisonDie      string `yaml:"poison_die"`       // defaults to 1d4 on load; the engine's poison tick always rolls 1d4 and does not read it
}

type trapListFile struct {
	Traps []Trap `yaml:"traps"`
}

// TrapTable holds all trap rows.
type TrapTable struct {
	rows    map[string]*Trap
	ordered []*Trap
}

// LoadTrapTable reads trap rows from a YAML file.
func LoadTrapTable(path string) (*TrapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trap table: %w", err)
	}
	var f trapListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse trap table: %w", err)
	}
	t := &TrapTable{rows: make(map[string]*Trap, len(f.Traps))}
	for i := range f.Traps {
		row := &f.Traps[i]
		if row.PoisonDie == "" {
			row.PoisonDie = "1d4"
		}
		t.rows[row.Name] = row
		t.ordered = append(t.ordered, row)
	}
	return t, nil
}

func (t *TrapTable) Get(name string) (*Trap, bool) { r, ok := t.rows[name]; return r, ok }
func (t *TrapTable) Count() int                     { return len(t.rows) }
func (t *TrapTable) All() []*Trap                   { return t.ordered }

// Random returns a uniformly random trap row (spec §4.5 step 5: "attach a
// trap (random trap row)").
func (t *TrapTable) Random(r *dice.Roller) (*Trap, bool) {
	if len(t.ordered) == 0 {
		return nil, false
	}
	return t.ordered[r.Intn(len(t.ordered))], true
}
