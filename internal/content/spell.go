package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Spell effect names the Combat Resolver switches on by Name (spec §4.4
// "Cast spell").
const (
	SpellMagicMissile  = "Magic Missile"
	SpellFireball      = "Fireball"
	SpellLightningBolt = "Lightning Bolt"
	SpellFreeze        = "Freeze"
	SpellVulnerability = "Vulnerability"
	SpellWeakness      = "Weakness"
	SpellSlowness      = "Slowness"
	SpellSummon        = "Summon"
	SpellTeleport      = "Teleport"
	SpellPortal        = "Portal"
)

// Spell is an immutable row from the spells table.
type Spell struct {
	Name      string `yaml:"name"`
	BasePrice int    `yaml:"base_price"`
}

type spellListFile struct {
	Spells []Spell `yaml:"spells"`
}

// SpellTable holds all spell rows indexed by name.
type SpellTable struct {
	rows    map[string]*Spell
	ordered []*Spell
}

// LoadSpellTable reads spell rows from a YAML file.
func LoadSpellTable(path string) (*SpellTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spell table: %w", err)
	}
	var f spellListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spell table: %w", err)
	}
	t := &SpellTable{rows: make(map[string]*Spell, len(f.Spells))}
	for i := range f.Spells {
		s := &f.Spells[i]
		t.rows[s.Name] = s
		t.ordered = append(t.ordered, s)
	}
	return t, nil
}

func (t *SpellTable) Get(name string) (*Spell, bool) { s, ok := t.rows[name]; return s, ok }
func (t *SpellTable) Count() int                      { return len(t.rows) }
func (t *SpellTable) All() []*Spell                   { return t.ordered }
