package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Potion effect names the Combat Resolver and town shop switch on by
// Name (spec §4.4 "Use potion"). The table only carries the shop-facing
// metadata; the effect itself is hard-coded per name since it is a fixed,
// precision-critical formula.
const (
	PotionHealing      = "Healing"
	PotionStrength     = "Strength"
	PotionIntelligence = "Intelligence"
	PotionSpeed        = "Speed"
	PotionProtection   = "Protection"
	PotionInvisibility = "Invisibility"
	PotionAntidote     = "Antidote"
)

// Potion is an immutable row from the potions table.
type Potion struct {
	Name      string `yaml:"name"`
	BasePrice int    `yaml:"base_price"`
}

type potionListFile struct {
	Potions []Potion `yaml:"potions"`
}

// PotionTable holds all potion rows indexed by name.
type PotionTable struct {
	rows    map[string]*Potion
	ordered []*Potion
}

// LoadPotionTable reads potion rows from a YAML file.
func LoadPotionTable(path string) (*PotionTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read potion table: %w", err)
	}
	var f potionListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse potion table: %w", err)
	}
	t := &PotionTable{rows: make(map[string]*Potion, len(f.Potions))}
	for i := range f.Potions {
		p := &f.Potions[i]
		t.rows[p.Name] = p
		t.ordered = append(t.ordered, p)
	}
	return t, nil
}

func (t *PotionTable) Get(name string) (*Potion, bool) { p, ok := t.rows[name]; return p, ok }
func (t *PotionTable) Count() int                      { return len(t.rows) }
func (t *PotionTable) All() []*Potion                  { return t.ordered }
