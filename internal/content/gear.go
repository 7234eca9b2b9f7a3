package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duskforge/labyrinth/internal/dice"
)

// Weapon is an immutable row from the weapons table.
type Weapon struct {
	Name          string  `yaml:"name"`
	DamageDie     string  `yaml:"damage_die"`
	BasePrice     int     `yaml:"base_price"`
	LabyrinthDrop bool    `yaml:"labyrinth_drop"`
	Chance        float64 `yaml:"chance"` // weight among labyrinth-drop weapons
}

// Armor is an immutable row from the armors table.
type Armor struct {
	Name          string  `yaml:"name"`
	ArmorClass    int     `yaml:"armor_class"`
	BasePrice     int     `yaml:"base_price"`
	LabyrinthDrop bool    `yaml:"labyrinth_drop"`
	Chance        float64 `yaml:"chance"`
}

type weaponListFile struct {
	Weapons []Weapon `yaml:"weapons"`
}

type armorListFile struct {
	Armors []Armor `yaml:"armors"`
}

// WeaponTable holds all weapon rows indexed by name.
type WeaponTable struct {
	rows    map[string]*Weapon
	ordered []*Weapon
}

// LoadWeaponTable reads weapon rows from a YAML file.
func LoadWeaponTable(path string) (*WeaponTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weapon table: %w", err)
	}
	var f weaponListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse weapon table: %w", err)
	}
	t := &WeaponTable{rows: make(map[string]*Weapon, len(f.Weapons))}
	for i := range f.Weapons {
		w := &f.Weapons[i]
		t.rows[w.Name] = w
		t.ordered = append(t.ordered, w)
	}
	return t, nil
}

func (t *WeaponTable) Get(name string) (*Weapon, bool) { w, ok := t.rows[name]; return w, ok }
func (t *WeaponTable) Count() int                      { return len(t.rows) }
func (t *WeaponTable) All() []*Weapon                  { return t.ordered }

// LabyrinthDrops returns the weapon rows eligible as a dungeon chest/kill drop.
func (t *WeaponTable) LabyrinthDrops() []*Weapon {
	var out []*Weapon
	for _, w := range t.ordered {
		if w.LabyrinthDrop {
			out = append(out, w)
		}
	}
	return out
}

// WeightedLabyrinthDrop picks one labyrinth-drop weapon weighted by Chance
// (spec §4.4 victory branch: "armor/weapon picked from labyrinth-drop
// tables weighted by chance").
func (t *WeaponTable) WeightedLabyrinthDrop(r *dice.Roller) (*Weapon, bool) {
	drops := t.LabyrinthDrops()
	if len(drops) == 0 {
		return nil, false
	}
	weights := make([]float64, len(drops))
	for i, w := range drops {
		weights[i] = w.Chance
	}
	idx := pickWeighted(r, weights)
	if idx < 0 {
		return nil, false
	}
	return drops[idx], true
}

// ArmorTable holds all armor rows indexed by name.
type ArmorTable struct {
	rows    map[string]*Armor
	ordered []*Armor
}

// LoadArmorTable reads armor rows from a YAML file.
func LoadArmorTable(path string) (*ArmorTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read armor table: %w", err)
	}
	var f armorListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse armor table: %w", err)
	}
	t := &ArmorTable{rows: make(map[string]*Armor, len(f.Armors))}
	for i := range f.Armors {
		a := &f.Armors[i]
		t.rows[a.Name] = a
		t.ordered = append(t.ordered, a)
	}
	return t, nil
}

func (t *ArmorTable) Get(name string) (*Armor, bool) { a, ok := t.rows[name]; return a, ok }
func (t *ArmorTable) Count() int                     { return len(t.rows) }
func (t *ArmorTable) All() []*Armor                  { return t.ordered }

// LabyrinthDrops returns the armor rows eligible as a dungeon chest/kill drop.
func (t *ArmorTable) LabyrinthDrops() []*Armor {
	var out []*Armor
	for _, a := range t.ordered {
		if a.LabyrinthDrop {
			out = append(out, a)
		}
	}
	return out
}

// WeightedLabyrinthDrop picks one labyrinth-drop armor weighted by Chance.
func (t *ArmorTable) WeightedLabyrinthDrop(r *dice.Roller) (*Armor, bool) {
	drops := t.LabyrinthDrops()
	if len(drops) == 0 {
		return nil, false
	}
	weights := make([]float64, len(drops))
	for i, a := range drops {
		weights[i] = a.Chance
	}
	idx := pickWeighted(r, weights)
	if idx < 0 {
		return nil, false
	}
	return drops[idx], true
}
