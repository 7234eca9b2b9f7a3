package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/duskforge/labyrinth/internal/dice"
)

// Monster is an immutable row from the monsters table, copied into a live
// entity.Monster on room entry (spec §3, Monster Instance).
type Monster struct {
	Name            string   `yaml:"name"`
	HP              int      `yaml:"hp"`
	AC              int      `yaml:"ac"`
	Strength        int      `yaml:"strength"`
	Dexterity       int      `yaml:"dexterity"`
	DamageDie       string   `yaml:"damage_die"`
	XP              int      `yaml:"xp"`
	GoldLo          int      `yaml:"gold_lo"`
	GoldHi          int      `yaml:"gold_hi"`
	WanderChance    float64  `yaml:"wander_chance"`
	Difficulty      int      `yaml:"difficulty"`
	Abilities       []string `yaml:"abilities"`
	SpellResistance int      `yaml:"spell_resistance"`
}

// DragonName is the fixed boss row, forced at depth 5 and on the 50th
// engaged monster (spec §4.5, §GLOSSARY). It is immune to Charm.
const DragonName = "Dragon"

// Dragon is the canonical forced-encounter row. Content files may also
// carry a "Dragon" entry for flavor text lookups, but the engine always
// uses these stats for forced spawns so a miscopied data file can never
// soften the boss fight.
var Dragon = Monster{
	Name:         DragonName,
	HP:           135,
	AC:           31,
	Strength:     22,
	Dexterity:    18,
	DamageDie:    "8d7",
	XP:           2000,
	GoldLo:       500,
	GoldHi:       1500,
	WanderChance: 0, // never wanders in naturally; only forced
	Difficulty:   20,
}

type monsterListFile struct {
	Monsters []Monster `yaml:"monsters"`
}

// MonsterTable holds all monster rows indexed by name.
type MonsterTable struct {
	rows    map[string]*Monster
	ordered []*Monster // stable iteration order for weighted selection
}

// LoadMonsterTable reads monster rows from a YAML file.
func LoadMonsterTable(path string) (*MonsterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read monster table: %w", err)
	}
	var f monsterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse monster table: %w", err)
	}
	t := &MonsterTable{rows: make(map[string]*Monster, len(f.Monsters))}
	for i := range f.Monsters {
		m := &f.Monsters[i]
		t.rows[m.Name] = m
		t.ordered = append(t.ordered, m)
	}
	return t, nil
}

// Get looks up a monster row by name.
func (t *MonsterTable) Get(name string) (*Monster, bool) {
	m, ok := t.rows[name]
	return m, ok
}

// Count returns the number of loaded rows.
func (t *MonsterTable) Count() int { return len(t.rows) }

// All returns every row in load order.
func (t *MonsterTable) All() []*Monster { return t.ordered }

// WeightedPick draws a monster by wander_chance (spec §4.5 step 3). Rows
// with wander_chance <= 0 never wander in naturally (e.g. the Dragon row,
// if present for flavor lookups).
func (t *MonsterTable) WeightedPick(r *dice.Roller) (*Monster, bool) {
	if len(t.ordered) == 0 {
		return nil, false
	}
	weights := make([]float64, len(t.ordered))
	for i, m := range t.ordered {
		weights[i] = m.WanderChance
	}
	idx := pickWeighted(r, weights)
	if idx < 0 {
		return nil, false
	}
	return t.ordered[idx], true
}

// QuestEligible reports whether a monster may be a quest target: spec §3
// invariant requires wander_chance > 0.02.
func QuestEligible(m *Monster) bool {
	return m.WanderChance > 0.02
}
