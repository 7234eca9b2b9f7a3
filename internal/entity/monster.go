package entity

import "github.com/duskforge/labyrinth/internal/content"

// Monster is a live encounter instance, copied directly from a content row
// with no depth scaling (spec §3 Monster Instance — "reward scaling happens
// at payout time", not here).
type Monster struct {
	Name            string
	HP              int
	MaxHP           int
	AC              int
	Strength        int
	Dexterity       int
	DamageDie       string
	XP              int
	GoldLo          int
	GoldHi          int
	WanderChance    float64
	Difficulty      int
	Abilities       []string
	SpellResistance int

	// Combat-scoped state, cleared with the encounter.
	DefendZone     int // declared block zone for this round; 0 = none
	DamagePenalty  int
	ACPenalty      int
	FreezeTurns    int
	Invisible      bool // not set or read by combat resolution
}

// NewMonster copies a content row into a fresh combat instance.
func NewMonster(row *content.Monster) *Monster {
	return &Monster{
		Name:            row.Name,
		HP:              row.HP,
		MaxHP:           row.HP,
		AC:              row.AC,
		Strength:        row.Strength,
		Dexterity:       row.Dexterity,
		DamageDie:       row.DamageDie,
		XP:              row.XP,
		GoldLo:          row.GoldLo,
		GoldHi:          row.GoldHi,
		WanderChance:    row.WanderChance,
		Difficulty:      row.Difficulty,
		Abilities:       row.Abilities,
		SpellResistance: row.SpellResistance,
	}
}

// Alive reports whether the monster can still act or be targeted.
func (m *Monster) Alive() bool {
	return m.HP > 0
}

// IsDragon reports whether this instance is the forced boss row.
func (m *Monster) IsDragon() bool {
	return m.Name == content.DragonName
}

// EffectiveAC applies the monster's temporary ac_penalty (spec §4.4).
func (m *Monster) EffectiveAC() int {
	ac := m.AC - m.ACPenalty
	if ac < 0 {
		return 0
	}
	return ac
}
