package combat

import (
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
	"github.com/duskforge/labyrinth/internal/entity"
)

// companionTiers maps a 5d4 roll to a companion tier for the Summon spell
// (spec §4.4: "roll 5d4 to pick a companion tier"). Higher rolls summon a
// stronger companion.
var companionTiers = []struct {
	max  int
	tier int
}{
	{9, 1}, {14, 2}, {17, 3}, {20, 4},
}

func companionTierForRoll(raw int) int {
	for _, t := range companionTiers {
		if raw <= t.max {
			return t.tier
		}
	}
	return companionTiers[len(companionTiers)-1].tier
}

// SpellResult reports the effect of a cast spell.
type SpellResult struct {
	Applied    bool
	Damage     int
	TargetDied bool
	ExitCombat bool // Teleport/Portal
	Companion  *entity.Companion
}

// CastSpell applies spell by name to the encounter. fullPower selects the
// Lightning Bolt die size (spec §4.4). Damage spells are reduced by the
// monster's spell_resistance when present.
func CastSpell(r *dice.Roller, c *entity.Character, m *entity.Monster, name string, fullPower bool) SpellResult {
	switch name {
	case content.SpellMagicMissile:
		return applyDamageSpell(r, m, 2, 6)
	case content.SpellFireball:
		return applyDamageSpell(r, m, 4, 6)
	case content.SpellLightningBolt:
		if fullPower {
			return applyDamageSpell(r, m, 6, 6)
		}
		return applyDamageSpell(r, m, 3, 6)
	case content.SpellFreeze:
		m.FreezeTurns++
		return SpellResult{Applied: true}
	case content.SpellVulnerability:
		m.ACPenalty += 2
		return SpellResult{Applied: true}
	case content.SpellWeakness, content.SpellSlowness:
		m.DamagePenalty += 2
		return SpellResult{Applied: true}
	case content.SpellSummon:
		tier := companionTierForRoll(rawAttackRoll(r))
		c.Companion = newCompanion(tier)
		return SpellResult{Applied: true, Companion: c.Companion}
	case content.SpellTeleport, content.SpellPortal:
		return SpellResult{Applied: true, ExitCombat: true}
	default:
		return SpellResult{}
	}
}

func applyDamageSpell(r *dice.Roller, m *entity.Monster, n, sides int) SpellResult {
	dmg := r.Roll(n, sides)
	dmg = max(0, dmg-m.SpellResistance)
	m.HP -= dmg
	return SpellResult{Applied: true, Damage: dmg, TargetDied: m.HP <= 0}
}

// newCompanion builds a companion scaled by tier (1-4). Stats scale
// linearly; tier 1 is a weak scout, tier 4 a capable fighter.
func newCompanion(tier int) *entity.Companion {
	return &entity.Companion{
		Name:      companionName(tier),
		Tier:      tier,
		MaxHP:     10 * tier,
		HP:        10 * tier,
		Strength:  3 + 2*tier,
		AC:        10 + tier,
		DamageDie: "1d4",
	}
}

func companionName(tier int) string {
	switch tier {
	case 1:
		return "Wisp"
	case 2:
		return "Hound"
	case 3:
		return "Warden"
	default:
		return "Guardian"
	}
}
