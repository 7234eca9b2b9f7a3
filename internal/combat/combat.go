// Package combat implements the Combat Resolver: pure rule functions for
// attack rolls, damage, buffs/debuffs, and action effects. It mutates the
// entities it is given but owns no state of its own and performs no IO —
// the engine decides what to call and when.
package combat

import (
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
	"github.com/duskforge/labyrinth/internal/entity"
)

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

func floorDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return n / d
}

// rawAttackRoll is a 5d4 check: range [5,20]. raw==5 is a fumble, raw==20
// is a critical (spec §4.4).
func rawAttackRoll(r *dice.Roller) int {
	return r.Roll(5, 4)
}

func isFumble(raw int) bool    { return raw == 5 }
func isCritical(raw int) bool  { return raw == 20 }

// AttackResult reports what happened on one attack resolution; the engine
// uses it to pick a dialogue key and build the substitution context.
type AttackResult struct {
	Hit        bool
	Critical   bool
	Fumble     bool
	Blocked    bool
	Damage     int
	SelfDamage int // fumble self-injury
	TargetDied bool
}

// PlayerAttack resolves one player attack against m. aimZone is the
// player's declared target zone (0 = none); it blocks only when it matches
// m.DefendZone and the hit was not a critical (spec §4.4).
func PlayerAttack(r *dice.Roller, c *entity.Character, m *entity.Monster, weaponDie string, aimZone int) AttackResult {
	raw := rawAttackRoll(r)
	total := raw + c.Attributes[entity.Strength]
	res := AttackResult{Fumble: isFumble(raw), Critical: isCritical(raw)}

	if res.Fumble {
		res.SelfDamage = r.Roll(1, 4)
		c.HP -= res.SelfDamage
		return res
	}

	hit := total >= m.EffectiveAC()
	if !hit {
		return res
	}
	if !res.Critical && aimZone != 0 && aimZone == m.DefendZone {
		res.Blocked = true
		degradeWeapon(r, c)
		return res
	}

	res.Hit = true
	dmg, _ := r.RollDie(weaponDie) // RollDie substitutes 1d4 on a malformed string
	dmg += ceilDiv(c.Attributes[entity.Strength], 2)
	dmg += c.DamageBonus

	if w := c.EquippedWeaponItem(); w != nil && w.Damaged {
		dmg = max(1, dmg/2)
	}
	if res.Critical {
		dmg = int(float64(dmg) * 1.5)
	}
	res.Damage = dmg
	m.HP -= dmg
	res.TargetDied = m.HP <= 0

	degradeWeapon(r, c)
	return res
}

// degradeWeapon applies the 5% chance the equipped weapon becomes damaged
// on a landed or blocked attack (spec §4.4).
func degradeWeapon(r *dice.Roller, c *entity.Character) {
	if r.Float64() < 0.05 {
		if w := c.EquippedWeaponItem(); w != nil {
			w.Damaged = true
		}
	}
}

// degradeArmor applies the 5% chance the equipped armor becomes damaged
// whenever the player was hit or blocked (spec §4.4).
func degradeArmor(r *dice.Roller, c *entity.Character) {
	if r.Float64() < 0.05 {
		if a := c.EquippedArmorItem(); a != nil {
			a.Damaged = true
		}
	}
}

// MonsterAttack resolves one monster attack against c. An active
// invisibility buff forces a guaranteed miss and is consumed without a roll
// (spec §4.4).
func MonsterAttack(r *dice.Roller, c *entity.Character, m *entity.Monster) AttackResult {
	if c.InvisibilityOneShot {
		c.InvisibilityOneShot = false
		return AttackResult{}
	}

	raw := rawAttackRoll(r)
	total := raw + floorDiv(m.Strength, 2)
	res := AttackResult{Fumble: isFumble(raw), Critical: isCritical(raw)}

	if res.Fumble {
		res.SelfDamage = r.Roll(1, 4)
		m.HP -= res.SelfDamage
		return res
	}

	if total < c.AC() {
		return res
	}

	res.Hit = true
	dmg, _ := r.RollDie(m.DamageDie)
	dmg = max(1, dmg-m.DamagePenalty)
	res.Damage = dmg
	c.HP -= dmg

	degradeArmor(r, c)
	return res
}

// Initiative reports whether the player acts first this round. Ties favor
// the player (spec §4.4).
func Initiative(r *dice.Roller, c *entity.Character, m *entity.Monster) bool {
	playerRoll := rawAttackRoll(r) + c.Attributes[entity.Dexterity]
	monsterRoll := rawAttackRoll(r) + m.Dexterity
	return playerRoll >= monsterRoll
}

// Examine reveals monster details on success. It never ends the turn; the
// engine gates repeat attempts with Character.ExamineUsed (spec §4.4).
func Examine(r *dice.Roller, c *entity.Character) bool {
	return rawAttackRoll(r)+c.Attributes[entity.Wisdom] > 25
}

// DivineResult reports the outcome of a divine-aid action.
type DivineResult struct {
	Success    bool
	Damage     int
	TargetDied bool
}

// DivineAid resolves the divine-aid action. Success rolls 4d6 at a check of
// 16 or higher, 3d6 otherwise; either outcome consumes the turn (spec §4.4).
func DivineAid(r *dice.Roller, c *entity.Character, m *entity.Monster) DivineResult {
	roll := rawAttackRoll(r) + (c.Attributes[entity.Wisdom] - 10)
	if roll < 12 {
		return DivineResult{}
	}
	dmg := r.Roll(3, 6)
	if roll >= 16 {
		dmg = r.Roll(4, 6)
	}
	m.HP -= dmg
	return DivineResult{Success: true, Damage: dmg, TargetDied: m.HP <= 0}
}

// Charm resolves the charm action. Dragons are immune (spec §4.4).
func Charm(r *dice.Roller, c *entity.Character, m *entity.Monster) bool {
	if m.IsDragon() {
		return false
	}
	roll := rawAttackRoll(r) + ceilDiv(c.Attributes[entity.Charisma], 2)
	return roll >= 20+floorDiv(m.Difficulty, 2)
}

// Flee resolves the flee action.
func Flee(r *dice.Roller, c *entity.Character, m *entity.Monster) bool {
	roll := rawAttackRoll(r) + ceilDiv(c.Attributes[entity.Dexterity], 2)
	return roll > 15+ceilDiv(m.Dexterity, 2)
}

// PotionResult reports the effect of a used potion.
type PotionResult struct {
	Applied   bool
	HealedHP  int
	Consumed  bool // consumes the combat turn; false only for Antidote
}

// UsePotion applies potion by name to c. Outside combat only Healing and
// Antidote have a lasting effect.
func UsePotion(r *dice.Roller, c *entity.Character, name string) PotionResult {
	switch name {
	case content.PotionHealing:
		heal := ceilDiv(c.Attributes[entity.Constitution], 2) * r.Roll(2, 2)
		c.HP = min(c.HP+heal, c.MaxHP)
		return PotionResult{Applied: true, HealedHP: heal, Consumed: true}
	case content.PotionStrength:
		c.DamageBonus += 2
		return PotionResult{Applied: true, Consumed: true}
	case content.PotionIntelligence:
		c.DamageBonus += 1
		return PotionResult{Applied: true, Consumed: true}
	case content.PotionSpeed:
		c.ExtraAttackCharges++
		return PotionResult{Applied: true, Consumed: true}
	case content.PotionProtection:
		c.ACBonus += 3
		return PotionResult{Applied: true, Consumed: true}
	case content.PotionInvisibility:
		c.InvisibilityOneShot = true
		return PotionResult{Applied: true, Consumed: true}
	case content.PotionAntidote:
		c.PoisonTurns = 0
		return PotionResult{Applied: true, Consumed: false}
	default:
		return PotionResult{}
	}
}
