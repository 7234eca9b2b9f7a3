package combat

import (
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
	"github.com/duskforge/labyrinth/internal/entity"
)

// DropKind distinguishes the three magic-gear sub-categories a victory can
// drop (spec §4.4: "Ring 40%, Armor 30%, Weapon 30%").
type DropKind string

const (
	DropRing   DropKind = "ring"
	DropArmor  DropKind = "armor"
	DropWeapon DropKind = "weapon"
)

// VictoryPayout is the full result of defeating a monster: rewards plus
// whatever the drop rolls produced.
type VictoryPayout struct {
	XP          int
	Gold        int
	PotionDrop  bool
	ScrollDrop  bool
	GearDrop    DropKind
	DroppedRing   *content.Ring
	DroppedArmor  *content.Armor
	DroppedWeapon *content.Weapon
}

// depthMultiplier scales rewards by dungeon depth (spec §4.4).
func depthMultiplier(depth int) float64 {
	return 1.0 + 0.5*float64(depth-1)
}

// Tables bundles the content tables the victory drop roll needs, so callers
// don't have to pass four separate pointers.
type Tables struct {
	Rings   *content.RingTable
	Armors  *content.ArmorTable
	Weapons *content.WeaponTable
}

// Payout computes the victory branch reward and drop rolls for defeating m
// at depth (spec §4.4). Gold/potions earned are not applied to c here; the
// engine applies them and then credits quests, so a charm/flee escape
// (which never calls Payout) cannot accidentally reward loot.
func Payout(r *dice.Roller, m *entity.Monster, depth int, tables Tables) VictoryPayout {
	mult := depthMultiplier(depth)
	payout := VictoryPayout{
		XP:   int(float64(m.XP) * mult),
		Gold: int(float64(rollGold(r, m)) * mult),
	}

	dropChance := min(0.20, 0.05+0.01*float64(m.Difficulty))
	payout.PotionDrop = r.Float64() < dropChance
	payout.ScrollDrop = r.Float64() < dropChance

	if r.Float64() < 0.25 {
		roll := r.Float64()
		switch {
		case roll < 0.40:
			payout.GearDrop = DropRing
			payout.DroppedRing, _ = tables.Rings.Random(r)
		case roll < 0.70:
			payout.GearDrop = DropArmor
			payout.DroppedArmor, _ = tables.Armors.WeightedLabyrinthDrop(r)
		default:
			payout.GearDrop = DropWeapon
			payout.DroppedWeapon, _ = tables.Weapons.WeightedLabyrinthDrop(r)
		}
	}

	return payout
}

func rollGold(r *dice.Roller, m *entity.Monster) int {
	if m.GoldHi <= m.GoldLo {
		return m.GoldLo
	}
	return m.GoldLo + r.Intn(m.GoldHi-m.GoldLo+1)
}

// CharmReward computes the reduced reward for a successful charm: 25% of
// the depth-scaled XP and gold, no drops, no quest credit (spec §4.4).
func CharmReward(r *dice.Roller, m *entity.Monster, depth int) (xp, gold int) {
	mult := depthMultiplier(depth)
	xp = int(float64(m.XP) * mult * 0.25)
	gold = int(float64(rollGold(r, m)) * mult * 0.25)
	return xp, gold
}
