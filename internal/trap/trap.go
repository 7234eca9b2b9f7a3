// Package trap implements the Trap Resolver: the dodge check and the four
// trap effects (spec §4.7). It mutates the Character it is given but owns
// no state of its own.
package trap

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

// Result reports the outcome of resolving a trap against a character.
type Result struct {
	Dodged     bool
	Damage     int
	Effect     string
	GoldLost   int
	PoisonSet  bool
	DexLost    int
}

// Resolve runs the dodge check and, on failure, applies the trap's damage
// roll and named effect (spec §4.7). A successful dodge applies nothing.
func Resolve(r *dice.Roller, c *entity.Character, t *content.Trap) Result {
	check := r.Roll(5, 4) + ceilDiv(c.Attributes[entity.Dexterity], 2)
	if check >= t.DC {
		return Result{Dodged: true}
	}

	res := Result{Effect: t.Effect}
	dmg, _ := r.RollDie(t.Die)
	res.Damage = dmg
	c.HP -= dmg

	switch t.Effect {
	case content.TrapGoldDust:
		lost := min(c.Gold, t.Amount)
		c.Gold -= lost
		res.GoldLost = lost
	case content.TrapPoison:
		c.PoisonTurns = t.PoisonTurns
		res.PoisonSet = true
	case content.TrapRustWpn:
		// flavor only; no mechanical effect (spec §4.7)
	case content.TrapDexDown:
		before := c.Attributes[entity.Dexterity]
		after := max(entity.MinAttribute, before-t.Amount)
		res.DexLost = before - after
		c.Attributes[entity.Dexterity] = after
	}

	return res
}
