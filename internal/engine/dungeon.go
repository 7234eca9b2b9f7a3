package engine

import (
	"fmt"

	"github.com/duskforge/labyrinth/internal/combat"
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/labyrinth"
	"github.com/duskforge/labyrinth/internal/trap"
)

func (e *EngineState) labyrinthMenu() Event {
	opts := []MenuOption{opt("dng:deeper", "Go deeper")}
	if e.Room != nil && e.Room.Chest != nil {
		opts = append(opts, opt("dng:open_chest", "Open the chest"))
	}
	opts = append(opts,
		opt("dng:divine", "Pray for guidance"),
		opt("dng:listen", "Listen at the walls"),
		opt("dng:examine_items", "Check your gear"),
		opt("dng:use_potion", "Use a potion"),
		opt("dng:back", "Return to town"),
	)
	return menu(opts...)
}

func (e *EngineState) dispatchLabyrinth(action, payload string) []Event {
	switch {
	case action == "dng:deeper":
		return e.goDeeper()
	case action == "dng:back":
		e.Phase = PhaseTown
		e.Character.ResetTownVisitFlags()
		return []Event{sceneReset(), e.townMenu()}
	case action == "dng:divine":
		return e.listenOrDivine("divine", &e.Character.DivineUsedThisDepth)
	case action == "dng:listen":
		return e.listenOrDivine("listen", &e.Character.ListenUsedThisDepth)
	case action == "dng:open_chest":
		return e.openChest()
	case action == "dng:examine_items":
		return e.showInventory()
	case action == "dng:use_potion":
		return e.labyrinthPotionMenu()
	case matchPrefix(action, "dng:potion:"):
		return e.useLabyrinthPotion(action[len("dng:potion:"):])
	default:
		return e.invalidAction()
	}
}

// goDeeper advances Depth, generates the next room, resolves any attached
// trap, and engages the room's monster (spec §4.8: "dng:deeper -> combat
// (room generated, trap resolved, monster engaged)").
func (e *EngineState) goDeeper() []Event {
	e.Depth++
	e.Character.ResetDepthFlags()

	tables := labyrinth.Tables{Monsters: e.tbl.Monsters, Rings: e.tbl.Rings, Traps: e.tbl.Traps}
	room := labyrinth.EnterRoom(e.rng, tables, e.Depth, e.Encounter)
	e.Room = room

	events := []Event{scene(room.Background, "")}

	if room.Trap != nil {
		res := trap.Resolve(e.rng, e.Character, room.Trap)
		events = append(events, e.describeTrap(res)...)
		if e.Character.HP <= 0 {
			e.Phase = PhaseRevivalRoll
			return append(events, e.updateStats(), continueMenu("revival:roll"))
		}
	}

	return append(events, e.startCombat()...)
}

func (e *EngineState) describeTrap(res trap.Result) []Event {
	if res.Dodged {
		return []Event{dialogue("You sidestep a trap.")}
	}
	switch res.Effect {
	case content.TrapGoldDust:
		return []Event{dialogue(fmt.Sprintf("A trap detonates, costing you %d gold and %d hp.", res.GoldLost, res.Damage))}
	case content.TrapPoison:
		return []Event{dialogue(fmt.Sprintf("A poison dart strikes you for %d hp; venom seeps into your veins.", res.Damage))}
	case content.TrapRustWpn:
		return []Event{dialogue(fmt.Sprintf("A rust trap corrodes your gear for %d hp.", res.Damage))}
	case content.TrapDexDown:
		return []Event{dialogue(fmt.Sprintf("A trap saps your dexterity for %d hp.", res.Damage))}
	default:
		return []Event{dialogue(fmt.Sprintf("A trap hits you for %d hp.", res.Damage))}
	}
}

// listenOrDivine handles the non-combat dng:divine/dng:listen flavor
// actions: spec §4.4's Divine/Listen contracts are combat-only, so outside
// combat these are lightweight, once-per-depth flavor lines rather than
// another roll-resolved mechanic.
func (e *EngineState) listenOrDivine(label string, used *bool) []Event {
	if *used {
		return []Event{dialogue("You've already done that at this depth."), e.labyrinthMenu()}
	}
	*used = true
	var text string
	if label == "divine" {
		text = "A faint warmth answers your prayer, but reveals nothing new here."
	} else {
		text = "You press an ear to the stone. Somewhere ahead, something shifts."
	}
	return []Event{dialogue(text), e.labyrinthMenu()}
}

func (e *EngineState) openChest() []Event {
	if e.Room == nil || e.Room.Chest == nil {
		return []Event{dialogue("There is no chest here."), e.labyrinthMenu()}
	}
	chest := e.Room.Chest
	e.Character.Gold += chest.Gold
	e.stats.goldEarned += chest.Gold
	text := fmt.Sprintf("The chest yields %d gold.", chest.Gold)
	if chest.Ring != nil {
		e.Character.Rings = append(e.Character.Rings, chest.Ring)
		chest.Ring.ApplyTo(e.Character)
		text += fmt.Sprintf(" A %s binds to you.", chest.Ring.Name)
	}
	e.Room.Chest = nil
	return []Event{dialogue(text), e.updateStats(), e.labyrinthMenu()}
}

func (e *EngineState) labyrinthPotionMenu() []Event {
	c := e.Character
	var opts []MenuOption
	if c.HealingPotions > 0 {
		opts = append(opts, opt("dng:potion:"+content.PotionHealing, content.PotionHealing))
	}
	for name, n := range c.PotionUses {
		if n > 0 && name == content.PotionAntidote {
			opts = append(opts, opt("dng:potion:"+name, name))
		}
	}
	if len(opts) == 0 {
		return []Event{dialogue("You have no potions worth using right now."), e.labyrinthMenu()}
	}
	opts = append(opts, opt("dng:back", "Never mind"))
	return []Event{menu(opts...)}
}

func (e *EngineState) useLabyrinthPotion(name string) []Event {
	c := e.Character
	if name == content.PotionHealing {
		if c.HealingPotions <= 0 {
			return []Event{dialogue("You have none left."), e.labyrinthMenu()}
		}
		c.HealingPotions--
	} else {
		if c.PotionUses[name] <= 0 {
			return []Event{dialogue("You have none left."), e.labyrinthMenu()}
		}
		c.PotionUses[name]--
	}
	e.stats.potionsUsed++
	res := combat.UsePotion(e.rng, c, name)
	if name == content.PotionHealing {
		return []Event{dialogue(fmt.Sprintf("You recover %d hp.", res.HealedHP)), e.updateStats(), e.labyrinthMenu()}
	}
	return []Event{dialogue("Used."), e.updateStats(), e.labyrinthMenu()}
}
