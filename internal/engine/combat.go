package engine

import (
	"fmt"

	"github.com/duskforge/labyrinth/internal/combat"
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/entity"
	"github.com/duskforge/labyrinth/internal/quest"
)

// zoneName maps the three aim/block zones to display labels (spec
// GLOSSARY: "Zone: one of head/torso/legs").
var zoneName = map[int]string{1: "head", 2: "torso", 3: "legs"}

// startCombat engages m, rolling its first defend zone and clearing the
// character's combat-scoped flags (spec §3: "cleared between combats").
func (e *EngineState) startCombat() []Event {
	e.Character.ResetCombatFlags()
	e.Monster = e.Room.Monster
	e.Monster.DefendZone = e.rng.Intn(3) + 1
	e.Encounter++
	e.Phase = PhaseCombat
	return append(
		[]Event{dialogue(e.dlg("room.enter", nil))},
		e.combatMenu()...,
	)
}

// combatMenu builds the contextual combat action menu (spec §4.8: "Examine
// disabled after one use; Divine disabled if used this depth; Charm hidden
// vs Dragon").
func (e *EngineState) combatMenu() []Event {
	c := e.Character
	opts := []MenuOption{
		opt("combat:aim:1", "Attack head"),
		opt("combat:aim:2", "Attack torso"),
		opt("combat:aim:3", "Attack legs"),
		opt("combat:attack", "Attack"),
	}
	if !c.ExamineUsed {
		opts = append(opts, opt("combat:examine", "Examine"))
	}
	if !c.DivineUsedThisDepth {
		opts = append(opts, opt("combat:divine", "Pray for divine aid"))
	}
	if !e.Monster.IsDragon() {
		opts = append(opts, opt("combat:charm", "Charm"))
	}
	opts = append(opts,
		opt("combat:use_potion", "Use a potion"),
		opt("combat:cast_spell", "Cast a spell"),
		opt("combat:run", "Flee"),
	)
	return []Event{e.updateStats(), menu(opts...)}
}

// dispatchCombat routes one action while phase == PhaseCombat.
func (e *EngineState) dispatchCombat(action string) []Event {
	switch {
	case action == "combat:attack":
		return e.playerTurn(func() []Event { return e.resolveAttack(0) })
	case matchPrefix(action, "combat:aim:"):
		zone := parseIntSuffix(action, "combat:aim:")
		return e.playerTurn(func() []Event { return e.resolveAttack(zone) })
	case action == "combat:examine":
		return e.resolveExamine()
	case action == "combat:after_examine":
		return e.combatMenu()
	case action == "combat:divine":
		return e.playerTurn(e.resolveDivine)
	case action == "combat:charm":
		return e.resolveCharm()
	case action == "combat:run":
		return e.resolveFlee()
	case action == "combat:use_potion":
		return e.potionMenu()
	case matchPrefix(action, "combat:potion:"):
		name := action[len("combat:potion:"):]
		return e.playerTurn(func() []Event { return e.resolveUsePotion(name) })
	case action == "combat:cast_spell":
		return e.spellMenu()
	case matchPrefix(action, "combat:spell:"):
		name := action[len("combat:spell:"):]
		return e.playerTurn(func() []Event { return e.resolveCastSpell(name) })
	case action == "combat:continue":
		return e.afterCombatContinue()
	default:
		return e.invalidAction()
	}
}

// playerTurn runs the player's chosen sub-action, then — unless the
// encounter already ended — lets the monster act and ticks poison, per the
// round loop in spec §4.4.
func (e *EngineState) playerTurn(action func() []Event) []Event {
	events := action()
	if e.combatOver() {
		return append(events, e.concludeCombat()...)
	}
	events = append(events, e.monsterTurn()...)
	if e.combatOver() {
		return append(events, e.concludeCombat()...)
	}
	events = append(events, e.tickPoison()...)
	if e.combatOver() {
		return append(events, e.concludeCombat()...)
	}
	e.Monster.DefendZone = e.rng.Intn(3) + 1
	return append(events, e.combatMenu()...)
}

func (e *EngineState) combatOver() bool {
	return e.Character.HP <= 0 || (e.Monster != nil && !e.Monster.Alive())
}

func (e *EngineState) resolveAttack(zone int) []Event {
	c, m := e.Character, e.Monster
	weapon := "1d4"
	if w := c.EquippedWeaponItem(); w != nil {
		weapon = w.DamageDie
	}
	res := combat.PlayerAttack(e.rng, c, m, weapon, zone)
	switch {
	case res.Fumble:
		return []Event{combatUpdate(e.dlg("combat.fumble", map[string]any{"damage": res.SelfDamage}))}
	case res.Blocked:
		label := zoneName[zone]
		return []Event{combatUpdate(fmt.Sprintf("The %s blocks your attack to the %s.", m.Name, label))}
	case !res.Hit:
		return []Event{combatUpdate(e.dlg("combat.miss", map[string]any{"monster": m.Name}))}
	case res.Critical:
		return []Event{combatUpdate(e.dlg("combat.critical", map[string]any{"monster": m.Name, "damage": res.Damage}))}
	default:
		return []Event{combatUpdate(e.dlg("combat.hit", map[string]any{"monster": m.Name, "damage": res.Damage}))}
	}
}

func (e *EngineState) resolveExamine() []Event {
	c, m := e.Character, e.Monster
	if c.ExamineUsed {
		return e.combatMenu()
	}
	c.ExamineUsed = true
	if !combat.Examine(e.rng, c) {
		return []Event{
			combatUpdate("You learn nothing new."),
			continueMenu("combat:after_examine"),
		}
	}
	text := fmt.Sprintf("%s: %d/%d hp, AC %d, damage %s.", m.Name, m.HP, m.MaxHP, m.EffectiveAC(), m.DamageDie)
	return []Event{combatUpdate(text), continueMenu("combat:after_examine")}
}

func (e *EngineState) resolveDivine() []Event {
	c, m := e.Character, e.Monster
	c.DivineUsedThisDepth = true
	res := combat.DivineAid(e.rng, c, m)
	if !res.Success {
		return []Event{combatUpdate("Your prayer goes unanswered.")}
	}
	return []Event{combatUpdate(fmt.Sprintf("Divine light sears the %s for %d damage.", m.Name, res.Damage))}
}

// resolveCharm is its own action rather than going through playerTurn: a
// successful charm exits combat immediately with a reduced reward and
// never gives the monster a turn (spec §4.4).
func (e *EngineState) resolveCharm() []Event {
	c, m := e.Character, e.Monster
	if combat.Charm(e.rng, c, m) {
		xp, gold := combat.CharmReward(e.rng, m, e.Depth)
		c.GainXP(xp)
		c.Gold += gold
		e.stats.goldEarned += gold
		e.Phase = PhaseLabyrinth
		return []Event{
			dialogue(fmt.Sprintf("The %s is charmed and wanders off. You gain %d xp and %d gold.", m.Name, xp, gold)),
			e.updateStats(),
			e.labyrinthMenu(),
		}
	}
	return e.playerTurn(func() []Event {
		return []Event{combatUpdate(fmt.Sprintf("The %s resists your charm.", m.Name))}
	})
}

func (e *EngineState) resolveFlee() []Event {
	c, m := e.Character, e.Monster
	if combat.Flee(e.rng, c, m) {
		e.Phase = PhaseLabyrinth
		return []Event{
			dialogue(e.dlg("combat.flee_success", map[string]any{"monster": m.Name})),
			e.labyrinthMenu(),
		}
	}
	return e.playerTurn(func() []Event {
		return []Event{combatUpdate(e.dlg("combat.flee_fail", map[string]any{"monster": m.Name}))}
	})
}

func (e *EngineState) potionMenu() []Event {
	c := e.Character
	var opts []MenuOption
	if c.HealingPotions > 0 {
		opts = append(opts, opt("combat:potion:"+content.PotionHealing, content.PotionHealing))
	}
	for name, n := range c.PotionUses {
		if n > 0 {
			opts = append(opts, opt("combat:potion:"+name, name))
		}
	}
	if len(opts) == 0 {
		return append([]Event{combatUpdate("You carry no potions.")}, e.combatMenu()...)
	}
	opts = append(opts, opt("combat:after_examine", "Back"))
	return []Event{menu(opts...)}
}

func (e *EngineState) resolveUsePotion(name string) []Event {
	c := e.Character
	if name == content.PotionHealing {
		if c.HealingPotions <= 0 {
			return []Event{combatUpdate("You have none left.")}
		}
		c.HealingPotions--
	} else {
		if c.PotionUses[name] <= 0 {
			return []Event{combatUpdate("You have none left.")}
		}
		c.PotionUses[name]--
	}
	e.stats.potionsUsed++
	res := combat.UsePotion(e.rng, c, name)
	if name == content.PotionHealing {
		return []Event{combatUpdate(fmt.Sprintf("You quaff the potion and recover %d hp.", res.HealedHP))}
	}
	return []Event{combatUpdate(fmt.Sprintf("You quaff the %s potion.", name))}
}

func (e *EngineState) spellMenu() []Event {
	c := e.Character
	var opts []MenuOption
	for name, n := range c.SpellUses {
		if n > 0 {
			opts = append(opts, opt("combat:spell:"+name, name))
		}
	}
	if len(opts) == 0 {
		return append([]Event{combatUpdate("You know no spells you can cast.")}, e.combatMenu()...)
	}
	opts = append(opts, opt("combat:after_examine", "Back"))
	return []Event{menu(opts...)}
}

func (e *EngineState) resolveCastSpell(name string) []Event {
	c, m := e.Character, e.Monster
	if c.SpellUses[name] <= 0 {
		return []Event{combatUpdate("You have none left.")}
	}
	c.SpellUses[name]--
	e.stats.spellsUsed++
	res := combat.CastSpell(e.rng, c, m, name, true)
	if res.ExitCombat {
		e.Phase = PhaseTown
		c.ResetTownVisitFlags()
		return []Event{
			dialogue(fmt.Sprintf("The %s spell whisks you back to town.", name)),
			e.townMenu(),
		}
	}
	if res.Companion != nil {
		return []Event{combatUpdate(fmt.Sprintf("%s answers your summons.", res.Companion.Name))}
	}
	if res.Damage > 0 {
		return []Event{combatUpdate(fmt.Sprintf("Your %s deals %d damage to the %s.", name, res.Damage, m.Name))}
	}
	return []Event{combatUpdate(fmt.Sprintf("You cast %s.", name))}
}

func (e *EngineState) monsterTurn() []Event {
	c, m := e.Character, e.Monster
	if m.FreezeTurns > 0 {
		m.FreezeTurns--
		return []Event{combatUpdate(fmt.Sprintf("The %s is frozen solid.", m.Name))}
	}
	res := combat.MonsterAttack(e.rng, c, m)
	switch {
	case res.Fumble:
		return []Event{combatUpdate(fmt.Sprintf("The %s fumbles and hurts itself for %d.", m.Name, res.SelfDamage))}
	case !res.Hit:
		return []Event{combatUpdate(e.dlg("combat.monster_miss", map[string]any{"monster": m.Name}))}
	default:
		return []Event{combatUpdate(e.dlg("combat.monster_hit", map[string]any{"monster": m.Name, "damage": res.Damage}))}
	}
}

func (e *EngineState) tickPoison() []Event {
	c := e.Character
	if c.PoisonTurns <= 0 {
		return nil
	}
	dmg, _ := e.rng.RollDie("1d4")
	c.HP -= dmg
	c.PoisonTurns--
	return []Event{combatUpdate(fmt.Sprintf("The poison in your veins deals %d damage.", dmg))}
}

// concludeCombat handles the monster-dead / player-dead branches (spec
// §4.4 end conditions).
func (e *EngineState) concludeCombat() []Event {
	c, m := e.Character, e.Monster
	if c.HP <= 0 {
		e.Phase = PhaseRevivalRoll
		return []Event{
			dialogue(fmt.Sprintf("The %s strikes you down.", m.Name)),
			e.updateStats(),
			continueMenu("revival:roll"),
		}
	}

	// Victory.
	e.stats.monstersDefeated++
	payout := combat.Payout(e.rng, m, e.Depth, e.tbl.Victory)
	c.GainXP(payout.XP)
	c.Gold += payout.Gold
	e.stats.goldEarned += payout.Gold
	if gold := quest.CreditKill(c, m.Name); gold > 0 {
		e.stats.questsCompleted++
		c.Gold += gold
		e.stats.goldEarned += gold
	}

	events := []Event{
		dialogue(e.dlg("combat.victory", map[string]any{"monster": m.Name})),
		combatUpdate(fmt.Sprintf("You gain %d xp and %d gold.", payout.XP, payout.Gold)),
	}
	if payout.PotionDrop {
		c.HealingPotions++
		events = append(events, dialogue("A healing potion tumbles from the wreckage."))
	}
	if payout.ScrollDrop {
		if scroll := e.grantRandomScroll(); scroll != "" {
			events = append(events, dialogue(fmt.Sprintf("You find a scroll of %s.", scroll)))
		}
	}
	if payout.GearDrop != "" {
		events = append(events, dialogue(fmt.Sprintf("The %s dropped magic %s!", m.Name, payout.GearDrop)))
		e.grantGearDrop(payout)
	}
	events = append(events, e.updateStats(), continueMenu("combat:continue"))

	if m.IsDragon() {
		e.Phase = PhaseVictory
		return []Event{dialogue("With the Dragon slain, your legend is secure."), continueMenu("victory:continue")}
	}
	return events
}

// grantGearDrop turns a victory payout's content-table row into an owned
// item instance, the same row-to-instance shape content.Ring/Armor/Weapon
// rows get everywhere else they're drawn (labyrinth chest generation, the
// shop's stock).
func (e *EngineState) grantGearDrop(p combat.VictoryPayout) {
	c := e.Character
	switch p.GearDrop {
	case combat.DropRing:
		if row := p.DroppedRing; row != nil {
			ring := &entity.RingItem{
				Name:      row.Name,
				Attribute: entity.Attribute(row.Attribute),
				Magnitude: row.MinMagnitude + e.rng.Intn(row.MaxMagnitude-row.MinMagnitude+1),
				Penalty:   row.Penalty,
				Cursed:    row.Cursed,
			}
			c.Rings = append(c.Rings, ring)
			ring.ApplyTo(c)
		}
	case combat.DropArmor:
		if row := p.DroppedArmor; row != nil {
			c.Armors = append(c.Armors, &entity.ArmorItem{
				Name:          row.Name,
				ArmorClass:    row.ArmorClass,
				BasePrice:     row.BasePrice,
				LabyrinthDrop: true,
			})
		}
	case combat.DropWeapon:
		if row := p.DroppedWeapon; row != nil {
			c.Weapons = append(c.Weapons, &entity.WeaponItem{
				Name:          row.Name,
				DamageDie:     row.DamageDie,
				BasePrice:     row.BasePrice,
				LabyrinthDrop: true,
			})
		}
	}
}

// grantRandomScroll turns a victory's scroll-drop roll into a learned spell
// use, picked uniformly from the spell table (spec §4.4: "scroll drop").
func (e *EngineState) grantRandomScroll() string {
	spells := e.tbl.Spells.All()
	if len(spells) == 0 {
		return ""
	}
	row := spells[e.rng.Intn(len(spells))]
	e.Character.SpellUses[row.Name]++
	return row.Name
}

func (e *EngineState) afterCombatContinue() []Event {
	e.Phase = PhaseLabyrinth
	return []Event{e.labyrinthMenu()}
}

func matchPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func parseIntSuffix(s, prefix string) int {
	n := 0
	for _, ch := range s[len(prefix):] {
		if ch < '0' || ch > '9' {
			break
		}
		n = n*10 + int(ch-'0')
	}
	return n
}
