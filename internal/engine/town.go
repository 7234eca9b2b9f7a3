package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/entity"
	"github.com/duskforge/labyrinth/internal/quest"
)

const (
	costHealer       = 40
	costEat          = 10
	costTavern       = 10
	costPray         = 0
	costSleep        = 0
	costRest         = 10
	costRepair       = 30
	costRemoveCurse  = 10
	trainStep        = 50
	healBandDivisor  = 3
	restfulRollTotal = 25
)

func (e *EngineState) townMenu() Event {
	c := e.Character
	opts := []MenuOption{
		opt("town:enter", "Descend into the labyrinth"),
		opt("town:shop", "Visit the shop"),
		opt("town:healer", "Visit the healer"),
		opt("town:eat", "Eat at the inn"),
		opt("town:tavern", "Drink at the tavern"),
		opt("town:pray", "Pray at the shrine"),
		opt("town:sleep", "Sleep"),
		opt("town:rest", "Rest"),
		opt("town:train", "Train an attribute"),
		opt("town:quests", "Quest board"),
		opt("town:repair", "Repair equipment"),
		opt("town:remove_curses", "Remove curses"),
		opt("town:gamble", "Gamble"),
		opt("town:inventory", "Check inventory"),
		opt("town:save", "Save"),
		opt("town:quit", "Abandon this run"),
	}
	if c.UnspentStatPoints > 0 {
		opts = append(opts, opt("town:level", "Spend stat points"))
	}
	if c.Companion.Alive() {
		opts = append(opts, opt("town:companion", "Tend to your companion"))
	}
	return menu(opts...)
}

func (e *EngineState) dispatchTown(action, payload string) []Event {
	switch {
	case action == "town:enter":
		return e.enterLabyrinth()
	case action == "town:shop":
		e.Phase = PhaseShop
		return []Event{e.shopMenu()}
	case action == "town:healer":
		return e.visitHealer()
	case action == "town:eat":
		return e.visitUpkeep("eat", entity.Charisma, costEat, func(c *entity.Character) bool { return !c.AteThisVisit }, func(c *entity.Character) { c.AteThisVisit = true })
	case action == "town:tavern":
		return e.visitUpkeep("tavern", entity.Charisma, costTavern, func(c *entity.Character) bool { return !c.TavernThisVisit }, func(c *entity.Character) { c.TavernThisVisit = true })
	case action == "town:pray":
		return e.visitUpkeep("pray", entity.Wisdom, costPray, func(c *entity.Character) bool { return !c.PrayedThisVisit }, func(c *entity.Character) { c.PrayedThisVisit = true })
	case action == "town:sleep":
		return e.visitUpkeep("sleep", entity.Constitution, costSleep, func(c *entity.Character) bool { return !c.SleptThisVisit }, func(c *entity.Character) { c.SleptThisVisit = true })
	case action == "town:rest":
		return e.visitUpkeep("rest", entity.Constitution, costRest, func(c *entity.Character) bool { return !c.SleptThisVisit }, func(c *entity.Character) { c.SleptThisVisit = true })
	case action == "town:train":
		return []Event{dialogue("Which attribute?"), e.trainMenu()}
	case matchPrefix(action, "town:train:"):
		return e.trainAttribute(entity.Attribute(action[len("town:train:"):]))
	case action == "town:level":
		return []Event{dialogue(fmt.Sprintf("%d stat point(s) to spend.", e.Character.UnspentStatPoints)), e.levelMenu()}
	case matchPrefix(action, "town:level:"):
		return e.spendLevelPoint(entity.Attribute(action[len("town:level:"):]))
	case action == "town:quests":
		return e.showQuestBoard()
	case action == "quest:request":
		return e.requestQuest()
	case action == "town:companion":
		return e.tendCompanion()
	case action == "town:repair":
		return e.repairMenu()
	case matchPrefix(action, "town:repair_weapon:"):
		return e.repairWeapon(parseIntSuffix(action, "town:repair_weapon:"))
	case matchPrefix(action, "town:repair_armor:"):
		return e.repairArmor(parseIntSuffix(action, "town:repair_armor:"))
	case action == "town:remove_curses":
		return e.removeCurses()
	case action == "town:gamble":
		return []Event{dialogue("Exact call or range bet? Send a wager as \"guess,wager\" or \"lo,hi,wager\"."), e.gambleMenu()}
	case action == "gamble:exact":
		return e.gambleExact(payload)
	case action == "gamble:range":
		return e.gambleRange(payload)
	case action == "town:inventory":
		return e.showInventory()
	case action == "town:save":
		return e.saveGame()
	case action == "town:quit":
		return e.abandonRun()
	case action == "town:continue":
		return []Event{e.townMenu()}
	default:
		return e.invalidAction()
	}
}

// enterLabyrinth resumes the current Depth (defaulting to 1 on the very
// first descent of this run) rather than resetting it, so a round trip to
// town mid-run does not undo prior progress (spec GLOSSARY: "Depth... starts
// at 1, increases on 'go deeper', resets to 1 on successful revival" — town
// visits are not named as a reset point).
func (e *EngineState) enterLabyrinth() []Event {
	if e.Depth == 0 {
		e.Depth = 1
		e.Character.ResetDepthFlags()
	}
	e.Phase = PhaseLabyrinth
	return []Event{scene("corridor_entrance", "The torches gutter as you step into the dark."), e.labyrinthMenu()}
}

func (e *EngineState) visitHealer() []Event {
	c := e.Character
	if c.Gold < costHealer {
		return []Event{dialogue("You can't afford the healer."), e.townMenu()}
	}
	c.Gold -= costHealer
	e.stats.goldSpent += costHealer
	c.HP = c.MaxHP
	c.PoisonTurns = 0
	c.DamagePenalty = 0
	c.ACPenalty = 0
	return []Event{dialogue("The healer mends every wound."), e.updateStats(), e.townMenu()}
}

// visitUpkeep implements the Eat/Tavern/Pray/Sleep/Rest once-per-visit roll
// (spec §4.8 Town: "5d4 + attribute > 25 -> heal ceil(max_hp/3)").
func (e *EngineState) visitUpkeep(label string, attr entity.Attribute, cost int, available func(*entity.Character) bool, mark func(*entity.Character)) []Event {
	c := e.Character
	if !available(c) {
		return []Event{dialogue("You've already done that this visit."), e.townMenu()}
	}
	if c.Gold < cost {
		return []Event{dialogue("You can't afford it."), e.townMenu()}
	}
	c.Gold -= cost
	e.stats.goldSpent += cost
	mark(c)

	roll := e.rng.Roll(5, 4) + c.Attributes[attr]
	if roll <= restfulRollTotal {
		return []Event{dialogue("Nothing comes of it this time."), e.townMenu()}
	}
	heal := ceilDiv(c.MaxHP, healBandDivisor)
	c.HP = min(c.HP+heal, c.MaxHP)
	return []Event{dialogue(fmt.Sprintf("You feel restored. (%s, +%d hp)", label, heal)), e.updateStats(), e.townMenu()}
}

func (e *EngineState) trainMenu() Event {
	var opts []MenuOption
	for _, a := range entity.Attributes {
		opts = append(opts, opt("town:train:"+string(a), string(a)))
	}
	opts = append(opts, opt("town:continue", "Back"))
	return menu(opts...)
}

// trainAttribute applies the training cost curve and cap (spec §4.8:
// "pay 50·(trained_times+1); total trainings across all attributes capped
// at 7; Constitution training also +5 max_hp").
func (e *EngineState) trainAttribute(attr entity.Attribute) []Event {
	c := e.Character
	if c.TotalTraining() >= 7 {
		return []Event{dialogue("You've trained as much as your body can take."), e.townMenu()}
	}
	cost := trainStep * (c.AttributeTraining[attr] + 1)
	if c.Gold < cost {
		return []Event{dialogue(fmt.Sprintf("Training costs %d gold; you don't have it.", cost)), e.townMenu()}
	}
	c.Gold -= cost
	e.stats.goldSpent += cost
	c.AttributeTraining[attr]++
	c.Attributes[attr]++
	if attr == entity.Constitution {
		c.MaxHP += 5
	}
	return []Event{dialogue(fmt.Sprintf("%s trained to %d.", attr, c.Attributes[attr])), e.updateStats(), e.townMenu()}
}

func (e *EngineState) levelMenu() Event {
	c := e.Character
	if c.UnspentStatPoints <= 0 {
		return continueMenu("town:continue")
	}
	var opts []MenuOption
	for _, a := range entity.Attributes {
		opts = append(opts, opt("town:level:"+string(a), string(a)))
	}
	return menu(opts...)
}

func (e *EngineState) spendLevelPoint(attr entity.Attribute) []Event {
	c := e.Character
	if !c.SpendPoint(attr) {
		return []Event{dialogue("No points left to spend."), e.townMenu()}
	}
	return []Event{dialogue(fmt.Sprintf("%s raised to %d.", attr, c.Attributes[attr])), e.updateStats(), e.levelMenuOrTown()}
}

func (e *EngineState) levelMenuOrTown() Event {
	if e.Character.UnspentStatPoints > 0 {
		return e.levelMenu()
	}
	return e.townMenu()
}

func (e *EngineState) showQuestBoard() []Event {
	c := e.Character
	text := "Active quests:"
	if len(c.ActiveQuests) == 0 {
		text += " none."
	}
	for _, q := range c.ActiveQuests {
		text += fmt.Sprintf("\n%s x1 (%d/%d) -> %dg", q.Target, q.Progress, q.Goal, q.RewardGold)
	}
	opts := []MenuOption{opt("town:continue", "Back")}
	if quest.CanOffer(c) {
		opts = append([]MenuOption{opt("quest:request", "Request a new quest")}, opts...)
	}
	return []Event{dialogue(text), menu(opts...)}
}

func (e *EngineState) requestQuest() []Event {
	c := e.Character
	if !quest.CanOffer(c) {
		return []Event{dialogue("You already carry as many quests as you can manage."), e.townMenu()}
	}
	q, ok := quest.GenerateOffer(e.rng, c, e.tbl.Monsters)
	if !ok {
		return []Event{dialogue("The board has nothing suitable for you right now."), e.townMenu()}
	}
	c.ActiveQuests = append(c.ActiveQuests, q)
	return []Event{dialogue(fmt.Sprintf("New quest: slay a %s for %d gold.", q.Target, q.RewardGold)), e.townMenu()}
}

func (e *EngineState) tendCompanion() []Event {
	c := e.Character
	if !c.Companion.Alive() {
		return []Event{dialogue("You have no companion."), e.townMenu()}
	}
	if c.HealingPotions <= 0 {
		return []Event{dialogue("You have no healing potions to spare."), e.townMenu()}
	}
	c.HealingPotions--
	heal := e.rng.Roll(2, 4)
	c.Companion.HP = min(c.Companion.HP+heal, c.Companion.MaxHP)
	return []Event{dialogue(fmt.Sprintf("%s recovers %d hp.", c.Companion.Name, heal)), e.townMenu()}
}

func (e *EngineState) repairMenu() []Event {
	c := e.Character
	var opts []MenuOption
	for i, w := range c.Weapons {
		if w.Damaged {
			opts = append(opts, opt(fmt.Sprintf("town:repair_weapon:%d", i), "Repair "+w.Name))
		}
	}
	for i, a := range c.Armors {
		if a.Damaged {
			opts = append(opts, opt(fmt.Sprintf("town:repair_armor:%d", i), "Repair "+a.Name))
		}
	}
	if len(opts) == 0 {
		return []Event{dialogue("Nothing needs repair."), e.townMenu()}
	}
	opts = append(opts, opt("town:continue", "Back"))
	return []Event{menu(opts...)}
}

func (e *EngineState) repairWeapon(idx int) []Event {
	c := e.Character
	if idx < 0 || idx >= len(c.Weapons) || !c.Weapons[idx].Damaged {
		return e.invalidAction()
	}
	if c.Gold < costRepair {
		return []Event{dialogue("You can't afford the repair."), e.townMenu()}
	}
	c.Gold -= costRepair
	e.stats.goldSpent += costRepair
	c.Weapons[idx].Damaged = false
	return []Event{dialogue("Repaired."), e.updateStats(), e.townMenu()}
}

func (e *EngineState) repairArmor(idx int) []Event {
	c := e.Character
	if idx < 0 || idx >= len(c.Armors) || !c.Armors[idx].Damaged {
		return e.invalidAction()
	}
	if c.Gold < costRepair {
		return []Event{dialogue("You can't afford the repair."), e.townMenu()}
	}
	c.Gold -= costRepair
	e.stats.goldSpent += costRepair
	c.Armors[idx].Damaged = false
	return []Event{dialogue("Repaired."), e.updateStats(), e.townMenu()}
}

func (e *EngineState) removeCurses() []Event {
	c := e.Character
	n := 0
	for _, r := range c.Rings {
		if r.Cursed {
			n++
		}
	}
	if n == 0 {
		return []Event{dialogue("You carry no cursed items."), e.townMenu()}
	}
	cost := n * costRemoveCurse
	if c.Gold < cost {
		return []Event{dialogue(fmt.Sprintf("Cleansing %d item(s) costs %d gold.", n, cost)), e.townMenu()}
	}
	c.Gold -= cost
	e.stats.goldSpent += cost
	for _, r := range c.Rings {
		r.Cursed = false
	}
	return []Event{dialogue("The curses lift."), e.updateStats(), e.townMenu()}
}

func (e *EngineState) gambleMenu() Event {
	return menu(
		opt("gamble:exact", "Guess the die (1-4)"),
		opt("gamble:range", "Guess a d20 range"),
		opt("town:continue", "Back"),
	)
}

// gambleExact resolves the exact-die-guess wager (payload "guess,wager"),
// a 1d4 roll at 4x payout on a correct call (spec §4.8 Gamble).
func (e *EngineState) gambleExact(payload string) []Event {
	c := e.Character
	var guess, wager int
	fmt.Sscanf(payload, "%d,%d", &guess, &wager)
	if wager <= 0 || wager > c.Gold {
		return []Event{dialogue("Name a wager you can cover."), e.townMenu()}
	}
	roll := e.rng.Roll(1, 4)
	if roll == guess {
		c.Gold += wager * 3
		return []Event{dialogue(fmt.Sprintf("The die shows %d. You win %d gold!", roll, wager*3)), e.updateStats(), e.townMenu()}
	}
	c.Gold -= wager
	e.stats.goldSpent += wager
	return []Event{dialogue(fmt.Sprintf("The die shows %d. You lose your wager.", roll)), e.updateStats(), e.townMenu()}
}

// gambleRange resolves the d20-range wager (payload "lo,hi,wager"): a
// narrower range pays out more (spec §4.8: "uses d20 for this subgame").
func (e *EngineState) gambleRange(payload string) []Event {
	c := e.Character
	var lo, hi, wager int
	fmt.Sscanf(payload, "%d,%d,%d", &lo, &hi, &wager)
	if wager <= 0 || wager > c.Gold || lo < 1 || hi > 20 || lo > hi {
		return []Event{dialogue("That's not a valid bet."), e.townMenu()}
	}
	roll := e.rng.Roll(1, 20)
	width := hi - lo + 1
	if roll >= lo && roll <= hi {
		payout := wager * 20 / width
		c.Gold += payout
		return []Event{dialogue(fmt.Sprintf("The d20 shows %d. You win %d gold!", roll, payout)), e.updateStats(), e.townMenu()}
	}
	c.Gold -= wager
	e.stats.goldSpent += wager
	return []Event{dialogue(fmt.Sprintf("The d20 shows %d. You lose your wager.", roll)), e.updateStats(), e.townMenu()}
}

func (e *EngineState) showInventory() []Event {
	c := e.Character
	text := fmt.Sprintf("%d gold.", c.Gold)
	for i, w := range c.Weapons {
		mark := ""
		if i == c.EquippedWeapon {
			mark = " (equipped)"
		}
		if w.Damaged {
			mark += " (damaged)"
		}
		text += fmt.Sprintf("\n%s%s", w.Name, mark)
	}
	for i, a := range c.Armors {
		mark := ""
		if i == c.EquippedArmor {
			mark = " (equipped)"
		}
		if a.Damaged {
			mark += " (damaged)"
		}
		text += fmt.Sprintf("\n%s%s", a.Name, mark)
	}
	for _, r := range c.Rings {
		cursed := ""
		if r.Cursed {
			cursed = " (cursed)"
		}
		text += fmt.Sprintf("\n%s%s", r.Name, cursed)
	}
	return []Event{dialogue(text), e.townMenu()}
}

func (e *EngineState) saveGame() []Event {
	if e.tbl.SaveStore == nil {
		return []Event{dialogue("There is nowhere to save to."), e.townMenu()}
	}
	if err := e.tbl.SaveStore.Save(e.deviceID, e.Character.Serialize()); err != nil {
		e.log.Warn("save failed", zap.Error(err))
		return []Event{dialogue("Your save did not go through."), e.townMenu()}
	}
	return []Event{dialogue("Saved."), e.townMenu()}
}

func (e *EngineState) abandonRun() []Event {
	e.Character = nil
	e.Depth = 0
	e.Encounter = 0
	e.Phase = PhaseMainMenu
	return []Event{clearScreen(), dialogue("You leave the labyrinth behind, for now."), e.mainMenu()}
}
