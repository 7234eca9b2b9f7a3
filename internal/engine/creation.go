package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/entity"
)

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}

// dispatchMainMenu handles the main_menu phase (spec §6.1 Menu navigation).
func (e *EngineState) dispatchMainMenu(action, payload string) []Event {
	switch action {
	case "main:new_game":
		e.Phase = PhaseSelectDifficulty
		return []Event{clearScreen(), dialogue("Choose your path."), e.difficultyMenu()}
	case "main:leaderboard":
		return e.showLeaderboard()
	case "main:review":
		e.review = reviewState{}
		return []Event{dialogue("Rate your run, 1 to 5."), prompt("review:rating", "Rating (1-5)")}
	case "review:rating_submit":
		return e.submitReviewRating(payload)
	case "review:text_submit":
		return e.submitReviewText(payload)
	case "main:quit":
		return []Event{e.mainMenu()}
	default:
		return e.invalidAction()
	}
}

func (e *EngineState) mainMenu() Event {
	return menu(
		opt("main:new_game", "Begin a new descent"),
		opt("main:leaderboard", "View the leaderboard"),
		opt("main:review", "Leave a review"),
	)
}

func (e *EngineState) showLeaderboard() []Event {
	if e.tbl.Board == nil {
		return []Event{dialogue("No leaderboard is configured."), e.mainMenu()}
	}
	entries, err := e.tbl.Board.Recent(10)
	if err != nil {
		e.log.Warn("leaderboard read failed", zap.Error(err))
		return []Event{dialogue("The leaderboard is unavailable right now."), e.mainMenu()}
	}
	if len(entries) == 0 {
		return []Event{dialogue("No Dragon-slayers yet."), e.mainMenu()}
	}
	text := "Dragon-slayers:"
	for _, en := range entries {
		text += fmt.Sprintf("\n%s (level %d, %s) — %d gold", en.Name, en.Level, en.Difficulty, en.Gold)
	}
	return []Event{dialogue(text), e.mainMenu()}
}

func (e *EngineState) submitReviewRating(payload string) []Event {
	rating := 0
	fmt.Sscanf(payload, "%d", &rating)
	if rating < 1 || rating > 5 {
		rating = 3
	}
	e.review = reviewState{pendingRating: rating, hasRating: true}
	return []Event{prompt("review:text", "Tell us about your run")}
}

func (e *EngineState) submitReviewText(payload string) []Event {
	if !e.review.hasRating {
		return e.invalidAction()
	}
	text := payload
	if len(text) > 2000 {
		text = text[:2000]
	}
	rating := e.review.pendingRating
	e.review = reviewState{}
	if e.tbl.Review == nil {
		return []Event{dialogue("Reviews are not configured right now; thanks anyway."), e.mainMenu()}
	}
	if err := e.tbl.Review.Submit(rating, text); err != nil {
		e.log.Warn("review submission failed", zap.Error(err))
		return []Event{dialogue("Your review could not be submitted."), e.mainMenu()}
	}
	return []Event{dialogue("Thanks for the feedback."), e.mainMenu()}
}

// dispatchSelectDifficulty handles the select_difficulty phase.
func (e *EngineState) dispatchSelectDifficulty(action, payload string) []Event {
	var d entity.Difficulty
	switch action {
	case "difficulty:easy":
		d = entity.Easy
	case "difficulty:normal":
		d = entity.Normal
	case "difficulty:hard":
		d = entity.Hard
	default:
		return e.invalidAction()
	}
	e.difficulty = d
	e.Phase = PhaseIntro
	return []Event{
		dialogue("The way down is long, and few return."),
		continueMenu("intro:continue"),
	}
}

func (e *EngineState) difficultyMenu() Event {
	return menu(
		opt("difficulty:easy", "Easy"),
		opt("difficulty:normal", "Normal"),
		opt("difficulty:hard", "Hard"),
	)
}

// dispatchIntro handles the intro phase.
func (e *EngineState) dispatchIntro(action, payload string) []Event {
	if action != "intro:continue" {
		return e.invalidAction()
	}
	e.Phase = PhaseCreateName
	return []Event{dialogue("What shall we call you?"), prompt("create:name", "Name")}
}

// dispatchCreateName handles the create_name phase.
func (e *EngineState) dispatchCreateName(action, payload string) []Event {
	if action != "create:name_submit" {
		return e.invalidAction()
	}
	name := payload
	if name == "" {
		name = "Wanderer"
	}
	e.creation = creationState{name: name, attrs: make(map[entity.Attribute]int, len(entity.Attributes))}
	e.Phase = PhaseCreateAttrs
	return []Event{dialogue(fmt.Sprintf("Welcome, %s. Let's see what you're made of.", name)), e.rollMenu()}
}

func (e *EngineState) rollMenu() Event {
	if e.creation.hasPending {
		return e.assignMenu()
	}
	return menu(opt("create:roll", "Roll"))
}

func (e *EngineState) assignMenu() Event {
	var opts []MenuOption
	for _, a := range entity.Attributes {
		if _, done := e.creation.attrs[a]; !done {
			opts = append(opts, opt("create:assign:"+string(a), string(a)))
		}
	}
	return menu(opts...)
}

// dispatchCreateAttrs handles the create_attrs phase: a pending roll must be
// placed on an unfilled attribute before the next value is rolled (spec
// §4.8 Creation).
func (e *EngineState) dispatchCreateAttrs(action, payload string) []Event {
	switch {
	case action == "create:roll":
		if e.creation.hasPending {
			return e.invalidAction()
		}
		n, m := e.difficulty.CreationDie()
		e.creation.pendingValue = e.rng.Roll(n, m)
		e.creation.hasPending = true
		return []Event{
			dialogue(fmt.Sprintf("You rolled %d. Assign it to an attribute.", e.creation.pendingValue)),
			e.assignMenu(),
		}
	case matchPrefix(action, "create:assign:"):
		attr := entity.Attribute(action[len("create:assign:"):])
		return e.assignRoll(attr)
	default:
		return e.invalidAction()
	}
}

func (e *EngineState) assignRoll(attr entity.Attribute) []Event {
	if !e.creation.hasPending {
		return e.invalidAction()
	}
	if _, done := e.creation.attrs[attr]; done {
		return e.invalidAction()
	}
	valid := false
	for _, a := range entity.Attributes {
		if a == attr {
			valid = true
		}
	}
	if !valid {
		return e.invalidAction()
	}
	e.creation.attrs[attr] = e.creation.pendingValue
	e.creation.hasPending = false

	if len(e.creation.attrs) < len(entity.Attributes) {
		return []Event{dialogue(fmt.Sprintf("%s set to %d.", attr, e.creation.attrs[attr])), e.rollMenu()}
	}
	return e.finishCreation()
}

// finishCreation applies the creation-phase starting HP and gold formulas
// (spec §4.8: HP = 3·CON + roll(5d4); gold = roll(20d6) + roll(ceil(CHA/1.5)d6)
// + a low-HP tier bonus), overriding entity.NewCharacter's general
// level-up-shaped default so the creation roll is the one source of truth
// for a fresh character's vitals.
func (e *EngineState) finishCreation() []Event {
	c := entity.NewCharacter(e.creation.name, e.difficulty, e.deviceID, e.creation.attrs)

	c.MaxHP = 3*e.creation.attrs[entity.Constitution] + e.rng.Roll(5, 4)
	if c.MaxHP < 1 {
		c.MaxHP = 1
	}
	c.HP = c.MaxHP

	chaDie := ceilDiv(2*e.creation.attrs[entity.Charisma], 3) // ceil(CHA/1.5) == ceil(2·CHA/3)
	gold := e.rng.Roll(20, 6) + e.rng.Roll(chaDie, 6)
	gold += e.tierBonus(c.MaxHP)
	c.Gold = gold

	e.Character = c
	e.Depth = 0 // first town:enter sets it to 1
	e.Phase = PhaseTown
	c.ResetTownVisitFlags()
	c.ResetDepthFlags()

	return []Event{
		dialogue(fmt.Sprintf("%d hp, %d gold. The town gate stands open.", c.MaxHP, c.Gold)),
		e.updateStats(),
		e.townMenu(),
	}
}

// tierBonus picks the highest-matching low-HP band (spec §4.8 Creation).
func (e *EngineState) tierBonus(maxHP int) int {
	switch {
	case maxHP < 25:
		return e.rng.Roll(15, 6)
	case maxHP < 30:
		return e.rng.Roll(10, 6)
	case maxHP < 40:
		return e.rng.Roll(7, 6)
	case maxHP < 50:
		return e.rng.Roll(5, 6)
	case maxHP < 60:
		return e.rng.Roll(3, 6)
	default:
		return 0
	}
}
