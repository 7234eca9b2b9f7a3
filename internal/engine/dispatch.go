package engine

import (
	"time"

	"go.uber.org/zap"
)

// Dispatch routes one inbound action to the handler for the current phase
// and returns the ordered event list it produces (spec §4.8: "every phase
// handler returns a list of events to emit"). payload carries free-text
// input for prompt-driven actions (name entry, review rating/text, gamble
// wagers); handlers that don't need it ignore it.
func (e *EngineState) Dispatch(action, payload string) []Event {
	switch e.Phase {
	case PhaseMainMenu:
		return e.dispatchMainMenu(action, payload)
	case PhaseSelectDifficulty:
		return e.dispatchSelectDifficulty(action, payload)
	case PhaseIntro:
		return e.dispatchIntro(action, payload)
	case PhaseCreateName:
		return e.dispatchCreateName(action, payload)
	case PhaseCreateAttrs:
		return e.dispatchCreateAttrs(action, payload)
	case PhaseTown:
		return e.dispatchTown(action, payload)
	case PhaseShop:
		return e.dispatchShop(action, payload)
	case PhaseLabyrinth:
		return e.dispatchLabyrinth(action, payload)
	case PhaseCombat:
		return e.dispatchCombat(action)
	case PhaseRevivalRoll:
		return e.dispatchRevival(action, payload)
	case PhaseVictory:
		return e.dispatchVictory(action, payload)
	default:
		e.log.Error("dispatch on unknown phase", zap.String("phase", string(e.Phase)))
		return e.invalidAction()
	}
}

// dispatchVictory handles the victory end-screen: the save and leaderboard
// entry are committed here, once, when the player sends victory:continue;
// concludeCombat only enters this phase (spec §4.8: "victory | continue |
// main_menu (save committed and leaderboard appended)").
func (e *EngineState) dispatchVictory(action, payload string) []Event {
	if action != "victory:continue" {
		return e.invalidAction()
	}
	e.commitVictory()
	e.Character = nil
	e.Depth = 0
	e.Encounter = 0
	e.Phase = PhaseMainMenu
	return []Event{clearScreen(), e.mainMenu()}
}

func (e *EngineState) commitVictory() {
	c := e.Character
	if e.tbl.SaveStore != nil {
		if err := e.tbl.SaveStore.Save(e.deviceID, c.Serialize()); err != nil {
			e.log.Warn("victory save failed", zap.Error(err))
		}
	}
	if e.tbl.Board != nil {
		entry := LeaderboardEntry{
			Name:       c.Name,
			Level:      c.Level,
			Difficulty: string(c.Difficulty),
			Date:       time.Now().Unix(),
			Monsters:   e.stats.monstersDefeated,
			Quests:     e.stats.questsCompleted,
			Gold:       c.Gold,
		}
		if err := e.tbl.Board.Append(entry); err != nil {
			e.log.Warn("leaderboard append failed", zap.Error(err))
		}
	}
}

// Greet returns the current phase's menu without consuming an action,
// for a transport to show a freshly (re)connected device where it left
// off — the main menu, or straight into town if a save was loaded.
func (e *EngineState) Greet() []Event {
	return e.invalidAction()
}

// invalidAction ignores the action and re-emits the current phase's menu,
// without mutating state (spec §7: "Invalid action for current phase").
func (e *EngineState) invalidAction() []Event {
	switch e.Phase {
	case PhaseMainMenu:
		return []Event{e.mainMenu()}
	case PhaseSelectDifficulty:
		return []Event{e.difficultyMenu()}
	case PhaseCreateAttrs:
		return []Event{e.rollMenu()}
	case PhaseTown:
		return []Event{e.townMenu()}
	case PhaseShop:
		return []Event{e.shopMenu()}
	case PhaseLabyrinth:
		return []Event{e.labyrinthMenu()}
	case PhaseCombat:
		return e.combatMenu()
	default:
		return []Event{pause()}
	}
}
