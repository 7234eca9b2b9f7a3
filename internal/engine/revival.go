package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/entity"
)

// dispatchRevival handles the revival_roll phase (spec §4.8 Revival:
// "5d4 + WIS ≥ 15 + 5·death_count").
func (e *EngineState) dispatchRevival(action, payload string) []Event {
	if action != "revival:roll" {
		return e.invalidAction()
	}
	c := e.Character
	c.DeathCount++
	dc := 15 + 5*c.DeathCount
	roll := e.rng.Roll(5, 4) + c.Attributes[entity.Wisdom]

	if roll < dc {
		return e.revivalFailed()
	}
	return e.revivalSucceeded()
}

func (e *EngineState) revivalSucceeded() []Event {
	c := e.Character
	for _, a := range entity.Attributes {
		if c.Attributes[a] > entity.MinAttribute {
			c.Attributes[a]--
		}
	}
	c.HP = 1
	c.ResetDepthFlags()
	c.ResetTownVisitFlags()
	e.Depth = 0 // next town:enter starts the descent over at depth 1
	e.Phase = PhaseTown

	return []Event{
		dialogue("Death's door swings shut behind you. You wake in town, weaker."),
		e.updateStats(),
		e.townMenu(),
	}
}

func (e *EngineState) revivalFailed() []Event {
	c := e.Character
	name := c.Name
	if e.tbl.SaveStore != nil {
		if err := e.tbl.SaveStore.Delete(e.deviceID); err != nil {
			e.log.Warn("death-wipe failed", zap.Error(err))
		}
	}
	e.Character = nil
	e.Depth = 0
	e.Encounter = 0
	e.Phase = PhaseMainMenu

	return []Event{
		clearScreen(),
		dialogue(fmt.Sprintf("%s's story ends here.", name)),
		e.mainMenu(),
	}
}
