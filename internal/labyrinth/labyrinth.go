// Package labyrinth implements the Labyrinth Generator: procedural room
// entry, forced Dragon spawns, and chest/trap generation. It holds no
// state of its own — the engine owns current_room/current_monster and
// calls EnterRoom fresh on every dungeon entry (spec §4.5).
package labyrinth

import (
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
	"github.com/duskforge/labyrinth/internal/entity"
)

// ForcedDragonDepth is the depth at which every room forces a Dragon
// encounter regardless of the monster table (spec §4.5 step 1).
const ForcedDragonDepth = 5

// ForcedDragonEncounterCount is the encounter ordinal (1-based) that forces
// a Dragon regardless of depth (spec §4.5 step 2).
const ForcedDragonEncounterCount = 50

// Chest is a generated dungeon chest: always carries gold, optionally a
// bound magic ring (spec §3 Room, §4.5 step 4).
type Chest struct {
	Gold int
	Ring *entity.RingItem
}

// Room is the result of one enter_room call: a monster (mandatory unless
// it's the forced Dragon, which is still mandatory — "unless forced Dragon"
// in spec §3 only means the Dragon bypasses the weighted pick, not that it
// can be absent), an optional chest, an optional trap row, and an opaque
// background descriptor for the scene event (spec §3 Room, §4.5 step 6).
type Room struct {
	Monster    *entity.Monster
	IsDragon   bool
	Chest      *Chest
	Trap       *content.Trap
	Background string
}

// Tables bundles the content tables EnterRoom draws from.
type Tables struct {
	Monsters *content.MonsterTable
	Rings    *content.RingTable
	Traps    *content.TrapTable
}

// EnterRoom runs the six-step room generation algorithm (spec §4.5).
// encounterCount is the number of monsters encountered so far this run
// (before this room); depth is the current dungeon depth.
func EnterRoom(r *dice.Roller, tables Tables, depth, encounterCount int) *Room {
	room := &Room{}

	switch {
	case depth == ForcedDragonDepth:
		room.IsDragon = true
	case encounterCount+1 == ForcedDragonEncounterCount:
		room.IsDragon = true
	}

	if room.IsDragon {
		room.Monster = entity.NewMonster(&content.Dragon)
	} else {
		row, ok := tables.Monsters.WeightedPick(r)
		if !ok {
			row = &content.Dragon
		}
		room.Monster = entity.NewMonster(row)
	}

	if !room.IsDragon && r.Float64() < 0.25 {
		room.Chest = generateChest(r, tables.Rings)
	}

	if r.Float64() < 0.20 {
		if trap, ok := tables.Traps.Random(r); ok {
			room.Trap = trap
		}
	}

	room.Background = backgroundFor(room)
	return room
}

// generateChest builds a chest with 10-100 gold and an independent 50%
// chance of also carrying a random magic ring (spec §4.5 step 4).
func generateChest(r *dice.Roller, rings *content.RingTable) *Chest {
	chest := &Chest{Gold: 10 + r.Intn(91)}
	if r.Float64() < 0.5 {
		if row, ok := rings.Random(r); ok {
			chest.Ring = &entity.RingItem{
				Name:      row.Name,
				Attribute: entity.Attribute(row.Attribute),
				Magnitude: row.MinMagnitude + r.Intn(row.MaxMagnitude-row.MinMagnitude+1),
				Penalty:   row.Penalty,
				Cursed:    row.Cursed,
			}
		}
	}
	return chest
}

// backgroundFor picks a scene background descriptor from the room's
// contents. The mapping from keyword to named image file is opaque to the
// engine (spec §4.5 step 6); it only needs a stable string to pass through
// to the scene event, so this resolves to a small set of named scenes
// rather than a full keyword/regex index.
func backgroundFor(room *Room) string {
	if room.IsDragon {
		return "dragon_lair"
	}
	switch {
	case room.Trap != nil && room.Chest != nil:
		return "trapped_vault"
	case room.Trap != nil:
		return "trapped_chamber"
	case room.Chest != nil:
		return "treasure_chamber"
	default:
		return "corridor_" + monsterBackgroundKey(room.Monster.Name)
	}
}

// monsterBackgroundKey normalizes a monster name into the lowercase,
// underscore-joined key the scene asset lookup uses.
func monsterBackgroundKey(name string) string {
	out := make([]rune, 0, len(name))
	for _, ch := range name {
		switch {
		case ch >= 'A' && ch <= 'Z':
			out = append(out, ch-'A'+'a')
		case ch == ' ':
			out = append(out, '_')
		default:
			out = append(out, ch)
		}
	}
	if len(out) == 0 {
		return "unknown"
	}
	return string(out)
}
