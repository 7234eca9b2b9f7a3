// Package engine implements the Game Engine: the event-driven state machine
// that advances a persistent Character through character creation, the town
// hub, the labyrinth, and combat (spec §4.8). It is the only authoritative
// holder of game state; transports and the session host only move action
// strings in and Event lists out.
package engine

import (
	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/combat"
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
	"github.com/duskforge/labyrinth/internal/entity"
	"github.com/duskforge/labyrinth/internal/labyrinth"
)

// Phase names one node of the state machine (spec §4.8 transition table).
type Phase string

const (
	PhaseMainMenu         Phase = "main_menu"
	PhaseSelectDifficulty Phase = "select_difficulty"
	PhaseIntro            Phase = "intro"
	PhaseCreateName       Phase = "create_name"
	PhaseCreateAttrs      Phase = "create_attrs"
	PhaseTown             Phase = "town"
	PhaseShop             Phase = "shop"
	PhaseLabyrinth        Phase = "labyrinth"
	PhaseCombat           Phase = "combat"
	PhaseRevivalRoll      Phase = "revival_roll"
	PhaseVictory          Phase = "victory"
)

// Tables bundles every content table and persistence/review dependency the
// engine's handlers read from. All are immutable after load and safe to
// share across sessions (spec §5).
type Tables struct {
	Monsters  *content.MonsterTable
	Weapons   *content.WeaponTable
	Armors    *content.ArmorTable
	Potions   *content.PotionTable
	Spells    *content.SpellTable
	Rings     *content.RingTable
	Traps     *content.TrapTable
	Dialogue  *content.DialogueTable
	Victory   combat.Tables
	SaveStore SaveStore
	Board     LeaderboardStore
	Review    ReviewSubmitter
}

// SaveStore, LeaderboardStore, and ReviewSubmitter are declared here (rather
// than imported from internal/persistence) so this package has no
// dependency on the storage backend; internal/persistence implements these
// same method sets (spec §4.9).
type SaveStore interface {
	Save(deviceID string, rec entity.Record) error
	Load(deviceID string) (entity.Record, bool, error)
	Delete(deviceID string) error
}

// LeaderboardEntry is one append-only leaderboard record (spec §6.3).
type LeaderboardEntry struct {
	Name       string
	Level      int
	Difficulty string
	Date       int64
	Monsters   int
	Quests     int
	Gold       int
}

type LeaderboardStore interface {
	Append(entry LeaderboardEntry) error
	Recent(limit int) ([]LeaderboardEntry, error)
}

type ReviewSubmitter interface {
	Submit(rating int, text string) error
}

// creationState tracks the in-progress name/attribute flow (spec §4.8
// Creation: "order of rolls is serialized; each displayed pending roll
// must be placed before the next is rolled").
type creationState struct {
	name         string
	pendingValue int
	hasPending   bool
	attrs        map[entity.Attribute]int
}

// reviewState tracks the two-step rating/text prompt for the main-menu
// review flow (spec §6.4).
type reviewState struct {
	pendingRating int
	hasRating     bool
}

// runStats accumulates the leaderboard detail fields for the current run
// (spec §6.3: "run statistics").
type runStats struct {
	monstersDefeated int
	questsCompleted  int
	goldEarned       int
	goldSpent        int
	potionsUsed      int
	spellsUsed       int
}

// EngineState is one session's complete game state: the character, the
// current phase, and whatever scratch state the active phase needs. The
// Session Host owns one of these per device id (spec §4.10).
type EngineState struct {
	Phase     Phase
	Character *entity.Character
	Depth     int
	Encounter int // total monsters encountered this run, for the forced-Dragon rule

	Room    *labyrinth.Room
	Monster *entity.Monster

	deviceID   string
	difficulty entity.Difficulty
	creation   creationState
	review     reviewState
	stats      runStats

	rng *dice.Roller
	log *zap.Logger
	tbl *Tables
}

// New builds a fresh EngineState at the main menu for one device.
func New(seed int64, deviceID string, log *zap.Logger, tables *Tables) *EngineState {
	return &EngineState{
		Phase:    PhaseMainMenu,
		deviceID: deviceID,
		rng:      dice.New(seed),
		log:      log,
		tbl:      tables,
	}
}

func (e *EngineState) dlg(key string, ctx map[string]any) string {
	if e.tbl.Dialogue == nil {
		return key
	}
	return e.tbl.Dialogue.Format(key, ctx)
}

// statsSnapshot builds the current update_stats payload (spec §6.2).
func (e *EngineState) statsSnapshot() *Stats {
	c := e.Character
	if c == nil {
		return &Stats{}
	}
	return &Stats{
		HP: c.HP, MaxHP: c.MaxHP, Gold: c.Gold, XP: c.XP, Level: c.Level,
		Depth: e.Depth, Summary: c.Name + " the " + string(c.Difficulty),
	}
}

func (e *EngineState) updateStats() Event {
	return Event{Kind: EventUpdateStats, Stats: e.statsSnapshot()}
}

// questByTarget finds the active quest (if any) targeting name.
func questByTarget(c *entity.Character, name string) *entity.Quest {
	for _, q := range c.ActiveQuests {
		if q.Target == name {
			return q
		}
	}
	return nil
}
