package labyrinth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
)

func testTables(t *testing.T) Tables {
	t.Helper()
	monsterPath := writeTempYAML(t, "monsters.yaml", `
monsters:
  - name: Goblin
    hp: 10
    ac: 8
    strength: 10
    dexterity: 10
    damage_die: 1d6
    xp: 10
    gold_lo: 1
    gold_hi: 5
    wander_chance: 1.0
    difficulty: 1
`)
	ringPath := writeTempYAML(t, "rings.yaml", `
rings:
  - name: Band of Wit
    attribute: Intelligence
    min_magnitude: 1
    max_magnitude: 3
    chance: 1.0
`)
	trapPath := writeTempYAML(t, "traps.yaml", `
traps:
  - name: Dart Trap
    dc: 10
    die: 1d4
    effect: gold_dust
    amount: 5
`)
	monsters, err := content.LoadMonsterTable(monsterPath)
	require.NoError(t, err)
	rings, err := content.LoadRingTable(ringPath)
	require.NoError(t, err)
	traps, err := content.LoadTrapTable(trapPath)
	require.NoError(t, err)
	return Tables{Monsters: monsters, Rings: rings, Traps: traps}
}

func writeTempYAML(t *testing.T, name, contents string) string {
	t.Helper()
	path := t.TempDir() + "/" + name
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestEnterRoomForcesDragonAtDepthFive(t *testing.T) {
	tables := testTables(t)
	r := dice.New(1)
	room := EnterRoom(r, tables, 5, 0)
	require.True(t, room.IsDragon)
	require.Equal(t, content.DragonName, room.Monster.Name)
	require.Equal(t, "dragon_lair", room.Background)
}

func TestEnterRoomForcesDragonOnFiftiethEncounter(t *testing.T) {
	tables := testTables(t)
	r := dice.New(1)
	room := EnterRoom(r, tables, 3, 49)
	require.True(t, room.IsDragon)
	require.Equal(t, content.DragonName, room.Monster.Name)
}

func TestEnterRoomPicksWeightedMonsterOtherwise(t *testing.T) {
	tables := testTables(t)
	r := dice.New(42)
	room := EnterRoom(r, tables, 1, 0)
	require.False(t, room.IsDragon)
	require.Equal(t, "Goblin", room.Monster.Name)
}

func TestEnterRoomChestGoldWithinRange(t *testing.T) {
	tables := testTables(t)
	for seed := int64(0); seed < 100; seed++ {
		r := dice.New(seed)
		room := EnterRoom(r, tables, 1, 0)
		if room.Chest != nil {
			require.GreaterOrEqual(t, room.Chest.Gold, 10)
			require.LessOrEqual(t, room.Chest.Gold, 100)
		}
	}
}

func TestEnterRoomNeverGeneratesChestForDragon(t *testing.T) {
	tables := testTables(t)
	for seed := int64(0); seed < 50; seed++ {
		r := dice.New(seed)
		room := EnterRoom(r, tables, 5, 0)
		require.Nil(t, room.Chest)
	}
}

func TestBackgroundForReflectsRoomContents(t *testing.T) {
	tables := testTables(t)
	r := dice.New(7)
	room := EnterRoom(r, tables, 1, 0)
	require.NotEmpty(t, room.Background)
}
