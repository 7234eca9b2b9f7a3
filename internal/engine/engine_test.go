package engine

import (
	"os"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duskforge/labyrinth/internal/combat"
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/entity"
	"github.com/duskforge/labyrinth/internal/labyrinth"
)

func testTables(t *testing.T) *Tables {
	t.Helper()
	weapons, err := content.LoadWeaponTable(writeYAML(t, "weapons.yaml", `
weapons:
  - name: Rusty Dagger
    damage_die: 1d4
    base_price: 10
    labyrinth_drop: false
`))
	require.NoError(t, err)
	armors, err := content.LoadArmorTable(writeYAML(t, "armors.yaml", `
armors:
  - name: Padded Jerkin
    armor_class: 10
    base_price: 15
    labyrinth_drop: false
`))
	require.NoError(t, err)
	potions, err := content.LoadPotionTable(writeYAML(t, "potions.yaml", `
potions:
  - name: Healing
    base_price: 30
`))
	require.NoError(t, err)
	spells, err := content.LoadSpellTable(writeYAML(t, "spells.yaml", `
spells:
  - name: Magic Missile
    base_price: 60
`))
	require.NoError(t, err)
	rings, err := content.LoadRingTable(writeYAML(t, "rings.yaml", `
rings:
  - name: Band of Wit
    attribute: Intelligence
    min_magnitude: 1
    max_magnitude: 3
    chance: 1.0
`))
	require.NoError(t, err)
	monsters, err := content.LoadMonsterTable(writeYAML(t, "monsters.yaml", `
monsters:
  - name: Rat
    hp: 5
    ac: 5
    strength: 5
    dexterity: 5
    damage_die: 1d3
    xp: 10
    gold_lo: 1
    gold_hi: 3
    wander_chance: 0.1
    difficulty: 1
`))
	require.NoError(t, err)
	traps, err := content.LoadTrapTable(writeYAML(t, "traps.yaml", `traps: []`))
	require.NoError(t, err)

	return &Tables{
		Monsters: monsters, Weapons: weapons, Armors: armors,
		Potions: potions, Spells: spells, Rings: rings, Traps: traps,
		Victory: combat.Tables{Rings: rings, Armors: armors, Weapons: weapons},
	}
}

func writeYAML(t *testing.T, name, contents string) string {
	t.Helper()
	path := t.TempDir() + "/" + name
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func freshAttrs() map[entity.Attribute]int {
	return map[entity.Attribute]int{
		entity.Strength: 14, entity.Dexterity: 14, entity.Constitution: 14,
		entity.Intelligence: 14, entity.Wisdom: 14, entity.Charisma: 14, entity.Perception: 14,
	}
}

func newTestEngine(t *testing.T) *EngineState {
	t.Helper()
	return New(42, "device-1", zap.NewNop(), testTables(t))
}

func TestCreationFlowAssignsAllAttributesAndEntersTown(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("main:new_game", "")
	e.Dispatch("difficulty:normal", "")
	e.Dispatch("intro:continue", "")
	e.Dispatch("create:name_submit", "Aela")
	require.Equal(t, PhaseCreateAttrs, e.Phase)

	for i := 0; i < len(entity.Attributes); i++ {
		e.Dispatch("create:roll", "")
		require.True(t, e.creation.hasPending)
		attr := entity.Attributes[i]
		e.Dispatch("create:assign:"+string(attr), "")
	}

	require.Equal(t, PhaseTown, e.Phase)
	require.NotNil(t, e.Character)
	require.Equal(t, "Aela", e.Character.Name)
	require.Equal(t, 0, e.Depth)
	require.Greater(t, e.Character.MaxHP, 0)
	require.Equal(t, e.Character.MaxHP, e.Character.HP)
	require.GreaterOrEqual(t, e.Character.Gold, 0)
}

func TestCreateAttrsRejectsDoubleRollAndDoubleAssign(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseCreateAttrs
	e.difficulty = entity.Normal
	e.creation = creationState{name: "Borin", attrs: make(map[entity.Attribute]int)}

	e.Dispatch("create:roll", "")
	require.True(t, e.creation.hasPending)

	before := e.creation.pendingValue
	e.Dispatch("create:roll", "") // second roll while one is pending is invalid
	require.Equal(t, before, e.creation.pendingValue)
	require.True(t, e.creation.hasPending)

	attr := entity.Attributes[0]
	e.Dispatch("create:assign:"+string(attr), "")
	require.False(t, e.creation.hasPending)
	_, done := e.creation.attrs[attr]
	require.True(t, done)

	// Re-assigning an already-filled attribute without a pending roll is a no-op.
	e.Dispatch("create:assign:"+string(attr), "")
	require.Equal(t, before, e.creation.attrs[attr])
}

func TestDepthPersistsAcrossTownVisitsAndResetsOnRevivalFailure(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseTown
	e.Character = entity.NewCharacter("Cyra", entity.Normal, "device-1", freshAttrs())
	e.Character.ResetTownVisitFlags()
	e.Character.ResetDepthFlags()

	e.Dispatch("town:enter", "")
	require.Equal(t, 1, e.Depth)
	require.Equal(t, PhaseLabyrinth, e.Phase)

	e.Dispatch("dng:back", "")
	require.Equal(t, PhaseTown, e.Phase)
	require.Equal(t, 1, e.Depth, "a round trip to town must not undo depth progress")

	e.Dispatch("town:enter", "")
	require.Equal(t, 1, e.Depth, "re-entering mid-run resumes the current depth, not depth 1 again")

	e.Depth = 4
	e.Phase = PhaseRevivalRoll
	e.Character.HP = 0
	e.Character.Attributes[entity.Wisdom] = -1 // guarantee the revival roll fails
	e.Dispatch("revival:roll", "")
	require.Equal(t, PhaseMainMenu, e.Phase)
	require.Equal(t, 0, e.Depth)
	require.Nil(t, e.Character)
}

func TestRevivalSuccessFloorsAttributesAtMinimum(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseRevivalRoll
	e.Character = entity.NewCharacter("Dorn", entity.Normal, "device-1", freshAttrs())
	e.Character.Attributes[entity.Strength] = entity.MinAttribute
	e.Character.Attributes[entity.Wisdom] = 100 // guarantee the revival roll succeeds
	e.Depth = 3

	e.Dispatch("revival:roll", "")

	require.Equal(t, PhaseTown, e.Phase)
	require.Equal(t, 0, e.Depth)
	require.Equal(t, 1, e.Character.HP)
	require.GreaterOrEqual(t, e.Character.Attributes[entity.Strength], entity.MinAttribute,
		"attributes must never drop below the floor even after a penalty")
}

func TestTrainingCapsAtSevenTotalAcrossAttributes(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseTown
	e.Character = entity.NewCharacter("Enna", entity.Normal, "device-1", freshAttrs())
	e.Character.Gold = 100000

	for i := 0; i < 10; i++ {
		e.Dispatch("town:train:"+string(entity.Strength), "")
	}
	require.LessOrEqual(t, e.Character.TotalTraining(), 7)
}

func TestBuyThenSellIsGoldNeutralOrCheaper(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseShop
	e.Character = entity.NewCharacter("Finn", entity.Normal, "device-1", freshAttrs())
	e.Character.Gold = 1000
	startGold := e.Character.Gold

	e.Dispatch("shop:buy:weapon:Rusty Dagger", "")
	require.Equal(t, startGold-10, e.Character.Gold)
	require.Len(t, e.Character.Weapons, 1)

	idx := len(e.Character.Weapons) - 1
	e.Dispatch("shop:sell:weapon:"+strconv.Itoa(idx), "")
	require.Len(t, e.Character.Weapons, 0)
	require.Less(t, e.Character.Gold, startGold, "the haggle formula never pays back more than was spent")
	require.GreaterOrEqual(t, e.Character.Gold, 0)
}

func TestSerializeDeserializeRoundTripPreservesCoreFields(t *testing.T) {
	c := entity.NewCharacter("Gret", entity.Hard, "device-9", freshAttrs())
	c.Gold = 250
	c.HP = 40
	c.MaxHP = 60
	c.Weapons = append(c.Weapons, &entity.WeaponItem{Name: "Long Sword", DamageDie: "1d8", BasePrice: 50})
	c.EquippedWeapon = 0

	rec := c.Serialize()
	got := entity.Deserialize(rec)

	require.Equal(t, c.Name, got.Name)
	require.Equal(t, c.Gold, got.Gold)
	require.Equal(t, c.HP, got.HP)
	require.Equal(t, c.MaxHP, got.MaxHP)
	require.Equal(t, c.Difficulty, got.Difficulty)
	require.Len(t, got.Weapons, 1)
	require.Equal(t, "Long Sword", got.Weapons[0].Name)
}

func TestInvalidActionForPhaseReemitsMenuWithoutMutating(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseTown
	e.Character = entity.NewCharacter("Hale", entity.Normal, "device-1", freshAttrs())
	goldBefore := e.Character.Gold

	events := e.Dispatch("town:nonexistent_action", "")
	require.Equal(t, goldBefore, e.Character.Gold)
	require.Equal(t, PhaseTown, e.Phase)
	require.NotEmpty(t, events)
	require.Equal(t, EventMenu, events[len(events)-1].Kind)
}

func TestGreetOnFreshStateShowsMainMenu(t *testing.T) {
	e := newTestEngine(t)
	events := e.Greet()
	require.Len(t, events, 1)
	require.Equal(t, EventMenu, events[0].Kind)
}

func TestDungeonPotionActionDispatchesWithoutPanicking(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseLabyrinth
	e.Character = entity.NewCharacter("Ilde", entity.Normal, "device-1", freshAttrs())
	e.Character.HealingPotions = 1
	hpBefore := e.Character.HP
	e.Character.HP = hpBefore - 5

	events := e.Dispatch("dng:potion:"+content.PotionHealing, "")
	require.NotEmpty(t, events)
	require.Equal(t, 0, e.Character.HealingPotions)
	require.Greater(t, e.Character.HP, hpBefore-5, "the potion prefix action must reach useLabyrinthPotion, not fall through to invalidAction")
}

func TestShopEquipWeaponChangesEquippedSlotAndUnequipClearsIt(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseShop
	e.Character = entity.NewCharacter("Rowe", entity.Normal, "device-1", freshAttrs())
	e.Character.Weapons = append(e.Character.Weapons, &entity.WeaponItem{Name: "Long Sword", DamageDie: "1d8", BasePrice: 50})
	require.Equal(t, -1, e.Character.EquippedWeapon, "a fresh character starts unequipped")

	e.Dispatch("shop:equip:weapon:0", "")
	require.Equal(t, 0, e.Character.EquippedWeapon)
	require.Equal(t, "Long Sword", e.Character.EquippedWeaponItem().Name)

	e.Dispatch("shop:unequip:weapon", "")
	require.Equal(t, -1, e.Character.EquippedWeapon)
	require.Nil(t, e.Character.EquippedWeaponItem())
}

func TestShopEquipArmorChangesEquippedSlotAndAffectsAC(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseShop
	e.Character = entity.NewCharacter("Sela", entity.Normal, "device-1", freshAttrs())
	bareAC := e.Character.AC()

	e.Character.Armors = append(e.Character.Armors, &entity.ArmorItem{Name: "Plate", ArmorClass: 18, BasePrice: 100})
	e.Dispatch("shop:equip:armor:0", "")
	require.Equal(t, 0, e.Character.EquippedArmor)
	require.Greater(t, e.Character.AC(), bareAC, "equipping armor must change the AC the combat resolver reads")

	e.Dispatch("shop:unequip:armor", "")
	require.Equal(t, -1, e.Character.EquippedArmor)
	require.Equal(t, bareAC, e.Character.AC())
}

func TestRingApplyToAdjustsAttributeAndConstitutionAdjustsMaxHP(t *testing.T) {
	c := entity.NewCharacter("Vask", entity.Normal, "device-1", freshAttrs())
	startMaxHP := c.MaxHP
	startWis := c.Attributes[entity.Wisdom]

	wisRing := &entity.RingItem{Name: "Band of Wit", Attribute: entity.Wisdom, Magnitude: 3}
	wisRing.ApplyTo(c)
	require.Equal(t, startWis+3, c.Attributes[entity.Wisdom])
	require.Equal(t, startMaxHP, c.MaxHP, "a non-Constitution ring must not touch MaxHP")

	conBefore := c.Attributes[entity.Constitution]
	hpBefore := c.MaxHP
	conRing := &entity.RingItem{Name: "Band of Frailty", Attribute: entity.Constitution, Magnitude: 2, Penalty: true, Cursed: true}
	conRing.ApplyTo(c)
	require.Equal(t, conBefore-2, c.Attributes[entity.Constitution])
	require.Equal(t, hpBefore-10, c.MaxHP, "a -2 Constitution ring must drop MaxHP by 5 per point")
	require.LessOrEqual(t, c.HP, c.MaxHP, "current HP must never exceed a MaxHP that just shrank")
}

func TestOpenChestBindsRingEffectImmediately(t *testing.T) {
	e := newTestEngine(t)
	e.Phase = PhaseLabyrinth
	e.Character = entity.NewCharacter("Orin", entity.Normal, "device-1", freshAttrs())
	startInt := e.Character.Attributes[entity.Intelligence]

	e.Room = &labyrinth.Room{Chest: &labyrinth.Chest{
		Gold: 10,
		Ring: &entity.RingItem{Name: "Band of Wit", Attribute: entity.Intelligence, Magnitude: 2},
	}}

	e.Dispatch("dng:open_chest", "")
	require.Len(t, e.Character.Rings, 1)
	require.Equal(t, startInt+2, e.Character.Attributes[entity.Intelligence], "opening the chest must apply the ring's effect, not just stash it")
}

func TestVictoryGrantsPotionAndScrollDrops(t *testing.T) {
	tbl := testTables(t)
	foundPotion, foundScroll := false, false
	for seed := int64(1); seed < 5000 && !(foundPotion && foundScroll); seed++ {
		e := New(seed, "device-1", zap.NewNop(), tbl)
		e.Phase = PhaseCombat
		e.Depth = 1
		e.Character = entity.NewCharacter("Seeker", entity.Normal, "device-1", freshAttrs())
		e.Monster = &entity.Monster{Name: "Rat", HP: 0, MaxHP: 5, XP: 10, GoldLo: 1, GoldHi: 1, Difficulty: 1}

		potionsBefore := e.Character.HealingPotions
		scrollsBefore := e.Character.SpellUses["Magic Missile"]
		e.concludeCombat()
		if e.Character.HealingPotions > potionsBefore {
			foundPotion = true
		}
		if e.Character.SpellUses["Magic Missile"] > scrollsBefore {
			foundScroll = true
		}
	}
	require.True(t, foundPotion, "expected at least one seed to roll and grant a potion drop")
	require.True(t, foundScroll, "expected at least one seed to roll and grant a scroll drop")
}
