package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func freshAttrs() map[Attribute]int {
	attrs := make(map[Attribute]int, len(Attributes))
	for _, a := range Attributes {
		attrs[a] = 5
	}
	return attrs
}

func TestGainXPLevelsUpAndGrantsPoints(t *testing.T) {
	c := NewCharacter("Aela", Normal, "device-1", freshAttrs())
	require.Equal(t, 1, c.Level)
	require.Equal(t, 0, c.UnspentStatPoints)

	c.GainXP(49)
	require.Equal(t, 1, c.Level, "49 xp must not reach level 2's 50 threshold")

	c.GainXP(1)
	require.Equal(t, 2, c.Level)
	require.Equal(t, 1, c.UnspentStatPoints)
}

func TestGainXPMultipleLevelsInOneCall(t *testing.T) {
	c := NewCharacter("Borin", Normal, "device-2", freshAttrs())
	// cumulative xp to reach level 3 is 50*(3-1)*3/2 = 150
	c.GainXP(150)
	require.Equal(t, 3, c.Level)
	require.Equal(t, 2, c.UnspentStatPoints)
}

func TestSpendPointConstitutionRaisesMaxHP(t *testing.T) {
	c := NewCharacter("Cyra", Normal, "device-3", freshAttrs())
	c.UnspentStatPoints = 1
	before := c.MaxHP
	ok := c.SpendPoint(Constitution)
	require.True(t, ok)
	require.Equal(t, before+5, c.MaxHP)
	require.Equal(t, 0, c.UnspentStatPoints)
}

func TestSpendPointFailsWithoutPoints(t *testing.T) {
	c := NewCharacter("Dorn", Normal, "device-4", freshAttrs())
	require.False(t, c.SpendPoint(Strength))
}

func TestClampAttributesFloors(t *testing.T) {
	c := NewCharacter("Enna", Normal, "device-5", freshAttrs())
	c.Attributes[Dexterity] = 1
	c.ClampAttributes()
	require.Equal(t, MinAttribute, c.Attributes[Dexterity])
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	c := NewCharacter("Faro", Hard, "device-6", freshAttrs())
	c.Gold = 250
	c.Level = 3
	c.XP = 150
	c.UnspentStatPoints = 2
	c.AttributeTraining[Strength] = 3
	c.Weapons = append(c.Weapons, &WeaponItem{Name: "Shortsword", DamageDie: "1d6", BasePrice: 20})
	c.Armors = append(c.Armors, &ArmorItem{Name: "Leather", ArmorClass: 12, BasePrice: 30, Damaged: true})
	c.EquippedWeapon = 0
	c.EquippedArmor = 0
	c.Rings = append(c.Rings, &RingItem{Name: "Band of Wit", Attribute: Intelligence, Magnitude: 2})
	c.ActiveQuests = append(c.ActiveQuests, &Quest{Target: "Giant Rat", Kind: QuestKindKill, Goal: 1, RewardGold: 15})
	c.Companion = &Companion{Name: "Pup", Tier: 1, MaxHP: 10, HP: 10, Strength: 4, AC: 10, DamageDie: "1d4"}
	c.HealingPotions = 2
	c.PotionUses["Strength"] = 1
	c.SpellUses["Fireball"] = 2

	rec := c.Serialize()
	got := Deserialize(rec)

	require.Equal(t, c.Name, got.Name)
	require.Equal(t, c.Difficulty, got.Difficulty)
	require.Equal(t, c.DeviceID, got.DeviceID)
	require.Equal(t, c.Gold, got.Gold)
	require.Equal(t, c.Level, got.Level)
	require.Equal(t, c.XP, got.XP)
	require.Equal(t, c.UnspentStatPoints, got.UnspentStatPoints)
	require.Equal(t, 3, got.AttributeTraining[Strength])
	require.Len(t, got.Weapons, 1)
	require.Equal(t, "Shortsword", got.Weapons[0].Name)
	require.Len(t, got.Armors, 1)
	require.True(t, got.Armors[0].Damaged)
	require.Equal(t, 0, got.EquippedWeapon)
	require.Equal(t, 0, got.EquippedArmor)
	require.Len(t, got.Rings, 1)
	require.Equal(t, Intelligence, got.Rings[0].Attribute)
	require.Len(t, got.ActiveQuests, 1)
	require.Equal(t, "Giant Rat", got.ActiveQuests[0].Target)
	require.NotNil(t, got.Companion)
	require.Equal(t, "Pup", got.Companion.Name)
	require.Equal(t, 1, got.PotionUses["Strength"])
	require.Equal(t, 2, got.SpellUses["Fireball"])
}

func TestDeserializeToleratesMissingFields(t *testing.T) {
	got := Deserialize(Record{"name": "Ghost"})
	require.Equal(t, "Ghost", got.Name)
	require.Equal(t, Normal, got.Difficulty)
	require.Equal(t, 1, got.Level)
	require.Equal(t, MinAttribute, got.Attributes[Strength])
	require.Equal(t, -1, got.EquippedWeapon)
	require.Equal(t, -1, got.EquippedArmor)
	require.Nil(t, got.Companion)
}
