package quest

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
	"github.com/duskforge/labyrinth/internal/entity"
)

func testMonsterTable(t *testing.T) *content.MonsterTable {
	t.Helper()
	path := t.TempDir() + "/monsters.yaml"
	require.NoError(t, os.WriteFile(path, []byte(`
monsters:
  - name: Giant Rat
    hp: 5
    ac: 8
    strength: 6
    dexterity: 10
    damage_die: 1d3
    xp: 5
    gold_lo: 1
    gold_hi: 2
    wander_chance: 0.5
    difficulty: 1
  - name: Statue
    hp: 1
    ac: 30
    strength: 1
    dexterity: 1
    damage_die: 1d1
    xp: 0
    gold_lo: 0
    gold_hi: 0
    wander_chance: 0.01
    difficulty: 1
`), 0o644))
	tbl, err := content.LoadMonsterTable(path)
	require.NoError(t, err)
	return tbl
}

func TestCanOfferRespectsMax(t *testing.T) {
	c := &entity.Character{}
	require.True(t, CanOffer(c))
	c.ActiveQuests = []*entity.Quest{{}, {}, {}}
	require.False(t, CanOffer(c))
}

func TestGenerateOfferExcludesIneligibleAndTargeted(t *testing.T) {
	monsters := testMonsterTable(t)
	r := dice.New(5)
	c := &entity.Character{}

	offer, ok := GenerateOffer(r, c, monsters)
	require.True(t, ok)
	require.Equal(t, "Giant Rat", offer.Target, "Statue's wander_chance 0.01 is not eligible")
	require.Equal(t, 1, offer.Goal)
	require.Greater(t, offer.RewardGold, 0)

	c.ActiveQuests = append(c.ActiveQuests, offer)
	_, ok = GenerateOffer(r, c, monsters)
	require.False(t, ok, "the only eligible monster is already targeted")
}

func TestCreditKillCompletesQuestAndAwardsGold(t *testing.T) {
	c := &entity.Character{
		ActiveQuests: []*entity.Quest{
			{Target: "Giant Rat", Kind: entity.QuestKindKill, Goal: 1, RewardGold: 42},
			{Target: "Statue", Kind: entity.QuestKindCollect, Goal: 1, RewardGold: 10},
		},
	}
	gold := CreditKill(c, "Giant Rat")
	require.Equal(t, 42, gold)
	require.Len(t, c.ActiveQuests, 1)
	require.Equal(t, "Statue", c.ActiveQuests[0].Target)
}

func TestCreditKillPartialProgressDoesNotRemoveQuest(t *testing.T) {
	c := &entity.Character{
		ActiveQuests: []*entity.Quest{
			{Target: "Giant Rat", Kind: entity.QuestKindKill, Goal: 2, RewardGold: 42},
		},
	}
	gold := CreditKill(c, "Giant Rat")
	require.Equal(t, 0, gold)
	require.Len(t, c.ActiveQuests, 1)
	require.Equal(t, 1, c.ActiveQuests[0].Progress)
}

func TestCreditKillIgnoresUnrelatedKills(t *testing.T) {
	c := &entity.Character{
		ActiveQuests: []*entity.Quest{
			{Target: "Giant Rat", Kind: entity.QuestKindKill, Goal: 1, RewardGold: 42},
		},
	}
	gold := CreditKill(c, "Statue")
	require.Equal(t, 0, gold)
	require.Len(t, c.ActiveQuests, 1)
	require.Equal(t, 0, c.ActiveQuests[0].Progress)
}
