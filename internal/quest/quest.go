// Package quest implements the Quest Manager: offer eligibility, offer
// generation, and kill crediting against a character's active quests
// (spec §4.6). It mutates the Character it is given but owns no state of
// its own.
package quest

import (
	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/dice"
	"github.com/duskforge/labyrinth/internal/entity"
)

// CanOffer reports whether c has room for another active quest (spec §4.6).
func CanOffer(c *entity.Character) bool {
	return len(c.ActiveQuests) < entity.MaxActiveQuests
}

// minWanderChance floors the wander_chance term in the reward formula so a
// near-zero wander_chance row can't produce an absurd reward (spec §4.6:
// "1 / max(wander_chance, 0.01)").
const minWanderChance = 0.01

// GenerateOffer picks an eligible monster not already a target of an active
// quest and returns a new Quest for it, or ok=false if no eligible monster
// remains. Eligible: wander_chance > 0.02 (spec §3, §4.6). Kind is 60%
// kill / 40% collect; both credit identically on kill.
func GenerateOffer(r *dice.Roller, c *entity.Character, monsters *content.MonsterTable) (*entity.Quest, bool) {
	targeted := make(map[string]bool, len(c.ActiveQuests))
	for _, q := range c.ActiveQuests {
		targeted[q.Target] = true
	}

	var eligible []*content.Monster
	for _, m := range monsters.All() {
		if content.QuestEligible(m) && !targeted[m.Name] {
			eligible = append(eligible, m)
		}
	}
	if len(eligible) == 0 {
		return nil, false
	}

	row := eligible[r.Intn(len(eligible))]
	kind := entity.QuestKindKill
	if r.Float64() >= 0.6 {
		kind = entity.QuestKindCollect
	}

	reward := rewardFor(row)
	return &entity.Quest{
		Target:     row.Name,
		Kind:       kind,
		Goal:       1,
		RewardGold: reward,
	}, true
}

// rewardFor computes the gold reward: floor(difficulty*20 + (1/max(wander_chance,0.01))/2).
func rewardFor(row *content.Monster) int {
	wander := row.WanderChance
	if wander < minWanderChance {
		wander = minWanderChance
	}
	reward := float64(row.Difficulty)*20 + (1/wander)/2
	return int(reward)
}

// CreditKill advances progress on every active quest targeting name by one
// and returns the gold awarded by any quest that completed, removing those
// quests from c.ActiveQuests. Every call increments each matching quest by
// one, so callers invoke this once per kill event, not once per
// quest-check (spec §4.6: "idempotent per kill").
func CreditKill(c *entity.Character, name string) (goldAwarded int) {
	kept := c.ActiveQuests[:0]
	for _, q := range c.ActiveQuests {
		if q.Target == name {
			q.Progress++
		}
		if q.Target == name && q.Done() {
			goldAwarded += q.RewardGold
			continue
		}
		kept = append(kept, q)
	}
	c.ActiveQuests = kept
	return goldAwarded
}
