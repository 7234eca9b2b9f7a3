package entity

import "encoding/json"

// Record is the dict-shaped save layout the Persistence Adapter reads and
// writes (spec §6.3). Engine code only ever produces one via Serialize and
// only ever consumes one via Deserialize; the field names here ARE the
// persisted schema, so renaming a key is a compatibility break.
//
// Serialize always round-trips through encoding/json so a Record's shape is
// identical whether it was just built in-process or decoded back out of a
// JSONB column: nested values are map[string]interface{}/[]interface{}, and
// numbers are float64. Deserialize only ever has to handle that one shape.
type Record map[string]any

type weaponRecord struct {
	Name          string `json:"name"`
	DamageDie     string `json:"damage_die"`
	BasePrice     int    `json:"base_price"`
	Damaged       bool   `json:"damaged"`
	LabyrinthDrop bool   `json:"labyrinth_drop"`
}

type armorRecord struct {
	Name          string `json:"name"`
	ArmorClass    int    `json:"armor_class"`
	BasePrice     int    `json:"base_price"`
	Damaged       bool   `json:"damaged"`
	LabyrinthDrop bool   `json:"labyrinth_drop"`
}

type ringRecord struct {
	Name      string `json:"name"`
	Attribute string `json:"attribute"`
	Magnitude int    `json:"magnitude"`
	Penalty   bool   `json:"penalty"`
	Cursed    bool   `json:"cursed"`
}

type questRecord struct {
	Target     string `json:"target"`
	Kind       string `json:"kind"`
	Goal       int    `json:"goal"`
	Progress   int    `json:"progress"`
	RewardGold int    `json:"reward_gold"`
}

type companionRecord struct {
	Name      string `json:"name"`
	Tier      int    `json:"tier"`
	MaxHP     int    `json:"max_hp"`
	HP        int    `json:"hp"`
	Strength  int    `json:"strength"`
	AC        int    `json:"ac"`
	DamageDie string `json:"damage_die"`
}

// Serialize produces a persistable record. Combat-scoped flags are
// intentionally omitted: they are cleared between combats and never
// survive a save/load boundary (spec §3, §6.3).
func (c *Character) Serialize() Record {
	attrs := make(map[string]int, len(c.Attributes))
	for a, v := range c.Attributes {
		attrs[string(a)] = v
	}
	training := make(map[string]int, len(c.AttributeTraining))
	for a, v := range c.AttributeTraining {
		training[string(a)] = v
	}

	weapons := make([]weaponRecord, len(c.Weapons))
	for i, w := range c.Weapons {
		weapons[i] = weaponRecord{w.Name, w.DamageDie, w.BasePrice, w.Damaged, w.LabyrinthDrop}
	}
	armors := make([]armorRecord, len(c.Armors))
	for i, a := range c.Armors {
		armors[i] = armorRecord{a.Name, a.ArmorClass, a.BasePrice, a.Damaged, a.LabyrinthDrop}
	}
	rings := make([]ringRecord, len(c.Rings))
	for i, r := range c.Rings {
		rings[i] = ringRecord{r.Name, string(r.Attribute), r.Magnitude, r.Penalty, r.Cursed}
	}
	quests := make([]questRecord, len(c.ActiveQuests))
	for i, q := range c.ActiveQuests {
		quests[i] = questRecord{q.Target, string(q.Kind), q.Goal, q.Progress, q.RewardGold}
	}

	rec := Record{
		"name":                c.Name,
		"difficulty":          string(c.Difficulty),
		"device_id":           c.DeviceID,
		"attributes":          attrs,
		"hp":                  c.HP,
		"max_hp":              c.MaxHP,
		"gold":                c.Gold,
		"unsold_magic_items":  c.UnsoldMagicItems,
		"weapons":             weapons,
		"armors":              armors,
		"rings":               rings,
		"equipped_weapon":     c.EquippedWeapon,
		"equipped_armor":      c.EquippedArmor,
		"healing_potions":     c.HealingPotions,
		"potion_uses":         c.PotionUses,
		"spell_uses":          c.SpellUses,
		"level":               c.Level,
		"xp":                  c.XP,
		"unspent_stat_points": c.UnspentStatPoints,
		"attribute_training":  training,
		"death_count":         c.DeathCount,
		"active_quests":       quests,
	}
	if c.Companion != nil {
		rec["companion"] = companionRecord{
			c.Companion.Name, c.Companion.Tier, c.Companion.MaxHP,
			c.Companion.HP, c.Companion.Strength, c.Companion.AC, c.Companion.DamageDie,
		}
	}

	// Round-trip through JSON so the in-process shape matches what a real
	// store hands back after a JSONB read (see Record's doc comment).
	raw, err := json.Marshal(rec)
	if err != nil {
		return rec
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return rec
	}
	return out
}

// Deserialize rebuilds a Character from a record, tolerating missing
// optional fields with the safe defaults named in spec §4.3. Unknown keys
// are ignored.
func Deserialize(rec Record) *Character {
	c := &Character{
		Name:              recString(rec, "name", ""),
		Difficulty:        Difficulty(recString(rec, "difficulty", string(Normal))),
		DeviceID:          recString(rec, "device_id", ""),
		Attributes:        make(map[Attribute]int, len(Attributes)),
		AttributeTraining: make(map[Attribute]int),
		PotionUses:        make(map[string]int),
		SpellUses:         make(map[string]int),
		EquippedWeapon:    recInt(rec, "equipped_weapon", -1),
		EquippedArmor:     recInt(rec, "equipped_armor", -1),
		HealingPotions:    recInt(rec, "healing_potions", 0),
		Gold:              recInt(rec, "gold", 0),
		UnsoldMagicItems:  recInt(rec, "unsold_magic_items", 0),
		Level:             recInt(rec, "level", 1),
		XP:                recInt(rec, "xp", 0),
		UnspentStatPoints: recInt(rec, "unspent_stat_points", 0),
		DeathCount:        recInt(rec, "death_count", 0),
		HP:                recInt(rec, "hp", 1),
		MaxHP:             recInt(rec, "max_hp", 1),
	}

	for _, a := range Attributes {
		c.Attributes[a] = MinAttribute
	}
	if m, ok := recMap(rec, "attributes"); ok {
		for k, v := range m {
			c.Attributes[Attribute(k)] = anyToInt(v)
		}
	}
	c.ClampAttributes()

	if m, ok := recMap(rec, "attribute_training"); ok {
		for k, v := range m {
			c.AttributeTraining[Attribute(k)] = anyToInt(v)
		}
	}
	if m, ok := recMap(rec, "potion_uses"); ok {
		for k, v := range m {
			c.PotionUses[k] = anyToInt(v)
		}
	}
	if m, ok := recMap(rec, "spell_uses"); ok {
		for k, v := range m {
			c.SpellUses[k] = anyToInt(v)
		}
	}

	for _, e := range recSlice(rec, "weapons") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		c.Weapons = append(c.Weapons, &WeaponItem{
			Name: recString(m, "name", ""), DamageDie: recString(m, "damage_die", fallbackDieString),
			BasePrice: recInt(m, "base_price", 0), Damaged: recBool(m, "damaged"), LabyrinthDrop: recBool(m, "labyrinth_drop"),
		})
	}
	for _, e := range recSlice(rec, "armors") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		c.Armors = append(c.Armors, &ArmorItem{
			Name: recString(m, "name", ""), ArmorClass: recInt(m, "armor_class", 0),
			BasePrice: recInt(m, "base_price", 0), Damaged: recBool(m, "damaged"), LabyrinthDrop: recBool(m, "labyrinth_drop"),
		})
	}
	for _, e := range recSlice(rec, "rings") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		c.Rings = append(c.Rings, &RingItem{
			Name: recString(m, "name", ""), Attribute: Attribute(recString(m, "attribute", "")),
			Magnitude: recInt(m, "magnitude", 0), Penalty: recBool(m, "penalty"), Cursed: recBool(m, "cursed"),
		})
	}
	for _, e := range recSlice(rec, "active_quests") {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		c.ActiveQuests = append(c.ActiveQuests, &Quest{
			Target: recString(m, "target", ""), Kind: QuestKind(recString(m, "kind", string(QuestKindKill))),
			Goal: recInt(m, "goal", 1), Progress: recInt(m, "progress", 0), RewardGold: recInt(m, "reward_gold", 0),
		})
	}
	if m, ok := recMap(rec, "companion"); ok {
		c.Companion = &Companion{
			Name: recString(m, "name", ""), Tier: recInt(m, "tier", 1), MaxHP: recInt(m, "max_hp", 1),
			HP: recInt(m, "hp", 1), Strength: recInt(m, "strength", 0), AC: recInt(m, "ac", 0),
			DamageDie: recString(m, "damage_die", fallbackDieString),
		}
	}

	if c.EquippedWeapon >= len(c.Weapons) {
		c.EquippedWeapon = -1
	}
	if c.EquippedArmor >= len(c.Armors) {
		c.EquippedArmor = -1
	}
	if c.MaxHP < 1 {
		c.MaxHP = 1
	}
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	if c.HP < 0 {
		c.HP = 0
	}
	return c
}

// fallbackDieString mirrors dice.FallbackDie ("1d4") without importing the
// dice package purely for a string constant.
const fallbackDieString = "1d4"

func recString(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return def
}

func recInt(m map[string]any, key string, def int) int {
	if v, ok := m[key]; ok {
		return anyToInt(v)
	}
	return def
}

func recBool(m map[string]any, key string) bool {
	v, _ := m[key].(bool)
	return v
}

// recMap fetches a nested object, accepting both the native map[string]int
// a fresh Serialize() may still hold before its JSON round-trip and the
// map[string]interface{} shape a decoded JSONB blob produces.
func recMap(m map[string]any, key string) (map[string]any, bool) {
	switch v := m[key].(type) {
	case map[string]any:
		return v, true
	case map[string]int:
		out := make(map[string]any, len(v))
		for k, n := range v {
			out[k] = n
		}
		return out, true
	default:
		return nil, false
	}
}

// recSlice fetches a nested array, accepting both []interface{} (decoded
// JSON) and the concrete record slices Serialize builds before its
// round-trip.
func recSlice(m map[string]any, key string) []any {
	switch v := m[key].(type) {
	case []any:
		return v
	case []weaponRecord:
		return recordsToAny(len(v), func(i int) any { return structToMap(v[i]) })
	case []armorRecord:
		return recordsToAny(len(v), func(i int) any { return structToMap(v[i]) })
	case []ringRecord:
		return recordsToAny(len(v), func(i int) any { return structToMap(v[i]) })
	case []questRecord:
		return recordsToAny(len(v), func(i int) any { return structToMap(v[i]) })
	default:
		return nil
	}
}

func recordsToAny(n int, at func(int) any) []any {
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = at(i)
	}
	return out
}

// structToMap round-trips a single record struct through JSON so recSlice
// can hand recMap-compatible data back to the same field accessors used for
// the decoded-JSONB path.
func structToMap(v any) map[string]any {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func anyToInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
