package entity

// Character is the persistent player entity that the Game Engine owns
// exclusively for the lifetime of a session (spec §3 Character).
type Character struct {
	// Identity
	Name       string
	Difficulty Difficulty
	DeviceID   string

	// Attributes, floored at MinAttribute at all times.
	Attributes map[Attribute]int

	// Vitals
	HP    int
	MaxHP int

	// Economy
	Gold             int
	UnsoldMagicItems int
	Weapons          []*WeaponItem
	Armors           []*ArmorItem
	Rings            []*RingItem

	// Equipment — indexes into Weapons/Armors, -1 when nothing is equipped.
	EquippedWeapon int
	EquippedArmor  int

	// Consumables
	HealingPotions int
	PotionUses     map[string]int
	SpellUses      map[string]int

	// Progression
	Level              int
	XP                 int
	UnspentStatPoints  int
	AttributeTraining  map[Attribute]int
	DeathCount         int

	// Combat-scoped flags, cleared at combat start (spec §3, §4.4).
	ExamineUsed          bool
	DamageBonus          int
	ACBonus              int
	ExtraAttackCharges   int
	InvisibilityOneShot  bool
	PoisonTurns          int
	DamagePenalty        int
	ACPenalty            int
	SpellResistanceBonus int
	FreezeTurns          int

	Companion *Companion

	ActiveQuests []*Quest

	// Utility counters — once-per-depth and once-per-town-visit flags.
	DivineUsedThisDepth bool
	ListenUsedThisDepth bool
	AteThisVisit        bool
	TavernThisVisit     bool
	PrayedThisVisit     bool
	SleptThisVisit      bool
}

// NewCharacter builds a freshly created character with attributes already
// rolled by the creation phase. HP is seeded from Constitution: 20 base + 5
// per point of Constitution above the floor.
func NewCharacter(name string, difficulty Difficulty, deviceID string, attrs map[Attribute]int) *Character {
	c := &Character{
		Name:              name,
		Difficulty:        difficulty,
		DeviceID:          deviceID,
		Attributes:        attrs,
		Level:             1,
		UnspentStatPoints: 0,
		AttributeTraining: make(map[Attribute]int),
		PotionUses:        make(map[string]int),
		SpellUses:         make(map[string]int),
		EquippedWeapon:    -1,
		EquippedArmor:     -1,
	}
	c.MaxHP = 20 + 5*(attrs[Constitution]-MinAttribute)
	if c.MaxHP < 1 {
		c.MaxHP = 1
	}
	c.HP = c.MaxHP
	return c
}

// xpForLevel returns the cumulative XP required to reach level L (spec
// §4.3: "cumulative XP to reach level L is 50·(L-1)·L/2").
func xpForLevel(level int) int {
	return 50 * (level - 1) * level / 2
}

// GainXP accumulates xp and applies every level-up the new total qualifies
// for, one at a time, each granting +1 unspent stat point (spec §4.3).
func (c *Character) GainXP(n int) {
	if n <= 0 {
		return
	}
	c.XP += n
	for xpForLevel(c.Level+1) <= c.XP {
		c.Level++
		c.UnspentStatPoints++
	}
}

// SpendPoint allocates one unspent stat point to attr. Constitution spends
// also raise max_hp by 5 and clamp current hp into the new range (spec
// §4.3). Returns false if no points are available.
func (c *Character) SpendPoint(attr Attribute) bool {
	if c.UnspentStatPoints <= 0 {
		return false
	}
	c.UnspentStatPoints--
	c.Attributes[attr]++
	if attr == Constitution {
		c.MaxHP += 5
		if c.HP > c.MaxHP {
			c.HP = c.MaxHP
		}
	}
	return true
}

// ClampAttributes floors every attribute at MinAttribute (spec §3
// invariant). Called after any attribute-lowering effect, e.g. a dex_down
// trap or the revival penalty.
func (c *Character) ClampAttributes() {
	for _, a := range Attributes {
		if c.Attributes[a] < MinAttribute {
			c.Attributes[a] = MinAttribute
		}
	}
}

// ResetCombatFlags clears all combat-scoped state (spec §3: "cleared
// between combats").
func (c *Character) ResetCombatFlags() {
	c.ExamineUsed = false
	c.DamageBonus = 0
	c.ACBonus = 0
	c.ExtraAttackCharges = 0
	c.InvisibilityOneShot = false
	c.PoisonTurns = 0
	c.DamagePenalty = 0
	c.ACPenalty = 0
	c.SpellResistanceBonus = 0
	c.FreezeTurns = 0
}

// ResetDepthFlags clears the once-per-depth counters, on entering a new
// depth or returning to town after a revival (spec §3 invariant).
func (c *Character) ResetDepthFlags() {
	c.DivineUsedThisDepth = false
	c.ListenUsedThisDepth = false
}

// ResetTownVisitFlags clears the once-per-town-visit counters.
func (c *Character) ResetTownVisitFlags() {
	c.AteThisVisit = false
	c.TavernThisVisit = false
	c.PrayedThisVisit = false
	c.SleptThisVisit = false
}

// EquippedWeaponItem returns the currently equipped weapon, or nil.
func (c *Character) EquippedWeaponItem() *WeaponItem {
	if c.EquippedWeapon < 0 || c.EquippedWeapon >= len(c.Weapons) {
		return nil
	}
	return c.Weapons[c.EquippedWeapon]
}

// EquippedArmorItem returns the currently equipped armor, or nil.
func (c *Character) EquippedArmorItem() *ArmorItem {
	if c.EquippedArmor < 0 || c.EquippedArmor >= len(c.Armors) {
		return nil
	}
	return c.Armors[c.EquippedArmor]
}

// AC computes the character's current armor class (spec §4.4).
func (c *Character) AC() int {
	ac := 10 + ceilDiv(c.Attributes[Constitution], 2) + c.EquippedArmorItem().EffectiveAC()
	ac += c.ACBonus
	ac -= c.ACPenalty
	return ac
}

// TotalTraining sums attribute_training across all attributes, capped at 7
// by the caller before a new training is granted (spec §3 invariant).
func (c *Character) TotalTraining() int {
	total := 0
	for _, n := range c.AttributeTraining {
		total += n
	}
	return total
}

func ceilDiv(n, d int) int {
	if n <= 0 {
		return 0
	}
	return (n + d - 1) / d
}
