package engine

import (
	"fmt"

	"github.com/duskforge/labyrinth/internal/content"
	"github.com/duskforge/labyrinth/internal/entity"
)

func (e *EngineState) shopMenu() Event {
	return menu(
		opt("shop:weapons", "Weapons"),
		opt("shop:armor", "Armor"),
		opt("shop:potions", "Potions"),
		opt("shop:spells", "Spells"),
		opt("shop:sell", "Sell"),
		opt("shop:equip", "Equip gear"),
		opt("shop:back", "Back to town"),
	)
}

func (e *EngineState) dispatchShop(action, payload string) []Event {
	switch {
	case action == "shop:weapons":
		return e.listBuyable("weapon")
	case action == "shop:armor":
		return e.listBuyable("armor")
	case action == "shop:potions":
		return e.listBuyable("potion")
	case action == "shop:spells":
		return e.listBuyable("spell")
	case action == "shop:sell":
		return e.listSellable()
	case action == "shop:equip":
		return e.equipMenu()
	case action == "shop:back":
		e.Phase = PhaseTown
		return []Event{e.townMenu()}
	case matchPrefix(action, "shop:buy:weapon:"):
		return e.buyWeapon(action[len("shop:buy:weapon:"):])
	case matchPrefix(action, "shop:buy:armor:"):
		return e.buyArmor(action[len("shop:buy:armor:"):])
	case matchPrefix(action, "shop:buy:potion:"):
		return e.buyPotion(action[len("shop:buy:potion:"):])
	case matchPrefix(action, "shop:buy:spell:"):
		return e.buySpell(action[len("shop:buy:spell:"):])
	case matchPrefix(action, "shop:sell:weapon:"):
		return e.sellWeapon(parseIntSuffix(action, "shop:sell:weapon:"))
	case matchPrefix(action, "shop:sell:armor:"):
		return e.sellArmor(parseIntSuffix(action, "shop:sell:armor:"))
	case matchPrefix(action, "shop:equip:weapon:"):
		return e.equipWeapon(parseIntSuffix(action, "shop:equip:weapon:"))
	case matchPrefix(action, "shop:equip:armor:"):
		return e.equipArmor(parseIntSuffix(action, "shop:equip:armor:"))
	case action == "shop:unequip:weapon":
		return e.unequipWeapon()
	case action == "shop:unequip:armor":
		return e.unequipArmor()
	default:
		return e.invalidAction()
	}
}

func (e *EngineState) listBuyable(kind string) []Event {
	var opts []MenuOption
	switch kind {
	case "weapon":
		for _, w := range e.tbl.Weapons.All() {
			opts = append(opts, opt("shop:buy:weapon:"+w.Name, fmt.Sprintf("%s (%dg)", w.Name, w.BasePrice)))
		}
	case "armor":
		for _, a := range e.tbl.Armors.All() {
			opts = append(opts, opt("shop:buy:armor:"+a.Name, fmt.Sprintf("%s (%dg)", a.Name, a.BasePrice)))
		}
	case "potion":
		for _, p := range e.tbl.Potions.All() {
			opts = append(opts, opt("shop:buy:potion:"+p.Name, fmt.Sprintf("%s (%dg)", p.Name, p.BasePrice)))
		}
	case "spell":
		for _, s := range e.tbl.Spells.All() {
			opts = append(opts, opt("shop:buy:spell:"+s.Name, fmt.Sprintf("%s (%dg)", s.Name, s.BasePrice)))
		}
	}
	opts = append(opts, opt("shop:back", "Back"))
	return []Event{menu(opts...)}
}

func (e *EngineState) buyWeapon(name string) []Event {
	row, ok := e.tbl.Weapons.Get(name)
	if !ok {
		return e.invalidAction()
	}
	if !e.spend(row.BasePrice) {
		return []Event{dialogue("You can't afford that."), e.shopMenu()}
	}
	e.Character.Weapons = append(e.Character.Weapons, &entity.WeaponItem{Name: row.Name, DamageDie: row.DamageDie, BasePrice: row.BasePrice})
	return []Event{dialogue(fmt.Sprintf("Bought %s.", row.Name)), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) buyArmor(name string) []Event {
	row, ok := e.tbl.Armors.Get(name)
	if !ok {
		return e.invalidAction()
	}
	if !e.spend(row.BasePrice) {
		return []Event{dialogue("You can't afford that."), e.shopMenu()}
	}
	e.Character.Armors = append(e.Character.Armors, &entity.ArmorItem{Name: row.Name, ArmorClass: row.ArmorClass, BasePrice: row.BasePrice})
	return []Event{dialogue(fmt.Sprintf("Bought %s.", row.Name)), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) buyPotion(name string) []Event {
	row, ok := e.tbl.Potions.Get(name)
	if !ok {
		return e.invalidAction()
	}
	if !e.spend(row.BasePrice) {
		return []Event{dialogue("You can't afford that."), e.shopMenu()}
	}
	if row.Name == content.PotionHealing {
		e.Character.HealingPotions++
	} else {
		e.Character.PotionUses[row.Name]++
	}
	return []Event{dialogue(fmt.Sprintf("Bought a %s potion.", row.Name)), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) buySpell(name string) []Event {
	row, ok := e.tbl.Spells.Get(name)
	if !ok {
		return e.invalidAction()
	}
	if !e.spend(row.BasePrice) {
		return []Event{dialogue("You can't afford that."), e.shopMenu()}
	}
	e.Character.SpellUses[row.Name]++
	return []Event{dialogue(fmt.Sprintf("Learned %s.", row.Name)), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) spend(cost int) bool {
	if e.Character.Gold < cost {
		return false
	}
	e.Character.Gold -= cost
	e.stats.goldSpent += cost
	return true
}

func (e *EngineState) listSellable() []Event {
	c := e.Character
	var opts []MenuOption
	for i, w := range c.Weapons {
		if i == c.EquippedWeapon || !w.Sellable() {
			continue
		}
		opts = append(opts, opt(fmt.Sprintf("shop:sell:weapon:%d", i), fmt.Sprintf("%s (%dg)", w.Name, e.sellPrice(w.BasePrice))))
	}
	for i, a := range c.Armors {
		if i == c.EquippedArmor || !a.Sellable() {
			continue
		}
		opts = append(opts, opt(fmt.Sprintf("shop:sell:armor:%d", i), fmt.Sprintf("%s (%dg)", a.Name, e.sellPrice(a.BasePrice))))
	}
	if len(opts) == 0 {
		return []Event{dialogue("You have nothing sellable."), e.shopMenu()}
	}
	opts = append(opts, opt("shop:back", "Back"))
	return []Event{menu(opts...)}
}

// sellPrice implements the CHA-tiered haggle formula (spec §4.8 Shop: "base
// price × 0.5 × CHA tier multiplier × uniform(0.9,1.1), floor, min 1").
func (e *EngineState) sellPrice(basePrice int) int {
	cha := e.Character.Attributes[entity.Charisma]
	tier := 1.0
	switch {
	case cha >= 15:
		tier = 1.2
	case cha <= 6:
		tier = 0.8
	}
	spread := 0.9 + e.rng.Float64()*0.2
	price := int(float64(basePrice) * 0.5 * tier * spread)
	if price < 1 {
		price = 1
	}
	return price
}

func (e *EngineState) sellWeapon(idx int) []Event {
	c := e.Character
	if idx < 0 || idx >= len(c.Weapons) || idx == c.EquippedWeapon || !c.Weapons[idx].Sellable() {
		return e.invalidAction()
	}
	price := e.sellPrice(c.Weapons[idx].BasePrice)
	name := c.Weapons[idx].Name
	c.Weapons = append(c.Weapons[:idx], c.Weapons[idx+1:]...)
	if c.EquippedWeapon > idx {
		c.EquippedWeapon--
	}
	c.Gold += price
	e.stats.goldEarned += price
	return []Event{dialogue(fmt.Sprintf("Sold %s for %d gold.", name, price)), e.updateStats(), e.shopMenu()}
}

// equipMenu lists every owned weapon/armor as an equip action, plus an
// unequip action for whichever slot currently holds something (spec §3:
// "unequipping removes the flag but keeps the item").
func (e *EngineState) equipMenu() []Event {
	c := e.Character
	var opts []MenuOption
	for i, w := range c.Weapons {
		label := w.Name
		if i == c.EquippedWeapon {
			label += " (equipped)"
		}
		opts = append(opts, opt(fmt.Sprintf("shop:equip:weapon:%d", i), label))
	}
	for i, a := range c.Armors {
		label := a.Name
		if i == c.EquippedArmor {
			label += " (equipped)"
		}
		opts = append(opts, opt(fmt.Sprintf("shop:equip:armor:%d", i), label))
	}
	if c.EquippedWeapon >= 0 {
		opts = append(opts, opt("shop:unequip:weapon", "Unequip weapon"))
	}
	if c.EquippedArmor >= 0 {
		opts = append(opts, opt("shop:unequip:armor", "Unequip armor"))
	}
	opts = append(opts, opt("shop:back", "Back"))
	return []Event{menu(opts...)}
}

func (e *EngineState) equipWeapon(idx int) []Event {
	c := e.Character
	if idx < 0 || idx >= len(c.Weapons) {
		return e.invalidAction()
	}
	c.EquippedWeapon = idx
	return []Event{dialogue(fmt.Sprintf("Equipped %s.", c.Weapons[idx].Name)), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) equipArmor(idx int) []Event {
	c := e.Character
	if idx < 0 || idx >= len(c.Armors) {
		return e.invalidAction()
	}
	c.EquippedArmor = idx
	return []Event{dialogue(fmt.Sprintf("Equipped %s.", c.Armors[idx].Name)), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) unequipWeapon() []Event {
	e.Character.EquippedWeapon = -1
	return []Event{dialogue("Weapon unequipped."), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) unequipArmor() []Event {
	e.Character.EquippedArmor = -1
	return []Event{dialogue("Armor unequipped."), e.updateStats(), e.shopMenu()}
}

func (e *EngineState) sellArmor(idx int) []Event {
	c := e.Character
	if idx < 0 || idx >= len(c.Armors) || idx == c.EquippedArmor || !c.Armors[idx].Sellable() {
		return e.invalidAction()
	}
	price := e.sellPrice(c.Armors[idx].BasePrice)
	name := c.Armors[idx].Name
	c.Armors = append(c.Armors[:idx], c.Armors[idx+1:]...)
	if c.EquippedArmor > idx {
		c.EquippedArmor--
	}
	c.Gold += price
	e.stats.goldEarned += price
	return []Event{dialogue(fmt.Sprintf("Sold %s for %d gold.", name, price)), e.updateStats(), e.shopMenu()}
}
