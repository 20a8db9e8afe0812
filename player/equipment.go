// Package player adds armor and offhand equipment on top of a 36-slot main
// inventory. Equipment lives outside the slot array: it is tracked per-slot
// by ArmorSlot and does not participate in Inventory.Add/Remove.
package player

import "github.com/0x4d44/mdcore/inventory"

// ArmorSlot identifies one of the four worn armor positions.
type ArmorSlot uint8

const (
	Helmet ArmorSlot = iota
	Chestplate
	Leggings
	Boots
)

// ArmorMaterial determines an armor piece's defense and max durability.
type ArmorMaterial uint8

const (
	Leather ArmorMaterial = iota
	Gold
	Iron
	Diamond
)

// defensePoints[slot][material], full sets total Leather=4, Gold=6, Iron=8,
// Diamond=10.
var defensePoints = [4][4]uint32{
	Helmet:     {Leather: 1, Gold: 1, Iron: 2, Diamond: 2},
	Chestplate: {Leather: 1, Gold: 2, Iron: 2, Diamond: 3},
	Leggings:   {Leather: 1, Gold: 2, Iron: 2, Diamond: 3},
	Boots:      {Leather: 1, Gold: 1, Iron: 2, Diamond: 2},
}

var durabilityBase = [4]uint32{Helmet: 11, Chestplate: 16, Leggings: 15, Boots: 13}
var durabilityMultiplier = [4]uint32{Leather: 5, Gold: 7, Iron: 15, Diamond: 33}

// MaxDurability returns the starting durability for a slot/material pair.
func MaxDurability(slot ArmorSlot, material ArmorMaterial) uint32 {
	return durabilityBase[slot] * durabilityMultiplier[material]
}

// DefensePoints returns the defense contributed by a slot/material pair.
func DefensePoints(slot ArmorSlot, material ArmorMaterial) uint32 {
	return defensePoints[slot][material]
}

// ArmorPiece is a single worn item with remaining durability.
type ArmorPiece struct {
	Item          inventory.ItemId
	Slot          ArmorSlot
	Material      ArmorMaterial
	Durability    uint32
	MaxDurability uint32
}

// NewArmorPiece builds a full-durability piece for the given slot/material.
func NewArmorPiece(item inventory.ItemId, slot ArmorSlot, material ArmorMaterial) ArmorPiece {
	max := MaxDurability(slot, material)
	return ArmorPiece{Item: item, Slot: slot, Material: material, Durability: max, MaxDurability: max}
}

// Defense returns the defense points this piece contributes while intact.
func (p ArmorPiece) Defense() uint32 {
	return DefensePoints(p.Slot, p.Material)
}

// Broken reports whether the piece has run out of durability.
func (p ArmorPiece) Broken() bool {
	return p.Durability == 0
}

// Damage reduces durability by amount, clamped at zero, and reports whether
// the piece broke as a result.
func (p *ArmorPiece) Damage(amount uint32) bool {
	if amount >= p.Durability {
		p.Durability = 0
		return true
	}
	p.Durability -= amount
	return false
}

// Equipment holds the four armor slots plus the offhand slot, additive to
// the 36-slot main Inventory: none of these stacks are reachable through
// Inventory.Slot/Add/Remove.
type Equipment struct {
	armor   [4]*ArmorPiece
	Offhand *inventory.ItemStack
}

// NewEquipment returns an Equipment with every slot empty.
func NewEquipment() *Equipment {
	return &Equipment{}
}

// Armor returns the piece worn in slot, or nil if empty.
func (e *Equipment) Armor(slot ArmorSlot) *ArmorPiece {
	return e.armor[slot]
}

// Equip places piece in its slot, returning whatever was worn there before.
func (e *Equipment) Equip(piece ArmorPiece) *ArmorPiece {
	prev := e.armor[piece.Slot]
	cp := piece
	e.armor[piece.Slot] = &cp
	return prev
}

// Unequip clears slot, returning the piece that was worn there, if any.
func (e *Equipment) Unequip(slot ArmorSlot) *ArmorPiece {
	prev := e.armor[slot]
	e.armor[slot] = nil
	return prev
}

// TotalDefense sums the defense of every intact worn piece.
func (e *Equipment) TotalDefense() uint32 {
	var total uint32
	for _, p := range e.armor {
		if p != nil && !p.Broken() {
			total += p.Defense()
		}
	}
	return total
}

// maxDefenseReduction caps how much of an incoming hit armor can absorb,
// matching the 25-defense-point normalization a full diamond set (10) falls
// well under.
const maxDefenseReduction = 0.8

// DamageMultiplier returns the fraction of incoming damage that still gets
// through current armor: 1.0 is no protection, 0.2 is the floor.
func (e *Equipment) DamageMultiplier() float64 {
	reduction := float64(e.TotalDefense()) / 25.0
	if reduction > maxDefenseReduction {
		reduction = maxDefenseReduction
	}
	return 1.0 - reduction
}

// AbsorbHit applies the current damage multiplier to rawDamage and damages
// every intact piece by one durability point, removing any that break. It
// returns the damage that actually gets through.
func (e *Equipment) AbsorbHit(rawDamage float64) float64 {
	actual := rawDamage * e.DamageMultiplier()
	for slot, p := range e.armor {
		if p == nil {
			continue
		}
		if p.Damage(1) {
			e.armor[slot] = nil
		}
	}
	return actual
}
