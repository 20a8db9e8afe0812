package player

import "testing"

func TestNewArmorPieceStartsAtMaxDurability(t *testing.T) {
	p := NewArmorPiece(1, Chestplate, Iron)
	if p.Durability != p.MaxDurability || p.MaxDurability != 16*15 {
		t.Fatalf("ArmorPiece = %+v, want full durability of 240", p)
	}
	if p.Defense() != 2 {
		t.Fatalf("Defense() = %d, want 2 for an iron chestplate", p.Defense())
	}
}

func TestArmorPieceDamageBreaksAtZero(t *testing.T) {
	p := NewArmorPiece(1, Boots, Leather)
	if p.Broken() {
		t.Fatal("a fresh piece must not report broken")
	}
	if broke := p.Damage(1000); !broke {
		t.Fatal("Damage beyond remaining durability should report broken")
	}
	if !p.Broken() || p.Durability != 0 {
		t.Fatalf("after a breaking hit Durability = %d, want 0", p.Durability)
	}
}

func TestEquipmentTotalDefenseFullIronSet(t *testing.T) {
	e := NewEquipment()
	e.Equip(NewArmorPiece(1, Helmet, Iron))
	e.Equip(NewArmorPiece(2, Chestplate, Iron))
	e.Equip(NewArmorPiece(3, Leggings, Iron))
	e.Equip(NewArmorPiece(4, Boots, Iron))

	if got := e.TotalDefense(); got != 8 {
		t.Fatalf("TotalDefense() = %d, want 8 for a full iron set", got)
	}
	mult := e.DamageMultiplier()
	if diff := mult - 0.68; diff > 0.001 || diff < -0.001 {
		t.Fatalf("DamageMultiplier() = %v, want ~0.68", mult)
	}
}

func TestEquipmentDamageMultiplierCapsAtFloor(t *testing.T) {
	e := NewEquipment()
	e.Equip(NewArmorPiece(1, Helmet, Diamond))
	e.Equip(NewArmorPiece(2, Chestplate, Diamond))
	e.Equip(NewArmorPiece(3, Leggings, Diamond))
	e.Equip(NewArmorPiece(4, Boots, Diamond))

	if got := e.TotalDefense(); got != 10 {
		t.Fatalf("TotalDefense() = %d, want 10 for a full diamond set", got)
	}
	if mult := e.DamageMultiplier(); mult < 0.2 {
		t.Fatalf("DamageMultiplier() = %v, reduction must never exceed the floor", mult)
	}
}

func TestEquipmentEquipReturnsPreviousPiece(t *testing.T) {
	e := NewEquipment()
	first := NewArmorPiece(1, Helmet, Leather)
	second := NewArmorPiece(2, Helmet, Iron)

	if prev := e.Equip(first); prev != nil {
		t.Fatalf("first Equip into an empty slot should return nil, got %+v", prev)
	}
	prev := e.Equip(second)
	if prev == nil || prev.Item != 1 {
		t.Fatalf("Equip() = %+v, want the previously worn helmet returned", prev)
	}
	if e.Armor(Helmet).Item != 2 {
		t.Fatal("Helmet slot should now hold the newly equipped piece")
	}
}

func TestEquipmentUnequipClearsSlot(t *testing.T) {
	e := NewEquipment()
	e.Equip(NewArmorPiece(1, Boots, Gold))
	removed := e.Unequip(Boots)
	if removed == nil || removed.Item != 1 {
		t.Fatalf("Unequip() = %+v, want the removed piece", removed)
	}
	if e.Armor(Boots) != nil {
		t.Fatal("Armor(Boots) should be nil after Unequip")
	}
}

func TestEquipmentAbsorbHitDamagesWornPiecesAndReducesDamage(t *testing.T) {
	e := NewEquipment()
	e.Equip(NewArmorPiece(1, Chestplate, Leather))
	before := e.Armor(Chestplate).Durability

	actual := e.AbsorbHit(10)
	if actual >= 10 {
		t.Fatalf("AbsorbHit() = %v, want less than the raw 10 damage", actual)
	}
	if e.Armor(Chestplate).Durability != before-1 {
		t.Fatalf("worn chestplate durability = %d, want %d after one hit", e.Armor(Chestplate).Durability, before-1)
	}
}

func TestEquipmentAbsorbHitRemovesPieceOnceBroken(t *testing.T) {
	e := NewEquipment()
	p := NewArmorPiece(1, Helmet, Leather)
	p.Durability = 1
	e.Equip(p)

	e.AbsorbHit(1)
	if e.Armor(Helmet) != nil {
		t.Fatal("a piece that breaks from a hit must be removed from its slot")
	}
}

func TestEquipmentNoArmorMeansNoReduction(t *testing.T) {
	e := NewEquipment()
	if got := e.DamageMultiplier(); got != 1.0 {
		t.Fatalf("DamageMultiplier() = %v, want 1.0 with nothing equipped", got)
	}
	if got := e.AbsorbHit(5); got != 5 {
		t.Fatalf("AbsorbHit() = %v, want the full 5 damage through with no armor", got)
	}
}
