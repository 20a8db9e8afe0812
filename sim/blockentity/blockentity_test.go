package blockentity

import (
	"testing"

	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/inventory"
)

type fakeSmeltTable struct{}

func (fakeSmeltTable) SmeltResult(input inventory.ItemId) (inventory.ItemId, bool) {
	if input == 1 {
		return 2, true
	}
	return 0, false
}

func (fakeSmeltTable) BurnValue(fuel inventory.ItemId) (float64, bool) {
	if fuel == 10 {
		return 8.0, true
	}
	return 0, false
}

func TestFurnaceSmeltsAfterConsumingFuelAndProgress(t *testing.T) {
	f := &Furnace{
		Input: &inventory.ItemStack{ItemID: 1, Count: 2},
		Fuel:  &inventory.ItemStack{ItemID: 10, Count: 2},
	}
	table := fakeSmeltTable{}

	for i := 0; i < 10; i++ {
		f.Tick(1.0, table)
	}

	if f.Output == nil || f.Output.Count != 1 {
		t.Fatalf("Output = %+v, want one smelted item after a full 10s burn", f.Output)
	}
	if f.Input == nil || f.Input.Count != 1 {
		t.Fatalf("Input = %+v, want one unit consumed", f.Input)
	}
	if f.Fuel != nil {
		t.Fatalf("Fuel = %+v, want both fuel units fully consumed across the 10s smelt", f.Fuel)
	}
}

func TestFurnaceDoesNotSmeltWithoutValidInput(t *testing.T) {
	f := &Furnace{
		Input: &inventory.ItemStack{ItemID: 99, Count: 1},
		Fuel:  &inventory.ItemStack{ItemID: 10, Count: 1},
	}
	f.Tick(100, fakeSmeltTable{})
	if f.Output != nil {
		t.Fatal("a furnace with unsmeltable input must never produce output")
	}
	if f.IsLit {
		t.Fatal("a furnace that cannot smelt must not report IsLit")
	}
}

func TestFurnaceStaysUnlitWithoutFuel(t *testing.T) {
	f := &Furnace{Input: &inventory.ItemStack{ItemID: 1, Count: 1}}
	f.Tick(1, fakeSmeltTable{})
	if f.IsLit {
		t.Fatal("a furnace with no fuel must not be lit")
	}
}

type fakeBrewTable struct{}

func (fakeBrewTable) BrewResult(ingredient, bottle inventory.ItemId) (inventory.ItemId, bool) {
	if ingredient == 5 {
		return bottle + 100, true
	}
	return 0, false
}

func TestBrewingStandBrewsAfterFullDuration(t *testing.T) {
	b := &BrewingStand{
		Ingredient: &inventory.ItemStack{ItemID: 5, Count: 1},
		Bottles: [3]*inventory.ItemStack{
			{ItemID: 1, Count: 1},
			{ItemID: 1, Count: 1},
			{ItemID: 1, Count: 1},
		},
	}
	b.SetTable(fakeBrewTable{})

	for i := 0; i < 20; i++ {
		b.Tick(1.0)
	}

	for i, bottle := range b.Bottles {
		if bottle == nil || bottle.ItemID != 101 {
			t.Fatalf("bottle %d = %+v, want brewed result ItemID 101", i, bottle)
		}
	}
	if b.Ingredient != nil {
		t.Fatal("the single ingredient unit should be fully consumed after one brew")
	}
}

func TestBrewingStandResetsProgressWhenInvalid(t *testing.T) {
	b := &BrewingStand{}
	b.SetTable(fakeBrewTable{})
	b.Progress = 10
	b.Tick(1.0)
	if b.Progress != 0 {
		t.Fatalf("Progress = %v, want reset to 0 when the brew is invalid (no ingredient/bottles)", b.Progress)
	}
}

func TestEnchantingTableRecomputesOnlyWhenInputsChange(t *testing.T) {
	e := &EnchantingTable{LapisCount: 3, BookshelfCount: 15, Item: 1, TickOfPlace: core.ZeroTick}
	p := Pos{Dim: 0, X: 1, Y: 2, Z: 3}

	e.maybeRecompute(42, p, core.ZeroTick)
	first := e.Options

	e.maybeRecompute(42, p, core.ZeroTick)
	if e.Options != first {
		t.Fatal("maybeRecompute must not change Options when (lapis, bookshelves, item) are unchanged")
	}

	e.LapisCount = 1
	e.maybeRecompute(42, p, core.ZeroTick)
	if e.Options == first {
		t.Fatal("maybeRecompute must recompute Options once LapisCount changes")
	}
}

func TestEnchantingTableLowLapisCapsLevel(t *testing.T) {
	e := &EnchantingTable{LapisCount: 0, BookshelfCount: 15, Item: 1}
	p := Pos{Dim: 0, X: 0, Y: 0, Z: 0}
	e.maybeRecompute(7, p, core.ZeroTick)
	if e.Options[0].Level != 1 {
		t.Fatalf("Options[0].Level = %d, want 1 when LapisCount is below the slot's requirement", e.Options[0].Level)
	}
}

func TestStorePositionsAreSortedAndTickAll(t *testing.T) {
	s := NewStore()
	p1 := Pos{Dim: 0, X: 5, Y: 0, Z: 0}
	p2 := Pos{Dim: 0, X: 1, Y: 0, Z: 0}

	s.PutFurnace(p1, &Furnace{Input: &inventory.ItemStack{ItemID: 1, Count: 1}, Fuel: &inventory.ItemStack{ItemID: 10, Count: 1}})
	s.PutFurnace(p2, &Furnace{})

	positions := s.FurnacePositions()
	if len(positions) != 2 || !less(positions[0], positions[1]) {
		t.Fatalf("FurnacePositions = %+v, want sorted ascending", positions)
	}

	s.TickFurnaces(1.0, fakeSmeltTable{})
	f1, _ := s.Furnace(p1)
	if !f1.IsLit {
		t.Fatal("TickFurnaces should have advanced the furnace with valid input/fuel")
	}
}
