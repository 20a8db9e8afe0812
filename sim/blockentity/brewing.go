package blockentity

import "github.com/0x4d44/mdcore/inventory"

// brewSeconds is the fixed 20-second brew duration.
const brewSeconds = 20.0

// BrewTable resolves a (ingredient, bottle) pair into a brewed result,
// analogous to SmeltTable for furnaces.
type BrewTable interface {
	BrewResult(ingredient, bottle inventory.ItemId) (result inventory.ItemId, ok bool)
}

// BrewingStand is the 3-bottle-slot, one-ingredient state machine,
// analogous to Furnace but with a fixed 20-second brew
// instead of fuel-gated progress.
type BrewingStand struct {
	Bottles    [3]*inventory.ItemStack
	Ingredient *inventory.ItemStack
	Progress   float64 // seconds elapsed of the current brew
	table      BrewTable
}

// SetTable binds the brew-result table; must be called before Tick.
func (b *BrewingStand) SetTable(t BrewTable) { b.table = t }

func (b *BrewingStand) validBrew() bool {
	if b.Ingredient == nil || b.Ingredient.Count == 0 || b.table == nil {
		return false
	}
	for _, bottle := range b.Bottles {
		if bottle == nil || bottle.Count == 0 {
			return false
		}
		if _, ok := b.table.BrewResult(b.Ingredient.ItemID, bottle.ItemID); !ok {
			return false
		}
	}
	return true
}

// Tick advances the brewing stand by deltaSeconds, producing brewed bottles
// once Progress reaches brewSeconds with all three bottles still valid.
func (b *BrewingStand) Tick(deltaSeconds float64) {
	if !b.validBrew() {
		b.Progress = 0
		return
	}
	b.Progress += deltaSeconds
	if b.Progress < brewSeconds {
		return
	}
	b.Progress = 0
	for i, bottle := range b.Bottles {
		result, _ := b.table.BrewResult(b.Ingredient.ItemID, bottle.ItemID)
		b.Bottles[i] = &inventory.ItemStack{ItemID: result, Count: bottle.Count}
	}
	b.Ingredient.Count--
	if b.Ingredient.Count == 0 {
		b.Ingredient = nil
	}
}
