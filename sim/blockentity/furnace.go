package blockentity

import "github.com/0x4d44/mdcore/inventory"

// smeltSeconds is the fixed 10-second smelt duration.
const smeltSeconds = 10.0

// Furnace is the smelting state machine.
type Furnace struct {
	Input, Fuel, Output *inventory.ItemStack
	SmeltProgress        float64 // in [0,1]
	FuelRemaining        float64 // seconds, >= 0
	IsLit                bool
}

// canSmelt reports whether the furnace currently has a valid input and
// room in its output for the smelt result.
func (f *Furnace) canSmelt(table SmeltTable) (inventory.ItemId, bool) {
	if f.Input == nil || f.Input.Count == 0 {
		return 0, false
	}
	out, ok := table.SmeltResult(f.Input.ItemID)
	if !ok {
		return 0, false
	}
	if f.Output != nil && f.Output.ItemID != out {
		return 0, false
	}
	return out, true
}

// Tick advances the furnace by deltaSeconds of wall/sim time: consume fuel
// when needed, advance smelt
// progress proportionally while lit, and produce output at 100% progress.
func (f *Furnace) Tick(deltaSeconds float64, table SmeltTable) {
	out, smeltable := f.canSmelt(table)

	if smeltable && f.FuelRemaining <= 0 {
		if f.Fuel != nil && f.Fuel.Count > 0 {
			if burn, ok := table.BurnValue(f.Fuel.ItemID); ok {
				f.FuelRemaining += burn
				f.Fuel.Count--
				if f.Fuel.Count == 0 {
					f.Fuel = nil
				}
			}
		}
	}

	f.IsLit = false
	if f.FuelRemaining > 0 && smeltable {
		f.IsLit = true
		step := deltaSeconds
		if step > f.FuelRemaining {
			step = f.FuelRemaining
		}
		f.FuelRemaining -= step
		f.SmeltProgress += step / smeltSeconds
		// The tolerance absorbs float rounding, so steps that sum to
		// smeltSeconds complete the smelt.
		if f.SmeltProgress >= 1-1e-9 {
			f.SmeltProgress = 0
			f.Input.Count--
			if f.Input.Count == 0 {
				f.Input = nil
			}
			if f.Output == nil {
				f.Output = &inventory.ItemStack{ItemID: out, Count: 0}
			}
			f.Output.Count++
		}
	}
}
