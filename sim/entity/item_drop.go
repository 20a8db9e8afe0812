package entity

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/inventory"
)

// Dropped-item physics constants.
const (
	ItemGravity      = 0.05
	ItemDrag         = 0.98
	ItemDespawnTicks = 5 * 60 * core.TickRate // 5 minutes
	itemMergeRadius  = 1.0
)

// DroppedItem is a world-space entity for an item lying in the world.
type DroppedItem struct {
	ID        uint64
	Dimension core.DimensionId
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Stack     inventory.ItemStack
	AgeTicks  int
	Dead      bool
}

// GroundHeightFunc resolves the highest solid surface at (x, z) in dim, used to
// stop gravity integration; callers supply this from chunkstore/terrain so
// this package stays independent of world storage.
type GroundHeightFunc func(dim core.DimensionId, x, z float64) float64

// Tick applies gravity against ground height and ages the item toward its
// 5-minute despawn,
func (d *DroppedItem) Tick(ground GroundHeightFunc) {
	if d.Dead {
		return
	}
	floor := ground(d.Dimension, d.Position[0], d.Position[2])
	if d.Position[1] > floor {
		d.Velocity[1] -= ItemGravity
		d.Velocity = d.Velocity.Mul(ItemDrag)
		d.Position = d.Position.Add(d.Velocity)
		if d.Position[1] < floor {
			d.Position[1] = floor
			d.Velocity[1] = 0
		}
	} else {
		d.Position[1] = floor
		d.Velocity = mgl64.Vec3{}
	}
	d.AgeTicks++
	if d.AgeTicks >= ItemDespawnTicks {
		d.Dead = true
	}
}

// MergeNearbyItems collapses same-typed dropped items within itemMergeRadius
// of each other into a single stack when the combined count does not exceed
// max_stack_size, Items are processed in a fixed
// (ID-ascending) order so outcomes never depend on slice ordering.
func MergeNearbyItems(items []*DroppedItem, limits *inventory.StackLimits) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	for i, a := range items {
		if a.Dead {
			continue
		}
		for j := i + 1; j < len(items); j++ {
			b := items[j]
			if b.Dead || b.Dimension != a.Dimension || b.Stack.ItemID != a.Stack.ItemID {
				continue
			}
			if a.Position.Sub(b.Position).Len() > itemMergeRadius {
				continue
			}
			max := limits.MaxStackSize(a.Stack.ItemID)
			combined := a.Stack.Count + b.Stack.Count
			if combined > max {
				continue
			}
			a.Stack.Count = combined
			b.Dead = true
		}
	}
}
