package entity

import "github.com/0x4d44/mdcore/core"

// SpawnCaps enforces the per-dimension hostile/passive mob caps: the
// source has probabilistic per-chunk caps but no global cap, so a robust
// implementation adds one.
type SpawnCaps struct {
	MaxHostile, MaxPassive int
	hostile, passive       map[core.DimensionId]int
}

// DefaultSpawnCaps returns the default 64 hostile + 64 passive per
// dimension caps.
func DefaultSpawnCaps() *SpawnCaps {
	return NewSpawnCaps(64, 64)
}

// NewSpawnCaps builds caps with explicit limits.
func NewSpawnCaps(maxHostile, maxPassive int) *SpawnCaps {
	return &SpawnCaps{
		MaxHostile: maxHostile,
		MaxPassive: maxPassive,
		hostile:    make(map[core.DimensionId]int),
		passive:    make(map[core.DimensionId]int),
	}
}

// HostilityClassifier reports whether a MobType is conventionally considered
// a hostile mob type for cap-accounting purposes. Content packs supply the actual type
// catalog; the core only needs the hostile/passive split to enforce caps.
type HostilityClassifier func(MobType) bool

// TryReserve attempts to reserve one spawn slot for a mob of the given
// hostility in dim, returning false if the relevant cap is already reached.
func (c *SpawnCaps) TryReserve(dim core.DimensionId, hostile bool) bool {
	if hostile {
		if c.hostile[dim] >= c.MaxHostile {
			return false
		}
		c.hostile[dim]++
		return true
	}
	if c.passive[dim] >= c.MaxPassive {
		return false
	}
	c.passive[dim]++
	return true
}

// Release frees a previously reserved slot, called when a mob dies or
// despawns.
func (c *SpawnCaps) Release(dim core.DimensionId, hostile bool) {
	if hostile {
		if c.hostile[dim] > 0 {
			c.hostile[dim]--
		}
		return
	}
	if c.passive[dim] > 0 {
		c.passive[dim]--
	}
}
