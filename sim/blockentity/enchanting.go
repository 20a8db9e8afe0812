package blockentity

import (
	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/inventory"
)

// EnchantOption is a single precomputed enchant choice: a minimal
// enchantment-id + level pair, supplement from
// crates/core/src/enchantment.rs (a full enchantment runtime is explicitly
// out of scope here).
type EnchantOption struct {
	EnchantmentID uint16
	Level         uint8
}

// EnchantingTable recomputes its 3 options whenever (lapis_count,
// bookshelf_count, item) changes, using a scoped RNG
// seeded by (world_seed, position, tick_of_place).
type EnchantingTable struct {
	LapisCount, BookshelfCount int
	Item                       inventory.ItemId
	TickOfPlace                core.SimTick
	Options                    [3]EnchantOption

	lastLapis, lastBookshelf int
	lastItem                 inventory.ItemId
	computed                 bool
}

func (e *EnchantingTable) maybeRecompute(worldSeed uint64, pos Pos, _ core.SimTick) {
	if e.computed && e.lastLapis == e.LapisCount && e.lastBookshelf == e.BookshelfCount && e.lastItem == e.Item {
		return
	}
	e.lastLapis, e.lastBookshelf, e.lastItem, e.computed = e.LapisCount, e.BookshelfCount, e.Item, true

	chunkHash := uint64(pos.X)*0x9E3779B1 ^ uint64(pos.Y)*0x85EBCA6B ^ uint64(pos.Z)*0xC2B2AE35
	r := core.ScopedRNG(worldSeed, chunkHash, e.TickOfPlace)

	bonus := min3(e.BookshelfCount, 15)
	for i := range e.Options {
		base := 1 + (i * bonus / 3)
		level := uint8(1 + r.IntN(max1(base)))
		if e.LapisCount < i+1 {
			level = 1
		}
		e.Options[i] = EnchantOption{
			EnchantmentID: uint16(r.IntN(32)),
			Level:         level,
		}
	}
}

func min3(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
