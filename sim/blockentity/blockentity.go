// Package blockentity implements furnace, brewing stand, and enchanting
// table tick logic, stored as an ordered map keyed by
// (dimension, x, y, z). Ordering is grounded on server/world/world.go's
// style of keeping entity/column bookkeeping in explicit, sorted structures
// rather than relying on Go map iteration order.
package blockentity

import (
	"sort"

	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/inventory"
)

// Pos identifies a block entity's position.
type Pos struct {
	Dim     core.DimensionId
	X, Y, Z int32
}

func less(a, b Pos) bool {
	if a.Dim != b.Dim {
		return a.Dim < b.Dim
	}
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Z < b.Z
}

// Store is the ordered (dimension,x,y,z)-keyed block entity map.
type Store struct {
	furnaces   map[Pos]*Furnace
	brewing    map[Pos]*BrewingStand
	enchanting map[Pos]*EnchantingTable
}

// NewStore builds an empty block entity store.
func NewStore() *Store {
	return &Store{
		furnaces:   make(map[Pos]*Furnace),
		brewing:    make(map[Pos]*BrewingStand),
		enchanting: make(map[Pos]*EnchantingTable),
	}
}

func sortedPositions[V any](m map[Pos]V) []Pos {
	out := make([]Pos, 0, len(m))
	for p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// PutFurnace installs a furnace at p.
func (s *Store) PutFurnace(p Pos, f *Furnace) { s.furnaces[p] = f }

// Furnace returns the furnace at p, if any.
func (s *Store) Furnace(p Pos) (*Furnace, bool) { f, ok := s.furnaces[p]; return f, ok }

// FurnacePositions returns every furnace position in deterministic order,
// for callers (persist) that must walk the whole store.
func (s *Store) FurnacePositions() []Pos { return sortedPositions(s.furnaces) }

// BrewingPositions returns every brewing stand position in deterministic
// order.
func (s *Store) BrewingPositions() []Pos { return sortedPositions(s.brewing) }

// EnchantingPositions returns every enchanting table position in
// deterministic order.
func (s *Store) EnchantingPositions() []Pos { return sortedPositions(s.enchanting) }

// TickFurnaces advances every furnace by deltaSeconds, in deterministic
// position order.
func (s *Store) TickFurnaces(deltaSeconds float64, table SmeltTable) {
	for _, p := range sortedPositions(s.furnaces) {
		s.furnaces[p].Tick(deltaSeconds, table)
	}
}

// PutBrewingStand installs a brewing stand at p.
func (s *Store) PutBrewingStand(p Pos, b *BrewingStand) { s.brewing[p] = b }

// BrewingStand returns the stand at p, if any.
func (s *Store) BrewingStand(p Pos) (*BrewingStand, bool) { b, ok := s.brewing[p]; return b, ok }

// TickBrewingStands advances every brewing stand by deltaSeconds.
func (s *Store) TickBrewingStands(deltaSeconds float64) {
	for _, p := range sortedPositions(s.brewing) {
		s.brewing[p].Tick(deltaSeconds)
	}
}

// PutEnchantingTable installs an enchanting table at p.
func (s *Store) PutEnchantingTable(p Pos, e *EnchantingTable) { s.enchanting[p] = e }

// EnchantingTable returns the table at p, if any.
func (s *Store) EnchantingTable(p Pos) (*EnchantingTable, bool) {
	e, ok := s.enchanting[p]
	return e, ok
}

// TickEnchantingTables recomputes options for any table whose
// (lapis, bookshelves, item) changed since the last tick.
func (s *Store) TickEnchantingTables(worldSeed uint64, tick core.SimTick) {
	for _, p := range sortedPositions(s.enchanting) {
		s.enchanting[p].maybeRecompute(worldSeed, p, tick)
	}
}

// SmeltTable resolves the smelting output item (and burn value of fuel
// items) from the opaque item ids the core treats as external data.
type SmeltTable interface {
	SmeltResult(input inventory.ItemId) (output inventory.ItemId, ok bool)
	BurnValue(fuel inventory.ItemId) (seconds float64, ok bool)
}
