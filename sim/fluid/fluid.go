// Package fluid implements cellular fluid spread: level 0-8 cells,
// 5-level-difference propagation, water/lava conversion, and gravity
// flow, all processed through a deterministically ordered scheduled-update
// queue. The queue's deterministic sort is grounded on
// server/world/redstone/scheduler.go's Morton-sorted worker ordering,
// adapted here to the spec's (dimension, y desc, x asc, z asc) key.
package fluid

import (
	"sort"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// Pos is a global block position within a dimension.
type Pos struct {
	Dim        core.DimensionId
	X, Y, Z    int32
}

// Kind distinguishes water from lava for the conversion table.
type Kind uint8

const (
	Water Kind = iota
	Lava
)

const (
	SourceLevel  = 8
	propagateGap = 5
)

// Cell is one fluid cell's simulation state.
type Cell struct {
	Kind   Kind
	Level  uint8 // 0 = no fluid, 8 = source
	Source bool
}

// World is the minimal accessor the fluid scheduler needs into block/voxel
// state, kept independent of chunkstore.Storage's concrete type so fluid can
// be tested with a fake world.
type World interface {
	FluidAt(p Pos) (Cell, bool)
	SetFluid(p Pos, c Cell)
	BlockIDAt(p Pos) chunkstore.BlockId
	SetBlockID(p Pos, id chunkstore.BlockId)
	MarkDirty(p Pos, flags chunkstore.DirtyFlag)
	IDByName(name string) (chunkstore.BlockId, bool)
}

// Scheduler holds the pending-update set for a tick and processes it in a
// fixed deterministic order.
type Scheduler struct {
	pending map[Pos]struct{}
}

// NewScheduler creates an empty fluid Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[Pos]struct{})}
}

// Schedule enqueues p for processing on a future Step call. Scheduling an
// already-pending position is a no-op.
func (s *Scheduler) Schedule(p Pos) {
	s.pending[p] = struct{}{}
}

// Step processes every currently pending update exactly once, in
// (dimension, y desc, x asc, z asc) order, Updates that
// schedule further positions take effect on the next Step call, never
// within the same pass, so that a single tick's fluid processing is bounded
// and reproducible regardless of map iteration order.
func (s *Scheduler) Step(w World) {
	if len(s.pending) == 0 {
		return
	}
	batch := make([]Pos, 0, len(s.pending))
	for p := range s.pending {
		batch = append(batch, p)
	}
	s.pending = make(map[Pos]struct{})

	sort.Slice(batch, func(i, j int) bool {
		a, b := batch[i], batch[j]
		if a.Dim != b.Dim {
			return a.Dim < b.Dim
		}
		if a.Y != b.Y {
			return a.Y > b.Y // descending
		}
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})

	for _, p := range batch {
		s.processOne(w, p)
	}
}

func (s *Scheduler) processOne(w World, p Pos) {
	cell, ok := w.FluidAt(p)
	if !ok || cell.Level == 0 {
		return
	}

	// 1. Propagate to non-source neighbors with a >=5-level difference.
	for _, np := range horizontalNeighbors(p) {
		nc, exists := w.FluidAt(np)
		if exists && nc.Source {
			continue
		}
		curLevel := uint8(0)
		if exists {
			curLevel = nc.Level
		}
		if int(cell.Level)-int(curLevel) >= propagateGap {
			w.SetFluid(np, Cell{Kind: cell.Kind, Level: cell.Level - 1})
			s.Schedule(np)
			w.MarkDirty(np, chunkstore.DirtyMesh|chunkstore.DirtyLight)
		}
	}

	// 2. Water/lava adjacency conversion.
	s.convertAdjacent(w, p, cell)

	// 3. Gravity: empty cell below becomes a flowing source-copy.
	below := Pos{Dim: p.Dim, X: p.X, Y: p.Y - 1, Z: p.Z}
	belowCell, belowExists := w.FluidAt(below)
	belowAir := w.BlockIDAt(below) == airID(w)
	if belowAir && (!belowExists || belowCell.Level == 0) {
		w.SetFluid(below, Cell{Kind: cell.Kind, Level: SourceLevel})
		s.Schedule(below)
		w.MarkDirty(below, chunkstore.DirtyMesh|chunkstore.DirtyLight)
	}
}

// convertAdjacent turns a lava cell into a solid block when water touches it
// on one of its four horizontal sides or from directly above. The sides are
// checked first, then above, and the first water neighbor found decides: a
// lava source with water directly above becomes obsidian, and every other
// case (water at a side, or flowing lava) becomes cobblestone. Water below
// the lava is not checked, and no case produces stone.
func (s *Scheduler) convertAdjacent(w World, p Pos, cell Cell) {
	if cell.Kind != Lava {
		return
	}
	for i, np := range append(horizontalNeighbors(p), Pos{Dim: p.Dim, X: p.X, Y: p.Y + 1, Z: p.Z}) {
		nc, exists := w.FluidAt(np)
		if !exists || nc.Kind != Water || nc.Level == 0 {
			continue
		}
		var resultName string
		isTop := i == 4
		if cell.Source && isTop {
			resultName = chunkstore.NameObsidian
		} else {
			resultName = chunkstore.NameCobblestone
		}
		if id, ok := w.IDByName(resultName); ok {
			w.SetBlockID(p, id)
			w.SetFluid(p, Cell{})
			w.MarkDirty(p, chunkstore.DirtyMesh|chunkstore.DirtyLight)
		}
		return
	}
}

func airID(w World) chunkstore.BlockId {
	id, _ := w.IDByName(chunkstore.NameAir)
	return id
}

func horizontalNeighbors(p Pos) []Pos {
	return []Pos{
		{Dim: p.Dim, X: p.X - 1, Y: p.Y, Z: p.Z},
		{Dim: p.Dim, X: p.X + 1, Y: p.Y, Z: p.Z},
		{Dim: p.Dim, X: p.X, Y: p.Y, Z: p.Z - 1},
		{Dim: p.Dim, X: p.X, Y: p.Y, Z: p.Z + 1},
	}
}
