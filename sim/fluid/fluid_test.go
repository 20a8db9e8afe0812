package fluid

import (
	"testing"

	"github.com/0x4d44/mdcore/chunkstore"
)

type fakeWorld struct {
	fluids  map[Pos]Cell
	blocks  map[Pos]chunkstore.BlockId
	names   map[string]chunkstore.BlockId
	dirty   map[Pos]chunkstore.DirtyFlag
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		fluids: make(map[Pos]Cell),
		blocks: make(map[Pos]chunkstore.BlockId),
		names: map[string]chunkstore.BlockId{
			chunkstore.NameAir:         0,
			chunkstore.NameCobblestone: 10,
			chunkstore.NameObsidian:    11,
		},
		dirty: make(map[Pos]chunkstore.DirtyFlag),
	}
}

func (w *fakeWorld) FluidAt(p Pos) (Cell, bool) {
	c, ok := w.fluids[p]
	return c, ok
}

func (w *fakeWorld) SetFluid(p Pos, c Cell) { w.fluids[p] = c }

func (w *fakeWorld) BlockIDAt(p Pos) chunkstore.BlockId { return w.blocks[p] }

func (w *fakeWorld) SetBlockID(p Pos, id chunkstore.BlockId) { w.blocks[p] = id }

func (w *fakeWorld) MarkDirty(p Pos, flags chunkstore.DirtyFlag) { w.dirty[p] |= flags }

func (w *fakeWorld) IDByName(name string) (chunkstore.BlockId, bool) {
	id, ok := w.names[name]
	return id, ok
}

func TestSchedulerStepPropagatesAcrossLevelGap(t *testing.T) {
	w := newFakeWorld()
	src := Pos{Dim: 0, X: 0, Y: 10, Z: 0}
	w.SetFluid(src, Cell{Kind: Water, Level: SourceLevel, Source: true})

	s := NewScheduler()
	s.Schedule(src)
	s.Step(w)

	neighbor := Pos{Dim: 0, X: 1, Y: 10, Z: 0}
	nc, ok := w.FluidAt(neighbor)
	if !ok {
		t.Fatal("a source cell should propagate to an adjacent empty cell")
	}
	if nc.Level != SourceLevel-1 {
		t.Fatalf("propagated level = %d, want %d", nc.Level, SourceLevel-1)
	}
}

func TestSchedulerStepDoesNotOverwriteSource(t *testing.T) {
	w := newFakeWorld()
	a := Pos{Dim: 0, X: 0, Y: 10, Z: 0}
	b := Pos{Dim: 0, X: 1, Y: 10, Z: 0}
	w.SetFluid(a, Cell{Kind: Water, Level: SourceLevel, Source: true})
	w.SetFluid(b, Cell{Kind: Water, Level: SourceLevel, Source: true})

	s := NewScheduler()
	s.Schedule(a)
	s.Step(w)

	nc, _ := w.FluidAt(b)
	if nc.Level != SourceLevel || !nc.Source {
		t.Fatal("an existing source cell must never be overwritten by propagation")
	}
}

func TestSchedulerStepAppliesGravityIntoEmptyBelow(t *testing.T) {
	w := newFakeWorld()
	p := Pos{Dim: 0, X: 0, Y: 10, Z: 0}
	w.SetFluid(p, Cell{Kind: Water, Level: SourceLevel, Source: true})

	s := NewScheduler()
	s.Schedule(p)
	s.Step(w)

	below := Pos{Dim: 0, X: 0, Y: 9, Z: 0}
	bc, ok := w.FluidAt(below)
	if !ok || bc.Level != SourceLevel {
		t.Fatalf("fluid should flow straight down into an air cell below, got %+v (ok=%v)", bc, ok)
	}
}

func TestSchedulerStepLavaMeetsWaterFromSideBecomesCobblestone(t *testing.T) {
	w := newFakeWorld()
	lava := Pos{Dim: 0, X: 0, Y: 10, Z: 0}
	water := Pos{Dim: 0, X: 1, Y: 10, Z: 0}
	w.SetFluid(lava, Cell{Kind: Lava, Level: SourceLevel, Source: true})
	w.SetFluid(water, Cell{Kind: Water, Level: SourceLevel, Source: true})

	s := NewScheduler()
	s.Schedule(lava)
	s.Step(w)

	if w.blocks[lava] != 10 {
		t.Fatalf("lava touched from the side by water should convert to cobblestone, got block id %d", w.blocks[lava])
	}
	if fc, ok := w.FluidAt(lava); !ok || fc != (Cell{}) {
		t.Fatal("the converted cell's fluid state should be cleared")
	}
}

func TestSchedulerStepLavaMeetsWaterFromAboveSourceBecomesObsidian(t *testing.T) {
	w := newFakeWorld()
	lava := Pos{Dim: 0, X: 0, Y: 10, Z: 0}
	waterAbove := Pos{Dim: 0, X: 0, Y: 11, Z: 0}
	w.SetFluid(lava, Cell{Kind: Lava, Level: SourceLevel, Source: true})
	w.SetFluid(waterAbove, Cell{Kind: Water, Level: SourceLevel, Source: true})

	s := NewScheduler()
	s.Schedule(lava)
	s.Step(w)

	if w.blocks[lava] != 11 {
		t.Fatalf("a lava source touched from above by water should convert to obsidian, got block id %d", w.blocks[lava])
	}
}

func TestSchedulerStepProcessesInDeterministicOrder(t *testing.T) {
	w1 := newFakeWorld()
	w2 := newFakeWorld()
	positions := []Pos{
		{Dim: 0, X: 5, Y: 10, Z: 5},
		{Dim: 0, X: 1, Y: 12, Z: 0},
		{Dim: 0, X: 1, Y: 10, Z: 9},
	}
	for _, p := range positions {
		w1.SetFluid(p, Cell{Kind: Water, Level: SourceLevel, Source: true})
		w2.SetFluid(p, Cell{Kind: Water, Level: SourceLevel, Source: true})
	}

	s1, s2 := NewScheduler(), NewScheduler()
	for _, p := range positions {
		s1.Schedule(p)
	}
	for i := len(positions) - 1; i >= 0; i-- {
		s2.Schedule(positions[i])
	}
	s1.Step(w1)
	s2.Step(w2)

	for p, c := range w1.fluids {
		if w2.fluids[p] != c {
			t.Fatalf("result at %+v differs depending on schedule order: %+v vs %+v", p, c, w2.fluids[p])
		}
	}
}

func TestSchedulerStepNoopWhenEmptyCell(t *testing.T) {
	w := newFakeWorld()
	p := Pos{Dim: 0, X: 0, Y: 10, Z: 0}
	s := NewScheduler()
	s.Schedule(p)
	s.Step(w)
	if len(w.fluids) != 0 {
		t.Fatal("stepping an unset position should have no effect")
	}
}
