// Package redstone implements redstone signal propagation: BFS-from-
// sources power propagation through wires with per-block power
// decay, target observation, and block-state transitions that set MESH and
// LIGHT dirty. The node/graph shape and the "rebuild-on-change, otherwise
// BFS every tick" scheduling discipline are grounded on
// server/world/redstone/{graph,scheduler}.go, collapsed here from a
// parallel per-chunk worker pool to a single deterministic pass since the
// core's simulation tick is itself single-threaded.
package redstone

import (
	"sort"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
)

// NodeKind identifies the behaviour of a redstone graph node.
type NodeKind uint8

const (
	NodeWire NodeKind = iota
	NodeSource
	NodeTarget
)

// Pos is a global block position within a dimension.
type Pos struct {
	Dim     core.DimensionId
	X, Y, Z int32
}

// Node is one component of the redstone graph.
type Node struct {
	Pos   Pos
	Kind  NodeKind
	Power uint8 // fixed emission for NodeSource; ignored otherwise
}

// Graph is the full set of redstone-relevant nodes in the world. Rebuilding
// it is the caller's responsibility (e.g. on block placement/removal);
// System.Tick only ever reads it and writes to State.
type Graph struct {
	nodes map[Pos]Node
	order []Pos // nodes in deterministic (dim, y, x, z) order
}

// NewGraph builds an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[Pos]Node)}
}

// Put inserts or replaces a node and keeps Graph.order sorted.
func (g *Graph) Put(n Node) {
	if _, exists := g.nodes[n.Pos]; !exists {
		g.order = append(g.order, n.Pos)
		sort.Slice(g.order, func(i, j int) bool { return less(g.order[i], g.order[j]) })
	}
	g.nodes[n.Pos] = n
}

// Remove deletes the node at p, if any.
func (g *Graph) Remove(p Pos) {
	if _, exists := g.nodes[p]; !exists {
		return
	}
	delete(g.nodes, p)
	for i, op := range g.order {
		if op == p {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

func less(a, b Pos) bool {
	if a.Dim != b.Dim {
		return a.Dim < b.Dim
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

func neighbors(p Pos) [6]Pos {
	return [6]Pos{
		{p.Dim, p.X - 1, p.Y, p.Z}, {p.Dim, p.X + 1, p.Y, p.Z},
		{p.Dim, p.X, p.Y - 1, p.Z}, {p.Dim, p.X, p.Y + 1, p.Z},
		{p.Dim, p.X, p.Y, p.Z - 1}, {p.Dim, p.X, p.Y, p.Z + 1},
	}
}

// State holds the mutable powered/active state of every node, kept separate
// from Graph so rebuilding the graph (cheap, structural) never discards
// accumulated power state unexpectedly - callers decide when to reset it.
type State struct {
	power  map[Pos]uint8
	active map[Pos]bool
}

// NewState creates empty propagation state.
func NewState() *State {
	return &State{power: make(map[Pos]uint8), active: make(map[Pos]bool)}
}

// Power returns the currently known power level at p (0 if unknown).
func (s *State) Power(p Pos) uint8 { return s.power[p] }

// Active reports whether the target/observer at p is currently powered.
func (s *State) Active(p Pos) bool { return s.active[p] }

// BlockTransition describes an observed-vs-active block-state change a
// System.Tick pass wants applied, e.g. REDSTONE_LAMP -> REDSTONE_LAMP_LIT.
type BlockTransition struct {
	Pos      Pos
	NewBlock string
}

// System runs one deterministic BFS-from-sources propagation pass per tick
// and reports any target transitions for the caller to apply (setting the
// corresponding block ids and marking MESH|LIGHT dirty on those chunks).
type System struct {
	graph *Graph
	state *State
}

// NewSystem builds a System bound to a graph and fresh state.
func NewSystem(g *Graph) *System {
	return &System{graph: g, state: NewState()}
}

// State exposes the current propagation state for inspection/tests.
func (s *System) State() *State { return s.state }

// Tick runs BFS from every NodeSource through NodeWire nodes, decrementing
// power by one block traversed, and returns the set of NodeTarget
// transitions whose powered observation flipped this tick. Traversal order
// is the graph's deterministic node order, so two runs over an identical
// graph always produce identical transitions.
func (s *System) Tick() []BlockTransition {
	newPower := make(map[Pos]uint8, len(s.graph.nodes))

	type queued struct {
		pos   Pos
		power uint8
	}
	var queue []queued
	for _, pos := range s.graph.order {
		n := s.graph.nodes[pos]
		if n.Kind == NodeSource {
			queue = append(queue, queued{pos: pos, power: n.Power})
		}
	}

	visited := make(map[Pos]uint8)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if p, ok := visited[cur.pos]; ok && p >= cur.power {
			continue
		}
		visited[cur.pos] = cur.power
		if cur.power == 0 {
			continue
		}
		for _, np := range neighbors(cur.pos) {
			n, ok := s.graph.nodes[np]
			if !ok {
				continue
			}
			next := cur.power - 1
			switch n.Kind {
			case NodeWire:
				queue = append(queue, queued{pos: np, power: next})
			case NodeTarget:
				if next > visited[np] {
					visited[np] = next
				}
			}
		}
	}
	for pos, power := range visited {
		newPower[pos] = power
	}

	var transitions []BlockTransition
	for _, pos := range s.graph.order {
		n := s.graph.nodes[pos]
		if n.Kind != NodeTarget {
			continue
		}
		power := newPower[pos]
		wasActive := s.state.active[pos]
		isActive := power > 0
		if wasActive != isActive {
			s.state.active[pos] = isActive
			name := chunkstore.NameRedstoneLamp
			if isActive {
				name = chunkstore.NameRedstoneLampLit
			}
			transitions = append(transitions, BlockTransition{Pos: pos, NewBlock: name})
		}
	}
	s.state.power = newPower
	return transitions
}
