package chunkstore

import "fmt"

// BlockId indexes BlockRegistry.descriptors; it is also stored verbatim as
// Voxel.ID, so registry order is part of the save/wire format once a world
// has been generated with it.
type BlockId = uint16

// BlockDescriptor is the per-block metadata needed elsewhere: whether the
// block is opaque (for meshing/light purposes) and its base light emission
// (overridden per-state by stateful emitters, see light.BlockLightEmission).
type BlockDescriptor struct {
	Name               string
	Opaque             bool
	BaseLightEmission  uint8
}

// BlockRegistry is the ordered sequence of BlockDescriptor.
// It is immutable after construction and therefore freely shareable across
// goroutines without synchronization.
type BlockRegistry struct {
	descriptors []BlockDescriptor
	byName      map[string]BlockId
}

// NewBlockRegistry builds a registry from an ordered descriptor list. Index
// in the slice becomes the BlockId; index 0 is conventionally air.
func NewBlockRegistry(descriptors []BlockDescriptor) *BlockRegistry {
	byName := make(map[string]BlockId, len(descriptors))
	for i, d := range descriptors {
		byName[d.Name] = BlockId(i)
	}
	return &BlockRegistry{descriptors: descriptors, byName: byName}
}

// Descriptor returns the descriptor for id, or the zero value and false if id
// is out of range.
func (r *BlockRegistry) Descriptor(id BlockId) (BlockDescriptor, bool) {
	if int(id) >= len(r.descriptors) {
		return BlockDescriptor{}, false
	}
	return r.descriptors[id], true
}

// ByName looks up a BlockId by registered name.
func (r *BlockRegistry) ByName(name string) (BlockId, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Opaque reports whether id is opaque, treating an unknown id as transparent
// (the same "not-yet-loaded neighbor" reasoning applies to unknown block
// ids).
func (r *BlockRegistry) Opaque(id BlockId) bool {
	d, ok := r.Descriptor(id)
	return ok && d.Opaque
}

// BaseLightEmission returns the registry's base light emission for id.
func (r *BlockRegistry) BaseLightEmission(id BlockId) uint8 {
	d, ok := r.Descriptor(id)
	if !ok {
		return 0
	}
	return d.BaseLightEmission
}

// MustByName is a convenience for registry construction code (terrain
// generators, test fixtures) that is certain the name exists; it panics
// otherwise, which is acceptable only at init time, never inside a tick.
func (r *BlockRegistry) MustByName(name string) BlockId {
	id, ok := r.ByName(name)
	if !ok {
		panic(fmt.Sprintf("chunkstore: unknown block name %q", name))
	}
	return id
}
