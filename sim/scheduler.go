package sim

import (
	"log/slog"

	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/light"
	"github.com/0x4d44/mdcore/mesh"
	"github.com/0x4d44/mdcore/sim/blockentity"
	"github.com/0x4d44/mdcore/sim/entity"
	"github.com/0x4d44/mdcore/sim/fluid"
	"github.com/0x4d44/mdcore/sim/redstone"
)

// minWeatherTicks and maxWeatherTicks bound the span until the next weather
// change, rolled via the scoped RNG at weather_next_change_tick, stage 2.
const (
	minWeatherTicks = core.TickRate * 60 * 5  // 5 minutes
	maxWeatherTicks = core.TickRate * 60 * 20 // 20 minutes
)

// Config wires the Scheduler to its collaborators. Every field is resolved
// once at construction and never mutated concurrently with Tick, matching
// the single-threaded-cooperative-per-world concurrency model.
type Config struct {
	Logger   *slog.Logger
	Storage  *chunkstore.Storage
	Registry *chunkstore.BlockRegistry
	WorldSeed uint64

	Light    *light.Engine
	Mesher   *mesh.Rebuilder
	Fluid    *fluid.Scheduler
	Redstone *redstone.System

	SmeltTable   blockentity.SmeltTable
	GroundHeight entity.GroundHeightFunc
	Limits       interface{ MaxStackSize(id uint32) int }
}

// Scheduler runs the fixed 20Hz tick schedule  It is
// driven by an external caller (headless or interactive driver) invoking
// Tick once per simulated step; it never reads the wall clock itself.
type Scheduler struct {
	cfg Config
}

// NewScheduler builds a Scheduler from cfg. Logger may be nil (slog.Default
// is used).
func NewScheduler(cfg Config) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scheduler{cfg: cfg}
}

// Tick advances the world by exactly one simulation tick, executing a
// fixed stage order: input intake, weather & time,
// block-entity tick, fluid tick, redstone tick, mob & projectile update,
// item updates, dirty-flag maintenance.
func (s *Scheduler) Tick(ws *WorldState, inputs []ClientInput, handler Handler) {
	const deltaSeconds = 1.0 / float64(core.TickRate)

	// 1. Input intake, ordered by (client_id, sequence).
	for _, in := range drainInputs(inputs) {
		if handler != nil {
			handler.HandleInput(in)
		}
	}

	// 2. Weather & time.
	ws.Tick = ws.Tick.Advance(1)
	if ws.Tick >= ws.WeatherNextChangeTick {
		s.rollWeather(ws)
	}

	// 3. Block-entity tick.
	ws.BlockEntities.TickFurnaces(deltaSeconds, s.cfg.SmeltTable)
	ws.BlockEntities.TickBrewingStands(deltaSeconds)
	ws.BlockEntities.TickEnchantingTables(s.cfg.WorldSeed, ws.Tick)

	// 4. Fluid tick.
	if s.cfg.Fluid != nil {
		s.cfg.Fluid.Step(s.fluidWorld())
	}

	// 5. Redstone tick.
	if s.cfg.Redstone != nil {
		for _, t := range s.cfg.Redstone.Tick() {
			s.applyRedstoneTransition(t)
		}
	}

	// 6. Mob & projectile update.
	s.tickMobs(ws)
	s.tickProjectiles(ws)

	// 7. Item updates.
	s.tickDroppedItems(ws)

	// 8. Dirty-flag maintenance: relight any LIGHT-dirty chunks and
	// propagate the resulting MESH dirty set, in deterministic position
	// order.
	s.maintainDirtyFlags()
}

func (s *Scheduler) rollWeather(ws *WorldState) {
	r := core.ScopedRNG(s.cfg.WorldSeed, 0, ws.Tick)
	switch r.IntN(3) {
	case 0:
		ws.Weather = WeatherClear
	case 1:
		ws.Weather = WeatherRain
	default:
		ws.Weather = WeatherThunder
	}
	span := minWeatherTicks + r.IntN(maxWeatherTicks-minWeatherTicks)
	ws.WeatherNextChangeTick = ws.Tick.Advance(uint64(span))
}

func (s *Scheduler) tickMobs(ws *WorldState) {
	for _, id := range ws.sortedMobIDs() {
		m := ws.Mobs[id]
		if m.Dead {
			continue
		}
		r := core.ScopedRNG(s.cfg.WorldSeed, id, ws.Tick)
		m.Tick(r)
	}
}

func (s *Scheduler) tickProjectiles(ws *WorldState) {
	for _, id := range ws.sortedProjectileIDs() {
		ws.Projectiles[id].Tick()
	}
}

func (s *Scheduler) tickDroppedItems(ws *WorldState) {
	ground := s.cfg.GroundHeight
	if ground == nil {
		ground = func(core.DimensionId, float64, float64) float64 { return 64 }
	}
	for _, id := range ws.sortedDroppedItemIDs() {
		ws.DroppedItem[id].Tick(ground)
	}
	items := make([]*entity.DroppedItem, 0, len(ws.DroppedItem))
	for _, id := range ws.sortedDroppedItemIDs() {
		items = append(items, ws.DroppedItem[id])
	}
	entity.MergeNearbyItems(items, nil)
}

func (s *Scheduler) maintainDirtyFlags() {
	if s.cfg.Light != nil {
		for _, pos := range s.cfg.Storage.IterPositions() {
			c, ok := s.cfg.Storage.Get(pos)
			if !ok || c.PeekDirty()&chunkstore.DirtyLight == 0 {
				continue
			}
			result := s.cfg.Light.RelightChunk(pos)
			for _, changedPos := range result.Changed {
				if changedPos == pos {
					continue
				}
				if nc, ok := s.cfg.Storage.Get(changedPos); ok {
					nc.MarkDirty(chunkstore.DirtyMesh)
				}
			}
			c.MarkDirty(chunkstore.DirtyMesh)
		}
	}
	s.rebuildDirtyMeshes()
}

// rebuildDirtyMeshes consumes every MESH-dirty chunk left after relighting,
// running it through the Mesher and clearing DirtyMesh once the rebuild has
// been produced. A nil Mesher leaves dirty chunks untouched for a later
// caller to rebuild, matching Light's own nil-collaborator policy.
func (s *Scheduler) rebuildDirtyMeshes() {
	if s.cfg.Mesher == nil {
		return
	}
	for _, pos := range s.cfg.Storage.IterPositions() {
		c, ok := s.cfg.Storage.Get(pos)
		if !ok || c.PeekDirty()&chunkstore.DirtyMesh == 0 {
			continue
		}
		_, changed := s.cfg.Mesher.Rebuild(pos)
		if changed {
			s.cfg.Logger.Debug("mesh rebuilt", "chunk_x", pos.X, "chunk_z", pos.Z)
		}
		c.ClearDirty(chunkstore.DirtyMesh)
	}
}

func (s *Scheduler) applyRedstoneTransition(t redstone.BlockTransition) {
	id, ok := s.cfg.Registry.ByName(t.NewBlock)
	if !ok {
		return
	}
	cp := core.ChunkPos{X: floorDivI32(t.Pos.X, chunkstore.ChunkWidth), Z: floorDivI32(t.Pos.Z, chunkstore.ChunkWidth)}
	c, ok := s.cfg.Storage.Get(cp)
	if !ok {
		return
	}
	lx := int(t.Pos.X - cp.X*chunkstore.ChunkWidth)
	lz := int(t.Pos.Z - cp.Z*chunkstore.ChunkWidth)
	if c.SetVoxel(lx, int(t.Pos.Y), lz, chunkstore.Voxel{ID: id}) {
		c.MarkDirty(chunkstore.DirtyMesh | chunkstore.DirtyLight)
	}
}

func floorDivI32(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
