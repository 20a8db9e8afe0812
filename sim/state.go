// Package sim implements the fixed-tick scheduler that advances time,
// weather, block entities, fluids, redstone, mobs,
// projectiles and dropped items in a fixed, deterministic stage order.
// Grounded on server/world/tick.go's ticker.tickLoop (fixed-interval
// ticking with TPS bookkeeping), adapted to remove the wall-clock coupling
// a headless, replay-driven core must not have.
package sim

import (
	"sort"

	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/inventory"
	"github.com/0x4d44/mdcore/player"
	"github.com/0x4d44/mdcore/sim/blockentity"
	"github.com/0x4d44/mdcore/sim/entity"
)

// WeatherState is the stable-encoded weather enum.
type WeatherState uint8

const (
	WeatherClear WeatherState = iota
	WeatherRain
	WeatherThunder
)

// Player is the singleton player carried in WorldState,
type Player struct {
	ID        uint64
	Dimension core.DimensionId
	PosX, PosY, PosZ float64
	Yaw, Pitch       float32
	Health           float64
	Inventory        *inventory.Inventory

	// Equipment holds worn armor and the offhand stack, additive to the
	// 36-slot Inventory above; it is never reachable through
	// Inventory.Slot/Add/Remove.
	Equipment *player.Equipment
}

// ApplyDamage runs rawDamage through the player's worn armor (damaging each
// intact piece by one durability point) and subtracts the reduced amount
// from Health, floored at zero. It returns the damage actually taken.
func (p *Player) ApplyDamage(rawDamage float64) float64 {
	actual := rawDamage
	if p.Equipment != nil {
		actual = p.Equipment.AbsorbHit(rawDamage)
	}
	p.Health -= actual
	if p.Health < 0 {
		p.Health = 0
	}
	return actual
}

// WorldState is the complete persistent simulation snapshot: tick,
// weather, weather_next_change_tick, player, entities, and block_entities.
// It has no separate sim_time field; Tick is the only record of elapsed
// simulation time.
type WorldState struct {
	Tick                  core.SimTick
	Weather               WeatherState
	WeatherNextChangeTick core.SimTick

	Player *Player

	Mobs        map[uint64]*entity.Mob
	Projectiles map[uint64]*entity.Projectile
	DroppedItem map[uint64]*entity.DroppedItem

	BlockEntities *blockentity.Store

	nextEntityID uint64
}

// NewWorldState creates an empty, tick-zero WorldState.
func NewWorldState() *WorldState {
	return &WorldState{
		Mobs:          make(map[uint64]*entity.Mob),
		Projectiles:   make(map[uint64]*entity.Projectile),
		DroppedItem:   make(map[uint64]*entity.DroppedItem),
		BlockEntities: blockentity.NewStore(),
	}
}

// AllocateEntityID returns a fresh monotonically increasing entity id. IDs
// are never reused within a world's lifetime, keeping replay/save
// comparisons stable.
func (w *WorldState) AllocateEntityID() uint64 {
	w.nextEntityID++
	return w.nextEntityID
}

// sortedMobIDs returns Mobs' keys in ascending order, the deterministic
// key order used for per-stage entity iteration.
func (w *WorldState) sortedMobIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Mobs))
	for id := range w.Mobs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *WorldState) sortedProjectileIDs() []uint64 {
	ids := make([]uint64, 0, len(w.Projectiles))
	for id := range w.Projectiles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *WorldState) sortedDroppedItemIDs() []uint64 {
	ids := make([]uint64, 0, len(w.DroppedItem))
	for id := range w.DroppedItem {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
