// Package entity implements mob AI state machines, ballistic
// projectiles, and dropped-item physics. Movement integration takes its
// gravity/drag application order from server/entity/movement.go's
// MovementComputer, without its per-axis AABB sweep: nothing here collides
// with blocks. Mobs are clamped to world bounds, dropped items stop at a
// caller-supplied ground height, and projectiles fly until they expire or
// are marked stuck. Projectile charge/damage
// semantics are grounded on server/entity/trident.go's
// ProjectileBehaviourConfig.
package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/0x4d44/mdcore/core"
)

// MobType is the stable numeric encoding for a mob species.
type MobType uint16

// MobState is the AI state machine's current state.
type MobState uint8

const (
	MobIdle MobState = iota
	MobWandering
	MobFleeing
	MobAttacking
	MobFollowing
)

// Mob is a world-space, AI-driven entity.
type Mob struct {
	ID        uint64
	Dimension core.DimensionId
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Yaw, Pitch float32
	MobType   MobType
	State     MobState
	AITimer   int
	Health    float64
	Dead      bool
}

// stateTable maps (current state) -> the state reached once AITimer expires,
// one fixed transition per mob type's simplest behavior table; richer
// per-species tables live in content data outside the core,
var stateTable = map[MobState]MobState{
	MobIdle:      MobWandering,
	MobWandering: MobIdle,
	MobFleeing:   MobWandering,
	MobAttacking: MobFollowing,
	MobFollowing: MobAttacking,
}

const (
	mobGravity     = 0.08
	mobDrag        = 0.02
	worldBoundHoriz = 30_000_000.0
)

// Tick advances one mob by one simulation tick: AI state transition on
// AITimer expiry, gravity/drag integration, and world-bound clamping, in
// that fixed order so outcomes never depend on evaluation order across
// mobs within the same tick.
func (m *Mob) Tick(rng interface{ IntN(int) int }) {
	if m.Dead {
		return
	}
	if m.AITimer > 0 {
		m.AITimer--
	} else {
		m.State = stateTable[m.State]
		m.AITimer = 20 + rng.IntN(60)
	}

	m.Velocity[1] -= mobGravity
	m.Velocity = m.Velocity.Mul(1 - mobDrag)
	m.Position = m.Position.Add(m.Velocity)

	m.Position[0] = clamp(m.Position[0], -worldBoundHoriz, worldBoundHoriz)
	m.Position[2] = clamp(m.Position[2], -worldBoundHoriz, worldBoundHoriz)
	m.Position[1] = clamp(m.Position[1], 0, 320)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
