package entity

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/0x4d44/mdcore/core"
)

// ProjectileType is the stable numeric encoding for a projectile kind.
type ProjectileType uint8

const (
	ProjectileArrow ProjectileType = iota
	ProjectileSplashPotion
	ProjectileTrident
	ProjectileFireball
)

// projectileProfile holds the per-type ballistic constants (gravity_of,
// drag_of, lifetime_of, hitbox_radius), grounded on the
// teacher's ProjectileBehaviourConfig{Gravity, Drag, ...} shape.
type projectileProfile struct {
	gravity, drag  float64
	lifetimeTicks  int
	hitboxRadius   float64
}

var projectileProfiles = map[ProjectileType]projectileProfile{
	ProjectileArrow:        {gravity: 0.05, drag: 0.99, lifetimeTicks: 20 * 60, hitboxRadius: 0.25},
	ProjectileSplashPotion: {gravity: 0.05, drag: 0.99, lifetimeTicks: 20 * 10, hitboxRadius: 0.25},
	ProjectileTrident:      {gravity: 0.05, drag: 0.99, lifetimeTicks: 20 * 60, hitboxRadius: 0.3},
	ProjectileFireball:     {gravity: 0.0, drag: 1.0, lifetimeTicks: 20 * 10, hitboxRadius: 0.5},
}

func gravityOf(t ProjectileType) float64 { return projectileProfiles[t].gravity }
func dragOf(t ProjectileType) float64    { return projectileProfiles[t].drag }
func lifetimeOf(t ProjectileType) int    { return projectileProfiles[t].lifetimeTicks }
func hitboxRadius(t ProjectileType) float64 {
	return projectileProfiles[t].hitboxRadius
}

// Projectile is a world-space, ballistic-flight entity.
type Projectile struct {
	Dimension core.DimensionId
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Type      ProjectileType
	Age       int
	Stuck     bool
	HitEntity uint64 // 0 = none
	Charge    float64
	Dead      bool
	PotionID  uint32 // embedded payload for splash potions
}

// Tick integrates one simulation tick of ballistic flight: no-op if stuck
// or dead; otherwise integrate position, apply
// gravity, apply drag, age, and expire at lifetime.
func (p *Projectile) Tick() {
	if p.Stuck || p.Dead {
		return
	}
	p.Position = p.Position.Add(p.Velocity)
	p.Velocity[1] -= gravityOf(p.Type)
	p.Velocity = p.Velocity.Mul(dragOf(p.Type))
	p.Age++
	if p.Age >= lifetimeOf(p.Type) {
		p.Dead = true
	}
}

// HitsPoint reports whether the projectile, while live, is within
// hitbox_radius(type) + r of (px, py, pz).
func (p *Projectile) HitsPoint(px, py, pz, r float64) bool {
	if p.Dead {
		return false
	}
	d := p.Position.Sub(mgl64.Vec3{px, py, pz}).Len()
	return d <= hitboxRadius(p.Type)+r
}

// clampCharge clamps charge into the [0.1, 1.0] range used for arrow
// damage computation.
func clampCharge(charge float64) float64 {
	if charge < 0.1 {
		return 0.1
	}
	if charge > 1.0 {
		return 1.0
	}
	return charge
}

// Damage computes the direct-hit damage of the projectile. Arrow (and
// trident, which shares the charge-scaled formula in this core) damage is
// 1 + 9*charge with charge clamped to [0.1, 1.0]. Splash potions deal zero
// direct damage; their effect is applied separately via SplashEffectRadius.
func (p *Projectile) Damage() float64 {
	switch p.Type {
	case ProjectileSplashPotion:
		return 0
	default:
		return 1 + 9*clampCharge(p.Charge)
	}
}

// SplashEffectRadius is the fixed 4-block-radius splash potions apply
// their effect within on impact.
const SplashEffectRadius = 4.0

// NewArrow constructs a live arrow with a clamped charge, matching the
// classic "Arrow damage" scenario (shoot_arrow(...).damage()).
func NewArrow(dim core.DimensionId, pos, vel mgl64.Vec3, charge float64) *Projectile {
	return &Projectile{
		Dimension: dim,
		Position:  pos,
		Velocity:  vel,
		Type:      ProjectileArrow,
		Charge:    clampCharge(charge),
	}
}
