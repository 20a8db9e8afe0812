package entity

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/inventory"
)

func TestDroppedItemTickFallsUntilGround(t *testing.T) {
	d := &DroppedItem{Position: mgl64.Vec3{0, 100, 0}}
	ground := func(core.DimensionId, float64, float64) float64 { return 64 }
	for i := 0; i < 1000 && d.Position[1] > 64; i++ {
		d.Tick(ground)
	}
	if d.Position[1] != 64 {
		t.Fatalf("Position.Y = %v, want settled on the ground at 64", d.Position[1])
	}
	if d.Velocity[1] != 0 {
		t.Fatalf("Velocity.Y = %v, want 0 once resting on the ground", d.Velocity[1])
	}
}

func TestDroppedItemDespawnsAfterLifetime(t *testing.T) {
	d := &DroppedItem{Position: mgl64.Vec3{0, 64, 0}}
	ground := func(core.DimensionId, float64, float64) float64 { return 64 }
	for i := 0; i < ItemDespawnTicks; i++ {
		d.Tick(ground)
	}
	if !d.Dead {
		t.Fatal("a dropped item should despawn once it reaches ItemDespawnTicks")
	}
}

func TestDroppedItemTickNoopWhenDead(t *testing.T) {
	d := &DroppedItem{Position: mgl64.Vec3{0, 100, 0}, Dead: true}
	ground := func(core.DimensionId, float64, float64) float64 { return 64 }
	before := d.Position
	d.Tick(ground)
	if d.Position != before {
		t.Fatal("Tick must be a no-op on a dead item")
	}
}

func TestMergeNearbyItemsCombinesWithinRadius(t *testing.T) {
	limits := inventory.NewStackLimits()
	a := &DroppedItem{ID: 1, Position: mgl64.Vec3{0, 64, 0}, Stack: inventory.ItemStack{ItemID: 5, Count: 10}}
	b := &DroppedItem{ID: 2, Position: mgl64.Vec3{0.5, 64, 0}, Stack: inventory.ItemStack{ItemID: 5, Count: 20}}
	MergeNearbyItems([]*DroppedItem{a, b}, limits)

	if b.Dead != true {
		t.Fatal("the later item (by ID) should be marked dead once merged into the earlier one")
	}
	if a.Stack.Count != 30 {
		t.Fatalf("a.Stack.Count = %d, want 30 after merge", a.Stack.Count)
	}
}

func TestMergeNearbyItemsSkipsWhenOverMaxStack(t *testing.T) {
	limits := inventory.NewStackLimits()
	a := &DroppedItem{ID: 1, Position: mgl64.Vec3{0, 64, 0}, Stack: inventory.ItemStack{ItemID: 5, Count: 60}}
	b := &DroppedItem{ID: 2, Position: mgl64.Vec3{0, 64, 0}, Stack: inventory.ItemStack{ItemID: 5, Count: 10}}
	MergeNearbyItems([]*DroppedItem{a, b}, limits)

	if b.Dead {
		t.Fatal("items should not merge when the combined count exceeds max stack size")
	}
}

func TestMergeNearbyItemsSkipsDifferentItemsOrDimensions(t *testing.T) {
	limits := inventory.NewStackLimits()
	a := &DroppedItem{ID: 1, Position: mgl64.Vec3{0, 64, 0}, Stack: inventory.ItemStack{ItemID: 5, Count: 1}}
	b := &DroppedItem{ID: 2, Position: mgl64.Vec3{0, 64, 0}, Stack: inventory.ItemStack{ItemID: 6, Count: 1}}
	MergeNearbyItems([]*DroppedItem{a, b}, limits)
	if b.Dead {
		t.Fatal("items with different item ids must never merge")
	}
}

func TestMergeNearbyItemsSkipsBeyondRadius(t *testing.T) {
	limits := inventory.NewStackLimits()
	a := &DroppedItem{ID: 1, Position: mgl64.Vec3{0, 64, 0}, Stack: inventory.ItemStack{ItemID: 5, Count: 1}}
	b := &DroppedItem{ID: 2, Position: mgl64.Vec3{10, 64, 0}, Stack: inventory.ItemStack{ItemID: 5, Count: 1}}
	MergeNearbyItems([]*DroppedItem{a, b}, limits)
	if b.Dead {
		t.Fatal("items beyond the merge radius must not merge")
	}
}

func TestMobTickTransitionsStateWhenTimerExpires(t *testing.T) {
	m := &Mob{State: MobIdle, AITimer: 0}
	r := rand.New(rand.NewPCG(1, 2))
	m.Tick(r)
	if m.State != MobWandering {
		t.Fatalf("State = %v, want MobWandering after MobIdle's timer expires", m.State)
	}
	if m.AITimer < 20 || m.AITimer >= 80 {
		t.Fatalf("AITimer = %d, want in [20,80) after a reroll", m.AITimer)
	}
}

func TestMobTickNoopWhenDead(t *testing.T) {
	m := &Mob{Dead: true, Position: mgl64.Vec3{1, 2, 3}}
	r := rand.New(rand.NewPCG(1, 2))
	before := m.Position
	m.Tick(r)
	if m.Position != before {
		t.Fatal("Tick must be a no-op on a dead mob")
	}
}

func TestMobTickClampsToWorldBounds(t *testing.T) {
	m := &Mob{Position: mgl64.Vec3{0, 400, 0}, AITimer: 5}
	r := rand.New(rand.NewPCG(1, 2))
	m.Tick(r)
	if m.Position[1] > 320 {
		t.Fatalf("Position.Y = %v, want clamped to <= 320", m.Position[1])
	}
}

func TestProjectileTickIntegratesAndExpires(t *testing.T) {
	p := NewArrow(core.DimensionId(0), mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1.0)
	for i := 0; i < lifetimeOf(ProjectileArrow); i++ {
		p.Tick()
	}
	if !p.Dead {
		t.Fatal("a projectile should expire once it reaches its type's lifetime")
	}
}

func TestProjectileTickNoopWhenStuckOrDead(t *testing.T) {
	p := NewArrow(core.DimensionId(0), mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1.0)
	p.Stuck = true
	before := p.Position
	p.Tick()
	if p.Position != before {
		t.Fatal("Tick must be a no-op on a stuck projectile")
	}
}

func TestProjectileHitsPointRespectsRadius(t *testing.T) {
	p := NewArrow(core.DimensionId(0), mgl64.Vec3{0, 0, 0}, mgl64.Vec3{}, 1.0)
	if !p.HitsPoint(0, 0, 0, 0) {
		t.Fatal("a point at the projectile's own position must register as a hit")
	}
	if p.HitsPoint(100, 0, 0, 0) {
		t.Fatal("a far point must not register as a hit")
	}
}

func TestProjectileHitsPointFalseWhenDead(t *testing.T) {
	p := NewArrow(core.DimensionId(0), mgl64.Vec3{}, mgl64.Vec3{}, 1.0)
	p.Dead = true
	if p.HitsPoint(0, 0, 0, 0) {
		t.Fatal("a dead projectile must never register a hit")
	}
}

func TestArrowDamageScalesWithClampedCharge(t *testing.T) {
	low := NewArrow(core.DimensionId(0), mgl64.Vec3{}, mgl64.Vec3{}, -5)
	if low.Damage() != 1+9*0.1 {
		t.Fatalf("Damage() at a sub-minimum charge = %v, want charge clamped to 0.1", low.Damage())
	}
	high := NewArrow(core.DimensionId(0), mgl64.Vec3{}, mgl64.Vec3{}, 5)
	if high.Damage() != 1+9*1.0 {
		t.Fatalf("Damage() at an over-maximum charge = %v, want charge clamped to 1.0", high.Damage())
	}
}

func TestSplashPotionDealsZeroDirectDamage(t *testing.T) {
	p := &Projectile{Type: ProjectileSplashPotion, Charge: 1.0}
	if p.Damage() != 0 {
		t.Fatalf("Damage() for a splash potion = %v, want 0", p.Damage())
	}
}

func TestSpawnCapsTryReserveAndRelease(t *testing.T) {
	caps := NewSpawnCaps(1, 1)
	dim := core.DimensionId(0)

	if !caps.TryReserve(dim, true) {
		t.Fatal("first hostile reservation should succeed")
	}
	if caps.TryReserve(dim, true) {
		t.Fatal("second hostile reservation should fail once the cap of 1 is reached")
	}
	caps.Release(dim, true)
	if !caps.TryReserve(dim, true) {
		t.Fatal("reservation should succeed again after Release frees a slot")
	}
}

func TestSpawnCapsDimensionsAreIndependent(t *testing.T) {
	caps := NewSpawnCaps(1, 1)
	overworld, nether := core.DimensionId(0), core.DimensionId(1)
	caps.TryReserve(overworld, true)
	if !caps.TryReserve(nether, true) {
		t.Fatal("caps must be tracked independently per dimension")
	}
}

func TestSpawnCapsReleaseNeverUnderflows(t *testing.T) {
	caps := NewSpawnCaps(1, 1)
	dim := core.DimensionId(0)
	caps.Release(dim, false)
	if !caps.TryReserve(dim, false) {
		t.Fatal("releasing below zero must not corrupt the cap accounting")
	}
}
