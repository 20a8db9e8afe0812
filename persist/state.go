// world.state is a zstd-compressed binary encoding of sim.WorldState,
// written through writeAtomic. The body encoder mirrors net/codec's
// buffer/reader pairing (itself grounded on oriumgames-pile's
// format/io.go), since both are "framed little-endian binary blob"
// problems; compression reuses oriumgames-pile's zstd.NewReader/NewWriter
// pairing directly rather than gzip, matching its own world-save pipeline.
package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/klauspost/compress/zstd"

	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/inventory"
	"github.com/0x4d44/mdcore/player"
	"github.com/0x4d44/mdcore/sim"
	"github.com/0x4d44/mdcore/sim/blockentity"
	"github.com/0x4d44/mdcore/sim/entity"
)

type stateBuffer struct {
	bytes.Buffer
}

func (b *stateBuffer) writeU8(v uint8)   { _ = b.WriteByte(v) }
func (b *stateBuffer) writeU16(v uint16) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *stateBuffer) writeU32(v uint32) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *stateBuffer) writeU64(v uint64) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *stateBuffer) writeI32(v int32)  { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *stateBuffer) writeF32(v float32) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *stateBuffer) writeF64(v float64) { _ = binary.Write(b, binary.LittleEndian, v) }
func (b *stateBuffer) writeBool(v bool) {
	if v {
		_ = b.WriteByte(1)
	} else {
		_ = b.WriteByte(0)
	}
}
func (b *stateBuffer) writeBytes(data []byte) {
	b.writeU32(uint32(len(data)))
	_, _ = b.Write(data)
}

type stateReader struct {
	r io.Reader
}

func (r *stateReader) readU8() (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}
func (r *stateReader) readU16() (uint16, error) {
	var v uint16
	err := binary.Read(r.r, binary.LittleEndian, &v)
	return v, err
}
func (r *stateReader) readU32() (uint32, error) {
	var v uint32
	err := binary.Read(r.r, binary.LittleEndian, &v)
	return v, err
}
func (r *stateReader) readU64() (uint64, error) {
	var v uint64
	err := binary.Read(r.r, binary.LittleEndian, &v)
	return v, err
}
func (r *stateReader) readI32() (int32, error) {
	var v int32
	err := binary.Read(r.r, binary.LittleEndian, &v)
	return v, err
}
func (r *stateReader) readF32() (float32, error) {
	var v float32
	err := binary.Read(r.r, binary.LittleEndian, &v)
	return v, err
}
func (r *stateReader) readF64() (float64, error) {
	var v float64
	err := binary.Read(r.r, binary.LittleEndian, &v)
	return v, err
}
func (r *stateReader) readBool() (bool, error) {
	b, err := r.readU8()
	return b != 0, err
}

const maxStateBlobLen = 1 << 24

func (r *stateReader) readBytes() ([]byte, error) {
	n, err := r.readU32()
	if err != nil {
		return nil, err
	}
	if n > maxStateBlobLen {
		return nil, fmt.Errorf("persist: field length %d exceeds %d byte limit", n, maxStateBlobLen)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeItemStack(b *stateBuffer, s *inventory.ItemStack) {
	if s == nil {
		b.writeBool(false)
		return
	}
	b.writeBool(true)
	b.writeU32(uint32(s.ItemID))
	b.writeI32(int32(s.Count))
	b.writeBytes(s.Metadata)
}

func readItemStack(r *stateReader) (*inventory.ItemStack, error) {
	present, err := r.readBool()
	if err != nil || !present {
		return nil, err
	}
	id, err := r.readU32()
	if err != nil {
		return nil, err
	}
	count, err := r.readI32()
	if err != nil {
		return nil, err
	}
	meta, err := r.readBytes()
	if err != nil {
		return nil, err
	}
	return &inventory.ItemStack{ItemID: inventory.ItemId(id), Count: int(count), Metadata: meta}, nil
}

func writeInventory(b *stateBuffer, inv *inventory.Inventory) {
	if inv == nil {
		b.writeBool(false)
		return
	}
	b.writeBool(true)
	for i := 0; i < inventory.SlotCount; i++ {
		writeItemStack(b, inv.Slot(i))
	}
}

func readInventory(r *stateReader, limits *inventory.StackLimits) (*inventory.Inventory, error) {
	present, err := r.readBool()
	if err != nil || !present {
		return nil, err
	}
	inv := inventory.NewInventory(limits)
	for i := 0; i < inventory.SlotCount; i++ {
		s, err := readItemStack(r)
		if err != nil {
			return nil, err
		}
		inv.SetSlot(i, s)
	}
	return inv, nil
}

func writeArmorPiece(b *stateBuffer, a *player.ArmorPiece) {
	if a == nil {
		b.writeBool(false)
		return
	}
	b.writeBool(true)
	b.writeU32(uint32(a.Item))
	b.writeU8(uint8(a.Slot))
	b.writeU8(uint8(a.Material))
	b.writeU32(a.Durability)
	b.writeU32(a.MaxDurability)
}

func readArmorPiece(r *stateReader) (*player.ArmorPiece, error) {
	present, err := r.readBool()
	if err != nil || !present {
		return nil, err
	}
	item, err := r.readU32()
	if err != nil {
		return nil, err
	}
	slot, err := r.readU8()
	if err != nil {
		return nil, err
	}
	material, err := r.readU8()
	if err != nil {
		return nil, err
	}
	durability, err := r.readU32()
	if err != nil {
		return nil, err
	}
	maxDurability, err := r.readU32()
	if err != nil {
		return nil, err
	}
	return &player.ArmorPiece{
		Item:          inventory.ItemId(item),
		Slot:          player.ArmorSlot(slot),
		Material:      player.ArmorMaterial(material),
		Durability:    durability,
		MaxDurability: maxDurability,
	}, nil
}

func writeEquipment(b *stateBuffer, e *player.Equipment) {
	if e == nil {
		b.writeBool(false)
		return
	}
	b.writeBool(true)
	for slot := player.Helmet; slot <= player.Boots; slot++ {
		writeArmorPiece(b, e.Armor(slot))
	}
	writeItemStack(b, e.Offhand)
}

func readEquipment(r *stateReader) (*player.Equipment, error) {
	present, err := r.readBool()
	if err != nil || !present {
		return nil, err
	}
	e := player.NewEquipment()
	for slot := player.Helmet; slot <= player.Boots; slot++ {
		piece, err := readArmorPiece(r)
		if err != nil {
			return nil, err
		}
		if piece != nil {
			e.Equip(*piece)
		}
	}
	offhand, err := readItemStack(r)
	if err != nil {
		return nil, err
	}
	e.Offhand = offhand
	return e, nil
}

func writePlayer(b *stateBuffer, p *sim.Player) {
	if p == nil {
		b.writeBool(false)
		return
	}
	b.writeBool(true)
	b.writeU64(p.ID)
	b.writeU8(uint8(p.Dimension))
	b.writeF64(p.PosX)
	b.writeF64(p.PosY)
	b.writeF64(p.PosZ)
	b.writeF32(p.Yaw)
	b.writeF32(p.Pitch)
	b.writeF64(p.Health)
	writeInventory(b, p.Inventory)
	writeEquipment(b, p.Equipment)
}

func readPlayer(r *stateReader, limits *inventory.StackLimits) (*sim.Player, error) {
	present, err := r.readBool()
	if err != nil || !present {
		return nil, err
	}
	p := &sim.Player{}
	if p.ID, err = r.readU64(); err != nil {
		return nil, err
	}
	dim, err := r.readU8()
	if err != nil {
		return nil, err
	}
	p.Dimension = core.DimensionId(dim)
	if p.PosX, err = r.readF64(); err != nil {
		return nil, err
	}
	if p.PosY, err = r.readF64(); err != nil {
		return nil, err
	}
	if p.PosZ, err = r.readF64(); err != nil {
		return nil, err
	}
	if p.Yaw, err = r.readF32(); err != nil {
		return nil, err
	}
	if p.Pitch, err = r.readF32(); err != nil {
		return nil, err
	}
	if p.Health, err = r.readF64(); err != nil {
		return nil, err
	}
	if p.Inventory, err = readInventory(r, limits); err != nil {
		return nil, err
	}
	if p.Equipment, err = readEquipment(r); err != nil {
		return nil, err
	}
	return p, nil
}

func writeMob(b *stateBuffer, m *entity.Mob) {
	b.writeU64(m.ID)
	b.writeU8(uint8(m.Dimension))
	b.writeF64(m.Position[0])
	b.writeF64(m.Position[1])
	b.writeF64(m.Position[2])
	b.writeF64(m.Velocity[0])
	b.writeF64(m.Velocity[1])
	b.writeF64(m.Velocity[2])
	b.writeF32(m.Yaw)
	b.writeF32(m.Pitch)
	b.writeU16(uint16(m.MobType))
	b.writeU8(uint8(m.State))
	b.writeI32(int32(m.AITimer))
	b.writeF64(m.Health)
	b.writeBool(m.Dead)
}

func readMob(r *stateReader) (*entity.Mob, error) {
	m := &entity.Mob{}
	var err error
	if m.ID, err = r.readU64(); err != nil {
		return nil, err
	}
	dim, err := r.readU8()
	if err != nil {
		return nil, err
	}
	m.Dimension = core.DimensionId(dim)
	for i := range m.Position {
		if m.Position[i], err = r.readF64(); err != nil {
			return nil, err
		}
	}
	for i := range m.Velocity {
		if m.Velocity[i], err = r.readF64(); err != nil {
			return nil, err
		}
	}
	if m.Yaw, err = r.readF32(); err != nil {
		return nil, err
	}
	if m.Pitch, err = r.readF32(); err != nil {
		return nil, err
	}
	mobType, err := r.readU16()
	if err != nil {
		return nil, err
	}
	m.MobType = entity.MobType(mobType)
	state, err := r.readU8()
	if err != nil {
		return nil, err
	}
	m.State = entity.MobState(state)
	aiTimer, err := r.readI32()
	if err != nil {
		return nil, err
	}
	m.AITimer = int(aiTimer)
	if m.Health, err = r.readF64(); err != nil {
		return nil, err
	}
	if m.Dead, err = r.readBool(); err != nil {
		return nil, err
	}
	return m, nil
}

func writeProjectile(b *stateBuffer, id uint64, p *entity.Projectile) {
	b.writeU64(id)
	b.writeU8(uint8(p.Dimension))
	b.writeF64(p.Position[0])
	b.writeF64(p.Position[1])
	b.writeF64(p.Position[2])
	b.writeF64(p.Velocity[0])
	b.writeF64(p.Velocity[1])
	b.writeF64(p.Velocity[2])
	b.writeU8(uint8(p.Type))
	b.writeI32(int32(p.Age))
	b.writeBool(p.Stuck)
	b.writeU64(p.HitEntity)
	b.writeF64(p.Charge)
	b.writeBool(p.Dead)
	b.writeU32(p.PotionID)
}

func readProjectile(r *stateReader) (uint64, *entity.Projectile, error) {
	id, err := r.readU64()
	if err != nil {
		return 0, nil, err
	}
	p := &entity.Projectile{}
	dim, err := r.readU8()
	if err != nil {
		return 0, nil, err
	}
	p.Dimension = core.DimensionId(dim)
	for i := range p.Position {
		if p.Position[i], err = r.readF64(); err != nil {
			return 0, nil, err
		}
	}
	for i := range p.Velocity {
		if p.Velocity[i], err = r.readF64(); err != nil {
			return 0, nil, err
		}
	}
	typ, err := r.readU8()
	if err != nil {
		return 0, nil, err
	}
	p.Type = entity.ProjectileType(typ)
	age, err := r.readI32()
	if err != nil {
		return 0, nil, err
	}
	p.Age = int(age)
	if p.Stuck, err = r.readBool(); err != nil {
		return 0, nil, err
	}
	if p.HitEntity, err = r.readU64(); err != nil {
		return 0, nil, err
	}
	if p.Charge, err = r.readF64(); err != nil {
		return 0, nil, err
	}
	if p.Dead, err = r.readBool(); err != nil {
		return 0, nil, err
	}
	if p.PotionID, err = r.readU32(); err != nil {
		return 0, nil, err
	}
	return id, p, nil
}

func writeDroppedItem(b *stateBuffer, d *entity.DroppedItem) {
	b.writeU64(d.ID)
	b.writeU8(uint8(d.Dimension))
	b.writeF64(d.Position[0])
	b.writeF64(d.Position[1])
	b.writeF64(d.Position[2])
	b.writeF64(d.Velocity[0])
	b.writeF64(d.Velocity[1])
	b.writeF64(d.Velocity[2])
	b.writeU32(uint32(d.Stack.ItemID))
	b.writeI32(int32(d.Stack.Count))
	b.writeBytes(d.Stack.Metadata)
	b.writeI32(int32(d.AgeTicks))
	b.writeBool(d.Dead)
}

func readDroppedItem(r *stateReader) (*entity.DroppedItem, error) {
	d := &entity.DroppedItem{}
	var err error
	if d.ID, err = r.readU64(); err != nil {
		return nil, err
	}
	dim, err := r.readU8()
	if err != nil {
		return nil, err
	}
	d.Dimension = core.DimensionId(dim)
	for i := range d.Position {
		if d.Position[i], err = r.readF64(); err != nil {
			return nil, err
		}
	}
	for i := range d.Velocity {
		if d.Velocity[i], err = r.readF64(); err != nil {
			return nil, err
		}
	}
	itemID, err := r.readU32()
	if err != nil {
		return nil, err
	}
	d.Stack.ItemID = inventory.ItemId(itemID)
	count, err := r.readI32()
	if err != nil {
		return nil, err
	}
	d.Stack.Count = int(count)
	if d.Stack.Metadata, err = r.readBytes(); err != nil {
		return nil, err
	}
	ageTicks, err := r.readI32()
	if err != nil {
		return nil, err
	}
	d.AgeTicks = int(ageTicks)
	if d.Dead, err = r.readBool(); err != nil {
		return nil, err
	}
	return d, nil
}

func writeBlockEntityPos(b *stateBuffer, p blockentity.Pos) {
	b.writeU8(uint8(p.Dim))
	b.writeI32(p.X)
	b.writeI32(p.Y)
	b.writeI32(p.Z)
}

func readBlockEntityPos(r *stateReader) (blockentity.Pos, error) {
	dim, err := r.readU8()
	if err != nil {
		return blockentity.Pos{}, err
	}
	x, err := r.readI32()
	if err != nil {
		return blockentity.Pos{}, err
	}
	y, err := r.readI32()
	if err != nil {
		return blockentity.Pos{}, err
	}
	z, err := r.readI32()
	if err != nil {
		return blockentity.Pos{}, err
	}
	return blockentity.Pos{Dim: core.DimensionId(dim), X: x, Y: y, Z: z}, nil
}

func writeFurnace(b *stateBuffer, f *blockentity.Furnace) {
	writeItemStack(b, f.Input)
	writeItemStack(b, f.Fuel)
	writeItemStack(b, f.Output)
	b.writeF64(f.SmeltProgress)
	b.writeF64(f.FuelRemaining)
	b.writeBool(f.IsLit)
}

func readFurnace(r *stateReader) (*blockentity.Furnace, error) {
	f := &blockentity.Furnace{}
	var err error
	if f.Input, err = readItemStack(r); err != nil {
		return nil, err
	}
	if f.Fuel, err = readItemStack(r); err != nil {
		return nil, err
	}
	if f.Output, err = readItemStack(r); err != nil {
		return nil, err
	}
	if f.SmeltProgress, err = r.readF64(); err != nil {
		return nil, err
	}
	if f.FuelRemaining, err = r.readF64(); err != nil {
		return nil, err
	}
	if f.IsLit, err = r.readBool(); err != nil {
		return nil, err
	}
	return f, nil
}

func writeBrewingStand(b *stateBuffer, bs *blockentity.BrewingStand) {
	for _, bottle := range bs.Bottles {
		writeItemStack(b, bottle)
	}
	writeItemStack(b, bs.Ingredient)
	b.writeF64(bs.Progress)
}

func readBrewingStand(r *stateReader) (*blockentity.BrewingStand, error) {
	bs := &blockentity.BrewingStand{}
	for i := range bs.Bottles {
		s, err := readItemStack(r)
		if err != nil {
			return nil, err
		}
		bs.Bottles[i] = s
	}
	var err error
	if bs.Ingredient, err = readItemStack(r); err != nil {
		return nil, err
	}
	if bs.Progress, err = r.readF64(); err != nil {
		return nil, err
	}
	return bs, nil
}

func writeEnchantingTable(b *stateBuffer, e *blockentity.EnchantingTable) {
	b.writeI32(int32(e.LapisCount))
	b.writeI32(int32(e.BookshelfCount))
	b.writeU32(uint32(e.Item))
	b.writeU64(uint64(e.TickOfPlace))
	for _, opt := range e.Options {
		b.writeU16(opt.EnchantmentID)
		b.writeU8(opt.Level)
	}
}

func readEnchantingTable(r *stateReader) (*blockentity.EnchantingTable, error) {
	e := &blockentity.EnchantingTable{}
	lapis, err := r.readI32()
	if err != nil {
		return nil, err
	}
	e.LapisCount = int(lapis)
	bookshelf, err := r.readI32()
	if err != nil {
		return nil, err
	}
	e.BookshelfCount = int(bookshelf)
	item, err := r.readU32()
	if err != nil {
		return nil, err
	}
	e.Item = inventory.ItemId(item)
	tick, err := r.readU64()
	if err != nil {
		return nil, err
	}
	e.TickOfPlace = core.SimTick(tick)
	for i := range e.Options {
		id, err := r.readU16()
		if err != nil {
			return nil, err
		}
		lvl, err := r.readU8()
		if err != nil {
			return nil, err
		}
		e.Options[i] = blockentity.EnchantOption{EnchantmentID: id, Level: lvl}
	}
	return e, nil
}

func writeBlockEntities(b *stateBuffer, store *blockentity.Store) {
	furnaces := store.FurnacePositions()
	b.writeU32(uint32(len(furnaces)))
	for _, p := range furnaces {
		f, _ := store.Furnace(p)
		writeBlockEntityPos(b, p)
		writeFurnace(b, f)
	}
	stands := store.BrewingPositions()
	b.writeU32(uint32(len(stands)))
	for _, p := range stands {
		bs, _ := store.BrewingStand(p)
		writeBlockEntityPos(b, p)
		writeBrewingStand(b, bs)
	}
	tables := store.EnchantingPositions()
	b.writeU32(uint32(len(tables)))
	for _, p := range tables {
		e, _ := store.EnchantingTable(p)
		writeBlockEntityPos(b, p)
		writeEnchantingTable(b, e)
	}
}

func readBlockEntities(r *stateReader) (*blockentity.Store, error) {
	store := blockentity.NewStore()
	furnaceCount, err := r.readU32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < furnaceCount; i++ {
		p, err := readBlockEntityPos(r)
		if err != nil {
			return nil, err
		}
		f, err := readFurnace(r)
		if err != nil {
			return nil, err
		}
		store.PutFurnace(p, f)
	}
	standCount, err := r.readU32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < standCount; i++ {
		p, err := readBlockEntityPos(r)
		if err != nil {
			return nil, err
		}
		bs, err := readBrewingStand(r)
		if err != nil {
			return nil, err
		}
		store.PutBrewingStand(p, bs)
	}
	tableCount, err := r.readU32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < tableCount; i++ {
		p, err := readBlockEntityPos(r)
		if err != nil {
			return nil, err
		}
		e, err := readEnchantingTable(r)
		if err != nil {
			return nil, err
		}
		store.PutEnchantingTable(p, e)
	}
	return store, nil
}

// encodeWorldState writes the uncompressed binary body of a WorldState.
func encodeWorldState(ws *sim.WorldState) []byte {
	b := &stateBuffer{}
	b.writeU64(uint64(ws.Tick))
	b.writeU8(uint8(ws.Weather))
	b.writeU64(uint64(ws.WeatherNextChangeTick))
	writePlayer(b, ws.Player)

	mobIDs := sortedUint64Keys(ws.Mobs)
	b.writeU32(uint32(len(mobIDs)))
	for _, id := range mobIDs {
		writeMob(b, ws.Mobs[id])
	}

	projIDs := sortedUint64Keys(ws.Projectiles)
	b.writeU32(uint32(len(projIDs)))
	for _, id := range projIDs {
		writeProjectile(b, id, ws.Projectiles[id])
	}

	itemIDs := sortedUint64Keys(ws.DroppedItem)
	b.writeU32(uint32(len(itemIDs)))
	for _, id := range itemIDs {
		writeDroppedItem(b, ws.DroppedItem[id])
	}

	writeBlockEntities(b, ws.BlockEntities)
	return b.Bytes()
}

// decodeWorldState parses the uncompressed binary body written by
// encodeWorldState back into a fresh WorldState.
func decodeWorldState(data []byte, limits *inventory.StackLimits) (*sim.WorldState, error) {
	r := &stateReader{r: bytes.NewReader(data)}
	ws := sim.NewWorldState()

	tick, err := r.readU64()
	if err != nil {
		return nil, fmt.Errorf("persist: read tick: %w", err)
	}
	ws.Tick = core.SimTick(tick)

	weather, err := r.readU8()
	if err != nil {
		return nil, fmt.Errorf("persist: read weather: %w", err)
	}
	ws.Weather = sim.WeatherState(weather)

	nextChange, err := r.readU64()
	if err != nil {
		return nil, fmt.Errorf("persist: read weather_next_change_tick: %w", err)
	}
	ws.WeatherNextChangeTick = core.SimTick(nextChange)

	if ws.Player, err = readPlayer(r, limits); err != nil {
		return nil, fmt.Errorf("persist: read player: %w", err)
	}

	mobCount, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("persist: read mob count: %w", err)
	}
	for i := uint32(0); i < mobCount; i++ {
		m, err := readMob(r)
		if err != nil {
			return nil, fmt.Errorf("persist: read mob %d: %w", i, err)
		}
		ws.Mobs[m.ID] = m
	}

	projCount, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("persist: read projectile count: %w", err)
	}
	for i := uint32(0); i < projCount; i++ {
		id, p, err := readProjectile(r)
		if err != nil {
			return nil, fmt.Errorf("persist: read projectile %d: %w", i, err)
		}
		ws.Projectiles[id] = p
	}

	itemCount, err := r.readU32()
	if err != nil {
		return nil, fmt.Errorf("persist: read dropped item count: %w", err)
	}
	for i := uint32(0); i < itemCount; i++ {
		d, err := readDroppedItem(r)
		if err != nil {
			return nil, fmt.Errorf("persist: read dropped item %d: %w", i, err)
		}
		ws.DroppedItem[d.ID] = d
	}

	if ws.BlockEntities, err = readBlockEntities(r); err != nil {
		return nil, fmt.Errorf("persist: read block entities: %w", err)
	}
	return ws, nil
}

func sortedUint64Keys[V any](m map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SaveState writes world.state: a zstd-compressed encoding of ws, via
// writeAtomic so a crash mid-write never corrupts the previous save.
func SaveState(path string, ws *sim.WorldState) error {
	body := encodeWorldState(ws)
	return writeAtomic(path, func(w io.Writer) error {
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("persist: create zstd encoder: %w", err)
		}
		if _, err := enc.Write(body); err != nil {
			_ = enc.Close()
			return fmt.Errorf("persist: write compressed state: %w", err)
		}
		return enc.Close()
	})
}

// LoadState reads and decompresses world.state, using limits to resolve
// per-item stack size caps when rebuilding the player's inventory.
func LoadState(path string, limits *inventory.StackLimits) (*sim.WorldState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("persist: open world.state: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("persist: create zstd decoder: %w", err)
	}
	defer dec.Close()

	body, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("persist: decompress world.state: %w", err)
	}
	ws, err := decodeWorldState(body, limits)
	if err != nil {
		return nil, fmt.Errorf("persist: decode world.state: %w", err)
	}
	return ws, nil
}
