package worldtest

import (
	"fmt"
	"io"
	"sort"

	"github.com/0x4d44/mdcore/net/replay"
	"github.com/0x4d44/mdcore/sim"
)

// groupInputsByTick buckets replay.InputRecord values by tick, converting
// each into a sim.ClientInput. The map has no order of its own; ReplayInputs
// walks it in ascending tick order. Records sharing a tick are left in file
// order; sim.Scheduler.Tick re-sorts them by
// (client_id, sequence) itself.
func groupInputsByTick(records []replay.InputRecord) map[uint64][]sim.ClientInput {
	byTick := make(map[uint64][]sim.ClientInput)
	for _, rec := range records {
		byTick[rec.Tick] = append(byTick[rec.Tick], sim.ClientInput{
			ClientID: rec.ClientID, Sequence: rec.Sequence, Payload: rec.Payload,
		})
	}
	return byTick
}

// ReplayInputs reads every InputRecord from r and drives scheduler.Tick over
// ws once per tick from 0 up to the highest recorded tick (inclusive),
// feeding each tick's recorded inputs (if any) to the scheduler. handler
// may be nil. It returns the number of ticks advanced.
//
// This is the replay-log consumer used as the artifact consumed by the
// deterministic worldtest harness: the same input log
// fed through two independent Scheduler instances from the same starting
// WorldState must produce byte-identical results, which
// CheckReplayDeterminism verifies directly.
func ReplayInputs(r io.Reader, scheduler *sim.Scheduler, ws *sim.WorldState, handler sim.Handler) (uint64, error) {
	records, err := replay.ReadInputRecords(r)
	if err != nil {
		return 0, fmt.Errorf("worldtest: read input records: %w", err)
	}
	byTick := groupInputsByTick(records)

	var maxTick uint64
	for tick := range byTick {
		if tick > maxTick {
			maxTick = tick
		}
	}

	var advanced uint64
	for tick := uint64(0); tick <= maxTick; tick++ {
		scheduler.Tick(ws, byTick[tick], handler)
		advanced++
	}
	return advanced, nil
}

// snapshotWorldState captures the observable, order-independent parts of ws
// needed to compare two independently replayed runs: tick, weather, and the
// sorted id/health/position of every mob (the cheapest fields that would
// diverge first if determinism broke). It intentionally avoids depending on
// map iteration order anywhere.
func snapshotWorldState(ws *sim.WorldState) map[string]any {
	mobIDs := make([]uint64, 0, len(ws.Mobs))
	for id := range ws.Mobs {
		mobIDs = append(mobIDs, id)
	}
	sort.Slice(mobIDs, func(i, j int) bool { return mobIDs[i] < mobIDs[j] })

	mobs := make([]map[string]any, 0, len(mobIDs))
	for _, id := range mobIDs {
		m := ws.Mobs[id]
		mobs = append(mobs, map[string]any{
			"id": id, "health": m.Health, "state": m.State,
			"x": m.Position[0], "y": m.Position[1], "z": m.Position[2],
		})
	}

	return map[string]any{
		"tick": uint64(ws.Tick), "weather": ws.Weather, "mobs": mobs,
	}
}

// CheckReplayDeterminism replays the same input log (read independently
// from each of r1 and r2, since io.Reader is single-pass) through two fresh
// scheduler/state pairs built by newScheduler and newState, and reports whether their final
// snapshots are identical. A false result means the simulation is not a
// pure function of (world_seed, input sequence), which the scheduler's
// ordering guarantee forbids.
func CheckReplayDeterminism(r1, r2 io.Reader, newScheduler func() *sim.Scheduler, newState func() *sim.WorldState) (bool, error) {
	sched1, ws1 := newScheduler(), newState()
	if _, err := ReplayInputs(r1, sched1, ws1, nil); err != nil {
		return false, fmt.Errorf("worldtest: replay run 1: %w", err)
	}
	sched2, ws2 := newScheduler(), newState()
	if _, err := ReplayInputs(r2, sched2, ws2, nil); err != nil {
		return false, fmt.Errorf("worldtest: replay run 2: %w", err)
	}

	snap1, err := canonicalJSON(snapshotWorldState(ws1))
	if err != nil {
		return false, err
	}
	snap2, err := canonicalJSON(snapshotWorldState(ws2))
	if err != nil {
		return false, err
	}
	return snap1 == snap2, nil
}
