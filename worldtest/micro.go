package worldtest

import (
	"github.com/0x4d44/mdcore/core"
)

// MicroWorldtestConfig configures one micro-worldtest run: a small,
// self-contained simulation stepped a fixed number of ticks with a
// snapshot captured after each step.
type MicroWorldtestConfig struct {
	// Name is written into the report for readability; it is not otherwise
	// load-bearing.
	Name string
	// Ticks is the number of steps to take. The report always includes one
	// extra frame: the tick-0 snapshot taken before the first step.
	Ticks uint64
	// SnapshotPath is the golden JSON file the report is compared against.
	SnapshotPath string
}

type microWorldtestFrame struct {
	Tick     uint64 `json:"tick"`
	Snapshot any    `json:"snapshot"`
}

type microWorldtestReport struct {
	Name   string                 `json:"name"`
	Frames []microWorldtestFrame `json:"frames"`
}

// RunMicroWorldtest steps state with step, capturing a snapshot via
// snapshot before the first step and after every subsequent step, then
// asserts the resulting report against cfg.SnapshotPath.
//
// step and snapshot both receive the tick the state is AT when called: for
// step, the tick before advancing; for snapshot, the tick of the state as
// captured.
func RunMicroWorldtest[State any](cfg MicroWorldtestConfig, state State, step func(tick core.SimTick, state *State), snapshot func(tick core.SimTick, state *State) any) error {
	frames := make([]microWorldtestFrame, 0, cfg.Ticks+1)

	tick := core.SimTick(0)
	frames = append(frames, microWorldtestFrame{Tick: uint64(tick), Snapshot: snapshot(tick, &state)})

	for i := uint64(0); i < cfg.Ticks; i++ {
		step(tick, &state)
		tick = tick.Advance(1)
		frames = append(frames, microWorldtestFrame{Tick: uint64(tick), Snapshot: snapshot(tick, &state)})
	}

	report := microWorldtestReport{Name: cfg.Name, Frames: frames}
	return AssertJSONSnapshot(cfg.SnapshotPath, report)
}
