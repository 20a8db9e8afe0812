// Command headless runs the simulation core with no renderer or audio
// device attached: world generation, the fixed tick scheduler, and
// persistence, driven either by free-running ticks or by an automation
// control socket. Flag handling and the exit-code/signal-shutdown
// discipline follow server/conf.go's UserConfig-then-Config loading
// pattern and the console package's accept-loop shape, adapted from an
// interactive game server to a driver process with no player connections
// of its own.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/0x4d44/mdcore/automation"
	"github.com/0x4d44/mdcore/chunkstore"
	"github.com/0x4d44/mdcore/config"
	"github.com/0x4d44/mdcore/core"
	"github.com/0x4d44/mdcore/coreerr"
	"github.com/0x4d44/mdcore/inventory"
	"github.com/0x4d44/mdcore/light"
	"github.com/0x4d44/mdcore/mesh"
	"github.com/0x4d44/mdcore/persist"
	"github.com/0x4d44/mdcore/player"
	"github.com/0x4d44/mdcore/sim"
	"github.com/0x4d44/mdcore/sim/entity"
	"github.com/0x4d44/mdcore/sim/fluid"
	"github.com/0x4d44/mdcore/sim/redstone"
	"github.com/0x4d44/mdcore/terrain"
)

func main() {
	os.Exit(run())
}

type flags struct {
	configPath       string
	worldRoot        string
	worldSeed        uint64
	seedSet          bool
	automationListen string
	automationUDS    string
	automationStep   bool
	noSave           bool
	maxTicks         uint64
}

func parseFlags(args []string) (flags, error) {
	fs := flag.NewFlagSet("headless", flag.ContinueOnError)
	f := flags{}
	fs.StringVar(&f.configPath, "config", "server.toml", "path to server.toml")
	fs.StringVar(&f.worldRoot, "world-root", "", "override world_root from config")
	var seed uint64
	fs.Uint64Var(&seed, "world-seed", 0, "override world_seed from config")
	fs.StringVar(&f.automationListen, "automation-listen", "", "override automation_listen (tcp host:port)")
	fs.StringVar(&f.automationUDS, "automation-uds", "", "override automation_uds (unix socket path)")
	fs.BoolVar(&f.automationStep, "automation-step", false, "pause ticking until the automation client issues step")
	fs.BoolVar(&f.noSave, "no-save", false, "never persist world state or regions on shutdown")
	fs.Uint64Var(&f.maxTicks, "max-ticks", 0, "stop after this many ticks (0 = run until shutdown)")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if seed != 0 {
		f.seedSet = true
		f.worldSeed = seed
	}
	return f, nil
}

func run() int {
	log := slog.Default()

	f, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Error("parse flags", "err", err)
		return coreerr.ExitCode(coreerr.Validation)
	}

	cfg, err := config.LoadServerConfig(f.configPath)
	if err != nil {
		log.Error("load server config", "err", err)
		if class, ok := coreerr.ClassOf(err); ok {
			return coreerr.ExitCode(class)
		}
		return 1
	}
	if f.worldRoot != "" {
		cfg.WorldRoot = f.worldRoot
	}
	if f.seedSet {
		cfg.WorldSeed = f.worldSeed
	}
	if f.automationListen != "" {
		cfg.AutomationListen = f.automationListen
	}
	if f.automationUDS != "" {
		cfg.AutomationUDS = f.automationUDS
	}

	d, err := newDriver(cfg, log)
	if err != nil {
		log.Error("initialize driver", "err", err)
		if class, ok := coreerr.ClassOf(err); ok {
			return coreerr.ExitCode(class)
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var autoSrv *automation.Server
	listenNetwork, listenAddr := "", ""
	switch {
	case cfg.AutomationUDS != "":
		listenNetwork, listenAddr = "unix", cfg.AutomationUDS
	case cfg.AutomationListen != "":
		listenNetwork, listenAddr = "tcp", cfg.AutomationListen
	}
	if listenNetwork != "" {
		autoSrv, err = automation.Listen(listenNetwork, listenAddr, d, f.automationStep, log)
		if err != nil {
			log.Error("start automation listener", "err", err)
			return coreerr.ExitCode(coreerr.Transport)
		}
		d.stepGated = f.automationStep
		go func() {
			if err := autoSrv.Serve(ctx); err != nil {
				log.Error("automation server", "err", err)
			}
		}()
		log.Info("automation listening", "network", listenNetwork, "address", autoSrv.Addr().String())
	}

	runLoop(ctx, d, f.maxTicks, log)

	if autoSrv != nil {
		autoSrv.Close()
	}

	if !f.noSave {
		if err := d.saveAll(); err != nil {
			log.Error("save world on shutdown", "err", err)
			if class, ok := coreerr.ClassOf(err); ok {
				return coreerr.ExitCode(class)
			}
			return 1
		}
	}
	return 0
}

// runLoop free-runs the simulation at TickRate Hz until ctx is cancelled or
// maxTicks is reached (0 meaning unbounded), yielding to the automation
// server's own gated Step calls when step mode is active.
func runLoop(ctx context.Context, d *driver, maxTicks uint64, log *slog.Logger) {
	interval := time.Second / time.Duration(core.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var ticked uint64
	for {
		if maxTicks != 0 && ticked >= maxTicks {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if d.stepGated {
				continue
			}
			d.step(1)
			ticked++
		}
	}
}

// driver wires a Scheduler and WorldState together and implements
// automation.Handler so the same simulation loop is drivable both
// free-running and via an attached automation client.
type driver struct {
	cfg       config.ServerConfig
	log       *slog.Logger
	registry  *chunkstore.BlockRegistry
	storage   *chunkstore.Storage
	scheduler *sim.Scheduler
	ws        *sim.WorldState
	limits    *inventory.StackLimits
	stepGated bool
}

func newDriver(cfg config.ServerConfig, log *slog.Logger) (*driver, error) {
	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	gen := terrain.NewGenerator(cfg.WorldSeed, registry)
	radius := cfg.MaxChunkRadius
	if radius <= 0 {
		radius = 12
	}
	capacity := (2*radius + 1) * (2*radius + 1)
	storage := chunkstore.NewStorage(capacity, gen)

	regionsDir := filepath.Join(cfg.WorldRoot, "regions")
	if err := persist.LoadAllRegions(regionsDir, storage); err != nil {
		return nil, coreerr.Wrap(coreerr.Corruption, fmt.Errorf("headless: load regions: %w", err))
	}

	limits := inventory.NewStackLimits()

	statePath := filepath.Join(cfg.WorldRoot, "world.state")
	ws, err := persist.LoadState(statePath, limits)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			ws = sim.NewWorldState()
			ws.Player = &sim.Player{ID: 1, Inventory: inventory.NewInventory(limits), Equipment: player.NewEquipment()}
		} else {
			return nil, coreerr.Wrap(coreerr.Corruption, fmt.Errorf("headless: load world.state: %w", err))
		}
	}

	lightEngine := light.NewEngine(storage, registry, light.DefaultEmitter{})
	mesher := mesh.NewRebuilder(storage, registry)
	fluidScheduler := fluid.NewScheduler()
	redstoneSystem := redstone.NewSystem(redstone.NewGraph())
	smelt := newRecipeTable(cfg)

	sched := sim.NewScheduler(sim.Config{
		Logger:       log,
		Storage:      storage,
		Registry:     registry,
		WorldSeed:    cfg.WorldSeed,
		Light:        lightEngine,
		Mesher:       mesher,
		Fluid:        fluidScheduler,
		Redstone:     redstoneSystem,
		SmeltTable:   smelt,
		GroundHeight: groundHeightFunc(gen),
	})

	return &driver{
		cfg:       cfg,
		log:       log,
		registry:  registry,
		storage:   storage,
		scheduler: sched,
		ws:        ws,
		limits:    limits,
	}, nil
}

func groundHeightFunc(gen *terrain.Generator) entity.GroundHeightFunc {
	return func(_ core.DimensionId, x, z float64) float64 {
		return float64(gen.HeightAt(int64(x), int64(z)))
	}
}

func buildRegistry(cfg config.ServerConfig) (*chunkstore.BlockRegistry, error) {
	blocksPath := filepath.Join(filepath.Dir(cfg.WorldRoot), "blocks.json")
	var descriptors []config.BlockDescriptor
	if err := config.LoadJSON(blocksPath, &descriptors); err != nil {
		return chunkstore.DefaultBlockRegistry(), nil
	}
	out := make([]chunkstore.BlockDescriptor, len(descriptors))
	for i, d := range descriptors {
		out[i] = chunkstore.BlockDescriptor{Name: d.Name, Opaque: d.Opaque, BaseLightEmission: d.LightEm}
	}
	return chunkstore.NewBlockRegistry(out), nil
}

// recipeTable adapts config.RecipeDescriptor entries into a
// blockentity.SmeltTable; "brew" entries are ignored here since brewing
// doesn't consult SmeltTable.
type recipeTable struct {
	smelt map[inventory.ItemId]inventory.ItemId
	burn  map[inventory.ItemId]float64
}

func newRecipeTable(cfg config.ServerConfig) *recipeTable {
	rt := &recipeTable{smelt: make(map[inventory.ItemId]inventory.ItemId), burn: make(map[inventory.ItemId]float64)}
	recipesPath := filepath.Join(filepath.Dir(cfg.WorldRoot), "recipes.json")
	var descriptors []config.RecipeDescriptor
	if err := config.LoadJSON(recipesPath, &descriptors); err != nil {
		return rt
	}
	for _, d := range descriptors {
		switch d.Kind {
		case "smelt":
			rt.smelt[inventory.ItemId(d.Input)] = inventory.ItemId(d.Output)
			if d.BurnSeconds > 0 {
				rt.burn[inventory.ItemId(d.Input)] = d.BurnSeconds
			}
		}
	}
	return rt
}

func (rt *recipeTable) SmeltResult(input inventory.ItemId) (inventory.ItemId, bool) {
	out, ok := rt.smelt[input]
	return out, ok
}

func (rt *recipeTable) BurnValue(fuel inventory.ItemId) (float64, bool) {
	seconds, ok := rt.burn[fuel]
	return seconds, ok
}

// step advances the simulation by n ticks with no pending client input,
// returning the resulting tick.
func (d *driver) step(n uint64) uint64 {
	for i := uint64(0); i < n; i++ {
		d.scheduler.Tick(d.ws, nil, nil)
	}
	return uint64(d.ws.Tick)
}

func (d *driver) saveAll() error {
	if err := persist.SaveMeta(filepath.Join(d.cfg.WorldRoot, "world.meta"), d.cfg.WorldSeed); err != nil {
		return err
	}
	if err := persist.SaveState(filepath.Join(d.cfg.WorldRoot, "world.state"), d.ws); err != nil {
		return err
	}
	regionsDir := filepath.Join(d.cfg.WorldRoot, "regions")
	return persist.SaveAllRegions(regionsDir, d.storage)
}

// --- automation.Handler ---

type stateSnapshot struct {
	Tick    uint64  `json:"tick"`
	Weather uint8   `json:"weather"`
	Player  *playerSnapshot `json:"player,omitempty"`
	Mobs    int             `json:"mob_count"`
}

type playerSnapshot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      float64 `json:"z"`
	Health float64 `json:"health"`
}

func (d *driver) State() (json.RawMessage, error) {
	snap := stateSnapshot{Tick: uint64(d.ws.Tick), Weather: uint8(d.ws.Weather), Mobs: len(d.ws.Mobs)}
	if d.ws.Player != nil {
		snap.Player = &playerSnapshot{X: d.ws.Player.PosX, Y: d.ws.Player.PosY, Z: d.ws.Player.PosZ, Health: d.ws.Player.Health}
	}
	return json.Marshal(snap)
}

func (d *driver) Command(line string) (string, error) {
	return "", fmt.Errorf("headless: no command interpreter is wired in: %q", line)
}

func (d *driver) Step(ticks uint64) (uint64, error) {
	return d.step(ticks), nil
}

func (d *driver) Screenshot(string) (int, int, string, bool, error) {
	return 0, 0, "", false, nil
}

func (d *driver) Shutdown() error {
	d.log.Info("shutdown requested via automation client")
	return nil
}
