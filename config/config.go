// Package config loads the headless driver's startup configuration: TOML
// for server and control-binding settings, JSON for block/recipe/atlas
// metadata, ("TOML for controls, JSON for blocks/recipes/
// atlas metadata. All are read at startup; hot reload is not part of the
// core spec."). TOML decoding is grounded on server/whitelist.go's
// toml.Unmarshal/Marshal pairing.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"

	"github.com/0x4d44/mdcore/coreerr"
)

// ServerConfig is server.toml's shape: process-level settings a headless
// instance needs before any world is loaded.
type ServerConfig struct {
	WorldSeed        uint64 `toml:"world_seed"`
	WorldRoot        string `toml:"world_root"`
	MaxChunkRadius   int    `toml:"max_chunk_radius"`
	RandomTickSpeed  int    `toml:"random_tick_speed"`
	MobCapHostile    int    `toml:"mob_cap_hostile"`
	MobCapPassive    int    `toml:"mob_cap_passive"`
	AutomationListen string `toml:"automation_listen"`
	AutomationUDS    string `toml:"automation_uds"`
}

// DefaultServerConfig returns the built-in defaults used when server.toml
// is absent.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		WorldRoot:       "world",
		MaxChunkRadius:  12,
		RandomTickSpeed: 3,
		MobCapHostile:   64,
		MobCapPassive:   64,
	}
}

// LoadServerConfig reads path as TOML into a ServerConfig seeded with
// DefaultServerConfig's values. A missing file is not an error: the
// defaults are returned as-is, matching the headless driver's "run with
// no config file present" mode.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, coreerr.Wrap(coreerr.Validation, fmt.Errorf("config: read %s: %w", path, err))
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, coreerr.Wrap(coreerr.Validation, fmt.Errorf("config: decode %s: %w", path, err))
	}
	return cfg, nil
}

// SaveServerConfig writes cfg to path as TOML, creating parent directories
// as needed.
func SaveServerConfig(path string, cfg ServerConfig) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory for %s: %w", path, err)
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// ControlBinding maps one logical input action to a physical key/button
// name. The core treats both sides as opaque strings: interpreting them is
// the UI/input layer's job, out of the core's scope.
type ControlBinding struct {
	Action string `toml:"action"`
	Key    string `toml:"key"`
}

// ControlsConfig is controls.toml's shape: an ordered list of bindings.
type ControlsConfig struct {
	Bindings []ControlBinding `toml:"bindings"`
}

// LoadControlsConfig reads path (controls.toml) into a ControlsConfig. A
// missing file yields an empty ControlsConfig, not an error.
func LoadControlsConfig(path string) (ControlsConfig, error) {
	var cfg ControlsConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, coreerr.Wrap(coreerr.Validation, fmt.Errorf("config: read %s: %w", path, err))
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, coreerr.Wrap(coreerr.Validation, fmt.Errorf("config: decode %s: %w", path, err))
	}
	return cfg, nil
}

// SaveControlsConfig writes cfg to path as TOML.
func SaveControlsConfig(path string, cfg ControlsConfig) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory for %s: %w", path, err)
		}
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// BlockDescriptor is one entry of blocks.json: the external content data
// the core's BlockRegistry is built from. The core treats block ids as
// opaque; this is simply the on-disk shape a loader converts into
// chunkstore.BlockDescriptor values for chunkstore.NewBlockRegistry.
type BlockDescriptor struct {
	Name    string `json:"name"`
	Opaque  bool   `json:"opaque"`
	LightEm uint8  `json:"light_emission"`
}

// RecipeDescriptor is one entry of recipes.json, covering both furnace
// smelting and brewing-stand recipes with a shared shape; Kind
// disambiguates ("smelt" or "brew").
type RecipeDescriptor struct {
	Kind        string  `json:"kind"`
	Input       uint32  `json:"input"`
	Bottle      uint32  `json:"bottle,omitempty"`
	Output      uint32  `json:"output"`
	BurnSeconds float64 `json:"burn_seconds,omitempty"`
}

// AtlasEntry is one entry of atlas.json, mapping a block or item name to
// its texture atlas coordinates. The core never interprets these itself;
// it only passes the loaded metadata through to content-layer consumers.
type AtlasEntry struct {
	Name string `json:"name"`
	U    int    `json:"u"`
	V    int    `json:"v"`
	W    int    `json:"w"`
	H    int    `json:"h"`
}

// LoadJSON decodes path's JSON content into out (a pointer to a slice of
// BlockDescriptor, RecipeDescriptor, or AtlasEntry, typically). It never
// panics on malformed JSON, returning a Validation-classed error instead.
func LoadJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return coreerr.Wrap(coreerr.Validation, fmt.Errorf("config: read %s: %w", path, err))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return coreerr.Wrap(coreerr.Validation, fmt.Errorf("config: decode %s: %w", path, err))
	}
	return nil
}
