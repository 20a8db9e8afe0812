package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestServerConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.toml")
	cfg := DefaultServerConfig()
	cfg.WorldSeed = 99
	cfg.AutomationListen = "127.0.0.1:9000"
	if err := SaveServerConfig(path, cfg); err != nil {
		t.Fatalf("SaveServerConfig: %v", err)
	}
	loaded, err := LoadServerConfig(path)
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if loaded.WorldSeed != 99 || loaded.AutomationListen != "127.0.0.1:9000" {
		t.Fatalf("unexpected config: %+v", loaded)
	}
	if loaded.MaxChunkRadius != cfg.MaxChunkRadius {
		t.Fatalf("MaxChunkRadius = %d, want %d", loaded.MaxChunkRadius, cfg.MaxChunkRadius)
	}
}

func TestLoadServerConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadServerConfig(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadServerConfig: %v", err)
	}
	if cfg != DefaultServerConfig() {
		t.Fatalf("got %+v, want defaults %+v", cfg, DefaultServerConfig())
	}
}

func TestControlsConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controls.toml")
	cfg := ControlsConfig{Bindings: []ControlBinding{
		{Action: "move_forward", Key: "W"},
		{Action: "jump", Key: "Space"},
	}}
	if err := SaveControlsConfig(path, cfg); err != nil {
		t.Fatalf("SaveControlsConfig: %v", err)
	}
	loaded, err := LoadControlsConfig(path)
	if err != nil {
		t.Fatalf("LoadControlsConfig: %v", err)
	}
	if len(loaded.Bindings) != 2 || loaded.Bindings[0].Action != "move_forward" || loaded.Bindings[1].Key != "Space" {
		t.Fatalf("unexpected bindings: %+v", loaded.Bindings)
	}
}

func TestLoadJSONBlocks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.json")
	contents := `[{"name":"stone","opaque":true,"light_emission":0},{"name":"glowstone","opaque":false,"light_emission":15}]`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	var blocks []BlockDescriptor
	if err := LoadJSON(path, &blocks); err != nil {
		t.Fatalf("LoadJSON: %v", err)
	}
	if len(blocks) != 2 || blocks[1].Name != "glowstone" || blocks[1].LightEm != 15 {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}
}

func TestLoadJSONRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	var blocks []BlockDescriptor
	if err := LoadJSON(path, &blocks); err == nil {
		t.Fatal("expected error decoding malformed JSON")
	}
}
