package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`
module:
  path: ./bdl.wasm
  url: https://example.com/bdl.wasm
  timeout: 10s
  memory: 64mb
  cache: false
server:
  port: 9090
log:
  level: debug
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Module.Path != "./bdl.wasm" {
		t.Errorf("expected path ./bdl.wasm, got %q", cfg.Module.Path)
	}
	if cfg.Module.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Module.Timeout)
	}
	if cfg.Module.Cache == nil || *cfg.Module.Cache {
		t.Errorf("expected cache false, got %v", cfg.Module.Cache)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected level debug, got %q", cfg.Log.Level)
	}
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Flags()) != 0 {
		t.Errorf("expected no flag defaults, got %v", cfg.Flags())
	}
}

func TestParseUnknownKey(t *testing.T) {
	_, err := Parse(strings.NewReader("module:\n  pth: x\n"))
	if err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestFlags(t *testing.T) {
	cache := true
	cfg := &Config{
		Module: ModuleConfig{Path: "m.wasm", Timeout: time.Minute, Cache: &cache},
		Server: ServerConfig{Port: 8081},
		Log:    LogConfig{Level: "warn"},
	}

	flags := cfg.Flags()
	want := map[string]string{
		"module":    "m.wasm",
		"timeout":   "1m0s",
		"no-cache":  "false",
		"port":      "8081",
		"log-level": "warn",
	}
	if len(flags) != len(want) {
		t.Errorf("expected %d flags, got %v", len(want), flags)
	}
	for name, value := range want {
		if flags[name] != value {
			t.Errorf("flag %s: expected %q, got %q", name, value, flags[name])
		}
	}
}

func TestLoadExplicitMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadDefaultMissing(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("expected no path for defaults, got %q", cfg.Path)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bdl.yaml")
	if err := os.WriteFile(path, []byte("module:\n  name: bdlc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Module.Name != "bdlc" {
		t.Errorf("expected name bdlc, got %q", cfg.Module.Name)
	}
	if cfg.Path != path {
		t.Errorf("expected path %q, got %q", path, cfg.Path)
	}
}
