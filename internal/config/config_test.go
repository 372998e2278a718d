package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/viewroute/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Preview.Port != DefaultPort {
		t.Errorf("Preview.Port = %d, want %d", cfg.Preview.Port, DefaultPort)
	}
	if cfg.Preview.Host != DefaultHost {
		t.Errorf("Preview.Host = %q, want %q", cfg.Preview.Host, DefaultHost)
	}
	if cfg.Manifest != DefaultManifest {
		t.Errorf("Manifest = %q, want %q", cfg.Manifest, DefaultManifest)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Test loading non-existent config
	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for missing config")
	}
	if e, ok := err.(*errors.Error); !ok || e.Code != "E141" {
		t.Errorf("missing config error = %v, want E141", err)
	}

	configJSON := `{
  "name": "docs",
  "manifest": "site/routes.yaml",
  "basePath": "/docs",
  "preview": {
    "port": 8080,
    "host": "0.0.0.0"
  },
  "log": {
    "level": "debug"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "docs" {
		t.Errorf("Name = %q, want docs", cfg.Name)
	}
	if cfg.Preview.Port != 8080 {
		t.Errorf("Preview.Port = %d, want 8080", cfg.Preview.Port)
	}
	if cfg.PreviewAddress() != "0.0.0.0:8080" {
		t.Errorf("PreviewAddress() = %q", cfg.PreviewAddress())
	}
	if cfg.Preview.MetricsPath != DefaultMetricsPath {
		t.Errorf("MetricsPath = %q, want default", cfg.Preview.MetricsPath)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q, want text", cfg.Log.Format)
	}
	if got, want := cfg.ManifestPath(), filepath.Join(tmpDir, "site", "routes.yaml"); got != want {
		t.Errorf("ManifestPath() = %q, want %q", got, want)
	}
	level, err := cfg.SlogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, %v; want debug", level, err)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if e, ok := err.(*errors.Error); !ok || e.Code != "E120" {
		t.Fatalf("LoadFile error = %v, want E120", err)
	}
}

func TestManifestPath(t *testing.T) {
	cfg := New()
	cfg.configPath = "/srv/site/viewroute.json"

	tests := []struct {
		manifest string
		want     string
	}{
		{"", "/srv/site/routes.yaml"},
		{"routes.yaml", "/srv/site/routes.yaml"},
		{"/etc/routes.yaml", "/etc/routes.yaml"},
		{"s3://bucket/site/routes.yaml", "s3://bucket/site/routes.yaml"},
	}
	for _, tt := range tests {
		cfg.Manifest = tt.manifest
		if got := cfg.ManifestPath(); got != tt.want {
			t.Errorf("ManifestPath(%q) = %q, want %q", tt.manifest, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Preview.Port = 70000 }, "E122"},
		{"level", func(c *Config) { c.Log.Level = "loud" }, "E123"},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log format"},
		{"timeout", func(c *Config) { c.Scripts.Timeout = "soon" }, "scripts.timeout"},
		{"base", func(c *Config) { c.BasePath = "docs" }, "basePath"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			e, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("Validate() error type %T", err)
			}
			if e.Code != tt.want && !strings.Contains(e.Message, tt.want) {
				t.Errorf("Validate() = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestScriptTimeout(t *testing.T) {
	cfg := New()
	d, err := cfg.ScriptTimeout()
	if err != nil || d != 250*time.Millisecond {
		t.Fatalf("ScriptTimeout() = %v, %v", d, err)
	}
	cfg.Scripts.Timeout = "0s"
	if d, _ := cfg.ScriptTimeout(); d != 0 {
		t.Errorf("ScriptTimeout(0s) = %v", d)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	cfg := New()
	cfg.Name = "saved"
	cfg.Preview.Port = 4100
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if loaded.Name != "saved" || loaded.Preview.Port != 4100 {
		t.Errorf("reloaded config = %+v", loaded)
	}

	var empty Config
	if err := empty.Save(); err == nil {
		t.Error("Save() without path should fail")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ConfigFileName), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot = %q, want %q", got, want)
	}
	if !Exists(root) {
		t.Error("Exists(root) = false")
	}
}
