package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestNewConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	c, err := NewConfig(projectDir, "")
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("version = %d, want 1", c.Project.Version)
	}
	if got := c.ManifestPath(); got != filepath.Join(projectDir, "requirements.txt") {
		t.Fatalf("manifest path = %q", got)
	}
	if got := c.StaticDirPath(); got != filepath.Join(projectDir, "static") {
		t.Fatalf("static dir path = %q", got)
	}
	if got := c.InstallerCommand(); !reflect.DeepEqual(got, []string{"python", "-m", "pip"}) {
		t.Fatalf("installer command = %v", got)
	}
	if got := c.ManageCommand(); !reflect.DeepEqual(got, []string{"python", "manage.py"}) {
		t.Fatalf("manage command = %v", got)
	}
}

func TestNewConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
manifest: deps/requirements-prod.txt
static_dir: assets
installer:
  command: [python3.12, -m, pip]
manage:
  command: [python3.12, manage.py]
hooks:
  pre:
    - [echo, starting]
  post:
    - [touch, deployed.marker]
`)
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir, "")
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if got := c.ManifestPath(); got != filepath.Join(projectDir, "deps", "requirements-prod.txt") {
		t.Fatalf("manifest path = %q", got)
	}
	if got := c.StaticDirPath(); got != filepath.Join(projectDir, "assets") {
		t.Fatalf("static dir path = %q", got)
	}
	if got := c.InstallerCommand(); !reflect.DeepEqual(got, []string{"python3.12", "-m", "pip"}) {
		t.Fatalf("installer command = %v", got)
	}
	if got := c.PreHooks(); len(got) != 1 || !reflect.DeepEqual(got[0], []string{"echo", "starting"}) {
		t.Fatalf("pre hooks = %v", got)
	}
	if got := c.PostHooks(); len(got) != 1 || !reflect.DeepEqual(got[0], []string{"touch", "deployed.marker"}) {
		t.Fatalf("post hooks = %v", got)
	}
	if c.ConfigFile == "" {
		t.Fatal("expected ConfigFile to record the loaded path")
	}
}

func TestNewConfigPartialYamlKeepsDefaults(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := "version: 1\nstatic_dir: public\n"
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir, "")
	if err != nil {
		t.Fatalf("NewConfig returned error: %v", err)
	}
	if got := c.StaticDirPath(); got != filepath.Join(projectDir, "public") {
		t.Fatalf("static dir path = %q", got)
	}
	if got := c.ManifestPath(); got != filepath.Join(projectDir, "requirements.txt") {
		t.Fatalf("manifest path = %q, want default", got)
	}
	if got := c.InstallerCommand(); !reflect.DeepEqual(got, []string{"python", "-m", "pip"}) {
		t.Fatalf("installer command = %v, want default", got)
	}
}

func TestNewConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	configYAML := strings.TrimSpace(`
version: 1
hooks:
  pre:
    - ["  "]
`)
	if err := os.WriteFile(filepath.Join(projectDir, ConfigFileName), []byte(configYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewConfig(projectDir, ""); err == nil {
		t.Fatal("expected validation error for empty hook command")
	}
}

func TestNewConfigExplicitFileMustExist(t *testing.T) {
	projectDir := t.TempDir()
	if _, err := NewConfig(projectDir, filepath.Join(projectDir, "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestInitGroundworkDir(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitGroundworkDir(projectDir); err != nil {
		t.Fatalf("InitGroundworkDir returned error: %v", err)
	}
	for _, sub := range []string{"logs", "journal"} {
		if _, err := os.Stat(filepath.Join(projectDir, GroundworkDir, sub)); err != nil {
			t.Fatalf("missing %s dir: %v", sub, err)
		}
	}
	configPath := filepath.Join(projectDir, ConfigFileName)
	seeded, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("missing seeded config: %v", err)
	}
	if !strings.Contains(string(seeded), "version: 1") {
		t.Fatalf("seeded config missing version: %s", seeded)
	}

	// Second init must not overwrite an edited config.
	custom := []byte("version: 1\nmanifest: custom.txt\n")
	if err := os.WriteFile(configPath, custom, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitGroundworkDir(projectDir); err != nil {
		t.Fatalf("second InitGroundworkDir returned error: %v", err)
	}
	after, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(custom) {
		t.Fatal("init overwrote an existing config file")
	}
}

func TestSeededConfigRoundTrips(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitGroundworkDir(projectDir); err != nil {
		t.Fatalf("InitGroundworkDir returned error: %v", err)
	}
	c, err := NewConfig(projectDir, "")
	if err != nil {
		t.Fatalf("NewConfig on seeded config returned error: %v", err)
	}
	if got := c.Project.Manifest; got != "requirements.txt" {
		t.Fatalf("manifest = %q", got)
	}
}
