// internal/config/config.go
//
// This package handles configuration and the .groundwork directory structure.
// Every project bootstrapped with groundwork gets a .groundwork/ folder in
// its root for logs and per-run journals.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// GroundworkDir is the name of the directory we create in each project.
	GroundworkDir = ".groundwork"

	// ConfigFileName is the project config file groundwork looks for.
	ConfigFileName = "groundwork.yaml"
)

const defaultProjectConfigYAML = `# groundwork project configuration
version: 1

# Dependency manifest consumed by the package installer.
manifest: requirements.txt

# Directory static assets are collected into. Created if absent.
static_dir: static

# Package installer invocation. The self-upgrade and manifest install
# subcommands are appended by groundwork.
installer:
  command: [python, -m, pip]

# Framework management tool invocation. collectstatic and migrate
# subcommands are appended by groundwork, always non-interactive.
manage:
  command: [python, manage.py]

# Extra commands to run before the first step (pre) or after the last
# step (post). Same fail-fast rule as the built-in steps.
hooks:
  pre: []
  post: []
`

// CommandConfig declares how to invoke an external tool.
type CommandConfig struct {
	Command []string `yaml:"command"`
}

// HooksConfig carries extra commands that bracket the built-in sequence.
type HooksConfig struct {
	Pre  [][]string `yaml:"pre,omitempty"`
	Post [][]string `yaml:"post,omitempty"`
}

// ProjectConfig models groundwork.yaml.
type ProjectConfig struct {
	Version   int           `yaml:"version"`
	Manifest  string        `yaml:"manifest"`
	StaticDir string        `yaml:"static_dir"`
	Installer CommandConfig `yaml:"installer"`
	Manage    CommandConfig `yaml:"manage"`
	Hooks     HooksConfig   `yaml:"hooks,omitempty"`
}

// Config holds the runtime configuration for groundwork.
type Config struct {
	// ProjectDir is the directory the user ran `groundwork` from.
	ProjectDir string

	// GroundworkProjectDir is ProjectDir/.groundwork.
	GroundworkProjectDir string

	// ConfigFile is the resolved path of the loaded config file. Empty when
	// the defaults were used because no file exists.
	ConfigFile string

	Project ProjectConfig
}

// InitGroundworkDir creates the .groundwork directory structure in the given
// project directory and seeds a default groundwork.yaml when none exists.
//
// Structure created:
// .groundwork/
// ├── logs/      <- CLI log file
// └── journal/   <- one journal file per bootstrap run
func InitGroundworkDir(projectDir string) error {
	if err := EnsureProjectDirs(projectDir); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(projectDir, ConfigFileName))
}

// EnsureProjectDirs creates the .groundwork directory tree without touching
// groundwork.yaml. Called on every run; `groundwork init` additionally seeds
// the config file.
func EnsureProjectDirs(projectDir string) error {
	groundworkDir := filepath.Join(projectDir, GroundworkDir)

	dirs := []string{
		filepath.Join(groundworkDir, "logs"),
		filepath.Join(groundworkDir, "journal"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// NewConfig loads the project configuration. configFile overrides the default
// location when non-empty. A missing config file is not an error: the
// defaults reproduce the conventional deploy sequence.
func NewConfig(projectDir, configFile string) (*Config, error) {
	cfg := &Config{
		ProjectDir:           projectDir,
		GroundworkProjectDir: filepath.Join(projectDir, GroundworkDir),
		Project:              defaultProjectConfig(),
	}

	path := configFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectDir, ConfigFileName)
	}
	if err := cfg.loadProjectConfig(path, explicit); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.GroundworkProjectDir, "logs")
}

// JournalDir returns the path to the per-run journal directory.
func (c *Config) JournalDir() string {
	return filepath.Join(c.GroundworkProjectDir, "journal")
}

// ManifestPath returns the dependency manifest resolved against the project
// directory.
func (c *Config) ManifestPath() string {
	return resolvePath(c.ProjectDir, c.Project.Manifest)
}

// StaticDirPath returns the static assets directory resolved against the
// project directory.
func (c *Config) StaticDirPath() string {
	return resolvePath(c.ProjectDir, c.Project.StaticDir)
}

// InstallerCommand returns the package installer argv.
func (c *Config) InstallerCommand() []string {
	return cloneArgv(c.Project.Installer.Command)
}

// ManageCommand returns the framework management tool argv.
func (c *Config) ManageCommand() []string {
	return cloneArgv(c.Project.Manage.Command)
}

// PreHooks returns the configured pre-sequence commands.
func (c *Config) PreHooks() [][]string {
	return cloneHooks(c.Project.Hooks.Pre)
}

// PostHooks returns the configured post-sequence commands.
func (c *Config) PostHooks() [][]string {
	return cloneHooks(c.Project.Hooks.Post)
}

func (c *Config) loadProjectConfig(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	c.ConfigFile = path
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version:   1,
		Manifest:  "requirements.txt",
		StaticDir: "static",
		Installer: CommandConfig{Command: []string{"python", "-m", "pip"}},
		Manage:    CommandConfig{Command: []string{"python", "manage.py"}},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	def := defaultProjectConfig()
	if pc.Version == 0 {
		pc.Version = def.Version
	}
	if strings.TrimSpace(pc.Manifest) == "" {
		pc.Manifest = def.Manifest
	}
	if strings.TrimSpace(pc.StaticDir) == "" {
		pc.StaticDir = def.StaticDir
	}
	if len(pc.Installer.Command) == 0 {
		pc.Installer = def.Installer
	}
	if len(pc.Manage.Command) == 0 {
		pc.Manage = def.Manage
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Manifest = strings.TrimSpace(pc.Manifest)
	pc.StaticDir = strings.TrimSpace(pc.StaticDir)
	pc.Installer.normalize()
	pc.Manage.normalize()
	pc.Hooks.Pre = normalizeHooks(pc.Hooks.Pre)
	pc.Hooks.Post = normalizeHooks(pc.Hooks.Post)
}

func (pc ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("version must be >= 1")
	}
	if pc.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if pc.StaticDir == "" {
		return fmt.Errorf("static_dir is required")
	}
	if err := pc.Installer.validate(); err != nil {
		return fmt.Errorf("installer: %w", err)
	}
	if err := pc.Manage.validate(); err != nil {
		return fmt.Errorf("manage: %w", err)
	}
	for i, argv := range pc.Hooks.Pre {
		if len(argv) == 0 {
			return fmt.Errorf("hooks.pre[%d]: command is empty", i)
		}
	}
	for i, argv := range pc.Hooks.Post {
		if len(argv) == 0 {
			return fmt.Errorf("hooks.post[%d]: command is empty", i)
		}
	}
	return nil
}

func (cc *CommandConfig) normalize() {
	cc.Command = normalizeArgv(cc.Command)
}

func (cc CommandConfig) validate() error {
	if len(cc.Command) == 0 {
		return fmt.Errorf("command is required")
	}
	return nil
}

func normalizeArgv(argv []string) []string {
	out := make([]string, 0, len(argv))
	for _, arg := range argv {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		out = append(out, arg)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func normalizeHooks(hooks [][]string) [][]string {
	if len(hooks) == 0 {
		return nil
	}
	out := make([][]string, 0, len(hooks))
	for _, argv := range hooks {
		out = append(out, normalizeArgv(argv))
	}
	return out
}

func cloneArgv(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	out := make([]string, len(argv))
	copy(out, argv)
	return out
}

func cloneHooks(hooks [][]string) [][]string {
	if len(hooks) == 0 {
		return nil
	}
	out := make([][]string, len(hooks))
	for i, argv := range hooks {
		out[i] = cloneArgv(argv)
	}
	return out
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
