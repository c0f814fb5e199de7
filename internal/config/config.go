// Package config loads the planner's layered JSONC configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tailscale/hujson"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrPlanDirEmpty       = errors.New("plan_dir cannot be empty")
	ErrUnknownBackend     = errors.New("unknown backend (want file or sqlite)")
	ErrNegativeValue      = errors.New("value cannot be negative")
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// FileName is the project config file looked up in the working directory.
const FileName = ".gsmeac.json"

// Config holds all configuration options.
type Config struct {
	PlanDir            string `json:"plan_dir"`
	Backend            string `json:"backend"`
	SaveDebounceMS     int    `json:"save_debounce_ms"`
	ValidateDebounceMS int    `json:"validate_debounce_ms"`
	QuotaBytes         int64  `json:"quota_bytes"`
	LogLevel           string `json:"log_level"`

	// Resolved, not serialized.
	EffectiveCwd string  `json:"-"`
	PlanDirAbs   string  `json:"-"`
	Sources      Sources `json:"-"`
}

// Sources records which config files were loaded.
type Sources struct {
	Global  string
	Project string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PlanDir:            ".gsmeac",
		Backend:            BackendFile,
		SaveDebounceMS:     500,
		ValidateDebounceMS: 300,
		LogLevel:           "info",
	}
}

// SaveDelay is the debounce window for saves.
func (c Config) SaveDelay() time.Duration {
	return time.Duration(c.SaveDebounceMS) * time.Millisecond
}

// ValidateDelay is the debounce window for validation passes.
func (c Config) ValidateDelay() time.Duration {
	return time.Duration(c.ValidateDebounceMS) * time.Millisecond
}

// LogDir is where the log file lives.
func (c Config) LogDir() string {
	return filepath.Join(c.PlanDirAbs, "logs")
}

// SQLitePath is the database file used by the sqlite backend.
func (c Config) SQLitePath() string {
	return filepath.Join(c.PlanDirAbs, "planner.db")
}

// Pairs returns the effective settings as ordered key/value pairs.
func (c Config) Pairs() [][2]string {
	return [][2]string{
		{"plan_dir", c.PlanDirAbs},
		{"backend", c.Backend},
		{"save_debounce_ms", strconv.Itoa(c.SaveDebounceMS)},
		{"validate_debounce_ms", strconv.Itoa(c.ValidateDebounceMS)},
		{"quota_bytes", strconv.FormatInt(c.QuotaBytes, 10)},
		{"log_level", c.LogLevel},
	}
}

// fileConfig mirrors Config with pointers so a layer can tell "unset" from
// an explicit zero.
type fileConfig struct {
	PlanDir            *string `json:"plan_dir"`
	Backend            *string `json:"backend"`
	SaveDebounceMS     *int    `json:"save_debounce_ms"`
	ValidateDebounceMS *int    `json:"validate_debounce_ms"`
	QuotaBytes         *int64  `json:"quota_bytes"`
	LogLevel           *string `json:"log_level"`
}

// globalPath returns $XDG_CONFIG_HOME/gsmeac/config.json, falling back to
// ~/.config/gsmeac/config.json, or "" when neither variable is set.
func globalPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "gsmeac", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "gsmeac", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDirOverride string // -C/--cwd; empty means os.Getwd
	ConfigPath      string // -c/--config
	PlanDirOverride string // --plan-dir; empty means no override
	BackendOverride string // --backend; empty means no override
	Env             map[string]string
}

// Load builds the configuration with this precedence, highest last:
// defaults, the global user config, the project config (or the explicit
// -c file instead of it), CLI overrides.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		layer, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = merge(cfg, layer)
			cfg.Sources.Global = path
		}
	}

	projectPath := filepath.Join(workDir, FileName)
	mustExist := false

	if input.ConfigPath != "" {
		projectPath = input.ConfigPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true

		if _, err := os.Stat(projectPath); err != nil {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigFileNotFound, input.ConfigPath)
		}
	}

	layer, loaded, err := loadFile(projectPath, mustExist)
	if err != nil {
		return Config{}, err
	}

	if loaded {
		cfg = merge(cfg, layer)
		cfg.Sources.Project = projectPath
	}

	if input.PlanDirOverride != "" {
		cfg.PlanDir = input.PlanDirOverride
	}

	if input.BackendOverride != "" {
		cfg.Backend = input.BackendOverride
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.PlanDir) {
		cfg.PlanDirAbs = cfg.PlanDir
	} else {
		cfg.PlanDirAbs = filepath.Join(workDir, cfg.PlanDir)
	}

	return cfg, nil
}

// loadFile reads one layer. A missing optional file is not an error and
// reports loaded=false.
func loadFile(path string, mustExist bool) (fileConfig, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return fileConfig{}, false, nil
		}

		return fileConfig{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	layer, err := parse(data)
	if err != nil {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	if layer.PlanDir != nil && *layer.PlanDir == "" {
		return fileConfig{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, ErrPlanDirEmpty)
	}

	return layer, true, nil
}

func parse(data []byte) (fileConfig, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var layer fileConfig

	err = json.Unmarshal(standardized, &layer)
	if err != nil {
		return fileConfig{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return layer, nil
}

func merge(base Config, layer fileConfig) Config {
	if layer.PlanDir != nil {
		base.PlanDir = *layer.PlanDir
	}

	if layer.Backend != nil {
		base.Backend = *layer.Backend
	}

	if layer.SaveDebounceMS != nil {
		base.SaveDebounceMS = *layer.SaveDebounceMS
	}

	if layer.ValidateDebounceMS != nil {
		base.ValidateDebounceMS = *layer.ValidateDebounceMS
	}

	if layer.QuotaBytes != nil {
		base.QuotaBytes = *layer.QuotaBytes
	}

	if layer.LogLevel != nil {
		base.LogLevel = *layer.LogLevel
	}

	return base
}

func validate(cfg Config) error {
	if cfg.PlanDir == "" {
		return ErrPlanDirEmpty
	}

	switch cfg.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}

	if cfg.SaveDebounceMS < 0 {
		return fmt.Errorf("save_debounce_ms: %w", ErrNegativeValue)
	}

	if cfg.ValidateDebounceMS < 0 {
		return fmt.Errorf("validate_debounce_ms: %w", ErrNegativeValue)
	}

	if cfg.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes: %w", ErrNegativeValue)
	}

	return nil
}
