package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// APIKeyEnv overrides analysis.api_key when set
const APIKeyEnv = "SLUMBER_API_KEY"

type Config struct {
	Storage  StorageConfig
	Stats    StatsConfig
	Display  DisplayConfig
	Analysis AnalysisConfig
	Log      LogConfig
}

type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

type StatsConfig struct {
	DefaultDays int `toml:"default_days"`
}

type DisplayConfig struct {
	RefreshMS int `toml:"refresh_ms"`
}

type AnalysisConfig struct {
	Endpoint       string `toml:"endpoint"`
	Model          string `toml:"model"`
	APIKey         string `toml:"api_key"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

// DefaultPath is where the config file lives unless --config says otherwise
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "slumber", "config.toml")
}

func Load() (*LoadResult, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the config file at path. A missing file yields defaults.
func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			result := &LoadResult{Config: DefaultConfig()}
			applyEnv(&result.Config, os.Getenv)
			return result, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	result, err := load(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	applyEnv(&result.Config, os.Getenv)
	if err := validate(&result.Config); err != nil {
		return nil, err
	}
	return result, nil
}

// LoadFromString parses config from a string. The environment is not
// consulted.
func LoadFromString(data string) (*LoadResult, error) {
	result, err := load(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validate(&result.Config); err != nil {
		return nil, err
	}
	return result, nil
}

type tomlFile struct {
	Storage  *StorageConfig  `toml:"storage"`
	Stats    *StatsConfig    `toml:"stats"`
	Display  *DisplayConfig  `toml:"display"`
	Analysis *AnalysisConfig `toml:"analysis"`
	Log      *LogConfig      `toml:"log"`
}

var knownTopLevel = map[string]bool{
	"storage":  true,
	"stats":    true,
	"display":  true,
	"analysis": true,
	"log":      true,
}

func load(data string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}
	if data == "" {
		return result, nil
	}

	var tf tomlFile
	md, err := toml.Decode(data, &tf)
	if err != nil {
		return nil, err
	}

	// unknown sections are reported once, unknown keys in known sections each
	seen := make(map[string]bool)
	for _, key := range md.Undecoded() {
		name := key.String()
		if !knownTopLevel[key[0]] {
			name = key[0]
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", name))
	}

	merge(&result.Config, &tf, md)
	return result, nil
}

// merge copies only the keys present in the file over the defaults
func merge(cfg *Config, tf *tomlFile, md toml.MetaData) {
	if tf.Storage != nil && md.IsDefined("storage", "db_path") {
		cfg.Storage.DBPath = tf.Storage.DBPath
	}
	if tf.Stats != nil && md.IsDefined("stats", "default_days") {
		cfg.Stats.DefaultDays = tf.Stats.DefaultDays
	}
	if tf.Display != nil && md.IsDefined("display", "refresh_ms") {
		cfg.Display.RefreshMS = tf.Display.RefreshMS
	}
	if tf.Analysis != nil {
		if md.IsDefined("analysis", "endpoint") {
			cfg.Analysis.Endpoint = tf.Analysis.Endpoint
		}
		if md.IsDefined("analysis", "model") {
			cfg.Analysis.Model = tf.Analysis.Model
		}
		if md.IsDefined("analysis", "api_key") {
			cfg.Analysis.APIKey = tf.Analysis.APIKey
		}
		if md.IsDefined("analysis", "max_tokens") {
			cfg.Analysis.MaxTokens = tf.Analysis.MaxTokens
		}
		if md.IsDefined("analysis", "timeout_seconds") {
			cfg.Analysis.TimeoutSeconds = tf.Analysis.TimeoutSeconds
		}
	}
	if tf.Log != nil {
		if md.IsDefined("log", "level") {
			cfg.Log.Level = tf.Log.Level
		}
		if md.IsDefined("log", "file") {
			cfg.Log.File = tf.Log.File
		}
	}
	cfg.Storage.DBPath = expandHome(cfg.Storage.DBPath)
	cfg.Log.File = expandHome(cfg.Log.File)
}

func applyEnv(cfg *Config, getenv func(string) string) {
	if key := strings.TrimSpace(getenv(APIKeyEnv)); key != "" {
		cfg.Analysis.APIKey = key
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Storage.DBPath == "" {
		errs = append(errs, "storage db_path must not be empty")
	}
	switch cfg.Stats.DefaultDays {
	case 7, 14, 30:
	default:
		errs = append(errs, fmt.Sprintf("stats default_days must be 7, 14 or 30, got %d", cfg.Stats.DefaultDays))
	}
	if cfg.Display.RefreshMS < 100 {
		errs = append(errs, fmt.Sprintf("display refresh_ms must be at least 100, got %d", cfg.Display.RefreshMS))
	}
	if !strings.HasPrefix(cfg.Analysis.Endpoint, "http://") && !strings.HasPrefix(cfg.Analysis.Endpoint, "https://") {
		errs = append(errs, fmt.Sprintf("analysis endpoint must be an http(s) URL, got %q", cfg.Analysis.Endpoint))
	}
	if cfg.Analysis.Model == "" {
		errs = append(errs, "analysis model must not be empty")
	}
	if cfg.Analysis.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("analysis max_tokens must be positive, got %d", cfg.Analysis.MaxTokens))
	}
	if cfg.Analysis.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Sprintf("analysis timeout_seconds must be positive, got %d", cfg.Analysis.TimeoutSeconds))
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error", "disabled":
	default:
		errs = append(errs, fmt.Sprintf("log level must be one of debug, info, warn, error, disabled, got %q", cfg.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
