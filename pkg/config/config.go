// Package config loads the wpexport project configuration.
//
// Lookup order: an explicit path, .wpexport/config.yaml,
// .wpexport/config.toml, then the embedded default. A .env file in the
// working directory is loaded first and WPEXPORT_* variables override
// values from any of these sources.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/wpexport/pkg/builder"
	"github.com/gnana997/wpexport/pkg/util"
	"github.com/gnana997/wpexport/pkg/widgets"
	"github.com/gnana997/wpexport/presets"
)

const (
	// Dir is the project directory holding the config file.
	Dir = ".wpexport"
	// YAMLFile and TOMLFile are the config file names inside Dir.
	YAMLFile = "config.yaml"
	TOMLFile = "config.toml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "WPEXPORT_"
)

// SourceDefault is the Source of a config built from the embedded preset.
const SourceDefault = "(embedded default)"

// Config holds the contents of .wpexport/config.yaml (or .toml).
type Config struct {
	Version    string             `yaml:"version" toml:"version"`
	Targets    []string           `yaml:"targets" toml:"targets"`
	OutputDir  string             `yaml:"output_dir" toml:"output_dir"`
	Format     string             `yaml:"format" toml:"format"`
	Optimize   bool               `yaml:"optimize" toml:"optimize"`
	SiteURL    string             `yaml:"site_url" toml:"site_url"`
	Input      InputConfig        `yaml:"input" toml:"input"`
	Thresholds builder.Thresholds `yaml:"thresholds" toml:"thresholds"`
	Detection  widgets.Options    `yaml:"detection" toml:"detection"`
	Log        LogConfig          `yaml:"log" toml:"log"`
	Server     ServerConfig       `yaml:"server" toml:"server"`
	Watch      WatchConfig        `yaml:"watch" toml:"watch"`

	// Source is the file the config was read from.
	Source string `yaml:"-" toml:"-"`
}

// InputConfig selects page files for batch and watch runs.
type InputConfig struct {
	Include []string `yaml:"include" toml:"include"`
	Exclude []string `yaml:"exclude" toml:"exclude"`
	Workers int      `yaml:"workers" toml:"workers"`
}

// LogConfig controls the slog logger and the export run log.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	// Path of the JSONL run log. Empty disables it.
	Path string `yaml:"path" toml:"path"`
}

// ServerConfig controls `wpexport serve`.
type ServerConfig struct {
	Addr        string   `yaml:"addr" toml:"addr"`
	CacheSize   int      `yaml:"cache_size" toml:"cache_size"`
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`
}

// WatchConfig controls `wpexport watch`.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" toml:"debounce_ms"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(presets.DefaultConfigYAML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config is invalid: %v", err))
	}
	cfg.Source = SourceDefault
	return &cfg
}

// Load reads path over the defaults. Files ending in .toml are decoded as
// TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data, strings.EqualFold(filepath.Ext(path), ".toml"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes YAML (or TOML) config data over the defaults.
func Parse(data []byte, isTOML bool) (*Config, error) {
	cfg := Default()
	cfg.Source = ""
	if isTOML {
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return cfg, nil
}

// Resolve returns the config to use, applying the fallback chain:
//  1. Explicit flag value (non-empty; the file must exist)
//  2. .wpexport/config.yaml under dir
//  3. .wpexport/config.toml under dir
//  4. The embedded default
//
// Environment overrides are applied to the result.
func Resolve(flagValue, dir string) (*Config, error) {
	if flagValue != "" {
		cfg, err := Load(flagValue)
		if err != nil {
			return nil, err
		}
		return cfg, ApplyEnv(cfg, os.LookupEnv)
	}
	for _, name := range []string{YAMLFile, TOMLFile} {
		path := filepath.Join(dir, Dir, name)
		cfg, err := Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return cfg, ApplyEnv(cfg, os.LookupEnv)
	}
	cfg := Default()
	return cfg, ApplyEnv(cfg, os.LookupEnv)
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (default .env)
// into the process environment without overriding variables already set.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from WPEXPORT_* variables found through
// lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	str("LOG_LEVEL", &cfg.Log.Level)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_PATH", &cfg.Log.Path)
	str("SERVER_ADDR", &cfg.Server.Addr)
	str("OUTPUT_DIR", &cfg.OutputDir)
	str("FORMAT", &cfg.Format)
	str("SITE_URL", &cfg.SiteURL)

	if v, ok := lookup(EnvPrefix + "TARGETS"); ok && v != "" {
		cfg.Targets = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "OPTIMIZE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return ValidationError{Field: EnvPrefix + "OPTIMIZE", Value: v, Message: "must be a boolean"}
		}
		cfg.Optimize = b
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParsedTargets resolves the configured target names. An empty list means
// every target.
func (c *Config) ParsedTargets() ([]builder.Target, error) {
	if len(c.Targets) == 0 {
		return builder.Targets(), nil
	}
	var out []builder.Target
	seen := make(map[builder.Target]bool)
	for _, name := range c.Targets {
		t, err := builder.ParseTarget(name)
		if err != nil {
			return nil, err
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

// ExportOptions maps the config onto exporter options.
func (c *Config) ExportOptions(logger *slog.Logger) builder.Options {
	return builder.Options{
		Thresholds: c.Thresholds,
		Detection:  c.Detection,
		SiteURL:    strings.TrimRight(c.SiteURL, "/"),
		Logger:     logger,
	}.Normalize()
}

// LoggerConfig maps the log section onto util.LoggerConfig, writing to
// stderr.
func (c *Config) LoggerConfig() util.LoggerConfig {
	lc := util.DefaultLoggerConfig()
	lc.Level = util.ParseLogLevel(c.Log.Level)
	if util.LogFormat(strings.ToLower(c.Log.Format)) == util.FormatJSON {
		lc.Format = util.FormatJSON
	}
	return lc
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Write saves the config as YAML at path, creating parent directories.
func (c *Config) Write(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
