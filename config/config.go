// Package config provides configuration loading and management for semmap.
package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semmap/export"
	"github.com/c360studio/semmap/prefix"
)

// Config represents the complete semmap configuration
type Config struct {
	Prefixes PrefixConfig  `yaml:"prefixes"`
	Output   OutputConfig  `yaml:"output"`
	Batch    BatchConfig   `yaml:"batch"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Log      LogConfig     `yaml:"log"`
}

// PrefixConfig configures the caller prefix map
type PrefixConfig struct {
	// NoDefaults drops the bundled SSSOM and external contexts
	NoDefaults bool `yaml:"no_defaults"`
	// Context is a JSON-LD context file merged over the defaults
	Context string `yaml:"context"`
	// Map holds extra prefixes, applied last
	Map map[string]string `yaml:"map"`
}

// OutputConfig configures conversion outputs
type OutputConfig struct {
	// Format is used when neither a flag nor the output extension names one
	Format string `yaml:"format"`
	// Dir is the default batch and split output directory
	Dir string `yaml:"dir"`
	// FillDefaults mints a mapping_set_id and license for bare sets
	FillDefaults bool `yaml:"fill_defaults"`
}

// BatchConfig configures batch and watch mode
type BatchConfig struct {
	// Workers bounds concurrent conversions (0 = GOMAXPROCS)
	Workers int `yaml:"workers"`
	// Debounce is the watch mode settle delay
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig configures the metrics textfile
type MetricsConfig struct {
	// File receives Prometheus text exposition after each run (empty = off)
	File string `yaml:"file"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// LogLevels lists the accepted log levels
var LogLevels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: export.FormatTSV,
		},
		Batch: BatchConfig{
			Workers:  0, // GOMAXPROCS
			Debounce: 200 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Output.Format != "" {
		if _, ok := export.GetFormatInfo(c.Output.Format); !ok {
			return fmt.Errorf("output.format %q is not a known format", c.Output.Format)
		}
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch.workers must not be negative")
	}
	if c.Batch.Debounce < 0 {
		return fmt.Errorf("batch.debounce must not be negative")
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v", LogLevels)
	}
	return nil
}

// PrefixMap builds the caller prefix map: the bundled defaults unless
// disabled, then the context file, then the explicit entries. Every later
// entry that rebinds a prefix to another namespace is returned as a
// conflict keeping the later namespace.
func (c *Config) PrefixMap() (*prefix.Map, []prefix.Conflict, error) {
	m := prefix.NewMap()
	if !c.Prefixes.NoDefaults {
		m, _ = prefix.DefaultPrefixMap()
	}

	var conflicts []prefix.Conflict
	override := func(p, ns string) {
		if existing, ok := m.Get(p); ok && existing != ns {
			conflicts = append(conflicts, prefix.Conflict{Prefix: p, Kept: ns, Discarded: existing})
		}
		m.Set(p, ns)
	}

	if c.Prefixes.Context != "" {
		data, err := os.ReadFile(c.Prefixes.Context)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read context file: %w", err)
		}
		parsed, err := prefix.ParseContext(data)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse context file: %w", err)
		}
		for p, ns := range parsed.PrefixMap().All() {
			override(p, ns)
		}
	}

	for _, p := range slices.Sorted(maps.Keys(c.Prefixes.Map)) {
		override(p, c.Prefixes.Map[p])
	}
	return m, conflicts, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Prefixes
	if other.Prefixes.NoDefaults {
		c.Prefixes.NoDefaults = true
	}
	if other.Prefixes.Context != "" {
		c.Prefixes.Context = other.Prefixes.Context
	}
	if len(other.Prefixes.Map) > 0 {
		if c.Prefixes.Map == nil {
			c.Prefixes.Map = make(map[string]string, len(other.Prefixes.Map))
		}
		maps.Copy(c.Prefixes.Map, other.Prefixes.Map)
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.Output.FillDefaults {
		c.Output.FillDefaults = true
	}

	// Batch
	if other.Batch.Workers != 0 {
		c.Batch.Workers = other.Batch.Workers
	}
	if other.Batch.Debounce != 0 {
		c.Batch.Debounce = other.Batch.Debounce
	}

	// Metrics
	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
}
