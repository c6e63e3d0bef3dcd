package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "semmap.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/semmap"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
	// EnvFile is loaded from the working directory before reading SEMMAP_* variables
	EnvFile = ".env"
)

// Environment variables read by Load
const (
	EnvOutputFormat      = "SEMMAP_OUTPUT_FORMAT"
	EnvOutputDir         = "SEMMAP_OUTPUT_DIR"
	EnvFillDefaults      = "SEMMAP_FILL_DEFAULTS"
	EnvContext           = "SEMMAP_CONTEXT"
	EnvNoDefaultPrefixes = "SEMMAP_NO_DEFAULT_PREFIXES"
	EnvWorkers           = "SEMMAP_BATCH_WORKERS"
	EnvDebounce          = "SEMMAP_BATCH_DEBOUNCE"
	EnvMetricsFile       = "SEMMAP_METRICS_FILE"
	EnvLogLevel          = "SEMMAP_LOG_LEVEL"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
	file   string
	dir    string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// WithFile makes Load read path instead of searching for a project config.
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// WithDir sets the directory the project config and .env are looked up
// from. Defaults to the working directory.
func (l *Loader) WithDir(dir string) *Loader {
	l.dir = dir
	return l
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/semmap/config.yaml)
// 3. Project config (semmap.yaml in current or parent directories, or the WithFile path)
// 4. Environment (.env, then SEMMAP_* variables)
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	// Load user config
	if userConfigPath := l.userConfigPath(); userConfigPath != "" {
		if userConfig, err := LoadFromFile(userConfigPath); err == nil {
			l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
			config.Merge(userConfig)
		} else if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
		}
	}

	// Load project config; an explicit file must exist
	if l.file != "" {
		projectConfig, err := LoadFromFile(l.file)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", l.file))
		config.Merge(projectConfig)
	} else if projectConfigPath := l.findProjectConfig(); projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	// Environment
	l.loadEnvFile()
	if err := applyEnv(config); err != nil {
		return nil, err
	}

	// Validate final config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()
	if userConfigPath == "" {
		return fmt.Errorf("no home directory")
	}

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil // Already exists
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

func (l *Loader) workDir() string {
	if l.dir != "" {
		return l.dir
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return cwd
}

// findProjectConfig searches for semmap.yaml in the work directory and its parents
func (l *Loader) findProjectConfig() string {
	dir := l.workDir()
	if dir == "" {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// loadEnvFile loads .env without overriding variables already set
func (l *Loader) loadEnvFile() {
	path := filepath.Join(l.workDir(), EnvFile)
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Failed to load env file", slog.String("path", path), slog.String("error", err.Error()))
		}
		return
	}
	l.logger.Debug("Loaded env file", slog.String("path", path))
}

func applyEnv(c *Config) error {
	if v := os.Getenv(EnvOutputFormat); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(EnvContext); v != "" {
		c.Prefixes.Context = v
	}
	if v := os.Getenv(EnvMetricsFile); v != "" {
		c.Metrics.File = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}

	if v := os.Getenv(EnvFillDefaults); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvFillDefaults, err)
		}
		c.Output.FillDefaults = b
	}
	if v := os.Getenv(EnvNoDefaultPrefixes); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvNoDefaultPrefixes, err)
		}
		c.Prefixes.NoDefaults = b
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Batch.Workers = n
	}
	if v := os.Getenv(EnvDebounce); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebounce, err)
		}
		c.Batch.Debounce = d
	}
	return nil
}
