// Package config holds the settings shared by the acekit commands. Values
// come from defaults, then environment variables (a .env file is loaded
// first), then an optional YAML file. Command-line flags are applied last by
// the commands themselves.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jmir-tools/acekit/internal/acezip"
	"github.com/jmir-tools/acekit/internal/entries"
)

// Environment variables read by Load.
const (
	EnvWorkDir              = "ACEKIT_WORK_DIR"
	EnvLockTimeout          = "ACEKIT_LOCK_TIMEOUT"
	EnvParallelism          = "ACEKIT_PARALLELISM"
	EnvLogLevel             = "ACEKIT_LOG_LEVEL"
	EnvWordOrderingFraction = "ACEKIT_WORD_ORDERING_FRACTION"
	EnvWordSubsetFraction   = "ACEKIT_WORD_SUBSET_FRACTION"
	EnvAbsoluteDistance     = "ACEKIT_ABSOLUTE_DISTANCE"
	EnvProportionalDistance = "ACEKIT_PROPORTIONAL_DISTANCE"
	EnvSubsetDistance       = "ACEKIT_SUBSET_DISTANCE"
	EnvReportsDir           = "ACEKIT_REPORTS_DIR"
)

// Config is the merged configuration.
type Config struct {
	WorkDir     string        `yaml:"work_dir"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
	Parallelism int           `yaml:"parallelism"`
	LogLevel    string        `yaml:"log_level"`
	ReportsDir  string        `yaml:"reports_dir"`

	WordOrderingFraction float64                     `yaml:"word_ordering_fraction"`
	WordSubsetFraction   float64                     `yaml:"word_subset_fraction"`
	EditDistance         entries.EditDistanceOptions `yaml:"edit_distance"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LockTimeout:          30 * time.Second,
		LogLevel:             "info",
		ReportsDir:           "reports",
		WordOrderingFraction: 0.70,
		WordSubsetFraction:   0.80,
		EditDistance:         entries.DefaultEditDistanceOptions(),
	}
}

// Load builds the configuration from the environment and, when path is not
// empty, the YAML file at path.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("Loaded configuration", "file", path, "work_dir", cfg.WorkDir, "lock_timeout", cfg.LockTimeout)
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvWorkDir)); v != "" {
		c.WorkDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvReportsDir)); v != "" {
		c.ReportsDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLockTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLockTimeout, err)
		}
		c.LockTimeout = d
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{EnvParallelism, &c.Parallelism},
		{EnvAbsoluteDistance, &c.EditDistance.Absolute},
		{EnvProportionalDistance, &c.EditDistance.Proportional},
		{EnvSubsetDistance, &c.EditDistance.Subset},
	}
	for _, e := range ints {
		v := strings.TrimSpace(os.Getenv(e.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.name, err)
		}
		*e.dst = n
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{EnvWordOrderingFraction, &c.WordOrderingFraction},
		{EnvWordSubsetFraction, &c.WordSubsetFraction},
	}
	for _, e := range floats {
		v := strings.TrimSpace(os.Getenv(e.name))
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", e.name, err)
		}
		*e.dst = f
	}
	return nil
}

// applyFile overlays the keys present in the YAML file.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	for name, f := range map[string]float64{
		"word_ordering_fraction": c.WordOrderingFraction,
		"word_subset_fraction":   c.WordSubsetFraction,
	} {
		if f < 0 || f > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, f)
		}
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	if c.LockTimeout < 0 {
		return fmt.Errorf("lock_timeout must not be negative, got %s", c.LockTimeout)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// PackagerOptions returns the archive settings.
func (c *Config) PackagerOptions() acezip.Options {
	return acezip.Options{
		WorkDir:     c.WorkDir,
		LockTimeout: c.LockTimeout,
		Parallelism: c.Parallelism,
	}
}

// ParseLevel maps debug, info, warn or error onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// SetupLogging installs a text handler on stderr at the given level as the
// default logger.
func SetupLogging(level string) error {
	l, err := ParseLevel(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}
