package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.70, cfg.WordOrderingFraction)
	assert.Equal(t, 0.80, cfg.WordSubsetFraction)
	assert.Equal(t, 1, cfg.EditDistance.Absolute)
	assert.Equal(t, 20, cfg.EditDistance.Proportional)
	assert.Equal(t, 20, cfg.EditDistance.Subset)
}

func TestLoadEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvWorkDir, "/tmp/work")
	t.Setenv(EnvLockTimeout, "5s")
	t.Setenv(EnvParallelism, "3")
	t.Setenv(EnvWordSubsetFraction, "0.9")
	t.Setenv(EnvAbsoluteDistance, "2")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/work", cfg.WorkDir)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 3, cfg.Parallelism)
	assert.Equal(t, 0.9, cfg.WordSubsetFraction)
	assert.Equal(t, 2, cfg.EditDistance.Absolute)
	assert.Equal(t, "debug", cfg.LogLevel)

	opts := cfg.PackagerOptions()
	assert.Equal(t, "/tmp/work", opts.WorkDir)
	assert.Equal(t, 5*time.Second, opts.LockTimeout)
	assert.Equal(t, 3, opts.Parallelism)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvReportsDir, "")
	require.NoError(t, os.Unsetenv(EnvReportsDir))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvReportsDir+"=out\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.ReportsDir)
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(EnvWorkDir, "/from/env")
	t.Setenv(EnvParallelism, "2")

	path := filepath.Join(dir, "acekit.yaml")
	data := `work_dir: /from/file
lock_timeout: 1m
word_ordering_fraction: 0.5
edit_distance:
  absolute: 3
  enable_subset: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/file", cfg.WorkDir)
	assert.Equal(t, time.Minute, cfg.LockTimeout)
	assert.Equal(t, 2, cfg.Parallelism)
	assert.Equal(t, 0.5, cfg.WordOrderingFraction)
	assert.Equal(t, 3, cfg.EditDistance.Absolute)
	assert.Equal(t, 20, cfg.EditDistance.Proportional)
	assert.False(t, cfg.EditDistance.EnableSubset)
	assert.True(t, cfg.EditDistance.EnableAbsolute)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		file string
	}{
		{name: "bad duration", env: map[string]string{EnvLockTimeout: "soon"}},
		{name: "bad integer", env: map[string]string{EnvParallelism: "many"}},
		{name: "bad float", env: map[string]string{EnvWordOrderingFraction: "most"}},
		{name: "fraction out of range", env: map[string]string{EnvWordSubsetFraction: "1.5"}},
		{name: "bad log level", env: map[string]string{EnvLogLevel: "loud"}},
		{name: "bad yaml", file: "work_dir: [unclosed"},
		{name: "missing file", file: "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			switch tt.file {
			case "":
			case "-":
				path = filepath.Join(dir, "missing.yaml")
			default:
				path = filepath.Join(dir, "acekit.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o644))
			}

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
