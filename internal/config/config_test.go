package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bear/reaper/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".reaper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultUsername, cfg.Username)
	assert.Equal(t, DefaultFilterBase, cfg.FilterBase)
	assert.NotEmpty(t, cfg.Kittens)
	assert.NotEmpty(t, cfg.InventoryURL)
	assert.NotEmpty(t, cfg.CacheFile)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
kittens: /var/tmp/kittens.txt
workers: 8
filter: talos
force: true
username: buildduty
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/tmp/kittens.txt", cfg.Kittens)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "talos", cfg.Filter)
	assert.True(t, cfg.Force)
	assert.Equal(t, "buildduty", cfg.Username)
	// Unset keys fall back to defaults
	assert.Equal(t, DefaultFilterBase, cfg.FilterBase)
	assert.Equal(t, DefaultInventoryURL, cfg.InventoryURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "kittens: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicit(t *testing.T) {
	path := writeConfig(t, "workers: 2")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty kittens", func(c *Config) { c.Kittens = "" }, true},
		{"empty inventory", func(c *Config) { c.InventoryURL = "" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"negative workers", func(c *Config) { c.Workers = -2 }, true},
		{"bad filter regex", func(c *Config) { c.Filter = "[unclosed" }, true},
		{"good filter regex", func(c *Config) { c.Filter = "talos-.*" }, false},
		{"empty filter base falls back", func(c *Config) { c.Filter = "x"; c.FilterBase = "" }, false},
		{"empty username", func(c *Config) { c.Username = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
