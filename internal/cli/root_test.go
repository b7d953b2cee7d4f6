package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bear/reaper/internal/config"
)

func TestApplyFlagsOnlyOverridesChanged(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Workers = 2

	// Nothing set: config values survive untouched.
	applyFlags(cfg, rootCmd)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, config.DefaultUsername, cfg.Username)

	require.NoError(t, rootCmd.Flags().Set("workers", "8"))
	require.NoError(t, rootCmd.Flags().Set("filter", "talos"))

	applyFlags(cfg, rootCmd)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "talos", cfg.Filter)
	// Unset flags still leave config alone.
	assert.Equal(t, config.DefaultUsername, cfg.Username)
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev", formatVersion("dev"))
	assert.Equal(t, "", formatVersion(""))
	assert.Equal(t, "v1.2.3", formatVersion("1.2.3"))
	assert.Equal(t, "v1.2.3", formatVersion("v1.2.3"))
}

func TestInitWritesConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, initCommand(true))

	data, err := os.ReadFile(config.ConfigFileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kittens:")
	assert.Contains(t, string(data), "username: cltbld")

	// Existing file plus --force overwrites without prompting.
	require.NoError(t, initCommand(true))
}
