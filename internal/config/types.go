// Package config defines the reaper's flat configuration surface and loads
// it from YAML with viper. Command-line flags override file values; the core
// never branches on where a setting came from.
package config

import (
	"os"
	"path/filepath"
)

// Config is the full configuration surface.
type Config struct {
	// Kittens is the candidate source: an http(s) URL or a local file path
	// yielding newline-delimited "<host>[,<flag>]" entries.
	Kittens string `yaml:"kittens" mapstructure:"kittens"`
	// InventoryURL is the inventory API base URL.
	InventoryURL string `yaml:"inventory_url" mapstructure:"inventory_url"`
	// Filter is an optional regex applied to candidate identifiers.
	Filter string `yaml:"filter" mapstructure:"filter"`
	// FilterBase is the template the filter is inserted into.
	FilterBase string `yaml:"filter_base" mapstructure:"filter_base"`
	// Class is an optional substring pre-filter applied before Filter.
	Class string `yaml:"class" mapstructure:"class"`
	// Workers is the number of parallel workers.
	Workers int `yaml:"workers" mapstructure:"workers"`
	// DryRun lists what would be done without touching any host.
	DryRun bool `yaml:"dry_run" mapstructure:"dry_run"`
	// Force processes hosts even when they are in the seen cache.
	Force bool `yaml:"force" mapstructure:"force"`
	// Username is the SSH login for the build hosts.
	Username string `yaml:"username" mapstructure:"username"`
	// Password enables SSH password auth; empty means agent/key auth only.
	Password string `yaml:"password" mapstructure:"password"`
	// CacheFile is where the seen cache is persisted.
	CacheFile string `yaml:"cache_file" mapstructure:"cache_file"`
	// SlaveDir is the buildslave directory on the hosts.
	SlaveDir string `yaml:"slave_dir" mapstructure:"slave_dir"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug" mapstructure:"debug"`
	// Progress enables the live terminal progress view.
	Progress bool `yaml:"progress" mapstructure:"progress"`
}

// Default values for the configuration surface.
const (
	DefaultKittens      = "http://build.mozilla.org/builds/slaves_needing_reboot.txt"
	DefaultInventoryURL = "http://slavealloc.build.mozilla.org/api"
	DefaultFilterBase   = "^%s"
	DefaultWorkers      = 4
	DefaultUsername     = "cltbld"
	DefaultSlaveDir     = "/builds/slave"
)

// DefaultConfig returns a Config with documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Kittens:      DefaultKittens,
		InventoryURL: DefaultInventoryURL,
		FilterBase:   DefaultFilterBase,
		Workers:      DefaultWorkers,
		Username:     DefaultUsername,
		SlaveDir:     DefaultSlaveDir,
		CacheFile:    DefaultCacheFile(),
	}
}

// DefaultCacheFile returns the default seen cache location,
// ~/.config/reaper/seen.dat, falling back to the working directory when the
// home directory can't be determined.
func DefaultCacheFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "reaper_seen.dat"
	}
	return filepath.Join(home, GlobalConfigDir, "seen.dat")
}
