package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/bear/reaper/internal/errors"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".reaper.yaml"
	// GlobalConfigDir is the directory under $HOME for global config.
	GlobalConfigDir = ".config/reaper"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path, layered over the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'reaper init' to create one, or specify a path with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Config file has the wrong shape",
			"Compare your file against 'reaper init' output")
	}
	return &cfg, nil
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .reaper.yaml in the current directory
// 3. ~/.config/reaper/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, ConfigFileName)
		if _, err := os.Stat(local); err == nil {
			return local, nil
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults when
// no config file exists anywhere in the search order.
func LoadOrDefault(explicit string) (*Config, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kittens", DefaultKittens)
	v.SetDefault("inventory_url", DefaultInventoryURL)
	v.SetDefault("filter_base", DefaultFilterBase)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("username", DefaultUsername)
	v.SetDefault("slave_dir", DefaultSlaveDir)
	v.SetDefault("cache_file", DefaultCacheFile())
}
