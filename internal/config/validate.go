package config

import (
	"fmt"
	"regexp"

	"github.com/bear/reaper/internal/errors"
)

// Validate checks the configuration for problems that would fail the run
// after work had already started.
func (c *Config) Validate() error {
	if c.Kittens == "" {
		return errors.New(errors.ErrConfig,
			"No candidate source configured",
			"Set 'kittens' to a URL or file path, or pass --kittens")
	}

	if c.InventoryURL == "" {
		return errors.New(errors.ErrConfig,
			"No inventory URL configured",
			"Set 'inventory_url' to the inventory API base URL")
	}

	if c.Workers < 1 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Worker count must be at least 1, got %d", c.Workers),
			"Set 'workers' to a positive number")
	}

	if c.Filter != "" {
		base := c.FilterBase
		if base == "" {
			base = DefaultFilterBase
		}
		if _, err := regexp.Compile(fmt.Sprintf(base, c.Filter)); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Filter %q isn't a valid regex", c.Filter),
				"Check the 'filter' and 'filter_base' settings")
		}
	}

	if c.Username == "" {
		return errors.New(errors.ErrConfig,
			"No SSH username configured",
			"Set 'username' or leave it unset for the default")
	}

	return nil
}
