package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bear/reaper/internal/config"
	"github.com/bear/reaper/internal/errors"
	"github.com/bear/reaper/internal/ui"
)

var initForce bool

// initCmd writes a starter config file in the current directory.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a " + config.ConfigFileName + " config file",
	Long: `Write a ` + config.ConfigFileName + ` file in the current directory with the
default settings filled in, ready to edit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file without asking")
}

// initCommand creates a new config file with defaults.
func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# Reaper configuration
# Run 'reaper --dryrun' to see what would be rebooted
# Flags override any value set here

`
	content := header + string(data)

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolRebooted, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  reaper --dryrun   - list hosts that would be rebooted")
	fmt.Println("  reaper            - reboot hosts that need it")

	return nil
}
