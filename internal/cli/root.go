// Package cli wires the reaper's cobra command tree: the default reap
// workflow, init, and version.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bear/reaper/internal/config"
)

// Persistent flags shared by the root command.
var (
	configFlag    string
	kittensFlag   string
	filterFlag    string
	filterBase    string
	classFlag     string
	workersFlag   int
	dryRunFlag    bool
	forceFlag     bool
	usernameFlag  string
	passwordFlag  string
	cacheFileFlag string
	debugFlag     bool
	progressFlag  bool
)

// rootCmd is the base command; running it performs the reap workflow.
var rootCmd = &cobra.Command{
	Use:   "reaper",
	Short: "Reboot build-farm hosts that need it",
	Long: `Reaper fetches the list of build hosts flagged for reboot, filters out
hosts that are disabled, annotated, or recently handled, and drives each
remaining host through a graceful-shutdown-then-reboot sequence over SSH
with a pool of parallel workers.

Examples:
  reaper
  reaper --dryrun
  reaper --filter talos --workers 8
  reaper --kittens ./hosts.txt --force`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reapCommand(cmd)
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configFlag, "config", "c", "", "config file path")
	f.StringVarP(&kittensFlag, "kittens", "k", "", "URL or file to use as the candidate source")
	f.StringVarP(&filterFlag, "filter", "f", "", "regex filter applied to candidate names")
	f.StringVar(&filterBase, "filterbase", "", "template the filter is inserted into (default \"^%s\")")
	f.StringVar(&classFlag, "class", "", "class of host to reboot, applied before --filter")
	f.IntVarP(&workersFlag, "workers", "w", 0, "how many parallel workers to run")
	f.BoolVar(&dryRunFlag, "dryrun", false, "list what would be done without touching any host")
	f.BoolVar(&forceFlag, "force", false, "process hosts even if they are in the seen cache")
	f.StringVarP(&usernameFlag, "username", "u", "", "ssh username")
	f.StringVarP(&passwordFlag, "password", "p", "", "ssh password (agent/key auth is tried first)")
	f.StringVar(&cacheFileFlag, "cachefile", "", "seen cache file path")
	f.BoolVarP(&debugFlag, "debug", "d", false, "enable debug logging")
	f.BoolVar(&progressFlag, "progress", false, "show a live progress view instead of plain logs")
}

// loadConfig resolves the effective configuration: file values layered over
// defaults, then command-line flags over both.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, cmd)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags overrides config values with any flag the user actually set.
func applyFlags(cfg *config.Config, cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("kittens") {
		cfg.Kittens = kittensFlag
	}
	if flags.Changed("filter") {
		cfg.Filter = filterFlag
	}
	if flags.Changed("filterbase") {
		cfg.FilterBase = filterBase
	}
	if flags.Changed("class") {
		cfg.Class = classFlag
	}
	if flags.Changed("workers") {
		cfg.Workers = workersFlag
	}
	if flags.Changed("dryrun") {
		cfg.DryRun = dryRunFlag
	}
	if flags.Changed("force") {
		cfg.Force = forceFlag
	}
	if flags.Changed("username") {
		cfg.Username = usernameFlag
	}
	if flags.Changed("password") {
		cfg.Password = passwordFlag
	}
	if flags.Changed("cachefile") {
		cfg.CacheFile = cacheFileFlag
	}
	if flags.Changed("debug") {
		cfg.Debug = debugFlag
	}
	if flags.Changed("progress") {
		cfg.Progress = progressFlag
	}
}

// Execute runs the command tree. Fatal startup errors exit non-zero;
// per-host failures never do.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
