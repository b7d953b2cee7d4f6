package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/bear/reaper/internal/cache"
	"github.com/bear/reaper/internal/candidate"
	"github.com/bear/reaper/internal/dashboard"
	"github.com/bear/reaper/internal/inventory"
	"github.com/bear/reaper/internal/logger"
	"github.com/bear/reaper/internal/reap"
	"github.com/bear/reaper/internal/remote"
)

// reapCommand is the main workflow: fetch, filter, dispatch, persist.
func reapCommand(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var log logger.Logger
	if cfg.Debug {
		log = logger.NewDebugLogger("[reaper]")
	} else {
		log = logger.NewEnvLogger("[reaper]")
	}

	log.Info("starting")

	log.Info("retrieving inventory")
	hosts, err := inventory.NewClient(cfg.InventoryURL).Slaves()
	if err != nil {
		return err
	}

	seen, err := cache.Load(cfg.CacheFile, time.Now())
	if err != nil {
		return err
	}

	log.Info("retrieving list of hosts to wrangle")
	lines, err := candidate.Fetch(cfg.Kittens)
	if err != nil {
		return err
	}

	pattern, err := candidate.CompilePattern(cfg.Filter, cfg.FilterBase)
	if err != nil {
		return err
	}

	eligible := candidate.Filter(lines, hosts, seen, candidate.FilterOptions{
		Pattern: pattern,
		Class:   cfg.Class,
		Force:   cfg.Force,
	}, log)
	log.Info("%d of %d candidates eligible", len(eligible), len(lines))

	connector := &remote.SSHConnector{
		User:     cfg.Username,
		Password: cfg.Password,
		SlaveDir: cfg.SlaveDir,
		Log:      log,
	}
	machine := reap.NewMachine(connector, cfg.DryRun, log)
	dispatcher := reap.NewDispatcher(machine, cfg.Workers, log)

	var result *reap.Result
	if cfg.Progress {
		result, err = dashboard.Run(dispatcher, eligible, seen)
		if err != nil {
			log.Warn("progress view failed: %v", err)
		}
	} else {
		result = dispatcher.Run(eligible, seen)
	}

	// The cache is written even when nothing was processed, so stale
	// entries pruned at load time disappear from disk.
	if err := saveCache(seen, cfg.CacheFile); err != nil {
		return err
	}

	reap.RenderSummary(result)
	log.Info("finished")
	return nil
}

// saveCache persists the seen cache, creating the parent directory on first
// run.
func saveCache(seen *cache.SeenCache, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return seen.Save(path)
}
