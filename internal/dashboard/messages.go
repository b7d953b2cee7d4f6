package dashboard

import (
	"time"

	"github.com/bear/reaper/internal/reap"
)

// hostStartedMsg signals a worker picked up a host.
type hostStartedMsg struct {
	Host string
}

// hostCompletedMsg signals a host reached a terminal outcome.
type hostCompletedMsg struct {
	Host     string
	Outcome  reap.Outcome
	Duration time.Duration
}

// runDoneMsg signals the dispatcher finished the whole run.
type runDoneMsg struct {
	Rebooted int
	Skipped  int
	Duration time.Duration
}
