// Package reap contains the core of the reaper: the per-host reboot state
// machine and the worker-pool dispatcher that runs it in parallel.
package reap

import (
	"time"
)

// Outcome is the terminal state a host's reboot procedure ended in.
// Every outcome counts as "processed"; only Rebooted means a reboot was
// actually issued.
type Outcome string

const (
	// OutcomeRebooted means the hard reboot command was issued.
	OutcomeRebooted Outcome = "rebooted"
	// OutcomeDryRun means the host was listed but no remote action taken.
	OutcomeDryRun Outcome = "dry-run"
	// OutcomeUnreachable means the control session couldn't be established
	// or a remote call failed mid-sequence.
	OutcomeUnreachable Outcome = "unreachable"
	// OutcomeDisabledByBug means the host is deliberately disabled by a
	// tracked bug; no reboot.
	OutcomeDisabledByBug Outcome = "disabled-by-bug"
	// OutcomeNoTacFile means no service marker file was found; no reboot.
	OutcomeNoTacFile Outcome = "no-tac-file"
	// OutcomeShutdownRefused means the host rejected the graceful shutdown
	// request.
	OutcomeShutdownRefused Outcome = "shutdown-refused"
	// OutcomeShutdownTimeout means the service never finished shutting
	// down within the poll limit.
	OutcomeShutdownTimeout Outcome = "shutdown-timeout"
)

// HostResult is the terminal record for one host's run through the state
// machine.
type HostResult struct {
	Host      string
	Outcome   Outcome
	Bug       string // Bug number when Outcome is OutcomeDisabledByBug
	Err       error  // Underlying error for unreachable-style outcomes
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Rebooted returns true if a reboot was actually issued for this host.
func (r *HostResult) Rebooted() bool {
	return r.Outcome == OutcomeRebooted
}

// Result holds the aggregate outcome of one dispatcher run.
type Result struct {
	HostResults []HostResult
	Duration    time.Duration // Total wall-clock time
	Submitted   int           // Hosts enqueued
	Rebooted    int           // Hosts that got a reboot command
	Skipped     int           // Hosts that terminated without a reboot
}

// Events receives progress notifications from the dispatcher. Implementations
// must be safe for concurrent use; workers call HostStarted/HostCompleted
// from their own goroutines.
type Events interface {
	HostStarted(host string)
	HostCompleted(result HostResult)
}

// noopEvents discards all notifications.
type noopEvents struct{}

func (noopEvents) HostStarted(string)       {}
func (noopEvents) HostCompleted(HostResult) {}
