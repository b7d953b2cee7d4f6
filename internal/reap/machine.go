package reap

import (
	"regexp"
	"strings"
	"time"

	"github.com/bear/reaper/internal/logger"
	"github.com/bear/reaper/internal/remote"
)

const (
	// shutdownPollLimit is how many times the machine checks the service
	// log before giving up on a graceful shutdown.
	shutdownPollLimit = 30
	// shutdownPollInterval is the sleep between shutdown checks.
	shutdownPollInterval = 5 * time.Second

	// tacFile is the marker for a standard, active service configuration.
	tacFile = "buildbot.tac"

	// disconnectedMarker in the log tail means the service already
	// detached from its master; no graceful shutdown is needed.
	disconnectedMarker = "Stopping factory"
)

// shutdownDoneMarkers in the log tail mean the service has stopped.
var shutdownDoneMarkers = []string{
	"Main loop terminated",
	"ProcessExitedAlready",
}

// disabledTacPattern matches marker files of hosts deliberately disabled by
// a tracked bug, e.g. "buildbot.tac.bug123456".
var disabledTacPattern = regexp.MustCompile(`^buildbot\.tac\.bug(\d+)$`)

// tegraMarker in a host name identifies the device class that reboots
// unconditionally, skipping the idle wait and service inspection.
const tegraMarker = "tegra"

// Machine is the per-host reboot decision procedure. One Machine is shared
// by all workers; it holds no per-host state.
type Machine struct {
	connector remote.Connector
	log       logger.Logger
	dryRun    bool
	sleep     func(time.Duration)
	pollLimit int
}

// NewMachine creates the state machine. In dry-run mode all remote
// interaction is skipped.
func NewMachine(connector remote.Connector, dryRun bool, log logger.Logger) *Machine {
	if log == nil {
		log = logger.Noop()
	}
	return &Machine{
		connector: connector,
		log:       log,
		dryRun:    dryRun,
		sleep:     time.Sleep,
		pollLimit: shutdownPollLimit,
	}
}

// Check runs one host through the reboot procedure and returns its terminal
// outcome. Every return path is a valid completion; the dispatcher treats
// them all as "processed".
func (m *Machine) Check(host string) HostResult {
	result := HostResult{Host: host, StartTime: time.Now()}
	defer func() {
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(result.StartTime)
	}()

	m.log.Info("checking host %s", host)

	if m.dryRun {
		m.log.Info("%s: dry run, no action taken", host)
		result.Outcome = OutcomeDryRun
		return result
	}

	slave, err := m.connector.Connect(host)
	if err != nil {
		m.log.Warn("%s: unreachable: %v", host, err)
		result.Outcome = OutcomeUnreachable
		result.Err = err
		return result
	}
	defer slave.Close()

	// Tegra-class devices can't be inspected; reboot them outright.
	if strings.Contains(host, tegraMarker) {
		result.Outcome = m.reboot(slave, host, &result)
		return result
	}

	if err := slave.WaitIdle(); err != nil {
		m.log.Warn("%s: idle wait failed: %v", host, err)
		result.Outcome = OutcomeUnreachable
		result.Err = err
		return result
	}

	tacs, err := slave.FindTacFiles()
	if err != nil {
		m.log.Warn("%s: couldn't list tac files: %v", host, err)
		result.Outcome = OutcomeUnreachable
		result.Err = err
		return result
	}

	if !containsString(tacs, tacFile) {
		m.log.Info("%s: found these tac files: %v", host, tacs)
		for _, tac := range tacs {
			if match := disabledTacPattern.FindStringSubmatch(tac); match != nil {
				m.log.Info("%s: disabled by bug %s", host, match[1])
				result.Outcome = OutcomeDisabledByBug
				result.Bug = match[1]
				return result
			}
		}
		m.log.Info("%s: didn't find %s", host, tacFile)
		result.Outcome = OutcomeNoTacFile
		return result
	}

	tail, err := slave.TailServiceLog(10)
	if err != nil {
		m.log.Warn("%s: couldn't read service log: %v", host, err)
		result.Outcome = OutcomeUnreachable
		result.Err = err
		return result
	}
	if strings.Contains(tail, disconnectedMarker) {
		m.log.Info("%s: looks like the slave isn't connected; rebooting", host)
		result.Outcome = m.reboot(slave, host, &result)
		return result
	}

	ok, err := slave.GracefulShutdown()
	if err != nil {
		m.log.Warn("%s: graceful shutdown request failed: %v", host, err)
		result.Outcome = OutcomeUnreachable
		result.Err = err
		return result
	}
	if !ok {
		m.log.Info("%s: graceful shutdown refused; aborting", host)
		result.Outcome = OutcomeShutdownRefused
		return result
	}

	m.log.Info("%s: waiting for shutdown", host)
	result.Outcome = m.pollShutdown(slave, host, &result)
	return result
}

// pollShutdown watches the service log until the service stops or the poll
// limit runs out. A stuck shutdown must not block the worker indefinitely.
func (m *Machine) pollShutdown(slave remote.Slave, host string, result *HostResult) Outcome {
	for i := 0; i < m.pollLimit; i++ {
		tail, err := slave.TailServiceLog(5)
		if err != nil {
			m.log.Warn("%s: couldn't read service log: %v", host, err)
			result.Err = err
			return OutcomeUnreachable
		}

		if tail == "" || containsAny(tail, shutdownDoneMarkers) {
			m.log.Info("%s: rebooting", host)
			return m.reboot(slave, host, result)
		}

		m.sleep(shutdownPollInterval)
	}

	m.log.Info("%s: took too long to shut down; giving up", host)
	if tail, err := slave.TailServiceLog(10); err == nil && tail != "" {
		m.log.Info("%s: last log lines: %s", host, tail)
	}
	return OutcomeShutdownTimeout
}

// reboot issues the hard reboot and maps the result into an outcome.
func (m *Machine) reboot(slave remote.Slave, host string, result *HostResult) Outcome {
	if err := slave.Reboot(); err != nil {
		m.log.Warn("%s: reboot command failed: %v", host, err)
		result.Err = err
		return OutcomeUnreachable
	}
	m.log.Info("%s: rebooted", host)
	return OutcomeRebooted
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
