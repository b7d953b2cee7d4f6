package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bear/reaper/internal/reap"
)

// Bridge forwards dispatcher events to the Bubble Tea program via
// program.Send(), which is goroutine-safe. It satisfies reap.Events.
type Bridge struct {
	program *tea.Program
}

// NewBridge creates a bridge bound to the given program.
func NewBridge(program *tea.Program) *Bridge {
	return &Bridge{program: program}
}

// HostStarted forwards worker pickup to the TUI.
func (b *Bridge) HostStarted(host string) {
	b.program.Send(hostStartedMsg{Host: host})
}

// HostCompleted forwards a terminal host outcome to the TUI.
func (b *Bridge) HostCompleted(result reap.HostResult) {
	b.program.Send(hostCompletedMsg{
		Host:     result.Host,
		Outcome:  result.Outcome,
		Duration: result.Duration,
	})
}

// RunDone forwards run completion; the TUI quits on receipt.
func (b *Bridge) RunDone(result *reap.Result) {
	b.program.Send(runDoneMsg{
		Rebooted: result.Rebooted,
		Skipped:  result.Skipped,
		Duration: result.Duration,
	})
}
