// Package dashboard provides a Bubble Tea live view of the reap run: one
// line per host with pending/active/terminal status, updating as workers
// report in. It falls back to the plain dispatcher when stdout is not a TTY.
package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bear/reaper/internal/cache"
	"github.com/bear/reaper/internal/reap"
	"github.com/bear/reaper/internal/ui"
)

// Run executes the dispatcher with a live progress view. The dispatcher runs
// in a background goroutine while the TUI owns the terminal. There is no
// run-wide cancellation: quitting the view only drops back to waiting for
// the run to finish.
func Run(d *reap.Dispatcher, hosts []string, seen *cache.SeenCache) (*reap.Result, error) {
	if !ui.IsTerminal() {
		return d.Run(hosts, seen), nil
	}

	program := tea.NewProgram(NewModel(hosts))
	bridge := NewBridge(program)
	d.SetEvents(bridge)

	resultChan := make(chan *reap.Result, 1)
	go func() {
		result := d.Run(hosts, seen)
		resultChan <- result
		bridge.RunDone(result)
	}()

	if _, err := program.Run(); err != nil {
		// The view failed; the run is still the deliverable.
		return <-resultChan, err
	}

	return <-resultChan, nil
}
