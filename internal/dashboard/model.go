package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bear/reaper/internal/reap"
	"github.com/bear/reaper/internal/ui"
)

// hostStatus tracks where a host is in its run.
type hostStatus int

const (
	statusPending hostStatus = iota
	statusActive
	statusDone
)

// hostEntry holds the display state of a single host.
type hostEntry struct {
	name     string
	status   hostStatus
	outcome  reap.Outcome
	duration time.Duration
}

// Model is the Bubble Tea model for the live progress view.
type Model struct {
	hosts    []hostEntry
	spinner  spinner.Model
	width    int
	done     bool
	rebooted int
	skipped  int
	total    time.Duration
	quitting bool
}

var (
	activeStyle   = lipgloss.NewStyle().Foreground(ui.ColorInfo)
	rebootedStyle = lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	skippedStyle  = lipgloss.NewStyle().Foreground(ui.ColorWarning)
	failedStyle   = lipgloss.NewStyle().Foreground(ui.ColorError)
	mutedStyle    = lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle   = lipgloss.NewStyle().Foreground(ui.ColorSecondary).Bold(true)
)

// NewModel creates the progress model for the given host list. Duplicate
// names get one entry each, matching the dispatcher's multiset semantics.
func NewModel(hosts []string) Model {
	entries := make([]hostEntry, len(hosts))
	for i, h := range hosts {
		entries[i] = hostEntry{name: h, status: statusPending}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = activeStyle

	return Model{hosts: entries, spinner: sp}
}

// Init starts the spinner ticking.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			// The run itself keeps going; quitting only drops the view.
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case hostStartedMsg:
		for i := range m.hosts {
			if m.hosts[i].name == msg.Host && m.hosts[i].status == statusPending {
				m.hosts[i].status = statusActive
				break
			}
		}
		return m, nil

	case hostCompletedMsg:
		for i := range m.hosts {
			if m.hosts[i].name == msg.Host && m.hosts[i].status == statusActive {
				m.hosts[i].status = statusDone
				m.hosts[i].outcome = msg.Outcome
				m.hosts[i].duration = msg.Duration
				break
			}
		}
		return m, nil

	case runDoneMsg:
		m.done = true
		m.rebooted = msg.Rebooted
		m.skipped = msg.Skipped
		m.total = msg.Duration
		return m, tea.Quit
	}

	return m, nil
}

// View renders one line per host plus a footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Reaping hosts"))
	b.WriteString("\n\n")

	for _, h := range m.hosts {
		b.WriteString("  ")
		b.WriteString(m.renderHost(h))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(fmt.Sprintf("  %d rebooted, %d skipped in %s\n",
			m.rebooted, m.skipped, m.total.Round(10*time.Millisecond)))
	} else {
		b.WriteString(mutedStyle.Render("  q to drop to plain logs"))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderHost(h hostEntry) string {
	switch h.status {
	case statusActive:
		return fmt.Sprintf("%s %s", m.spinner.View(), h.name)
	case statusDone:
		var symbol, note string
		switch h.outcome {
		case reap.OutcomeRebooted:
			symbol = rebootedStyle.Render(ui.SymbolRebooted)
		case reap.OutcomeUnreachable:
			symbol = failedStyle.Render(ui.SymbolFailed)
			note = mutedStyle.Render(" " + string(h.outcome))
		default:
			symbol = skippedStyle.Render(ui.SymbolSkipped)
			note = mutedStyle.Render(" " + string(h.outcome))
		}
		return fmt.Sprintf("%s %s%s", symbol, h.name, note)
	default:
		return fmt.Sprintf("%s %s", mutedStyle.Render(ui.SymbolPending), h.name)
	}
}
