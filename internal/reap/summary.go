package reap

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bear/reaper/internal/ui"
)

// RenderSummary prints a formatted summary of the run to stdout.
func RenderSummary(result *Result) {
	RenderSummaryTo(os.Stdout, result)
}

// RenderSummaryTo prints a formatted summary to the specified writer:
// aggregate counts, then one line per host that did not get a reboot, so the
// operator can see at a glance what needs manual attention.
func RenderSummaryTo(w io.Writer, result *Result) {
	if result == nil {
		return
	}

	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Foreground(ui.ColorSecondary).Bold(true)

	divider := mutedStyle.Render(strings.Repeat("─", 60))

	fmt.Fprintln(w)
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, headerStyle.Render("Reap summary"))

	fmt.Fprintf(w, "  %s  %d rebooted\n",
		successStyle.Render(ui.SymbolRebooted), result.Rebooted)
	fmt.Fprintf(w, "  %s  %d skipped\n",
		warnStyle.Render(ui.SymbolSkipped), result.Skipped)
	fmt.Fprintf(w, "  %s\n",
		mutedStyle.Render(fmt.Sprintf("%d hosts in %s", result.Submitted, result.Duration.Round(10*time.Millisecond))))

	skipped := false
	for _, r := range result.HostResults {
		if r.Rebooted() {
			continue
		}
		if !skipped {
			fmt.Fprintln(w, divider)
			skipped = true
		}
		symbol := warnStyle.Render(ui.SymbolSkipped)
		if r.Outcome == OutcomeUnreachable {
			symbol = errorStyle.Render(ui.SymbolFailed)
		}
		fmt.Fprintf(w, "  %s %s: %s%s\n", symbol, r.Host, r.Outcome, bugSuffix(r))
	}

	fmt.Fprintln(w, divider)
}

func bugSuffix(r HostResult) string {
	if r.Bug == "" {
		return ""
	}
	return " (bug " + r.Bug + ")"
}
