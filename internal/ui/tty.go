package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is attached to a terminal. The live
// progress view falls back to plain log output when it isn't.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
