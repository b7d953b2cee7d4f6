package ui

// Unicode symbols for per-host status indicators.
const (
	SymbolRebooted = "✓" // Reboot issued
	SymbolSkipped  = "⊘" // Processed but no reboot
	SymbolFailed   = "✗" // Unreachable or remote failure
	SymbolPending  = "○" // Not yet started
	SymbolActive   = "◐" // In progress
)
