package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // check passed
	SymbolFail     = "✗" // check failed
	SymbolPending  = "○" // not yet run
	SymbolProgress = "◐" // in progress
	SymbolComplete = "●" // done, or online
	SymbolSkipped  = "⊘" // skipped
	SymbolAlert    = "▲" // needs attention
	SymbolArrow    = "→"
)
