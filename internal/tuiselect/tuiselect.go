// Package tuiselect defines the TUI data contract from spec.md §6: the
// vector of owned tokens and optional initial-selection index the core
// hands to the (out-of-scope) interactive selector, and the selection
// the selector hands back. No rendering lives here — cursor movement,
// scrolling, and the selection list belong to the external TUI shell.
package tuiselect

import "github.com/tokloom/tokloom/internal/token"

// Selection is what the core produces for the TUI to render: every
// stored token, plus which one (if any) TuiSelect marked as the initial
// cursor position, and whether the TUI should allow picking more than
// one token.
type Selection struct {
	Tokens       []*token.Token
	InitialIndex int // -1 if no token matched a TuiSelect pattern
	Multiple     bool
}

// Result is what the external TUI shell hands back after the user has
// made a choice: the indices of the tokens selected, in the order they
// were picked (spec.md §6's "selection_order" option governs whether
// the core then re-sorts this list index-ascending before output).
type Result struct {
	SelectedIndices []int
}
