package operator

import (
	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/regexadapter"
)

// TuiSelect is non-mutating: it marks the first token whose bytes match
// its pattern as the initial cursor position for the TUI (spec.md §3),
// then stays quiet for the remainder of the stream. The pipeline driver
// checks JustSelected immediately after calling Apply to learn whether
// the token it just stored should become the TUI's initial index —
// TuiSelect itself has no notion of "position in the stored output",
// since that is a property of the driver's storage, not of the operator.
type TuiSelect struct {
	Pattern *regexadapter.Code

	found        bool
	justSelected bool
}

func (op *TuiSelect) Apply(pkt token.Packet) (token.Packet, Result, error) {
	op.justSelected = false
	if op.found {
		return pkt, Allow, nil
	}

	b := token.Bytes(pkt)
	_, status, err := op.Pattern.MatchAt(b, 0, len(b), false)
	if err != nil {
		return pkt, Allow, err
	}
	if status == regexadapter.Matched {
		op.found = true
		op.justSelected = true
	}
	return pkt, Allow, nil
}

// JustSelected reports whether the most recent Apply call marked its
// token as the TUI's initial selection.
func (op *TuiSelect) JustSelected() bool { return op.justSelected }
