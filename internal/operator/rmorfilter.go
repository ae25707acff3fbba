package operator

import (
	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/regexadapter"
)

// Kind selects whether RmOrFilter drops matching or non-matching tokens.
type Kind int

const (
	RemoveKind Kind = iota
	FilterKind
)

// RmOrFilter drops tokens that do (Remove) or do not (Filter) match its
// pattern, rendering original_source/src/pipeline/unit/rm_or_filter.hpp's
// RmOrFilterUnit as a single Operation instead of a chain link: a match
// under Remove, or a non-match under Filter, drops the token; the
// opposite sends it onward.
type RmOrFilter struct {
	Kind    Kind
	Pattern *regexadapter.Code
}

func (op *RmOrFilter) Apply(pkt token.Packet) (token.Packet, Result, error) {
	b := token.Bytes(pkt)
	_, status, err := op.Pattern.MatchAt(b, 0, len(b), false)
	if err != nil {
		return pkt, Remove, err
	}
	matched := status == regexadapter.Matched

	switch op.Kind {
	case RemoveKind:
		if matched {
			return pkt, Remove, nil
		}
	case FilterKind:
		if !matched {
			return pkt, Remove, nil
		}
	}
	return pkt, Allow, nil
}
