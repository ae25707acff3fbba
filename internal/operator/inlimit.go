package operator

import "github.com/tokloom/tokloom/internal/token"

// InLimit renders head/tail/window truncation as a single counting
// Operation (spec.md §3's `InLimit{consumed, low?, high}`), unifying
// original_source/src/pipeline/unit/head.hpp's HeadUnit (counts down to
// zero, then terminates) and tail.hpp's TailUnit (keeps a trailing
// deque) into one bump-and-compare primitive: everything below Low is
// dropped, everything at or above High ends the pipeline, and the
// window between is allowed through. Low defaults to 0 (head-only);
// High defaults to unbounded is expressed by the caller using the
// largest representable count, since the pipeline driver is what
// actually implements tail's "keep the last N" behavior via its
// bounded-memory sort/tail path (spec.md §4.6) — InLimit only ever
// expresses a prefix/suffix-of-the-index window, not reordering.
type InLimit struct {
	Consumed uint64
	Low      uint64
	High     uint64
}

func (op *InLimit) Apply(pkt token.Packet) (token.Packet, Result, error) {
	consumed := op.Consumed
	op.Consumed++

	switch {
	case consumed < op.Low:
		return pkt, Remove, nil
	case consumed < op.High:
		return pkt, Allow, nil
	default:
		return pkt, Done, nil
	}
}
