// Package operator implements the Operation sum type from spec.md §3/§4.6:
// the per-token transformations a pipeline driver applies in declaration
// order (RmOrFilter, Substitute, Replace, Index, InLimit, TuiSelect).
//
// Grounded on original_source/src/pipeline/unit/*.hpp, which render the
// same operations as a chain-of-responsibility of PipelineUnit
// subclasses, each owning a "next" link. This rendition instead follows
// spec.md §4.6's simpler per-token loop: the pipeline driver owns an
// ordered []Operation slice and calls Apply on each in turn, rather than
// each operator owning a pointer to the next one. The semantics (what
// each operation does to a token) are unchanged; only the wiring differs
// the way an idiomatic Go driver-loop differs from a C++ intrusive chain.
package operator

import "github.com/tokloom/tokloom/internal/token"

// Result is what an Operation says should happen to the token event
// being processed: keep going, drop it, or stop the whole pipeline.
type Result int

const (
	Allow Result = iota
	Remove
	Done
)

// Operation is the per-token transformation capability every Operation
// variant implements. Apply receives the current packet and returns the
// (possibly replaced) packet plus a Result telling the driver what to do
// next.
type Operation interface {
	Apply(pkt token.Packet) (token.Packet, Result, error)
}
