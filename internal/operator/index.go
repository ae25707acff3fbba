package operator

import (
	"strconv"

	"github.com/tokloom/tokloom/internal/token"
)

// Align selects whether Index prepends or appends the counter.
type Align int

const (
	Before Align = iota
	After
)

// Index prepends or appends an ascii decimal input index and a space,
// the Go rendition of
// original_source/src/pipeline/unit/index.hpp's IndexUnit::apply. The
// original hand-writes digits into a pre-sized buffer to avoid an extra
// allocation; strconv.Itoa plus a single append is the idiomatic Go
// substitute for that micro-optimization and carries no third-party
// dependency, since formatting a base-10 integer is squarely a standard
// library concern, not a domain one.
type Index struct {
	Align   Align
	Counter uint64
}

func (op *Index) Apply(pkt token.Packet) (token.Packet, Result, error) {
	b := token.Bytes(pkt)
	n := strconv.FormatUint(op.Counter, 10)
	op.Counter++

	var out []byte
	switch op.Align {
	case Before:
		out = make([]byte, 0, len(n)+1+len(b))
		out = append(out, n...)
		out = append(out, ' ')
		out = append(out, b...)
	default: // After
		out = make([]byte, 0, len(b)+1+len(n))
		out = append(out, b...)
		out = append(out, ' ')
		out = append(out, n...)
	}
	return token.Owned{Tok: token.New(out)}, Allow, nil
}
