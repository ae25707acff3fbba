// Package token implements the Token and Packet types from spec.md §3:
// the atomic unit the pipeline operates on, and the sum type operators
// pass between each other as they process one.
package token

import "github.com/tokloom/tokloom/regexadapter"

// Token is a byte sequence owning its buffer, plus an optional
// sub-range ("field") used as the comparison/hash key when a field
// pattern is configured. It is created by the match engine or
// synthesized by an operator, mutated only by operators in its own
// pipeline slot, and discarded once written to output or dropped by a
// filter.
type Token struct {
	Buffer []byte
	// Field, when set, is [start,end) into Buffer and always lies within
	// it (spec.md §3 invariant). A nil Field means the whole buffer is
	// the comparison key.
	Field *[2]int
}

// New wraps an owned buffer as a Token with no field restriction.
func New(buf []byte) *Token { return &Token{Buffer: buf} }

// Key returns the bytes operators should compare, sort, or hash on:
// the field sub-range if one is set, otherwise the whole buffer.
func (t *Token) Key() []byte {
	if t.Field == nil {
		return t.Buffer
	}
	return t.Buffer[t.Field[0]:t.Field[1]]
}

// SetField runs fieldPattern against the token's buffer and records the
// first match as the field sub-range. A nil fieldPattern clears any
// restriction (the whole buffer becomes the key again). No match
// yields an empty field at the start of the buffer, matching
// original_source/src/token.hpp's set_field behavior for a pattern
// that fails to match.
func (t *Token) SetField(fieldPattern *regexadapter.Code) {
	if fieldPattern == nil {
		t.Field = nil
		return
	}
	m, status, err := fieldPattern.MatchAt(t.Buffer, 0, len(t.Buffer), false)
	if err != nil || status != regexadapter.Matched {
		t.Field = &[2]int{0, 0}
		return
	}
	t.Field = &[2]int{m.Begin, m.End}
}
