// Package outstream implements the output-side invariants from
// spec.md §4.7: the between-token and end-of-batch delimiter policy, and
// an optional queue for when the output destination is the same
// terminal hosting the TUI.
//
// Grounded on original_source/src/pipeline/unit/token_output_stream.hpp's
// TokenOutputStream, rendered with Go's io.Writer instead of a raw FILE*.
package outstream

import "io"

// Stream writes tokens to an underlying io.Writer, inserting
// OutDelimiter between consecutive tokens and (unless suppressed)
// BatchDelimiter once at the end.
type Stream struct {
	W               io.Writer
	OutDelimiter    []byte
	BatchDelimiter  []byte
	Sed             bool // sed mode suppresses inter-token delimiters and the trailing batch delimiter
	DelimitNotAtEnd bool // suppress the trailing batch delimiter
	DelimitOnEmpty  bool // force a trailing batch delimiter even if nothing was written

	delimitRequired bool
	hasWritten      bool
	err             error
}

// WriteToken writes one complete token, preceded by an inter-token
// delimiter if this is not the first write.
func (s *Stream) WriteToken(b []byte) error {
	if s.err != nil {
		return s.err
	}
	if s.delimitRequired && !s.Sed {
		if _, err := s.W.Write(s.OutDelimiter); err != nil {
			s.err = err
			return err
		}
	}
	s.delimitRequired = true
	s.hasWritten = true
	if _, err := s.W.Write(b); err != nil {
		s.err = err
		return err
	}
	return nil
}

// WriteFragment writes b exactly as WriteToken does, inter-token
// delimiter included. Nothing in this module calls it: the match engine
// collects spilled fragments in its own fragment buffer and emits each
// token whole.
func (s *Stream) WriteFragment(b []byte) error {
	return s.WriteToken(b)
}

// Finish writes the trailing batch delimiter per spec.md §4.7's policy
// and must be called exactly once, after all tokens have been written.
func (s *Stream) Finish() error {
	if s.err != nil {
		return s.err
	}
	if !s.DelimitNotAtEnd && (s.hasWritten || s.DelimitOnEmpty) && !s.Sed {
		if _, err := s.W.Write(s.BatchDelimiter); err != nil {
			s.err = err
			return err
		}
	}
	s.delimitRequired = false
	s.hasWritten = false
	return nil
}
