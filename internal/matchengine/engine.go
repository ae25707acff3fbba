// Package matchengine implements the streaming match loop from
// spec.md §4.5: a fixed-size buffer that finds successive matches (or
// delimiters) in an input stream larger than memory, retaining
// lookbehind bytes and UTF-8 boundaries across buffer compactions, and
// falling back to a fragment-spill policy when a single token outgrows
// the buffer.
//
// Grounded on original_source/src/token.hpp's tokenize loop (the
// `while (1) { ... goto skip_read ... }` state machine around
// match_offset/prev_sep_end/subject_size). That loop is rendered here as
// an iterator: Next returns one Event at a time instead of invoking a
// process_token callback, the idiomatic Go shape for "pull one token
// off a stream" — the pipeline driver calls Next in a loop the same way
// the original's outer while(1) calls process_token.
package matchengine

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/tokloom/tokloom/internal/utf8util"
	"github.com/tokloom/tokloom/regexadapter"
)

// Options configures one Engine, carrying the subset of Configuration
// (spec.md §6) the match loop itself needs.
type Options struct {
	// Primary is the compiled pattern used when no single-byte fast path
	// applies. Exactly one of Primary or HasSingleByteDelim must be set.
	Primary            *regexadapter.Code
	SingleByteDelim    byte
	HasSingleByteDelim bool

	Match             bool // match-mode vs delimiter-mode
	Sed               bool // requires Match
	UseInputDelimiter bool // delimiter-mode: emit an empty final token when the input ends with a delimiter

	UTF                bool
	InvalidUTFTolerant bool
	MaxLookbehind      int

	BufSize     int
	BytesToRead int
	BufSizeFrag int

	// Flush selects raw, possibly-short-read semantics (spec.md §5's
	// unbuffered mode) over the default full-read-until-EOF semantics.
	Flush bool

	// OnFragmentDropped is invoked (at most once per run unless reset by
	// the caller) when an oversized token's fragment is discarded — the
	// BoundaryWarning of spec.md §7.
	OnFragmentDropped func()
}

// EventKind distinguishes the two things an Engine can hand back besides
// end-of-stream: a token to run through the pipeline, or (sed mode only)
// literal bytes that must be written to the output verbatim, bypassing
// the pipeline entirely.
type EventKind int

const (
	EventToken EventKind = iota
	EventSedLiteral
	EventEnd
)

// Event is one thing the match engine produced. Exactly one of View or
// Owned is non-nil for EventToken/EventSedLiteral; View aliases the
// engine's internal buffer and is only valid until the next call to
// Next, Owned is independently allocated and valid indefinitely. Match
// and Code are populated only for match-mode tokens, rebased so that
// Match.Begin/End are relative to Bytes() rather than to the engine's
// internal buffer — this lets a Replace operator reuse them directly.
type Event struct {
	Kind  EventKind
	View  []byte
	Owned []byte
	Match regexadapter.Match
	Code  *regexadapter.Code
}

// Bytes returns the event's payload regardless of whether it is a view
// or an owned copy.
func (ev Event) Bytes() []byte {
	if ev.Owned != nil {
		return ev.Owned
	}
	return ev.View
}

// Engine is a streaming match loop over one io.Reader. It is not safe
// for concurrent use — spec.md §5 is explicit that the core is
// single-threaded and synchronous.
type Engine struct {
	opts   Options
	reader io.Reader

	s           []byte
	subjectSize int
	matchOffset int
	prevSepEnd  int

	partialHard     bool
	notEmptyAtStart bool
	inputDone       bool

	fragment     []byte
	warnedDrop   bool
	pending      *Event
	finalEmitted bool
}

// New constructs an Engine reading from r. It returns a ConfigError-class
// error if the buffer is too small to ever hold a full lookbehind
// window (max_lookbehind, x4 under UTF mode). That is the only buffer
// size check made: the pattern's minimum match length is not compared
// against the buffer size, neither here nor in the config package.
func New(r io.Reader, opts Options) (*Engine, error) {
	lookbehind := opts.MaxLookbehind
	if opts.UTF {
		lookbehind *= 4
	}
	if opts.BufSize <= lookbehind {
		return nil, errors.Errorf("matchengine: buf_size %d too small for max_lookbehind %d", opts.BufSize, lookbehind)
	}
	if opts.BytesToRead <= 0 {
		opts.BytesToRead = opts.BufSize
	}
	return &Engine{
		opts:        opts,
		reader:      r,
		s:           make([]byte, opts.BufSize),
		partialHard: true,
	}, nil
}

// fill reads up to min(bytes_to_read, buf_size-subject_size) bytes into
// the tail of the buffer (spec.md §4.5 step 1).
func (e *Engine) fill() error {
	if e.inputDone {
		return nil
	}
	toRead := e.opts.BytesToRead
	if room := len(e.s) - e.subjectSize; room < toRead {
		toRead = room
	}
	if toRead == 0 {
		return nil
	}
	buf := e.s[e.subjectSize : e.subjectSize+toRead]

	var n int
	var err error
	if e.opts.Flush {
		n, err = e.reader.Read(buf)
		if n == 0 {
			e.inputDone = true
		}
	} else {
		n, err = io.ReadFull(e.reader, buf)
		if n != toRead {
			e.inputDone = true
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			err = nil
		}
	}
	e.subjectSize += n
	if e.inputDone {
		e.partialHard = false
	}
	if err != nil {
		return errors.Wrap(err, "matchengine: read")
	}
	return nil
}

// effectiveEnd computes spec.md §4.5 step 2: the boundary the matcher
// is allowed to see, which in UTF mode never splits a trailing
// multibyte character while more input is still expected.
func (e *Engine) effectiveEnd() (int, error) {
	if !e.opts.UTF || e.inputDone {
		return e.subjectSize, nil
	}
	end, ok := utf8util.LastCompletedCharacterEnd(e.s, 0, e.subjectSize)
	if !ok {
		if e.opts.InvalidUTFTolerant {
			return e.subjectSize, nil
		}
		return 0, errors.New("matchengine: invalid utf-8 input")
	}
	return end, nil
}

// search performs one match attempt from matchOffset to effEnd,
// enforcing the NOTEMPTY_ATSTART discipline spec.md §4.5 step 4
// describes: an empty match is never reported at the exact offset the
// previous iteration already consumed, since accepting it again would
// spin forever without making progress. When that happens the search is
// retried one character further in, which is always safe because an
// empty match carries no bytes that could otherwise be lost.
func (e *Engine) search(effEnd int) (regexadapter.Match, regexadapter.Status, error) {
	if e.opts.HasSingleByteDelim {
		if e.matchOffset < effEnd {
			if i := bytes.IndexByte(e.s[e.matchOffset:effEnd], e.opts.SingleByteDelim); i >= 0 {
				i += e.matchOffset
				return regexadapter.Match{Begin: i, End: i + 1}, regexadapter.Matched, nil
			}
		}
		return regexadapter.Match{}, regexadapter.NoMatch, nil
	}

	start := e.matchOffset
	for {
		m, status, err := e.opts.Primary.MatchAt(e.s, start, effEnd, !e.inputDone && e.partialHard)
		if err != nil {
			return regexadapter.Match{}, regexadapter.NoMatch, err
		}
		if status == regexadapter.Matched && e.notEmptyAtStart && m.Begin == e.matchOffset && m.Begin == m.End {
			n, ok := utf8util.Length(byteAt(e.s, start))
			if !ok || !e.opts.UTF {
				n = 1
			}
			start += n
			if start > effEnd {
				return regexadapter.Match{}, regexadapter.NoMatch, nil
			}
			continue
		}
		return m, status, nil
	}
}

func byteAt(s []byte, i int) byte {
	if i >= len(s) {
		return 0
	}
	return s[i]
}

// Next returns the next Event: a token, a sed-mode literal passthrough,
// or end-of-stream. It must not be called again once it has returned an
// EventEnd.
func (e *Engine) Next() (Event, error) {
	if e.pending != nil {
		ev := *e.pending
		e.pending = nil
		return ev, nil
	}
	if e.finalEmitted {
		return Event{Kind: EventEnd}, nil
	}

	skipRead := false
	for {
		if !skipRead {
			if err := e.fill(); err != nil {
				return Event{}, err
			}
		}
		skipRead = false

		effEnd, err := e.effectiveEnd()
		if err != nil {
			return Event{}, err
		}

		m, status, err := e.search(effEnd)
		if err != nil {
			return Event{}, err
		}

		switch status {
		case regexadapter.Matched:
			ev, hasEv := e.handleMatch(m)
			e.matchOffset = m.End
			e.notEmptyAtStart = m.Begin == m.End
			if hasEv {
				return ev, nil
			}
			skipRead = true
			continue
		default:
			if !e.inputDone {
				e.compact(m, status, effEnd)
				continue
			}
			return e.final(effEnd), nil
		}
	}
}

// handleMatch implements spec.md §4.5 step 4. ok is false only for the
// delimiter-mode "no event this time" case, which cannot happen on the
// first match of a run (prevSepEnd starts at 0, so an immediate
// delimiter at offset 0 still yields an empty leading token) — handleMatch
// always returns true in practice, but the signature stays honest about
// the C++ original's two distinct branches.
func (e *Engine) handleMatch(m regexadapter.Match) (Event, bool) {
	if e.opts.Match {
		if e.opts.Sed {
			lit := copyBytes(e.s[e.matchOffset:m.Begin])
			rebased := rebase(m, m.Begin)
			view := e.s[m.Begin:m.End]
			e.pending = &Event{Kind: EventToken, View: view, Match: rebased, Code: e.opts.Primary}
			return Event{Kind: EventSedLiteral, Owned: lit}, true
		}
		rebased := rebase(m, m.Begin)
		return Event{Kind: EventToken, View: e.s[m.Begin:m.End], Match: rebased, Code: e.opts.Primary}, true
	}

	begin := e.prevSepEnd
	end := m.Begin
	e.prevSepEnd = m.End
	tok := e.mergeFragment(e.s[begin:end])
	if tok.fromFragment {
		return Event{Kind: EventToken, Owned: tok.bytes}, true
	}
	return Event{Kind: EventToken, View: tok.bytes}, true
}

type mergedSlice struct {
	bytes        []byte
	fromFragment bool
}

func (e *Engine) mergeFragment(view []byte) mergedSlice {
	if len(e.fragment) == 0 {
		return mergedSlice{bytes: view}
	}
	out := make([]byte, 0, len(e.fragment)+len(view))
	out = append(out, e.fragment...)
	out = append(out, view...)
	e.fragment = e.fragment[:0]
	return mergedSlice{bytes: out, fromFragment: true}
}

func rebase(m regexadapter.Match, base int) regexadapter.Match {
	groups := make([][2]int, len(m.Groups))
	for i, g := range m.Groups {
		if g[0] < 0 {
			groups[i] = g
			continue
		}
		groups[i] = [2]int{g[0] - base, g[1] - base}
	}
	return regexadapter.Match{Begin: 0, End: m.End - base, Groups: groups}
}

// compact implements spec.md §4.5 step 5/6: retain max_lookbehind bytes
// (and, in delimiter mode, whatever is needed to keep an unterminated
// token intact) ahead of the next search, or spill to the fragment
// buffer when nothing can be evicted.
func (e *Engine) compact(m regexadapter.Match, status regexadapter.Status, effEnd int) {
	var newBegin int
	if status == regexadapter.Partial {
		newBegin = m.Begin
	} else {
		newBegin = effEnd
	}

	newBeginBeforeLookbehind := newBegin
	lookbehind := e.opts.MaxLookbehind
	if e.opts.UTF {
		lookbehind *= 4
	}
	if newBegin < lookbehind {
		newBegin = 0
	} else {
		newBegin -= lookbehind
	}
	if e.opts.UTF {
		newBegin = utf8util.DecrementUntilCharacterStart(e.s, newBegin, 0, effEnd)
	}

	retainMarker := newBegin
	if !e.opts.Match {
		if e.prevSepEnd < newBegin {
			newBegin = e.prevSepEnd
		}
	}

	oldMatchOffset := e.matchOffset
	e.matchOffset = newBeginBeforeLookbehind - newBegin
	if !e.opts.Match {
		e.prevSepEnd -= newBegin
	}

	if newBegin != 0 {
		n := copy(e.s, e.s[newBegin:e.subjectSize])
		e.subjectSize = n
		return
	}

	if e.subjectSize != len(e.s) {
		return // room remains; nothing to spill, just keep reading
	}

	// Buffer is completely full and nothing could be evicted: spill.
	if e.opts.Match {
		e.clearExceptTrailingIncomplete(effEnd, oldMatchOffset)
		e.matchOffset = 0
		return
	}

	if e.prevSepEnd != 0 || retainMarker == 0 {
		e.spillFragment(e.s[e.prevSepEnd:effEnd])
		e.clearExceptTrailingIncomplete(effEnd, 0)
		e.prevSepEnd = 0
		e.matchOffset = 0
		return
	}

	e.spillFragment(e.s[0:retainMarker])
	n := copy(e.s, e.s[retainMarker:e.subjectSize])
	e.subjectSize = n
	e.matchOffset = 0
}

func (e *Engine) clearExceptTrailingIncomplete(effEnd, matchOffset int) {
	if e.opts.UTF && e.subjectSize != effEnd && effEnd != 0 {
		n := copy(e.s, e.s[effEnd:e.subjectSize])
		e.subjectSize = n
		return
	}
	e.subjectSize = 0
}

func (e *Engine) spillFragment(b []byte) {
	if len(e.fragment)+len(b) > e.opts.BufSizeFrag {
		e.fragment = e.fragment[:0]
		if e.opts.OnFragmentDropped != nil {
			e.opts.OnFragmentDropped()
		}
		return
	}
	e.fragment = append(e.fragment, b...)
}

// final implements spec.md §4.5 step 7: no match, no more input.
func (e *Engine) final(effEnd int) Event {
	e.finalEmitted = true

	if e.opts.Match {
		if e.opts.Sed {
			return Event{Kind: EventSedLiteral, Owned: copyBytes(e.s[e.matchOffset:effEnd])}
		}
		return Event{Kind: EventEnd}
	}

	if e.prevSepEnd != effEnd || e.opts.UseInputDelimiter || len(e.fragment) > 0 {
		tok := e.mergeFragment(e.s[e.prevSepEnd:effEnd])
		if tok.fromFragment {
			return Event{Kind: EventToken, Owned: tok.bytes}
		}
		return Event{Kind: EventToken, Owned: copyBytes(tok.bytes)}
	}
	return Event{Kind: EventEnd}
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
