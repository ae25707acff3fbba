// Package regexadapter is a thin semantic wrapper around a PCRE-compatible
// regex engine. It exposes exactly the operations the streaming match
// engine and operator pipeline need: compile, offset-based match, partial
// match, and substitution with an allocation-sized feedback loop.
//
// The underlying engine is github.com/coregx/coregex, a stdlib-regexp-
// syntax-compatible engine. coregex has no notion of PCRE2's partial
// match or of PCRE2_INFO_MAXLOOKBEHIND, so this package emulates both
// (see Code.MaxLookbehind and the Status docs on MatchAt) rather than
// reaching past the engine for a second dependency.
package regexadapter

import (
	"strings"

	"github.com/coregx/coregex"
	"github.com/pkg/errors"
)

// Options mirrors the compile-time knobs spec.md requires: literal (no
// metacharacters), caseless, multiline, UTF mode, and invalid-UTF
// tolerance. coregex compiles stdlib-regexp syntax, so Caseless and
// Multiline are carried as inline flag groups rather than a separate
// flags parameter.
type Options struct {
	Literal            bool
	Caseless           bool
	Multiline          bool
	UTF                bool
	InvalidUTFTolerant bool
}

// ErrLookbehindInversion is raised when a \K construct (or an
// engine quirk resembling it) reports a match whose begin follows its
// end — an unrecoverable condition per spec.md §4.1.
var ErrLookbehindInversion = errors.New("regexadapter: match begin follows match end (\\K misuse)")

// Code is a compiled pattern plus the metadata the match engine and
// pipeline need around it.
type Code struct {
	re      *coregex.Regex
	pattern string
	opts    Options
	maxLook int
}

// Compile compiles pattern under opts. The returned error, when non-nil,
// is always safe to surface directly to the user: it already carries the
// original engine message via github.com/pkg/errors.Wrap.
func Compile(pattern string, opts Options) (*Code, error) {
	effective := pattern
	if opts.Literal {
		effective = quoteMeta(pattern)
	}

	var flags strings.Builder
	if opts.Caseless {
		flags.WriteByte('i')
	}
	if opts.Multiline {
		flags.WriteByte('m')
	}
	if flags.Len() > 0 {
		effective = "(?" + flags.String() + ")" + effective
	}

	re, err := coregex.Compile(effective)
	if err != nil {
		return nil, errors.Wrapf(err, "compile pattern %q", pattern)
	}

	c := &Code{re: re, pattern: pattern, opts: opts}
	c.maxLook = detectMaxLookbehind(pattern)
	return c, nil
}

// MustCompile is Compile but panics on error, for patterns known valid
// at construction time (e.g. built-in defaults).
func MustCompile(pattern string, opts Options) *Code {
	c, err := Compile(pattern, opts)
	if err != nil {
		panic("regexadapter: MustCompile(" + pattern + "): " + err.Error())
	}
	return c
}

// Pattern returns the original, uncompiled pattern text.
func (c *Code) Pattern() string { return c.pattern }

// NumSubexp returns the number of capturing groups in the pattern,
// not counting the whole-match group 0. coregex's own NumSubexp
// counts group 0, so this subtracts one to match stdlib regexp's
// (and this package's) convention of 1-based explicit groups only.
func (c *Code) NumSubexp() int { return c.re.NumSubexp() - 1 }

// MaxLookbehind returns the maximum number of bytes of lookbehind the
// pattern can require, in characters: it is not multiplied by 4 under
// UTF mode here, since the config and match engine packages apply that
// factor themselves (spec.md §4.5's "Contracts"). coregex does not expose PCRE2_INFO_MAXLOOKBEHIND
// and, being a linear-time engine, does not compile variable-length
// lookbehind assertions at all — so in practice this always auto-detects
// to 0 against any pattern that successfully compiled, and a user-
// supplied Configuration.MaxLookbehind is the only way retention beyond
// the minimum match length is requested. detectMaxLookbehind is kept as
// the static, syntactic estimator (see below) so the match engine has a
// single code path regardless of which regex engine eventually backs
// this adapter.
func (c *Code) MaxLookbehind() int { return c.maxLook }

// IsSingleByteLiteral reports whether the pattern is exactly one literal
// byte with no regex metacharacter meaning, enabling the match engine's
// memchr-style fast path (spec.md §4.5, §9 "Single-byte delimiter fast
// path"). The detection must agree with the engine's own behavior for
// that one-byte pattern; restricting this to Literal-mode single
// characters (or the handful of recognized single-char escapes) keeps
// that obligation trivially true.
func (c *Code) IsSingleByteLiteral() (byte, bool) {
	if c.opts.Caseless || c.opts.Multiline {
		return 0, false
	}
	p := c.pattern
	if c.opts.Literal {
		if len(p) == 1 {
			return p[0], true
		}
		return 0, false
	}
	switch p {
	case `\n`:
		return '\n', true
	case `\t`:
		return '\t', true
	case `\r`:
		return '\r', true
	case `\0`:
		return 0, true
	}
	if len(p) == 1 && !isMeta(p[0]) {
		return p[0], true
	}
	if len(p) == 2 && p[0] == '\\' && isMeta(p[1]) {
		return p[1], true
	}
	return 0, false
}

func isMeta(b byte) bool {
	switch b {
	case '\\', '.', '+', '*', '?', '(', ')', '|', '[', ']', '{', '}', '^', '$':
		return true
	}
	return false
}

// quoteMeta escapes regex metacharacters so pattern is matched literally.
// coregex does not ship its own QuoteMeta (it is not part of the engine
// surface spec.md wraps), so this is the same small, self-contained
// routine any stdlib-compatible regex wrapper carries.
func quoteMeta(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		if isMeta(pattern[i]) {
			b.WriteByte('\\')
		}
		b.WriteByte(pattern[i])
	}
	return b.String()
}

// detectMaxLookbehind scans pattern text for lookbehind groups
// (?<=...) and (?<!...) and returns the length of the longest one
// found, as a syntactic upper bound on required lookbehind bytes.
// Nested groups and alternation inside the lookbehind are not measured
// precisely; the scan instead reports the full span between the
// construct's opening and its matching close, which only ever
// overestimates.
func detectMaxLookbehind(pattern string) int {
	best := 0
	for i := 0; i+3 < len(pattern); i++ {
		if pattern[i] != '(' || pattern[i+1] != '?' {
			continue
		}
		if pattern[i+2] != '<' {
			continue
		}
		if i+3 >= len(pattern) || (pattern[i+3] != '=' && pattern[i+3] != '!') {
			continue
		}
		depth := 1
		j := i + 4
		for ; j < len(pattern) && depth > 0; j++ {
			switch pattern[j] {
			case '(':
				depth++
			case ')':
				depth--
			case '\\':
				j++
			}
		}
		span := j - (i + 4) - 1
		if span > best {
			best = span
		}
		i = j
	}
	return best
}
