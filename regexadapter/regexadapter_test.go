package regexadapter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompileLiteral(t *testing.T) {
	c, err := Compile("a.b", Options{Literal: true})
	require.NoError(t, err)
	require.True(t, c.Match([]byte("a.b")))
	require.False(t, c.Match([]byte("aXb")))
}

func TestCompileCaseless(t *testing.T) {
	c, err := Compile("hello", Options{Caseless: true})
	require.NoError(t, err)
	require.True(t, c.Match([]byte("HELLO")))
}

func TestMatchAtPartialAtBufferEnd(t *testing.T) {
	c, err := Compile(`\d+`, Options{})
	require.NoError(t, err)

	_, status, err := c.MatchAt([]byte("abc123"), 0, 6, true)
	require.NoError(t, err)
	require.Equal(t, Partial, status)

	m, status, err := c.MatchAt([]byte("abc123"), 0, 6, false)
	require.NoError(t, err)
	require.Equal(t, Matched, status)
	require.Equal(t, 3, m.Begin)
	require.Equal(t, 6, m.End)
}

func TestMatchAtRebasesOffsets(t *testing.T) {
	c, err := Compile(`\d+`, Options{})
	require.NoError(t, err)
	subject := []byte("xx 42 yy")
	m, status, err := c.MatchAt(subject, 2, len(subject), false)
	require.NoError(t, err)
	require.Equal(t, Matched, status)
	require.Equal(t, 3, m.Begin)
	require.Equal(t, 5, m.End)
}

func TestSubstituteGlobal(t *testing.T) {
	c, err := Compile(`hello (\w+)`, Options{})
	require.NoError(t, err)
	ctx := &SubstitutionContext{}
	out := c.SubstituteGlobal([]byte("hello world"), []byte("hi $1"), ctx)
	require.Equal(t, "hi world", string(out))
}

func TestSubstituteGlobalMultipleMatches(t *testing.T) {
	c, err := Compile(`\d+`, Options{})
	require.NoError(t, err)
	ctx := &SubstitutionContext{}
	out := c.SubstituteGlobal([]byte("a1 b22 c333"), []byte("N"), ctx)
	require.Equal(t, "aN bN cN", string(out))
}

func TestSubstituteGlobalEmptyMatch(t *testing.T) {
	c, err := Compile(`x*`, Options{})
	require.NoError(t, err)
	ctx := &SubstitutionContext{}
	out := c.SubstituteGlobal([]byte("ab"), []byte("-"), ctx)
	require.Equal(t, "-a-b-", string(out))
}

func TestNumSubexpExcludesWholeMatch(t *testing.T) {
	c, err := Compile(`(\w+)@(\w+)`, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, c.NumSubexp())
}

func TestSubstituteOnMatch(t *testing.T) {
	c, err := Compile(`\d+`, Options{})
	require.NoError(t, err)
	subject := []byte("value=123 end")
	m, status, err := c.MatchAt(subject, 0, len(subject), false)
	require.NoError(t, err)
	require.Equal(t, Matched, status)

	ctx := &SubstitutionContext{}
	out := c.SubstituteOnMatch(subject, m, []byte("XXX"), ctx)
	require.Equal(t, "value=XXX end", string(out))
}

func TestIsSingleByteLiteral(t *testing.T) {
	c, err := Compile(" ", Options{Literal: true})
	require.NoError(t, err)
	b, ok := c.IsSingleByteLiteral()
	require.True(t, ok)
	require.Equal(t, byte(' '), b)

	c2, err := Compile(`a|b`, Options{})
	require.NoError(t, err)
	_, ok = c2.IsSingleByteLiteral()
	require.False(t, ok)
}

func TestMaxLookbehindZeroWithoutLookbehind(t *testing.T) {
	c, err := Compile(`\d+`, Options{})
	require.NoError(t, err)
	require.Equal(t, 0, c.MaxLookbehind())
}

// coregex, like Go's stdlib regexp, cannot compile variable-length
// lookbehind assertions at all, so detectMaxLookbehind's syntactic scan
// is exercised directly rather than through Compile.
func TestMaxLookbehindDetectsConstruct(t *testing.T) {
	require.Equal(t, 3, detectMaxLookbehind(`(?<=abc)\d+`))
}

func TestMaxLookbehindNoConstruct(t *testing.T) {
	require.Equal(t, 0, detectMaxLookbehind(`\d+`))
}
