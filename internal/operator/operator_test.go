package operator

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/regexadapter"
)

func viewOf(s string) token.Packet {
	b := []byte(s)
	return token.View{Buf: b, Begin: 0, End: len(b)}
}

func TestRmOrFilterRemove(t *testing.T) {
	pat := regexadapter.MustCompile(`\d+`, regexadapter.Options{})
	op := &RmOrFilter{Kind: RemoveKind, Pattern: pat}

	_, res, err := op.Apply(viewOf("abc123"))
	require.NoError(t, err)
	require.Equal(t, Remove, res)

	_, res, err = op.Apply(viewOf("abcdef"))
	require.NoError(t, err)
	require.Equal(t, Allow, res)
}

func TestRmOrFilterFilter(t *testing.T) {
	pat := regexadapter.MustCompile(`\d+`, regexadapter.Options{})
	op := &RmOrFilter{Kind: FilterKind, Pattern: pat}

	_, res, err := op.Apply(viewOf("abc123"))
	require.NoError(t, err)
	require.Equal(t, Allow, res)

	_, res, err = op.Apply(viewOf("abcdef"))
	require.NoError(t, err)
	require.Equal(t, Remove, res)
}

func TestSubstitute(t *testing.T) {
	pat := regexadapter.MustCompile(`hello (\w+)`, regexadapter.Options{})
	op := &Substitute{Pattern: pat, Replacement: []byte("hi $1")}

	out, res, err := op.Apply(viewOf("hello world"))
	require.NoError(t, err)
	require.Equal(t, Allow, res)
	require.Equal(t, "hi world", string(token.Bytes(out)))
}

func TestIndexBeforeAndAfter(t *testing.T) {
	before := &Index{Align: Before}
	out, _, err := before.Apply(viewOf("a"))
	require.NoError(t, err)
	require.Equal(t, "0 a", string(token.Bytes(out)))
	out, _, err = before.Apply(viewOf("b"))
	require.NoError(t, err)
	require.Equal(t, "1 b", string(token.Bytes(out)))

	after := &Index{Align: After}
	out, _, err = after.Apply(viewOf("a"))
	require.NoError(t, err)
	require.Equal(t, "a 0", string(token.Bytes(out)))
}

func TestInLimitWindow(t *testing.T) {
	op := &InLimit{Low: 1, High: 3}

	_, res, _ := op.Apply(viewOf("x")) // consumed=0
	require.Equal(t, Remove, res)
	_, res, _ = op.Apply(viewOf("x")) // consumed=1
	require.Equal(t, Allow, res)
	_, res, _ = op.Apply(viewOf("x")) // consumed=2
	require.Equal(t, Allow, res)
	_, res, _ = op.Apply(viewOf("x")) // consumed=3
	require.Equal(t, Done, res)
}

func TestInLimitHeadOnly(t *testing.T) {
	op := &InLimit{High: 2}
	_, res, _ := op.Apply(viewOf("x"))
	require.Equal(t, Allow, res)
	_, res, _ = op.Apply(viewOf("x"))
	require.Equal(t, Allow, res)
	_, res, _ = op.Apply(viewOf("x"))
	require.Equal(t, Done, res)
}

func TestTuiSelectMarksFirstMatchOnly(t *testing.T) {
	pat := regexadapter.MustCompile(`needle`, regexadapter.Options{})
	op := &TuiSelect{Pattern: pat}

	_, res, err := op.Apply(viewOf("hay"))
	require.NoError(t, err)
	require.Equal(t, Allow, res)
	require.False(t, op.JustSelected())

	_, _, err = op.Apply(viewOf("needle here"))
	require.NoError(t, err)
	require.True(t, op.JustSelected())

	_, _, err = op.Apply(viewOf("needle again"))
	require.NoError(t, err)
	require.False(t, op.JustSelected(), "only the first match should be marked")
}

func TestReplaceRequiresOuterMatchPacket(t *testing.T) {
	op := &Replace{Replacement: []byte("x")}
	_, res, err := op.Apply(viewOf("plain view, not a Replace packet"))
	require.ErrorIs(t, err, ErrReplaceRequiresOuterMatch)
	require.Equal(t, Remove, res)
}

func TestReplaceSubstitutesOuterMatch(t *testing.T) {
	pat := regexadapter.MustCompile(`(\w+)@(\w+)`, regexadapter.Options{})
	subject := []byte("user@host trailer")
	m, status, err := pat.MatchAt(subject, 0, len(subject), false)
	require.NoError(t, err)
	require.Equal(t, regexadapter.Matched, status)

	op := &Replace{Replacement: []byte("[$1]")}
	pkt := token.Replace{View: token.View{Buf: subject, Begin: 0, End: len(subject)}, Match: m, Code: pat}

	out, res, err := op.Apply(pkt)
	require.NoError(t, err)
	require.Equal(t, Allow, res)
	require.Equal(t, "[user] trailer", string(token.Bytes(out)))
}
