package pipeline

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tokloom/tokloom/internal/numeric"
	"github.com/tokloom/tokloom/internal/operator"
	"github.com/tokloom/tokloom/internal/outstream"
	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/regexadapter"
)

func viewOf(s string) token.Packet {
	b := []byte(s)
	return token.View{Buf: b, Begin: 0, End: len(b)}
}

func TestDirectOutputFastPath(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	d := New(Config{Output: out})

	for _, s := range []string{"a", "b", "c"} {
		stop, err := d.Process(viewOf(s))
		require.NoError(t, err)
		require.False(t, stop)
	}
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "a\nb\nc\n", buf.String())
}

func TestRmOrFilterDropsBeforeStorage(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	pat := mustRegex(t, `^b$`)
	d := New(Config{
		Output: out,
		Ops:    []operator.Operation{&operator.RmOrFilter{Kind: operator.RemoveKind, Pattern: pat}},
	})
	for _, s := range []string{"a", "b", "c"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "a\nc\n", buf.String())
}

func TestSortStoresThenSortsAtFinish(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	d := New(Config{Output: out, Sort: true, Comparator: numeric.Lexicographic{}})

	for _, s := range []string{"banana", "apple", "cherry"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "apple\nbanana\ncherry\n", buf.String())
}

func TestUniqueDropsDuplicates(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	d := New(Config{Output: out, Unique: true, Comparator: numeric.Lexicographic{}, Reverse: false, Sort: false})
	// Unique alone stays on the direct-output path: each token is
	// checked against the uniqueness set and written immediately if new.
	for _, s := range []string{"a", "a", "b", "b", "c", "c"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "a\nb\nc\n", buf.String())
}

func TestReverseReversesStoredOrder(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	d := New(Config{Output: out, Reverse: true})
	for _, s := range []string{"a", "b", "c"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "c\nb\na\n", buf.String())
}

func TestInLimitDoneStopsEarly(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	d := New(Config{Output: out, Ops: []operator.Operation{&operator.InLimit{High: 2}}})

	stop1, err := d.Process(viewOf("a"))
	require.NoError(t, err)
	require.False(t, stop1)
	stop2, err := d.Process(viewOf("b"))
	require.NoError(t, err)
	require.False(t, stop2)
	stop3, err := d.Process(viewOf("c"))
	require.NoError(t, err)
	require.True(t, stop3)

	_, err = d.Finish()
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", buf.String())
}

func TestBoundedMemorySortCapsStoredCount(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	outEnd := 2
	d := New(Config{Output: out, Sort: true, Comparator: numeric.Lexicographic{}, OutEnd: &outEnd})
	require.Equal(t, 2, d.boundedCap)

	for _, s := range []string{"banana", "apple", "cherry", "date"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	require.LessOrEqual(t, len(d.stored), 2)
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "apple\nbanana\n", buf.String())
}

func TestBoundedMemorySortDescKeepsLargest(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	outEnd := 2
	d := New(Config{Output: out, Sort: true, SortDesc: true, Comparator: numeric.Lexicographic{}, OutEnd: &outEnd})
	require.Equal(t, 2, d.boundedCap)

	for _, s := range []string{"banana", "apple", "cherry", "date"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	require.LessOrEqual(t, len(d.stored), 2)
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "date\ncherry\n", buf.String())
}

func TestSortUniqueUsesIndependentComparators(t *testing.T) {
	var buf bytes.Buffer
	out := &outstream.Stream{W: &buf, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	d := New(Config{
		Output:           out,
		Sort:             true,
		Comparator:       numeric.Lexicographic{},
		Unique:           true,
		UniqueComparator: numeric.Numeric{},
	})

	// "2" and "02" are distinct lexicographically but equal numerically,
	// so the unique pass (Numeric) drops one while the sort pass
	// (Lexicographic) still orders by raw bytes.
	for _, s := range []string{"10", "2", "02", "1"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	_, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, "1\n10\n2\n", buf.String())
}

func TestTuiSelectRecordsInitialIndex(t *testing.T) {
	pat := mustRegex(t, `needle`)
	out := &outstream.Stream{W: &bytes.Buffer{}, OutDelimiter: []byte("\n"), BatchDelimiter: []byte("\n")}
	d := New(Config{Output: out, TUI: true, Ops: []operator.Operation{&operator.TuiSelect{Pattern: pat}}})

	for _, s := range []string{"hay", "needle", "more hay"} {
		_, err := d.Process(viewOf(s))
		require.NoError(t, err)
	}
	sel, err := d.Finish()
	require.NoError(t, err)
	require.Equal(t, 1, sel.InitialIndex)
	require.Len(t, sel.Tokens, 3)
}

func mustRegex(t *testing.T, pattern string) *regexadapter.Code {
	t.Helper()
	return regexadapter.MustCompile(pattern, regexadapter.Options{})
}
