package cliapp

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tokloom/tokloom/config"
)

func drive(t *testing.T, raw config.Raw, stdin string) string {
	t.Helper()
	cfg, err := config.Compile(raw)
	require.NoError(t, err)

	var out bytes.Buffer
	err = Drive(context.Background(), cfg, strings.NewReader(stdin), &out, zap.NewNop())
	require.NoError(t, err)
	return out.String()
}

// Scenario 1: regex delimiter splits on " [0-9] ".
func TestEndToEndRegexDelimiter(t *testing.T) {
	got := drive(t, config.Raw{
		Delimiter:    " [0-9] ",
		OutDelimiter: "\n",
	}, "this 1 is 2 a 3 test")
	require.Equal(t, "this\nis\na\ntest\n", got)
}

// Scenario 2: single-character, case-insensitive, literal delimiter must
// not take the byte-exact fast path (see config.compilePrimary).
func TestEndToEndCaselessLiteralDelimiter(t *testing.T) {
	got := drive(t, config.Raw{
		Delimiter:    "a",
		Literal:      true,
		Caseless:     true,
		OutDelimiter: "\n",
	}, "1A2a3")
	require.Equal(t, "1\n2\n3\n", got)
}

// Scenario 3: a substitute operator rewrites each default-delimited
// (newline) token.
func TestEndToEndSubstitute(t *testing.T) {
	got := drive(t, config.Raw{
		Delimiter:    "\n",
		OutDelimiter: "\n",
		Ops: []config.OpSpec{
			{Kind: config.OpSubstitute, Pattern: `hello (\w+)`, Replacement: "hi $1"},
		},
	}, "hello world")
	require.Equal(t, "hi world\n", got)
}

// Scenario 5: sed mode plus a replace operator substitutes only the
// matched region, leaving the literal separators (here, newlines)
// untouched and suppressing both inter-token and batch delimiters.
func TestEndToEndSedReplace(t *testing.T) {
	got := drive(t, config.Raw{
		Pattern: `.+`,
		Match:   true,
		Sed:     true,
		Ops: []config.OpSpec{
			{Kind: config.OpReplace, Replacement: "banana"},
		},
	}, "this\nis\na\ntest")
	require.Equal(t, "banana\nbanana\nbanana\nbanana", got)
}

// Scenario 6: unique drops repeated tokens; unique alone stays on the
// direct-output path, with the uniqueness check made inline.
func TestEndToEndUnique(t *testing.T) {
	got := drive(t, config.Raw{
		Delimiter:    "\n",
		OutDelimiter: "\n",
		Unique:       true,
	}, "a\na\nb\nb\nc\nc")
	require.Equal(t, "a\nb\nc\n", got)
}

// index-after followed by a keep-matching filter, exercising operator
// declaration order without relying on a second strip-back substitute.
func TestEndToEndIndexThenFilter(t *testing.T) {
	got := drive(t, config.Raw{
		Delimiter:    " ",
		OutDelimiter: "\n",
		Ops: []config.OpSpec{
			{Kind: config.OpIndexAfter},
			{Kind: config.OpFilter, Pattern: `[02468]$`},
		},
	}, "every other word is printed here")
	require.Equal(t, "every 0\nword 2\nprinted 4\n", got)
}

// --tui mode hands tokens to runTUIShell, the non-interactive smoke
// consumer standing in for an external renderer; the TuiSelect operator
// still marks an initial cursor the smoke path writes out alone.
func TestEndToEndTUISmokePathWritesInitialSelection(t *testing.T) {
	got := drive(t, config.Raw{
		Delimiter: "\n",
		TUI:       true,
		Ops: []config.OpSpec{
			{Kind: config.OpTuiSelect, Pattern: "^b$"},
		},
	}, "a\nb\nc")
	require.Equal(t, "b\n", got)
}

func TestEndToEndTUIMultiWritesEveryToken(t *testing.T) {
	got := drive(t, config.Raw{
		Delimiter: "\n",
		TUI:       true,
		Multiple:  true,
	}, "a\nb\nc")
	require.Equal(t, "a\nb\nc\n", got)
}

func TestEndToEndContextCancellationStopsEarly(t *testing.T) {
	cfg, err := config.Compile(config.Raw{Delimiter: "\n", OutDelimiter: "\n"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err = Drive(ctx, cfg, strings.NewReader("a\nb\nc"), &out, zap.NewNop())
	require.ErrorIs(t, err, context.Canceled)
}
