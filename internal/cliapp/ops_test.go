package cliapp

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tokloom/tokloom/config"
)

func TestParseOpsPreservesDeclarationOrder(t *testing.T) {
	ops, rest, err := parseOps([]string{
		"--filter", "a", "--rm", "b", "-s", "c/d", "--sort",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"--sort"}, rest)
	require.Equal(t, []config.OpSpec{
		{Kind: config.OpFilter, Pattern: "a"},
		{Kind: config.OpRemove, Pattern: "b"},
		{Kind: config.OpSubstitute, Pattern: "c", Replacement: "d"},
	}, ops)
}

func TestParseOpsInterleavesDifferentFlagNames(t *testing.T) {
	// -f and -r accumulate independently under urfave/cli's own
	// StringSlice flags; parseOps must still recover their relative
	// order from a single left-to-right argv scan.
	ops, _, err := parseOps([]string{"-r", "x", "-f", "y", "-r", "z"})
	require.NoError(t, err)
	require.Equal(t, []config.OpSpec{
		{Kind: config.OpRemove, Pattern: "x"},
		{Kind: config.OpFilter, Pattern: "y"},
		{Kind: config.OpRemove, Pattern: "z"},
	}, ops)
}

func TestParseOpsInlineEquals(t *testing.T) {
	ops, rest, err := parseOps([]string{"--head=3", "--verbose"})
	require.NoError(t, err)
	require.Equal(t, []string{"--verbose"}, rest)
	require.Equal(t, []config.OpSpec{{Kind: config.OpIn, Low: 0, High: 3}}, ops)
}

func TestParseOpsValuelessFlags(t *testing.T) {
	ops, rest, err := parseOps([]string{"--index-before", "--index-after", "x"})
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, rest)
	require.Equal(t, []config.OpSpec{
		{Kind: config.OpIndexBefore},
		{Kind: config.OpIndexAfter},
	}, ops)
}

func TestParseOpsMissingValueErrors(t *testing.T) {
	_, _, err := parseOps([]string{"--filter"})
	require.Error(t, err)
	var fe *FlagError
	require.ErrorAs(t, err, &fe)
}

func TestParseOpsInWindow(t *testing.T) {
	ops, _, err := parseOps([]string{"--in", "2:5"})
	require.NoError(t, err)
	require.Equal(t, []config.OpSpec{{Kind: config.OpIn, Low: 2, High: 5}}, ops)
}

func TestParseOpsInWindowMalformed(t *testing.T) {
	_, _, err := parseOps([]string{"--in", "oops"})
	require.Error(t, err)
}

func TestSplitPatternReplacementEscapedSlash(t *testing.T) {
	pattern, repl, err := splitPatternReplacement(`a\/b/c`)
	require.NoError(t, err)
	require.Equal(t, "a/b", pattern)
	require.Equal(t, "c", repl)
}

func TestSplitPatternReplacementMissingSlash(t *testing.T) {
	_, _, err := splitPatternReplacement("nodelimiter")
	require.Error(t, err)
}
