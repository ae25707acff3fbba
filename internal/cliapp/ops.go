// Package cliapp is the outer shell spec.md §1 scopes out of the core:
// flag parsing, help/version text, config compilation, and signal
// wiring. It is grounded on buildkite-agent/clicommand's flag-struct
// style (a literal []cli.Flag per command) and urfave/cli v1's
// cli.App/cli.Context, since tokloom is a single command rather than
// clicommand's multi-subcommand agent.
package cliapp

import (
	"strconv"
	"strings"

	"github.com/tokloom/tokloom/config"
)

// opFlag names one occurrence of an operator-building flag, in the
// order it appeared on the command line.
type opFlag struct {
	name  string
	value string
}

// orderedFlagNames is every flag that contributes one Operation to the
// pipeline, spelled the way they appear in os.Args. Declaration order
// across *different* flag names only survives a single left-to-right
// scan of argv — urfave/cli's per-flag StringSlice collection loses it,
// since each flag type accumulates independently — so parseOps walks
// the raw argument list itself before handing the rest to cli.App.
var orderedFlagNames = map[string]bool{
	"--filter": true, "-f": true,
	"--rm": true, "-r": true,
	"--sub": true, "-s": true,
	"--replace":      true,
	"--index-before": true,
	"--index-after":  true,
	"--head":         true,
	"--in":           true,
	"--tui-select":   true,
}

// valuelessOrderedFlags take no argument of their own.
var valuelessOrderedFlags = map[string]bool{
	"--index-before": true,
	"--index-after":  true,
}

// parseOps scans args for the operator-building flags listed above, in
// the order they occur, and returns both the resulting OpSpec chain and
// the remaining arguments (with the operator flags and their values
// removed) for urfave/cli to parse normally. Flags may be given as
// "--name value" or "--name=value".
func parseOps(args []string) ([]config.OpSpec, []string, error) {
	var ops []config.OpSpec
	var rest []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name := arg
		inlineValue, hasInline := "", false
		if eq := strings.IndexByte(arg, '='); eq >= 0 {
			name = arg[:eq]
			inlineValue = arg[eq+1:]
			hasInline = true
		}

		if !orderedFlagNames[name] {
			rest = append(rest, arg)
			continue
		}

		var value string
		if valuelessOrderedFlags[name] {
			// no value to consume
		} else if hasInline {
			value = inlineValue
		} else {
			i++
			if i >= len(args) {
				return nil, nil, newFlagError(name, "missing value")
			}
			value = args[i]
		}

		op, err := buildOpSpec(name, value)
		if err != nil {
			return nil, nil, err
		}
		ops = append(ops, op)
	}
	return ops, rest, nil
}

func buildOpSpec(name, value string) (config.OpSpec, error) {
	switch name {
	case "--filter", "-f":
		return config.OpSpec{Kind: config.OpFilter, Pattern: value}, nil
	case "--rm", "-r":
		return config.OpSpec{Kind: config.OpRemove, Pattern: value}, nil
	case "--sub", "-s":
		pattern, repl, err := splitPatternReplacement(value)
		if err != nil {
			return config.OpSpec{}, err
		}
		return config.OpSpec{Kind: config.OpSubstitute, Pattern: pattern, Replacement: repl}, nil
	case "--replace":
		return config.OpSpec{Kind: config.OpReplace, Replacement: value}, nil
	case "--index-before":
		return config.OpSpec{Kind: config.OpIndexBefore}, nil
	case "--index-after":
		return config.OpSpec{Kind: config.OpIndexAfter}, nil
	case "--head":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return config.OpSpec{}, newFlagError(name, "want an integer count")
		}
		return config.OpSpec{Kind: config.OpIn, Low: 0, High: n}, nil
	case "--in":
		low, high, err := splitWindow(value)
		if err != nil {
			return config.OpSpec{}, newFlagError(name, err.Error())
		}
		return config.OpSpec{Kind: config.OpIn, Low: low, High: high}, nil
	case "--tui-select":
		return config.OpSpec{Kind: config.OpTuiSelect, Pattern: value}, nil
	default:
		return config.OpSpec{}, newFlagError(name, "unrecognized operator flag")
	}
}

// splitPatternReplacement parses --sub's "pattern/replacement" form, the
// sed-style convention the retrieved pack's shell tooling already uses
// (e.g. buildkite-agent/internal/redact's find/replace pairs). The
// split happens on the first unescaped '/'; a pattern containing a
// literal slash must escape it as "\/".
func splitPatternReplacement(value string) (pattern, replacement string, err error) {
	for i := 0; i < len(value); i++ {
		if value[i] == '\\' && i+1 < len(value) {
			i++
			continue
		}
		if value[i] == '/' {
			return unescapeSlash(value[:i]), value[i+1:], nil
		}
	}
	return "", "", newFlagError("--sub", `want "pattern/replacement"`)
}

func unescapeSlash(s string) string {
	return strings.ReplaceAll(s, `\/`, `/`)
}

// splitWindow parses --in's "LOW:HIGH" window form.
func splitWindow(value string) (low, high uint64, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, newFlagErrorPlain(`want "low:high"`)
	}
	low, err = strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, newFlagErrorPlain("low must be an integer")
	}
	high, err = strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, newFlagErrorPlain("high must be an integer")
	}
	return low, high, nil
}
