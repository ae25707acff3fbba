package cliapp

import "github.com/urfave/cli"

// scalarFlags is every flag that is not one of the ordered operator
// flags parseOps handles: primary-pattern mode switches, stream-level
// reductions, buffer sizing, and delimiter policy. Grounded on
// buildkite-agent/clicommand's literal-slice-of-cli.Flag style rather
// than its heavier cliconfig reflection loader.
func scalarFlags() []cli.Flag {
	return []cli.Flag{
		// These nine are parsed by parseOps, not by cli.Context, so they
		// can appear any number of times in any order relative to each
		// other (spec.md §4.6 applies operators in declaration order).
		// They are declared here only so --help lists them; their values
		// never reach cli, since parseOps strips them from argv first.
		cli.StringSliceFlag{Name: "filter, f", Usage: "keep only tokens matching pattern (repeatable)"},
		cli.StringSliceFlag{Name: "rm, r", Usage: "drop tokens matching pattern (repeatable)"},
		cli.StringSliceFlag{Name: "sub, s", Usage: `global substitution within each token, "pattern/replacement" (repeatable)`},
		cli.StringSliceFlag{Name: "replace", Usage: "substitute the outer match's region (requires --match or --sed)"},
		cli.BoolFlag{Name: "index-before", Usage: "prepend an ascii decimal input index and a space"},
		cli.BoolFlag{Name: "index-after", Usage: "append an ascii decimal input index and a space"},
		cli.StringFlag{Name: "head", Usage: "keep only the first N tokens"},
		cli.StringFlag{Name: "in", Usage: `keep only tokens in window "low:high"`},
		cli.StringFlag{Name: "tui-select", Usage: "mark the first token matching pattern as the TUI's initial cursor"},

		cli.StringFlag{Name: "delimiter, d", Usage: "primary delimiter pattern (delimiter mode)"},
		cli.BoolFlag{Name: "force-regex-delimiter", Usage: "compile --delimiter as regex even if it is one byte"},
		cli.BoolFlag{Name: "literal, L", Usage: "treat the primary pattern as a literal string, not a regex"},
		cli.BoolFlag{Name: "caseless, i", Usage: "case-insensitive match"},
		cli.BoolFlag{Name: "multiline", Usage: "multiline match (^/$ match at line boundaries)"},

		cli.BoolFlag{Name: "match, m", Usage: "match mode: the pattern identifies tokens, not separators"},
		cli.BoolFlag{Name: "sed", Usage: "sed mode: write the bytes around each match verbatim (implies --match)"},
		cli.BoolFlag{Name: "flush", Usage: "unbuffered input: do not wait to fill the read buffer"},
		cli.BoolFlag{Name: "use-input-delimiter", Usage: "emit an empty final token when the input ends with a delimiter"},
		cli.BoolFlag{Name: "utf", Usage: "treat input as UTF-8 and never split a multibyte character"},
		cli.BoolFlag{Name: "invalid-utf-tolerant", Usage: "under --utf, tolerate invalid UTF-8 instead of aborting"},

		cli.BoolFlag{Name: "tui", Usage: "emit an interactive selector instead of writing to stdout"},
		cli.BoolFlag{Name: "multi", Usage: "allow selecting more than one token in --tui mode"},
		cli.BoolFlag{Name: "selection-order", Usage: "re-sort a multi-selection by input order before output"},

		cli.BoolFlag{Name: "sort", Usage: "sort stored tokens before output"},
		cli.BoolFlag{Name: "sort-desc", Usage: "sort in descending order"},
		cli.BoolFlag{Name: "stable", Usage: "use a stable sort"},
		cli.BoolFlag{Name: "reverse", Usage: "reverse stored tokens after sort/truncate"},
		cli.BoolFlag{Name: "unique", Usage: "drop duplicate tokens"},
		cli.IntFlag{Name: "unique-cap", Usage: "bound uniqueness tracking to the last N distinct tokens (0 = unbounded)"},
		cli.BoolFlag{Name: "tail", Usage: "--out-end counts from the end of the stream instead of the start"},
		cli.StringFlag{Name: "sort-cmp", Usage: "sort comparator: lex, num, or gen"},
		cli.StringFlag{Name: "unique-cmp", Usage: "uniqueness comparator: lex, num, or gen"},

		cli.IntFlag{Name: "out-start", Value: -1, Usage: "drop the first N stored tokens (-1 = unset)"},
		cli.IntFlag{Name: "out-end", Value: -1, Usage: "keep only the first (or, with --tail, last) N stored tokens (-1 = unset)"},

		cli.StringFlag{Name: "out-delimiter", Value: "\n", Usage: "bytes written between consecutive tokens"},
		cli.StringFlag{Name: "bout-delimiter", Usage: "bytes written after the last token (defaults to --out-delimiter)"},
		cli.BoolFlag{Name: "delimit-not-at-end", Usage: "suppress the trailing batch delimiter"},
		cli.BoolFlag{Name: "delimit-on-empty", Usage: "force a trailing batch delimiter even if nothing was written"},

		cli.IntFlag{Name: "buf-size", Value: 32768, Usage: "match buffer size in bytes"},
		cli.IntFlag{Name: "bytes-to-read", Usage: "bytes requested per read (defaults to --buf-size)"},
		cli.IntFlag{Name: "buf-size-frag", Usage: "fragment buffer size in bytes (defaults to 8x --buf-size)"},
		cli.IntFlag{Name: "max-lookbehind", Usage: "override the auto-detected lookbehind retention, in bytes"},

		cli.BoolFlag{Name: "tenacious", Usage: "suppress the fragment-dropped warning entirely"},
		cli.StringFlag{Name: "field", Usage: "restrict sort/unique comparison to the first match of this pattern within each token"},

		cli.BoolFlag{Name: "parallel-sort", Usage: "sort large stored vectors across goroutines"},
		cli.BoolFlag{Name: "deterministic", Usage: "disable --parallel-sort regardless of its setting (for fuzzing/reproduction)"},

		cli.BoolFlag{Name: "verbose, v", Usage: "print the full error cause chain on failure"},
	}
}
