package cliapp

import (
	"github.com/urfave/cli"

	"github.com/tokloom/tokloom/config"
)

// buildRaw assembles a config.Raw from the scalar flags cli.Context
// parsed plus the operator chain parseOps already extracted in
// declaration order. The primary pattern is the first positional
// argument when given, falling back to --delimiter.
func buildRaw(c *cli.Context, ops []config.OpSpec) (config.Raw, error) {
	raw := config.Raw{
		Pattern:             firstArgOrDelimiter(c),
		Literal:             c.Bool("literal"),
		Caseless:            c.Bool("caseless"),
		Multiline:           c.Bool("multiline"),
		Delimiter:           c.String("delimiter"),
		ForceRegexDelimiter: c.Bool("force-regex-delimiter"),

		Match:              c.Bool("match"),
		Sed:                c.Bool("sed"),
		Flush:              c.Bool("flush"),
		UseInputDelimiter:  c.Bool("use-input-delimiter"),
		UTF:                c.Bool("utf"),
		InvalidUTFTolerant: c.Bool("invalid-utf-tolerant"),

		TUI:            c.Bool("tui"),
		Multiple:       c.Bool("multi"),
		SelectionOrder: c.Bool("selection-order"),

		Sort:      c.Bool("sort"),
		SortDesc:  c.Bool("sort-desc"),
		Stable:    c.Bool("stable"),
		Reverse:   c.Bool("reverse"),
		Unique:    c.Bool("unique"),
		UniqueCap: c.Int("unique-cap"),
		Tail:      c.Bool("tail"),
		SortCmp:   c.String("sort-cmp"),
		UniqueCmp: c.String("unique-cmp"),

		OutDelimiter:    c.String("out-delimiter"),
		BatchDelimiter:  c.String("bout-delimiter"),
		DelimitNotAtEnd: c.Bool("delimit-not-at-end"),
		DelimitOnEmpty:  c.Bool("delimit-on-empty"),

		BufSize:       c.Int("buf-size"),
		BytesToRead:   c.Int("bytes-to-read"),
		BufSizeFrag:   c.Int("buf-size-frag"),
		MaxLookbehind: c.Int("max-lookbehind"),

		Tenacious: c.Bool("tenacious"),
		Field:     c.String("field"),

		Ops: ops,

		ParallelSort: c.Bool("parallel-sort") && !c.Bool("deterministic"),
	}

	// If --match is set, the positional/--delimiter value is the match
	// pattern itself (spec.md §3's delimiter vs match mode distinction);
	// config.Compile already treats Pattern as primary regardless, so
	// Delimiter only matters in delimiter mode's single-byte fast path.
	if !raw.Match {
		raw.Delimiter = firstArgOrDelimiter(c)
		raw.Pattern = ""
	}

	raw.OutStart = intFlagOrNil(c, "out-start")
	raw.OutEnd = intFlagOrNil(c, "out-end")

	return raw, nil
}

func firstArgOrDelimiter(c *cli.Context) string {
	if arg := c.Args().First(); arg != "" {
		return arg
	}
	return c.String("delimiter")
}

func intFlagOrNil(c *cli.Context, name string) *int {
	v := c.Int(name)
	if v < 0 {
		return nil
	}
	return &v
}
