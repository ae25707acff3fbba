// Package config implements the compiled Configuration struct from
// spec.md §6/§4.9: everything the argument layer gathers from flags or
// defaults, validated once and handed down to the match engine, operator
// pipeline, and output stream so none of those packages parse strings or
// apply defaults themselves.
//
// Grounded on original_source/src/args.hpp's Arguments struct (the
// "everything defaults to a sentinel max value until args.cpp fills it
// in" discipline) and original_source/src/args/args.cpp's validation
// pass, rendered as a single Compile function returning a *ConfigError
// instead of args.cpp's scattered exit(1) calls.
package config

import (
	"github.com/pkg/errors"

	"github.com/tokloom/tokloom/internal/matchengine"
	"github.com/tokloom/tokloom/internal/numeric"
	"github.com/tokloom/tokloom/internal/operator"
	"github.com/tokloom/tokloom/internal/outstream"
	"github.com/tokloom/tokloom/internal/pipeline"
	"github.com/tokloom/tokloom/regexadapter"
)

// Default buffer sizes, matching spec.md §6 exactly.
const (
	DefaultBufSize = 32768
)

// Comparator names accepted by --sort-cmp/--unique-cmp.
const (
	CompLexicographic = "lex"
	CompNumeric       = "num"
	CompGeneral       = "gen"
)

// OpKind names one of the Operation constructors spec.md §3 lists.
type OpKind string

const (
	OpRemove      OpKind = "rm"
	OpFilter      OpKind = "filter"
	OpSubstitute  OpKind = "sub"
	OpReplace     OpKind = "replace"
	OpIndexBefore OpKind = "index-before"
	OpIndexAfter  OpKind = "index-after"
	OpIn          OpKind = "in"
	OpTuiSelect   OpKind = "tui-select"
)

// OpSpec is one --filter/--rm/--sub/... flag occurrence, in the order
// the user gave it; Raw.Ops preserves declaration order because
// spec.md §4.6 requires operators to run in that order.
type OpSpec struct {
	Kind        OpKind
	Pattern     string
	Replacement string
	Low, High   uint64 // OpIn only
}

// Raw is the uncompiled, string-and-bool level configuration gathered
// by the argument layer (internal/cliapp or a test harness) before
// Compile fills in defaults, compiles patterns, and builds the
// Operation chain.
type Raw struct {
	// Primary match/delimiter pattern. Exactly one of Pattern or
	// SingleByteDelim (len 1, ForceRegexDelimiter false) is used.
	Pattern            string
	Literal            bool
	Caseless           bool
	Multiline           bool
	Delimiter          string
	ForceRegexDelimiter bool

	Match             bool
	Sed               bool
	Flush             bool
	UseInputDelimiter bool
	UTF               bool
	InvalidUTFTolerant bool

	TUI      bool
	Multiple bool

	Sort       bool
	SortDesc   bool
	Stable     bool
	Reverse    bool
	Unique     bool
	UniqueCap  int
	Tail       bool
	SortCmp    string
	UniqueCmp  string
	SelectionOrder bool

	OutStart, OutEnd *int

	OutDelimiter    string
	BatchDelimiter  string
	DelimitNotAtEnd bool
	DelimitOnEmpty  bool

	BufSize       int
	BytesToRead   int
	BufSizeFrag   int
	MaxLookbehind int

	Tenacious bool

	Field string

	Ops []OpSpec

	ParallelSort bool
}

// Configuration is the compiled, ready-to-run form Raw turns into: a
// regexadapter.Code or single-byte delimiter, a built operator.Operation
// chain, and the three downstream configs (matchengine.Options via
// MatchEngineOptions(), pipeline.Config, and an outstream.Stream
// template) assembled from it.
type Configuration struct {
	Primary            *regexadapter.Code
	SingleByteDelim    byte
	HasSingleByteDelim bool

	Match             bool
	Sed               bool
	Flush             bool
	UseInputDelimiter bool
	UTF               bool
	InvalidUTFTolerant bool

	TUI      bool
	Multiple bool
	SelectionOrder bool

	Ops []operator.Operation

	Sort       bool
	SortDesc   bool
	Stable     bool
	Reverse    bool
	Unique     bool
	UniqueCap  int
	Tail       bool
	Comparator       numeric.Comparator // sort-stage comparator (spec.md §4.3)
	UniqueComparator numeric.Comparator // uniqueness-set comparator; independent of Comparator outside bounded-memory mode

	OutStart, OutEnd *int

	OutDelimiter    []byte
	BatchDelimiter  []byte
	DelimitNotAtEnd bool
	DelimitOnEmpty  bool

	BufSize       int
	BytesToRead   int
	BufSizeFrag   int
	MaxLookbehind int

	Tenacious bool

	Field *regexadapter.Code

	ParallelSort bool
}

// Compile validates raw and builds a Configuration, or returns a
// *ConfigError describing the first problem found — impossible buffer
// sizes, a replacement operator without match/sed mode, or conflicting
// sort/uniqueness comparators in bounded-memory mode, per spec.md §7.
func Compile(raw Raw) (*Configuration, error) {
	if raw.Sed {
		raw.Match = true // sed mode implies match mode
	}
	cfg := &Configuration{
		Match:              raw.Match,
		Sed:                raw.Sed,
		Flush:              raw.Flush,
		UseInputDelimiter:  raw.UseInputDelimiter,
		UTF:                raw.UTF,
		InvalidUTFTolerant: raw.InvalidUTFTolerant,
		TUI:                raw.TUI,
		Multiple:           raw.Multiple,
		SelectionOrder:     raw.SelectionOrder,
		Sort:               raw.Sort,
		SortDesc:           raw.SortDesc,
		Stable:             raw.Stable,
		Reverse:            raw.Reverse,
		Unique:             raw.Unique,
		UniqueCap:          raw.UniqueCap,
		Tail:               raw.Tail,
		OutStart:           raw.OutStart,
		OutEnd:             raw.OutEnd,
		DelimitNotAtEnd:    raw.DelimitNotAtEnd,
		DelimitOnEmpty:     raw.DelimitOnEmpty,
		Tenacious:          raw.Tenacious,
		ParallelSort:       raw.ParallelSort,
	}

	if err := compilePrimary(raw, cfg); err != nil {
		return nil, err
	}
	if err := compileBufSizes(raw, cfg); err != nil {
		return nil, err
	}
	if err := compileDelimiters(raw, cfg); err != nil {
		return nil, err
	}
	if err := compileComparator(raw, cfg); err != nil {
		return nil, err
	}
	if err := compileField(raw, cfg); err != nil {
		return nil, err
	}
	if err := compileOps(raw, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func compilePrimary(raw Raw, cfg *Configuration) error {
	pattern := raw.Pattern
	if pattern == "" {
		pattern = raw.Delimiter
	}
	if pattern == "" {
		return newConfigError("no pattern or delimiter given")
	}

	code, err := regexadapter.Compile(pattern, regexadapter.Options{
		Literal:            raw.Literal,
		Caseless:           raw.Caseless,
		Multiline:          raw.Multiline,
		UTF:                raw.UTF,
		InvalidUTFTolerant: raw.InvalidUTFTolerant,
	})
	if err != nil {
		return newRegexError("primary pattern", err)
	}
	if !raw.Match && !raw.ForceRegexDelimiter {
		if b, ok := code.IsSingleByteLiteral(); ok {
			cfg.HasSingleByteDelim = true
			cfg.SingleByteDelim = b
			return nil
		}
	}
	cfg.Primary = code

	if raw.MaxLookbehind > 0 {
		cfg.MaxLookbehind = raw.MaxLookbehind
	} else {
		cfg.MaxLookbehind = code.MaxLookbehind()
	}
	return nil
}

func compileBufSizes(raw Raw, cfg *Configuration) error {
	cfg.BufSize = raw.BufSize
	if cfg.BufSize <= 0 {
		cfg.BufSize = DefaultBufSize
	}
	cfg.BytesToRead = raw.BytesToRead
	if cfg.BytesToRead <= 0 {
		cfg.BytesToRead = cfg.BufSize
	}
	cfg.BufSizeFrag = raw.BufSizeFrag
	if cfg.BufSizeFrag <= 0 {
		cfg.BufSizeFrag = cfg.BufSize * 8
	}

	required := cfg.MaxLookbehind
	if cfg.UTF {
		required *= 4
	}
	if cfg.BufSize <= required {
		return newConfigError("buf_size must exceed max_lookbehind (x4 under UTF mode)")
	}
	if cfg.BufSizeFrag < cfg.BufSize {
		return newConfigError("buf_size_frag must be at least buf_size")
	}
	return nil
}

func compileDelimiters(raw Raw, cfg *Configuration) error {
	cfg.OutDelimiter = []byte(raw.OutDelimiter)
	if len(cfg.OutDelimiter) == 0 {
		cfg.OutDelimiter = []byte("\n")
	}
	cfg.BatchDelimiter = []byte(raw.BatchDelimiter)
	if len(cfg.BatchDelimiter) == 0 {
		cfg.BatchDelimiter = cfg.OutDelimiter
	}
	return nil
}

func compileComparator(raw Raw, cfg *Configuration) error {
	if !raw.Sort && !raw.Unique {
		return nil
	}

	sortCmp := raw.SortCmp
	uniqueCmp := raw.UniqueCmp
	if sortCmp == "" {
		sortCmp = uniqueCmp
	}
	if uniqueCmp == "" {
		uniqueCmp = sortCmp
	}
	if sortCmp == "" {
		sortCmp = CompLexicographic
	}
	if uniqueCmp == "" {
		uniqueCmp = CompLexicographic
	}

	// Bounded-memory mode (out_end limiting a sort) requires the same
	// comparator drive both reductions, since the pipeline maintains one
	// sorted, capped buffer rather than two independent structures.
	if raw.Sort && raw.Unique && raw.OutEnd != nil && sortCmp != uniqueCmp {
		return newConfigError("sort and unique comparators must match when out_end bounds a sorted, uniqued stream")
	}

	sortComparator, err := comparatorFor(sortCmp)
	if err != nil {
		return err
	}
	cfg.Comparator = sortComparator

	// Sort and unique keep independent comparators everywhere else:
	// --unique-cmp must take effect even when --sort picks a different
	// one, since the uniqueness set and the sort stage are separate
	// structures outside bounded-memory mode.
	uniqueComparator := sortComparator
	if uniqueCmp != sortCmp {
		uniqueComparator, err = comparatorFor(uniqueCmp)
		if err != nil {
			return err
		}
	}
	cfg.UniqueComparator = uniqueComparator
	return nil
}

func comparatorFor(name string) (numeric.Comparator, error) {
	switch name {
	case CompLexicographic, "":
		return numeric.Lexicographic{}, nil
	case CompNumeric:
		return numeric.Numeric{}, nil
	case CompGeneral:
		return numeric.GeneralNumeric{}, nil
	default:
		return nil, newConfigError("unknown comparator %q (want lex, num, or gen)", name)
	}
}

func compileField(raw Raw, cfg *Configuration) error {
	if raw.Field == "" {
		return nil
	}
	code, err := regexadapter.Compile(raw.Field, regexadapter.Options{UTF: raw.UTF})
	if err != nil {
		return newRegexError("field", err)
	}
	cfg.Field = code
	return nil
}

func compileOps(raw Raw, cfg *Configuration) error {
	for _, spec := range raw.Ops {
		op, err := buildOp(spec, raw, cfg)
		if err != nil {
			return err
		}
		cfg.Ops = append(cfg.Ops, op)
	}
	return nil
}

func buildOp(spec OpSpec, raw Raw, cfg *Configuration) (operator.Operation, error) {
	switch spec.Kind {
	case OpRemove, OpFilter:
		code, err := regexadapter.Compile(spec.Pattern, regexadapter.Options{UTF: raw.UTF})
		if err != nil {
			return nil, errors.Wrapf(err, "compile %s pattern", spec.Kind)
		}
		kind := operator.RemoveKind
		if spec.Kind == OpFilter {
			kind = operator.FilterKind
		}
		return &operator.RmOrFilter{Kind: kind, Pattern: code}, nil

	case OpSubstitute:
		code, err := regexadapter.Compile(spec.Pattern, regexadapter.Options{UTF: raw.UTF})
		if err != nil {
			return nil, errors.Wrap(err, "compile sub pattern")
		}
		return &operator.Substitute{Pattern: code, Replacement: []byte(spec.Replacement)}, nil

	case OpReplace:
		if !raw.Match && !raw.Sed {
			return nil, newConfigError("--replace requires match or sed mode")
		}
		return &operator.Replace{Replacement: []byte(spec.Replacement)}, nil

	case OpIndexBefore:
		return &operator.Index{Align: operator.Before}, nil
	case OpIndexAfter:
		return &operator.Index{Align: operator.After}, nil

	case OpIn:
		return &operator.InLimit{Low: spec.Low, High: spec.High}, nil

	case OpTuiSelect:
		if !raw.TUI {
			return nil, newConfigError("--tui-select requires --tui")
		}
		code, err := regexadapter.Compile(spec.Pattern, regexadapter.Options{UTF: raw.UTF})
		if err != nil {
			return nil, errors.Wrap(err, "compile tui-select pattern")
		}
		return &operator.TuiSelect{Pattern: code}, nil

	default:
		return nil, newConfigError("unknown operator kind %q", spec.Kind)
	}
}

// PipelineConfig assembles an internal/pipeline.Config from the compiled
// Configuration plus the output destination w wraps. Kept separate from
// Configuration itself so cmd/tokloom decides the io.Writer (stdout, a
// TUI-hosting outstream.Queue, ...), not config.
func (cfg *Configuration) PipelineConfig(out *outstream.Stream) pipeline.Config {
	return pipeline.Config{
		Ops:          cfg.Ops,
		Output:       out,
		TUI:          cfg.TUI,
		Sort:         cfg.Sort,
		SortDesc:     cfg.SortDesc,
		Stable:       cfg.Stable,
		Reverse:      cfg.Reverse,
		Unique:       cfg.Unique,
		Tail:         cfg.Tail,
		Comparator:       cfg.Comparator,
		UniqueComparator: cfg.UniqueComparator,
		UniqueCap:    cfg.UniqueCap,
		Field:        cfg.Field,
		OutStart:     cfg.OutStart,
		OutEnd:       cfg.OutEnd,
		ParallelSort: cfg.ParallelSort,
	}
}

// MatchEngineOptions assembles an internal/matchengine.Options from the
// compiled Configuration. onFragmentDropped, when non-nil, is invoked at
// most once per run when a token fragment exceeds BufSizeFrag and is
// discarded (spec.md §7's BoundaryWarning) — cmd/tokloom wires this to
// its zap logger.
func (cfg *Configuration) MatchEngineOptions(onFragmentDropped func()) matchengine.Options {
	return matchengine.Options{
		Primary:            cfg.Primary,
		SingleByteDelim:    cfg.SingleByteDelim,
		HasSingleByteDelim: cfg.HasSingleByteDelim,
		Match:              cfg.Match,
		Sed:                cfg.Sed,
		UseInputDelimiter:  cfg.UseInputDelimiter,
		UTF:                cfg.UTF,
		InvalidUTFTolerant: cfg.InvalidUTFTolerant,
		MaxLookbehind:      cfg.MaxLookbehind,
		BufSize:            cfg.BufSize,
		BytesToRead:        cfg.BytesToRead,
		BufSizeFrag:        cfg.BufSizeFrag,
		Flush:              cfg.Flush,
		OnFragmentDropped:  onFragmentDropped,
	}
}

// Stream builds the outstream.Stream template for w, applying the
// compiled delimiter policy.
func (cfg *Configuration) Stream(w interface {
	Write(p []byte) (int, error)
}) *outstream.Stream {
	return &outstream.Stream{
		W:               w,
		OutDelimiter:    cfg.OutDelimiter,
		BatchDelimiter:  cfg.BatchDelimiter,
		Sed:             cfg.Sed,
		DelimitNotAtEnd: cfg.DelimitNotAtEnd,
		DelimitOnEmpty:  cfg.DelimitOnEmpty,
	}
}
