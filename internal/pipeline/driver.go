// Package pipeline implements the Pipeline Driver from spec.md §4.6: it
// applies the configured Operation chain to each token event in
// declaration order, routes allowed tokens either straight to the
// output stream (the direct-output fast path) or into a stored vector
// for sorting/uniqueness/reversal/TUI, and performs the final
// sort/truncate/reverse stage once the match engine reaches end of
// stream.
//
// Grounded on spec.md §4.6's own pseudocode rather than
// original_source/src/pipeline/unit/{sort,unique,user_defined_sort}.hpp
// directly: those three files are an unfinished parallel implementation
// (duplicate `comp` members that wouldn't compile, "TODODOOO" markers,
// dead branches) — exactly the "two parallel code trees" spec.md §9's
// design notes warns about. The final sort/truncate/reverse stage below
// instead follows original_source/src/token.hpp's create_tokens tail
// (the older, working tree).
package pipeline

import (
	"sort"

	"github.com/tokloom/tokloom/internal/numeric"
	"github.com/tokloom/tokloom/internal/operator"
	"github.com/tokloom/tokloom/internal/outstream"
	"github.com/tokloom/tokloom/internal/token"
	"github.com/tokloom/tokloom/internal/tuiselect"
	"github.com/tokloom/tokloom/internal/uniqueset"
	"github.com/tokloom/tokloom/regexadapter"
)

// Config is everything the driver needs that does not change per
// token: the operator chain and the stream-level reductions.
type Config struct {
	Ops []operator.Operation

	Output *outstream.Stream

	TUI      bool
	Sort     bool
	SortDesc bool
	Stable   bool
	Reverse  bool
	Unique   bool
	Tail     bool // head/tail affects which end out_start/out_end trims

	Comparator       numeric.Comparator // used by Sort and by the bounded-memory sort/tail path
	UniqueComparator numeric.Comparator // used by the uniqueness set; required when Unique is set
	UniqueCap        int                // 0 = unbounded; >0 selects a forgetful set
	Field            *regexadapter.Code // optional field selector for sort/unique keys

	OutStart, OutEnd *int

	// ParallelSort enables a goroutine-based final sort for large stored
	// vectors. Disabled under fuzzing/deterministic testing per spec.md
	// §9's "parallel sort opt-out".
	ParallelSort bool
}

// Driver is one run's mutable pipeline state.
type Driver struct {
	cfg Config

	isDirectOutput bool

	unique uniqueset.Set[*token.Token]
	stored []*token.Token

	boundedCap int // >0 when the bounded-memory sort/tail path is active

	initialIndex int
}

// New builds a Driver ready to process token events.
func New(cfg Config) *Driver {
	d := &Driver{cfg: cfg, initialIndex: -1}
	d.isDirectOutput = !cfg.TUI && !cfg.Sort && !cfg.Reverse

	if cfg.Unique {
		uniqueCmp := cfg.UniqueComparator
		if uniqueCmp == nil {
			uniqueCmp = cfg.Comparator
		}

		// Sort also needs the stored tokens in Comparator order, so an
		// ordered uniqueness set costs nothing extra there and exercises
		// spec.md §4.4's OrderedUnique/ForgetfulOrdered variants; without
		// Sort, a plain hash-backed set is the cheaper, equally correct
		// choice (insertion order never needs to be a sorted order).
		ordered := cfg.Sort
		switch {
		case cfg.UniqueCap > 0 && ordered:
			d.unique = uniqueset.NewForgetfulOrdered[*token.Token](uniqueCmp, cfg.UniqueCap)
		case cfg.UniqueCap > 0:
			d.unique = uniqueset.NewForgetfulHash[*token.Token](uniqueCmp, cfg.UniqueCap)
		case ordered:
			d.unique = uniqueset.NewOrderedUnique[*token.Token](uniqueCmp)
		default:
			d.unique = uniqueset.NewHashUnique[*token.Token](uniqueCmp)
		}
	}

	// Bounded-memory sort/tail: active when out_end limits a sorted
	// result and no uniqueness conflicts with the comparator (spec.md
	// §4.6). This does not apply to the tail+sort combination, which
	// stores every token, sorts the whole vector and then truncates it
	// at the end instead (see finalizeUnbounded).
	if cfg.Sort && cfg.OutEnd != nil && !cfg.Unique && !(cfg.Tail && cfg.Sort) {
		d.boundedCap = *cfg.OutEnd
	}

	return d
}

// Process runs one token event through the operator chain and either
// writes it out directly or stores it. stop is true only when an InLimit
// op signalled Done, so callers can stop reading from the match engine;
// reaching the bounded-memory cap never sets it.
func (d *Driver) Process(pkt token.Packet) (stop bool, err error) {
	var justSelected *operator.TuiSelect

	for _, op := range d.cfg.Ops {
		var res operator.Result
		pkt, res, err = op.Apply(pkt)
		if err != nil {
			return false, err
		}
		if ts, ok := op.(*operator.TuiSelect); ok && ts.JustSelected() {
			justSelected = ts
		}
		switch res {
		case operator.Remove:
			return false, nil
		case operator.Done:
			// Done marks the token that pushed InLimit's counter past
			// High — it is the first one outside the window, the same
			// way original_source/src/pipeline/unit/head.hpp's HeadUnit
			// terminates the chain without emitting the token that
			// tripped it. Storing it here would emit N+1 tokens for
			// --head N / --in low:high.
			return true, nil
		}
	}

	if err := d.store(pkt, justSelected); err != nil {
		return false, err
	}
	return false, nil
}

// store implements what happens to a token once it has survived every
// Operation: under direct output (no sort/reverse/tui) it goes straight
// to Output, with a uniqueness check inline if configured; otherwise it
// is converted to an owned Token and kept until Finish, again filtered
// through uniqueness first. This mirrors the original's design where
// `unique` alone never forces full-stream buffering — it is sort,
// reverse, and tui that do.
func (d *Driver) store(pkt token.Packet, justSelected *operator.TuiSelect) error {
	if d.isDirectOutput && d.unique == nil {
		return d.cfg.Output.WriteToken(token.Bytes(pkt))
	}

	owned := token.ToOwned(pkt)
	if d.cfg.Field != nil {
		owned.Tok.SetField(d.cfg.Field)
	}

	if d.unique != nil {
		if _, inserted := d.unique.Insert(owned.Tok.Key(), owned.Tok); !inserted {
			return nil
		}
	}

	if d.isDirectOutput {
		return d.cfg.Output.WriteToken(owned.Tok.Buffer)
	}

	if d.boundedCap > 0 {
		d.insertBounded(owned.Tok)
	} else {
		d.stored = append(d.stored, owned.Tok)
	}

	if justSelected != nil && d.initialIndex < 0 {
		d.initialIndex = len(d.stored) - 1
	}
	return nil
}

// insertBounded maintains stored as a comparator-sorted slice capped at
// boundedCap: new elements are inserted by upper_bound (in SortDesc's
// direction when set) and, once full, the incoming element is either
// dropped (it belongs past the cap, "head") or the element that would
// be last dropped to make room (only the head case is implemented; the
// tail+sort combination takes the whole-buffer path instead, see New).
func (d *Driver) insertBounded(t *token.Token) {
	key := t.Key()
	idx := sort.Search(len(d.stored), func(i int) bool {
		return orderedBefore(d.cfg.Comparator, key, d.stored[i].Key(), d.cfg.SortDesc)
	})
	if idx >= d.boundedCap {
		return // sorts after everything already kept; drop it
	}
	d.stored = append(d.stored, nil)
	copy(d.stored[idx+1:], d.stored[idx:])
	d.stored[idx] = t
	if len(d.stored) > d.boundedCap {
		d.stored = d.stored[:d.boundedCap]
	}
}

// Finish implements spec.md §4.6's final stage: sort (if the
// bounded-memory path wasn't already active), truncate, then reverse.
// It returns the tokens to hand to a TUI (or, in batch mode, writes
// them straight to Output and returns nil).
func (d *Driver) Finish() (*tuiselect.Selection, error) {
	if d.isDirectOutput {
		return nil, d.cfg.Output.Finish()
	}

	if d.boundedCap == 0 {
		d.finalizeUnbounded()
	} else if d.cfg.OutStart != nil {
		if *d.cfg.OutStart < len(d.stored) {
			d.stored = d.stored[*d.cfg.OutStart:]
		} else {
			d.stored = nil
		}
	}

	if d.cfg.Reverse {
		reverseTokens(d.stored)
	}

	if d.cfg.TUI {
		return &tuiselect.Selection{Tokens: d.stored, InitialIndex: d.initialIndex}, nil
	}

	for _, t := range d.stored {
		if err := d.cfg.Output.WriteToken(t.Buffer); err != nil {
			return nil, err
		}
	}
	return nil, d.cfg.Output.Finish()
}

func (d *Driver) finalizeUnbounded() {
	if d.cfg.Sort {
		sortTokens(d.stored, d.cfg.Comparator, d.cfg.SortDesc, d.cfg.Stable, d.cfg.ParallelSort)
	}

	if d.cfg.OutStart == nil && d.cfg.OutEnd == nil {
		return
	}

	if d.cfg.Tail && !d.cfg.Sort {
		if d.cfg.OutEnd != nil && *d.cfg.OutEnd < len(d.stored) {
			d.stored = d.stored[len(d.stored)-*d.cfg.OutEnd:]
		}
	} else if d.cfg.OutEnd != nil && *d.cfg.OutEnd < len(d.stored) {
		d.stored = d.stored[:*d.cfg.OutEnd]
	}

	if d.cfg.OutStart != nil {
		if d.cfg.Tail && !d.cfg.Sort {
			if *d.cfg.OutStart < len(d.stored) {
				d.stored = d.stored[:len(d.stored)-*d.cfg.OutStart]
			} else {
				d.stored = nil
			}
		} else if *d.cfg.OutStart < len(d.stored) {
			d.stored = d.stored[*d.cfg.OutStart:]
		} else {
			d.stored = nil
		}
	}
}

func reverseTokens(s []*token.Token) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
