package regexadapter

// Status is the three-way result spec.md §4.1 requires from a match
// attempt: no match, a partial match that more input could complete or
// extend, or a complete match with captures.
type Status int

const (
	NoMatch Status = iota
	Partial
	Matched
)

// Match is a completed or partial match, with indices already rebased
// to the caller's coordinate space (see MatchAt).
type Match struct {
	Begin, End int
	// Groups holds one [2]int per capturing group (1-based group N at
	// index N-1); an unmatched group is [-1,-1].
	Groups [][2]int
}

// MatchAt searches subject[start:end] for c's pattern and reports
// whether the result is a definite match, a definite non-match, or
// "partial" — meaning it cannot be trusted as final while moreInput is
// true, because more bytes could still extend or complete it.
//
// coregex has no native partial-match concept, so Partial is emulated:
// any match or non-match whose relevant boundary sits exactly at end is
// reported Partial while moreInput is true. This can occasionally ask
// the match engine to read one more chunk than PCRE2's PARTIAL_HARD
// strictly would, but it never discards a match that more input could
// have changed, which is the direction spec.md's contracts require.
func (c *Code) MatchAt(subject []byte, start, end int, moreInput bool) (Match, Status, error) {
	haystack := subject[start:end]
	loc := c.re.FindSubmatchIndex(haystack)
	if loc == nil {
		if moreInput {
			return Match{Begin: start, End: end}, Partial, nil
		}
		return Match{}, NoMatch, nil
	}

	begin, mend := loc[0], loc[1]
	if begin > mend {
		return Match{}, NoMatch, ErrLookbehindInversion
	}

	if moreInput && mend == len(haystack) {
		return Match{Begin: begin + start, End: mend + start}, Partial, nil
	}

	groups := c.groupsFromLoc(loc, start)

	return Match{Begin: begin + start, End: mend + start, Groups: groups}, Matched, nil
}

// groupsFromLoc converts a FindSubmatchIndex-style index slice (indices
// relative to the searched haystack) into a Match.Groups slice rebased
// by offset. Shared by MatchAt and SubstituteGlobal so both honour the
// same unmatched-group convention.
func (c *Code) groupsFromLoc(loc []int, offset int) [][2]int {
	groups := make([][2]int, c.NumSubexp())
	for g := 1; g <= c.NumSubexp(); g++ {
		gi := g * 2
		if gi+1 >= len(loc) || loc[gi] < 0 {
			groups[g-1] = [2]int{-1, -1}
			continue
		}
		groups[g-1] = [2]int{loc[gi] + offset, loc[gi+1] + offset}
	}
	return groups
}

// Match is a convenience over MatchAt searching the whole subject with
// no further input expected (used for rm/filter-style boolean tests).
// A \K inversion is treated as no match, since callers of this
// convenience never present partial input to react to it.
func (c *Code) Match(subject []byte) bool {
	m, status, err := c.MatchAt(subject, 0, len(subject), false)
	return err == nil && status == Matched && m.Begin >= 0
}
