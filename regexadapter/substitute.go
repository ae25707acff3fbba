package regexadapter

// SubstitutionContext memoizes the largest replacement buffer a
// substitution has needed so far, matching spec.md §4.1's "allocation-
// sized feedback loop": rather than measuring then allocating on every
// call, a context starts empty and grows geometrically whenever a
// substitution overflows it, so on a long-running stream the scratch
// buffer stops growing; each call still allocates the slice it returns.
type SubstitutionContext struct {
	buf []byte
}

// grow returns a []byte of length n backed by ctx's buffer, growing the
// buffer first if needed.
func (ctx *SubstitutionContext) grow(n int) []byte {
	if cap(ctx.buf) < n {
		next := cap(ctx.buf) * 2
		if next < n {
			next = n
		}
		ctx.buf = make([]byte, next)
	}
	return ctx.buf[:n]
}

// SubstituteGlobal performs a global substitution of c's pattern within
// subject, expanding $1, $name (numeric only), $0, and $$ in replacement.
// coregex v1.0 does not expose a template-based ReplaceAll over a whole
// subject with capture access (see package doc), so this walks matches
// the same way coregex's own FindAll does internally — repeated
// FindSubmatchIndex calls against the remaining suffix, advancing past
// empty matches by one byte to avoid looping forever — and expands each
// one with the same expand() helper SubstituteOnMatch uses. The result
// is returned as a fresh, independently owned byte slice; ctx only
// amortizes the scratch buffer used while growing it.
func (c *Code) SubstituteGlobal(subject, replacement []byte, ctx *SubstitutionContext) []byte {
	out := ctx.buf[:0]
	pos := 0
	for pos <= len(subject) {
		loc := c.re.FindSubmatchIndex(subject[pos:])
		if loc == nil {
			break
		}
		begin, end := loc[0]+pos, loc[1]+pos
		out = append(out, subject[pos:begin]...)
		groups := c.groupsFromLoc(loc, pos)
		out = append(out, expand(replacement, subject, Match{Begin: begin, End: end, Groups: groups})...)
		if end > pos {
			pos = end
			continue
		}
		if pos < len(subject) {
			out = append(out, subject[pos])
		}
		pos++
	}
	if pos < len(subject) {
		out = append(out, subject[pos:]...)
	}
	ctx.buf = out
	result := make([]byte, len(out))
	copy(result, out)
	return result
}

// SubstituteOnMatch replaces only the region [m.Begin, m.End) of
// subject, expanding capture references in replacement against m's
// captured groups — this is the Replace operator's "replace the outer
// match" behavior (spec.md §3, Operation.Replace), which must reuse the
// outer pattern's captures rather than recomputing its own.
func (c *Code) SubstituteOnMatch(subject []byte, m Match, replacement []byte, ctx *SubstitutionContext) []byte {
	expanded := expand(replacement, subject, m)
	out := ctx.grow(m.Begin + len(expanded) + (len(subject) - m.End))
	n := copy(out, subject[:m.Begin])
	n += copy(out[n:], expanded)
	n += copy(out[n:], subject[m.End:])
	result := make([]byte, n)
	copy(result, out[:n])
	return result
}

// expand substitutes $N / ${N} / $$ references in tmpl against m's
// captured groups from subject. coregex v1.0 has no capture-aware
// template expansion of its own (see package doc "Limitations"), so
// this small routine serves both SubstituteGlobal and
// SubstituteOnMatch directly against a Match.
func expand(tmpl, subject []byte, m Match) []byte {
	var out []byte
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '$' || i+1 >= len(tmpl) {
			out = append(out, tmpl[i])
			continue
		}
		if tmpl[i+1] == '$' {
			out = append(out, '$')
			i++
			continue
		}
		j := i + 1
		braced := false
		if j < len(tmpl) && tmpl[j] == '{' {
			braced = true
			j++
		}
		start := j
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			j++
		}
		if j == start {
			out = append(out, tmpl[i])
			continue
		}
		num := 0
		for k := start; k < j; k++ {
			num = num*10 + int(tmpl[k]-'0')
		}
		if braced {
			if j < len(tmpl) && tmpl[j] == '}' {
				j++
			}
		}
		switch {
		case num == 0:
			out = append(out, subject[m.Begin:m.End]...)
		case num >= 1 && num <= len(m.Groups):
			g := m.Groups[num-1]
			if g[0] >= 0 {
				out = append(out, subject[g[0]:g[1]]...)
			}
		}
		i = j - 1
	}
	return out
}
