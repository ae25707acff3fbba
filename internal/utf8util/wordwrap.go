package utf8util

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// visibleWidth approximates wcwidth(r): non-printing runes cost 0
// columns, East-Asian wide/fullwidth runes cost 2, everything else
// costs 1. golang.org/x/text/width is a real dependency already
// present in the retrieved pack's module graph (DataDog-datadog-agent,
// simon-lentz-yammm) and is the idiomatic Go stand-in for POSIX
// wcwidth, which has no standard-library equivalent.
func visibleWidth(r rune) int {
	if unicode.IsControl(r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// WrapPrompt splits prompt into lines whose accumulated visible width
// fits columns, preferring to break at whitespace and collapsing
// whitespace runs that span a wrap point — the prompt word-wrap
// behavior spec.md §4.2 describes, adapted from
// original_source/src/string_utils.hpp's create_prompt_lines. Explicit
// '\n' in prompt always starts a new line.
func WrapPrompt(prompt string, columns int) []string {
	if columns <= 0 {
		columns = 1
	}

	var lines []string
	var cur []rune
	available := columns

	flush := func() {
		lines = append(lines, strings.TrimRightFunc(string(cur), unicode.IsSpace))
		cur = nil
		available = columns
	}

	runes := []rune(prompt)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '\n' {
			flush()
			continue
		}

		w := visibleWidth(ch)
		if w == 0 {
			continue
		}

		if available-w < 0 && len(cur) > 0 {
			nextVisible := !unicode.IsSpace(ch)
			prevVisible := !unicode.IsSpace(cur[len(cur)-1])
			wrapSeparatesWord := nextVisible && prevVisible

			// drop the whitespace run that triggered the wrap
			for unicode.IsSpace(ch) {
				i++
				if i >= len(runes) {
					flush()
					return lines
				}
				ch = runes[i]
			}
			w = visibleWidth(ch)

			hasVisible := false
			for _, r := range cur {
				if !unicode.IsSpace(r) {
					hasVisible = true
					break
				}
			}
			if !hasVisible {
				cur = cur[:0]
				available = columns
			} else {
				trimmed := strings.TrimRightFunc(string(cur), unicode.IsSpace)
				carry := ""
				if wrapSeparatesWord {
					if idx := strings.LastIndexFunc(trimmed, unicode.IsSpace); idx >= 0 {
						carry = trimmed[idx+1:]
						trimmed = strings.TrimRightFunc(trimmed[:idx], unicode.IsSpace)
					} else {
						carry = trimmed
						trimmed = ""
					}
				}
				lines = append(lines, trimmed)
				cur = []rune(carry)
				available = columns
				for _, r := range cur {
					available -= visibleWidth(r)
				}
			}
		}

		cur = append(cur, ch)
		available -= w
	}
	if len(cur) > 0 {
		flush()
	}
	return lines
}
