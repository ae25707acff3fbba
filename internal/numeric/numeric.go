// Package numeric implements the three token-comparison families
// spec.md §4.3 requires: lexicographic, fixed-point numeric, and
// general-numeric (floating point). All three satisfy the same
// Comparator interface so the uniqueness sets and the sort stage of
// the pipeline can treat them uniformly.
package numeric

import (
	"bytes"
	"hash/fnv"
	"strconv"
)

// Comparator is a (less, equal, hash) triple over byte-slice keys. Hash
// must agree with Equal: equal keys must hash equal.
type Comparator interface {
	Less(a, b []byte) bool
	Equal(a, b []byte) bool
	Hash(a []byte) uint64
}

// Lexicographic orders keys by plain byte-wise comparison.
type Lexicographic struct{}

func (Lexicographic) Less(a, b []byte) bool  { return bytes.Compare(a, b) < 0 }
func (Lexicographic) Equal(a, b []byte) bool { return bytes.Equal(a, b) }
func (Lexicographic) Hash(a []byte) uint64 {
	h := fnv.New64a()
	_, _ = h.Write(a)
	return h.Sum64()
}

// Numeric orders keys as optionally-signed fixed-point decimals with
// comma-grouping ignored. '+'/'-' are only recognized at the start;
// leading zeros and trailing fractional zeros do not affect equality or
// hash (".", "-0", "00,0.0" all equal zero). This is hand-parsed rather
// than run through strconv, grounded on
// original_source/src/numeric_utils.hpp's careful digit-by-digit
// parsing: strconv.ParseFloat would reject comma grouping and would not
// give this exact ignore-trailing-garbage behavior.
type Numeric struct{}

// decimalKey is the normalized (sign, integerDigits, fractionDigits)
// form of a parsed numeric token, with leading/trailing zeros trimmed
// so that equal values compare and hash equal.
type decimalKey struct {
	negative bool
	intPart  string
	fracPart string
}

func parseDecimal(b []byte) decimalKey {
	i := 0
	neg := false
	if i < len(b) && (b[i] == '+' || b[i] == '-') {
		neg = b[i] == '-'
		i++
	}

	var intDigits, fracDigits []byte
	for i < len(b) && (isDigit(b[i]) || b[i] == ',') {
		if isDigit(b[i]) {
			intDigits = append(intDigits, b[i])
		}
		i++
	}
	if i < len(b) && b[i] == '.' {
		i++
		for i < len(b) && isDigit(b[i]) {
			fracDigits = append(fracDigits, b[i])
			i++
		}
	}

	intDigits = trimLeadingZeros(intDigits)
	fracDigits = trimTrailingZeros(fracDigits)

	k := decimalKey{intPart: string(intDigits), fracPart: string(fracDigits)}
	if len(intDigits) > 0 || len(fracDigits) > 0 {
		k.negative = neg
	}
	return k
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func trimLeadingZeros(b []byte) []byte {
	i := 0
	for i < len(b)-1 && b[i] == '0' {
		i++
	}
	b = b[i:]
	if len(b) == 1 && b[0] == '0' {
		return nil
	}
	return b
}

func trimTrailingZeros(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == '0' {
		i--
	}
	return b[:i]
}

func compareDigits(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare([]byte(a), []byte(b))
}

func (Numeric) Less(a, b []byte) bool {
	ka, kb := parseDecimal(a), parseDecimal(b)
	if ka.negative != kb.negative {
		// zero never carries a sign difference (parseDecimal clears it),
		// so this only fires when both sides are genuinely non-zero.
		return ka.negative
	}
	c := compareDigits(ka.intPart, kb.intPart)
	if c != 0 {
		if ka.negative {
			return c > 0
		}
		return c < 0
	}
	c = compareFrac(ka.fracPart, kb.fracPart)
	if ka.negative {
		return c > 0
	}
	return c < 0
}

// compareFrac compares fractional digit strings as if right-padded
// with zeros to equal length (".5" == ".50").
func compareFrac(a, b string) int {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var da, db byte
		if i < len(a) {
			da = a[i]
		} else {
			da = '0'
		}
		if i < len(b) {
			db = b[i]
		} else {
			db = '0'
		}
		if da != db {
			if da < db {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (n Numeric) Equal(a, b []byte) bool {
	ka, kb := parseDecimal(a), parseDecimal(b)
	return ka.negative == kb.negative && ka.intPart == kb.intPart && compareFrac(ka.fracPart, kb.fracPart) == 0
}

func (n Numeric) Hash(a []byte) uint64 {
	k := parseDecimal(a)
	h := fnv.New64a()
	if k.negative {
		_, _ = h.Write([]byte{'-'})
	}
	_, _ = h.Write([]byte(k.intPart))
	_, _ = h.Write([]byte{'.'})
	_, _ = h.Write([]byte(padFracForHash(k.fracPart)))
	return h.Sum64()
}

// padFracForHash returns s unchanged: parseDecimal has already stripped
// trailing zeros, so ".5" and ".50" hash identically.
func padFracForHash(s string) string { return s }

// GeneralNumeric parses tokens with the platform's extended
// floating-point grammar (scientific notation, etc.) and orders
// successfully-parsed values numerically; unparsable tokens sort below
// all parsed values, in a stable relative order determined by their
// raw byte content. strconv.ParseFloat is the correct, idiomatic
// standard-library tool here — no third-party float parser in the
// retrieved pack is more authoritative than the one the language ships.
type GeneralNumeric struct{}

func parseFloat(b []byte) (float64, bool) {
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(b)), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (GeneralNumeric) Less(a, b []byte) bool {
	fa, oka := parseFloat(a)
	fb, okb := parseFloat(b)
	switch {
	case oka && okb:
		return fa < fb
	case oka && !okb:
		return false
	case !oka && okb:
		return true
	default:
		return bytes.Compare(a, b) < 0
	}
}

func (GeneralNumeric) Equal(a, b []byte) bool {
	fa, oka := parseFloat(a)
	fb, okb := parseFloat(b)
	if oka && okb {
		return fa == fb
	}
	if oka != okb {
		return false
	}
	return bytes.Equal(a, b)
}

func (GeneralNumeric) Hash(a []byte) uint64 {
	if f, ok := parseFloat(a); ok {
		if f == 0 {
			f = 0 // -0 == 0 under Equal, so hash both as +0
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(strconv.FormatFloat(f, 'g', -1, 64)))
		return h.Sum64()
	}
	h := fnv.New64a()
	_, _ = h.Write(a)
	return h.Sum64()
}
