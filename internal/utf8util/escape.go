package utf8util

// escapeSequences maps each C0 control character and DEL to its
// printable mnemonic, per the table in
// original_source/src/string_utils.hpp's get_escape_sequence (itself
// drawn from the standard C0 escape-sequence conventions). Nothing in
// the batch core or in internal/tuiselect calls it; only this package's
// tests do. The table is inert data with no rendering dependency, so it
// lives alongside the rest of the byte-level string utilities.
var escapeSequences = map[byte]string{
	0:  "\\0",
	1:  "SOH",
	2:  "STX",
	3:  "ETX",
	4:  "EOT",
	5:  "ENQ",
	6:  "ACK",
	7:  "\\a",
	8:  "\\b",
	9:  "\\t",
	10: "\\n",
	11: "\\v",
	12: "\\f",
	13: "\\r",
	14: "SO",
	15: "SI",
	16: "DLE",
	17: "DC1",
	18: "DC2",
	19: "DC3",
	20: "DC4",
	21: "NAK",
	22: "SYN",
	23: "ETB",
	24: "CAN",
	25: "EM",
	26: "SUB",
	27: "\\e",
	28: "FS",
	29: "GS",
	30: "RS",
	31: "US",
	127: "DEL",
}

// EscapeSequence returns the printable mnemonic for a C0 control
// character or DEL, and false for any byte with no such mnemonic.
func EscapeSequence(b byte) (string, bool) {
	s, ok := escapeSequences[b]
	return s, ok
}
