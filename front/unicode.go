package front

import "unicode/utf8"

// Append a Unicode code point to buf in UTF-8. Reports false for
// surrogates and values beyond U+10FFFF, which no char can hold.
func encodeUTF8(buf []byte, c uint32) ([]byte, bool) {
	if c > utf8.MaxRune || !utf8.ValidRune(rune(c)) {
		return buf, false
	}
	return utf8.AppendRune(buf, rune(c)), true
}

// Read one UTF-8-encoded code point from p, which must be non-empty.
// We assume that source files are always in UTF-8; a malformed or overlong
// sequence decodes as U+FFFD with width 1 so that spans stay byte accurate.
func decodeUTF8(p string) (rune, int) {
	if p[0] < utf8.RuneSelf {
		return rune(p[0]), 1
	}
	return utf8.DecodeRuneInString(p)
}
