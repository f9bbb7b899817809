package front

import (
	"fmt"
	"strings"
)

// Encoding is the prefix applied to a string or character constant.
type Encoding int

const (
	EncodingDefault Encoding = iota
	EncodingChar16
	EncodingChar32
	EncodingWChar
	EncodingUTF8
)

// EncodingFromPrefix maps a literal prefix to its encoding.
func EncodingFromPrefix(prefix string) Encoding {
	switch prefix {
	case "u":
		return EncodingChar16
	case "U":
		return EncodingChar32
	case "L":
		return EncodingWChar
	case "u8":
		return EncodingUTF8
	}
	return EncodingDefault
}

// Size returns the width in bytes of one code unit.
func (e Encoding) Size() int {
	switch e {
	case EncodingChar16:
		return 2
	case EncodingChar32, EncodingWChar:
		return 4
	}
	return 1
}

func (e Encoding) TypeName() string {
	switch e {
	case EncodingChar16:
		return "char16_t"
	case EncodingChar32:
		return "char32_t"
	case EncodingWChar:
		return "wchar_t"
	}
	return "unsigned char"
}

func (e Encoding) String() string {
	switch e {
	case EncodingDefault:
		return "default"
	case EncodingChar16:
		return "universal 16"
	case EncodingChar32:
		return "universal 32"
	case EncodingWChar:
		return "wide"
	case EncodingUTF8:
		return "utf-8"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e Encoding) Prefix() string {
	switch e {
	case EncodingChar16:
		return "u"
	case EncodingChar32:
		return "U"
	case EncodingWChar:
		return "L"
	case EncodingUTF8:
		return "u8"
	}
	return ""
}

// Compatible reports whether a literal of encoding o may be joined to one
// of encoding *e, promoting *e from the default encoding.
func (e *Encoding) Compatible(o Encoding) bool {
	switch {
	case *e == EncodingDefault:
		*e = o
		return true
	case o == EncodingDefault:
		return true
	}
	return *e == o
}

// splitLiteral breaks a string or character constant into its prefix and
// the text between its delimiters.
func splitLiteral(value string, delim byte) (prefix, text string) {
	i := strings.IndexByte(value, delim)
	if i < 0 || len(value) < i+2 {
		return "", ""
	}
	return value[:i], value[i+1 : len(value)-1]
}

type digitEscape struct {
	letter   string // after the backslash; empty for octal
	radix    uint32
	maxLen   int // 0 for unbounded
	exactLen int // 0 for any length
}

var (
	octalEscape = digitEscape{letter: "", radix: 8, maxLen: 3}
	hexEscape   = digitEscape{letter: "x", radix: 16}
	ucn16Escape = digitEscape{letter: "u", radix: 16, maxLen: 4, exactLen: 4}
	ucn32Escape = digitEscape{letter: "U", radix: 16, maxLen: 8, exactLen: 8}
)

func digitValue(c byte, radix uint32) (uint32, bool) {
	var v uint32
	switch {
	case c >= '0' && c <= '9':
		v = uint32(c - '0')
	case c >= 'a' && c <= 'f':
		v = uint32(c-'a') + 10
	case c >= 'A' && c <= 'F':
		v = uint32(c-'A') + 10
	default:
		return 0, false
	}
	return v, v < radix
}

var simpleEscapes = map[byte]byte{
	'\\': '\\',
	'?':  '?',
	'\'': '\'',
	'"':  '"',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
}

type unescaper struct {
	ctx      *TUCtx
	origin   TokenOrigin
	encoding Encoding
	text     string
	pos      int
	out      []byte
}

// Parse the digits of a numeric escape starting at u.pos. Returns false
// after reporting an error.
func (u *unescaper) digits(esc digitEscape) bool {
	start := u.pos
	for u.pos < len(u.text) {
		if _, ok := digitValue(u.text[u.pos], esc.radix); !ok {
			break
		}
		u.pos++
		if esc.maxLen > 0 && u.pos-start >= esc.maxLen {
			break
		}
	}
	digits := u.text[start:u.pos]

	if digits == "" {
		u.ctx.EmitMessage(u.origin, Phase5Empty{})
		return false
	}
	if esc.exactLen > 0 && len(digits) < esc.exactLen {
		u.ctx.EmitMessage(u.origin, Phase5Incomplete{
			Expected: esc.exactLen,
			Found:    len(digits),
			Prefix:   rune(esc.letter[0]),
		})
		return false
	}
	if esc == hexEscape && len(digits) > u.encoding.Size()*2 {
		// two hex digits per byte
		u.ctx.EmitMessage(u.origin, Phase5OutOfRange{Prefix: esc.letter, Value: digits, Encoding: u.encoding})
		return false
	}

	var value uint32
	for i := 0; i < len(digits); i++ {
		d, _ := digitValue(digits[i], esc.radix)
		value = value*esc.radix + d
	}
	out, ok := encodeUTF8(u.out, value)
	if !ok {
		u.ctx.EmitMessage(u.origin, Phase5Invalid{Prefix: esc.letter, Value: digits})
		return false
	}
	u.out = out
	return true
}

func (u *unescaper) run() string {
	for u.pos < len(u.text) {
		c := u.text[u.pos]
		u.pos++
		if c != '\\' {
			u.out = append(u.out, c)
			continue
		}

		if u.pos == len(u.text) {
			u.ctx.EmitMessage(u.origin, Phase5Empty{})
			break
		}

		next := u.text[u.pos]
		switch {
		case next == 'x':
			u.pos++
			u.digits(hexEscape)
		case next == 'u':
			u.pos++
			u.digits(ucn16Escape)
		case next == 'U':
			u.pos++
			u.digits(ucn32Escape)
		case next >= '0' && next <= '7':
			u.digits(octalEscape)
		default:
			r, n := decodeUTF8(u.text[u.pos:])
			u.pos += n
			if v, ok := simpleEscapes[next]; ok {
				u.out = append(u.out, v)
			} else {
				u.ctx.EmitMessage(u.origin, Phase5Unrecognized{Escape: r})
			}
		}
	}
	return string(u.out)
}

func unescapeToken(ctx *TUCtx, t *PPToken, delim byte) {
	prefix, text := splitLiteral(t.Value, delim)
	if strings.IndexByte(text, '\\') < 0 {
		return
	}
	u := &unescaper{
		ctx:      ctx,
		origin:   t.Origin,
		encoding: EncodingFromPrefix(prefix),
		text:     text,
		out:      make([]byte, 0, len(text)),
	}
	d := string(delim)
	t.Value = prefix + d + u.run() + d
}

// Unescape replaces the escape sequences inside every string literal and
// character constant of tokens, in place.
func Unescape(ctx *TUCtx, tokens []PPToken) []PPToken {
	for i := range tokens {
		switch tokens[i].Kind {
		case StringLiteral:
			unescapeToken(ctx, &tokens[i], '"')
		case CharacterConstant:
			unescapeToken(ctx, &tokens[i], '\'')
		}
	}
	return tokens
}
