package front

import (
	"fmt"
	"strings"
)

// CharToken is a single source character. Its span may be wider than one
// byte after trigraph conversion.
type CharToken struct {
	Value rune
	Span  TextSpan
}

// CharTokensFromInput decodes the content of in into one CharToken per
// character.
func CharTokensFromInput(in *Input) []CharToken {
	tokens := make([]CharToken, 0, len(in.Content))
	for p := 0; p < len(in.Content); {
		c, n := decodeUTF8(in.Content[p:])
		tokens = append(tokens, CharToken{
			Value: c,
			Span:  NewSpan(in.ID, uint32(p), uint32(n)),
		})
		p += n
	}
	return tokens
}

// CharTokensString joins the values of tokens.
func CharTokensString(tokens []CharToken) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteRune(t.Value)
	}
	return b.String()
}

type PPTokenKind int

const (
	EndOfFile PPTokenKind = iota
	Whitespace
	Identifier
	IdentifierNonExpandable // identifier painted by its own expansion
	PPNumber
	CharacterConstant
	StringLiteral
	Punctuator
	Other
)

var ppTokenKindNames = map[PPTokenKind]string{
	EndOfFile:               "end-of-file",
	Whitespace:              "whitespace",
	Identifier:              "identifier",
	IdentifierNonExpandable: "identifier",
	PPNumber:                "number",
	CharacterConstant:       "character-constant",
	StringLiteral:           "string-literal",
	Punctuator:              "punctuator",
	Other:                   "other",
}

func (k PPTokenKind) String() string {
	if s, ok := ppTokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("PPTokenKind(%d)", int(k))
}

func (k PPTokenKind) MarshalText() ([]byte, error) {
	if k == IdentifierNonExpandable {
		return []byte("identifier-nonexpandable"), nil
	}
	return []byte(k.String()), nil
}

// PPToken is a preprocessing token.
type PPToken struct {
	Kind   PPTokenKind
	Value  string
	Origin TokenOrigin

	hideset *hideset
}

func NewPPToken(kind PPTokenKind, value string, origin TokenOrigin) PPToken {
	return PPToken{Kind: kind, Value: value, Origin: origin}
}

func (t PPToken) String() string {
	return t.Value
}

// Equal compares kind and value. Origins are ignored, and both identifier
// kinds compare equal.
func (t PPToken) Equal(o PPToken) bool {
	if t.IsIdent() && o.IsIdent() {
		return t.Value == o.Value
	}
	return t.Kind == o.Kind && t.Value == o.Value
}

func (t PPToken) IsWhitespace() bool {
	return t.Kind == Whitespace
}

func (t PPToken) IsNewline() bool {
	return t.Kind == Whitespace && t.Value == "\n"
}

func (t PPToken) IsWhitespaceNotNewline() bool {
	return t.Kind == Whitespace && t.Value != "\n"
}

func (t PPToken) IsIdent() bool {
	return t.Kind == Identifier || t.Kind == IdentifierNonExpandable
}

// IsPunct reports whether t is the punctuator op.
func (t PPToken) IsPunct(op string) bool {
	return t.Kind == Punctuator && t.Value == op
}

// TokensString concatenates the values of tokens, reproducing source text.
func TokensString(tokens []PPToken) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}

// TrimWhitespace drops leading and trailing whitespace tokens.
func TrimWhitespace(tokens []PPToken) []PPToken {
	first, last := 0, len(tokens)
	for first < last && tokens[first].IsWhitespace() {
		first++
	}
	for last > first && tokens[last-1].IsWhitespace() {
		last--
	}
	return tokens[first:last]
}

// WithoutWhitespace returns the non-whitespace tokens of tokens.
func WithoutWhitespace(tokens []PPToken) []PPToken {
	out := make([]PPToken, 0, len(tokens))
	for _, t := range tokens {
		if !t.IsWhitespace() {
			out = append(out, t)
		}
	}
	return out
}

// LooseEqual compares two token sequences ignoring whitespace.
func LooseEqual(a, b []PPToken) bool {
	a, b = WithoutWhitespace(a), WithoutWhitespace(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func cloneTokens(tokens []PPToken) []PPToken {
	if tokens == nil {
		return nil
	}
	out := make([]PPToken, len(tokens))
	copy(out, tokens)
	return out
}
