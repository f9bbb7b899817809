package front

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

// Longest spellings first: an alternation prefers its leftmost branch.
var punctuators = []string{
	"%:%:",
	"...", "<<=", ">>=",
	"->", "++", "--", "<=", ">=", "==", "!=", "&&", "||", "*=", "/=", "%=",
	"+=", "-=", "&=", "^=", "|=", "##", "<:", ":>", "<%", "%>", "%:", "<<", ">>",
	"[", "]", "(", ")", "{", "}", "?", ";", ",", "#", "<", ">", "!", ":",
	"&", "*", "+", "-", "~", "/", "%", "^", "|", "=", ".",
}

type lexRule struct {
	re   *regexp2.Regexp
	kind PPTokenKind
}

// The order matters: on a tie in length the later rule wins.
var lexRules = []lexRule{
	{compileRule(`(?s)\A.`), Other},
	{compileRule(`\A(?:[ \f\r\t\v]+|\n)`), Whitespace},
	{compileRule(`\A(?://[^\n]*|(?s:/\*.*?\*/))`), Whitespace},
	{compileRule(`\A[A-Za-z_][A-Za-z0-9_]*`), Identifier},
	{compileRule(`\A\.?[0-9](?:[eEpP][+\-]|[A-Za-z0-9_]|\.)*`), PPNumber},
	{compileRule(`\A[LuU]?'(?:[^'\\\n]|\\.)*'`), CharacterConstant},
	{compileRule(`\A(?:u8|u|U|L)?"(?:[^"\\\n]|\\.)*"`), StringLiteral},
	{compileRule(punctuatorPattern()), Punctuator},
}

func punctuatorPattern() string {
	alts := make([]string, len(punctuators))
	for i, p := range punctuators {
		alts[i] = regexp2.Escape(p)
	}
	return `\A(?:` + strings.Join(alts, "|") + `)`
}

func compileRule(pattern string) *regexp2.Regexp {
	return regexp2.MustCompile(pattern, regexp2.None)
}

// Categorize the first token of text, which must be non-empty. Returns the
// number of runes consumed.
func lexRunes(text []rune) (int, PPTokenKind) {
	length, kind := 0, Other
	for _, rule := range lexRules {
		m, err := rule.re.FindRunesMatch(text)
		if err != nil || m == nil {
			continue
		}
		if m.Length > 0 && m.Length >= length {
			length, kind = m.Length, rule.kind
		}
	}
	return length, kind
}

// LexOne categorizes the first token of s. It returns the length of the
// token in runes; a result shorter than s means s holds several tokens.
func LexOne(s string) (int, PPTokenKind) {
	if s == "" {
		return 0, EndOfFile
	}
	return lexRunes([]rune(s))
}

// Lex turns the characters of in into preprocessing tokens. The result
// always ends with exactly one EndOfFile token.
func Lex(ctx *TUCtx, chars []CharToken, in *Input) []PPToken {
	text := make([]rune, len(chars))
	for i, c := range chars {
		text[i] = c.Value
	}

	var out []PPToken
	for i := 0; i < len(text); {
		n, kind := lexRunes(text[i:])
		first, last := chars[i], chars[i+n-1]
		value := string(text[i : i+n])
		i += n

		if kind == Other && (value == "'" || value == `"`) {
			// a terminated constant would have matched a longer rule
			ctx.EmitMessage(SourceOrigin(first.Span), MissingTerminator{Terminator: first.Value})
			for i < len(text) && text[i] != '\n' {
				i++
			}
			continue
		}

		out = append(out, NewPPToken(kind, value, SourceOrigin(first.Span.Union(last.Span))))
	}

	eof := NewSpan(in.ID, 0, 0)
	if len(out) > 0 {
		eof = out[len(out)-1].Origin.Span
	}
	out = append(out, NewPPToken(EndOfFile, "", SourceOrigin(eof)))

	if log.IsTrace() {
		for i, t := range out {
			log.Trace("lex %s[%d] = %s %q", in.Name, i, t.Kind, t.Value)
		}
	}
	return out
}
