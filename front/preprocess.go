package front

import (
	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

// A Line is a run of tokens ending in a newline token. The final line of
// an input instead holds only its EndOfFile token.
type Line []PPToken

func (l Line) isEOF() bool {
	return len(l) > 0 && l[0].Kind == EndOfFile
}

// Directive is one element of a parsed input: a run of text lines or a
// preprocessing directive.
type Directive interface {
	isDirective()
}

type TextDirective struct {
	Tokens []PPToken
}

type DefineDirective struct {
	Def *MacroDef
}

type UndefineDirective struct {
	Name PPToken
}

// IncludeDirective holds the tokens after `#include`, without leading or
// trailing whitespace and without the newline. Span covers the directive
// from `#` to its last token.
type IncludeDirective struct {
	Content []PPToken
	Span    TextSpan
}

type ElifArm struct {
	Condition IfCondition
	Body      []Line
}

type IfSectionDirective struct {
	Condition IfCondition
	MainBody  []Line
	Elifs     []ElifArm
	ElseBody  []Line
	HasElse   bool
}

func (TextDirective) isDirective()      {}
func (DefineDirective) isDirective()    {}
func (UndefineDirective) isDirective()  {}
func (IncludeDirective) isDirective()   {}
func (IfSectionDirective) isDirective() {}

type IfConditionKind int

const (
	// CondEmpty only guards sections that failed to parse; it is never
	// selected.
	CondEmpty IfConditionKind = iota
	CondPlain
	CondDefined
	CondUndefined
)

type IfCondition struct {
	Kind   IfConditionKind
	Tokens []PPToken // CondPlain
	Ident  PPToken   // CondDefined, CondUndefined
}

// splitLines breaks the output of the lexer into lines. A zero width
// newline is added when the input does not end with one, and the
// EndOfFile token becomes a line of its own.
func splitLines(tokens []PPToken, in *Input) []Line {
	var eof PPToken
	if n := len(tokens); n > 0 && tokens[n-1].Kind == EndOfFile {
		eof = tokens[n-1]
		tokens = tokens[:n-1]
	} else {
		span := NewSpan(in.ID, 0, 0)
		if n > 0 {
			span = NewSpan(in.ID, tokens[n-1].Origin.Span.End(), 0)
		}
		eof = NewPPToken(EndOfFile, "", SourceOrigin(span))
	}

	if n := len(tokens); n == 0 || !tokens[n-1].IsNewline() {
		span := NewSpan(in.ID, 0, 0)
		if n > 0 {
			span = NewSpan(in.ID, tokens[n-1].Origin.Span.End(), 0)
		}
		tokens = append(cloneTokens(tokens), NewPPToken(Whitespace, "\n", SourceOrigin(span)))
	}

	var lines []Line
	start := 0
	for i, t := range tokens {
		if t.IsNewline() {
			lines = append(lines, Line(tokens[start:i+1]))
			start = i + 1
		}
	}
	return append(lines, Line{eof})
}

// Returns the name token of the directive on line. A line is a directive
// when its first two non-whitespace tokens are `#` and an identifier.
func lineDirective(line Line) (PPToken, bool) {
	seenHash := false
	for _, t := range line {
		if t.IsWhitespace() {
			continue
		}
		if !seenHash {
			if !t.IsPunct("#") {
				return PPToken{}, false
			}
			seenHash = true
			continue
		}
		return t, t.IsIdent()
	}
	return PPToken{}, false
}

// Reports whether line holds only `#`.
func lineIsNullDirective(line Line) bool {
	tokens := WithoutWhitespace(line)
	return len(tokens) == 1 && tokens[0].IsPunct("#")
}

// Returns the tokens after the directive name, ending with the newline.
func directiveContent(line Line) []PPToken {
	seen := 0
	for i, t := range line {
		if t.IsWhitespace() {
			continue
		}
		seen++
		if seen == 2 {
			return line[i+1:]
		}
	}
	return nil
}

func skipWhitespaceNotNewline(tokens []PPToken, i int) int {
	for i < len(tokens) && tokens[i].IsWhitespaceNotNewline() {
		i++
	}
	return i
}

type directiveParser struct {
	ctx   *TUCtx
	lines []Line
	pos   int
}

// Reports whether no lines remain before the end of the input.
func (p *directiveParser) atEnd() bool {
	return p.pos >= len(p.lines) || p.lines[p.pos].isEOF()
}

func (p *directiveParser) next() Line {
	line := p.lines[p.pos]
	p.pos++
	return line
}

// Returns the origin to report a missing `#endif` at.
func (p *directiveParser) endOrigin() TokenOrigin {
	if p.pos < len(p.lines) {
		return p.lines[p.pos][0].Origin
	}
	last := p.lines[len(p.lines)-1]
	return last[len(last)-1].Origin
}

func (p *directiveParser) parse() []Directive {
	var out []Directive
	for !p.atEnd() {
		line := p.next()

		name, ok := lineDirective(line)
		if !ok {
			if lineIsNullDirective(line) {
				continue
			}
			text := append([]PPToken(nil), line...)
			for !p.atEnd() {
				l := p.lines[p.pos]
				if _, ok := lineDirective(l); ok || lineIsNullDirective(l) {
					break
				}
				text = append(text, l...)
				p.pos++
			}
			out = append(out, TextDirective{Tokens: text})
			continue
		}

		switch name.Value {
		case "define":
			if def := p.parseDefine(line); def != nil {
				out = append(out, DefineDirective{Def: def})
			}
		case "undef":
			if tok, ok := p.parseUndefine(line); ok {
				out = append(out, UndefineDirective{Name: tok})
			}
		case "include":
			if inc, ok := p.parseInclude(line); ok {
				out = append(out, inc)
			}
		case "if":
			cond := IfCondition{Kind: CondPlain, Tokens: directiveContent(line)}
			if sec, ok := p.parseIfSection(cond); ok {
				out = append(out, sec)
			}
		case "ifdef", "ifndef":
			ident, ok := p.parseIdentifierLine(directiveContent(line))
			if !ok {
				// consume the section anyway so its #else and #endif are
				// not reported as stray
				p.parseIfSection(IfCondition{Kind: CondEmpty})
				continue
			}
			kind := CondDefined
			if name.Value == "ifndef" {
				kind = CondUndefined
			}
			if sec, ok := p.parseIfSection(IfCondition{Kind: kind, Ident: ident}); ok {
				out = append(out, sec)
			}
		case "else", "elif", "endif":
			p.ctx.EmitMessage(name.Origin, UnexpectedDirective{Directive: name.Value})
		default:
			p.ctx.EmitMessage(name.Origin, InvalidDirective{Directive: name.Value})
		}
	}
	return out
}

// parseIdentifierLine checks that tokens hold one identifier and the
// newline.
func (p *directiveParser) parseIdentifierLine(tokens []PPToken) (PPToken, bool) {
	i := skipWhitespaceNotNewline(tokens, 0)
	ident := tokens[i]
	if !ident.IsIdent() {
		p.ctx.EmitMessage(ident.Origin, ExpectedFound{
			Expected: PlainPart("identifier"),
			Found:    TokenPart(ident.Kind),
		})
		return PPToken{}, false
	}

	i = skipWhitespaceNotNewline(tokens, i+1)
	if i < len(tokens) && !tokens[i].IsNewline() {
		p.ctx.EmitMessage(tokens[i].Origin, ExpectedFound{
			Expected: PlainPart("newline"),
			Found:    TokenPart(tokens[i].Kind),
		})
	}
	return ident, true
}

type paramState int

const (
	paramLParen paramState = iota
	paramComma
	paramIdent
	paramVararg
)

func (p *directiveParser) parseDefine(line Line) *MacroDef {
	content := directiveContent(line)
	i := skipWhitespaceNotNewline(content, 0)

	name := content[i]
	if !name.IsIdent() {
		p.ctx.EmitMessage(name.Origin, ExpectedFound{
			Expected: TokenPart(Identifier),
			Found:    TokenPart(name.Kind),
		})
		return nil
	}
	i++

	if !content[i].IsPunct("(") {
		replacement := TrimWhitespace(content[i:])
		if !p.checkDoubleHash(replacement) {
			return nil
		}
		return &MacroDef{
			Kind:        ObjectMacro,
			Name:        name.Value,
			Replacement: cloneTokens(replacement),
			Origin:      name.Origin,
		}
	}

	def := &MacroDef{Kind: FunctionMacro, Name: name.Value, Params: []string{}, Origin: name.Origin}
	state := paramLParen
	for i++; i < len(content); i++ {
		t := content[i]
		if t.IsPunct(")") && state != paramComma {
			i++
			break
		}
		if t.IsNewline() {
			p.ctx.EmitMessage(t.Origin, ExpectedFound{
				Expected: PlainPart("`)`"),
				Found:    PlainPart("newline"),
			})
			return nil
		}
		if t.IsWhitespace() {
			continue
		}

		switch state {
		case paramLParen, paramComma:
			switch {
			case t.IsIdent():
				state = paramIdent
				if def.IsParam(t.Value) {
					p.ctx.EmitMessage(t.Origin, RepeatedMacroParameter{Parameter: t.Value})
				} else {
					def.Params = append(def.Params, t.Value)
				}
			case t.IsPunct("..."):
				state = paramVararg
				def.Vararg = true
			default:
				p.ctx.EmitMessage(t.Origin, ExpectedFound{
					Expected: PlainPart("identifier or `...`"),
					Found:    PlainPart("`" + t.Value + "`"),
				})
				return nil
			}
		case paramIdent:
			if !t.IsPunct(",") {
				p.ctx.EmitMessage(t.Origin, ExpectedFound{
					Expected: PlainPart("`,`"),
					Found:    PlainPart("`" + t.Value + "`"),
				})
				return nil
			}
			state = paramComma
		case paramVararg:
			p.ctx.EmitMessage(t.Origin, ExpectedFound{
				Expected: PlainPart("`)`"),
				Found:    PlainPart("`" + t.Value + "`"),
			})
			return nil
		}
	}

	// The newline is kept here so a trailing `#` is caught.
	replacement := content[i:]
	var hash *PPToken
	for k := range replacement {
		t := replacement[k]
		if t.IsWhitespaceNotNewline() {
			continue
		}
		if hash != nil {
			if !t.IsIdent() || !def.IsParam(t.Value) {
				p.ctx.EmitMessage(hash.Origin, IllegalSingleHash{})
				return nil
			}
			hash = nil
		} else if t.IsPunct("#") {
			hash = &replacement[k]
		}
	}

	replacement = TrimWhitespace(replacement)
	if !p.checkDoubleHash(replacement) {
		return nil
	}
	def.Replacement = cloneTokens(replacement)
	return def
}

// Reports IllegalDoubleHash when a trimmed replacement list starts or ends
// with `##`.
func (p *directiveParser) checkDoubleHash(replacement []PPToken) bool {
	n := len(replacement)
	if n == 0 {
		return true
	}
	for _, t := range []PPToken{replacement[0], replacement[n-1]} {
		if t.IsPunct("##") {
			p.ctx.EmitMessage(t.Origin, IllegalDoubleHash{})
			return false
		}
	}
	return true
}

func (p *directiveParser) parseUndefine(line Line) (PPToken, bool) {
	content := directiveContent(line)
	i := skipWhitespaceNotNewline(content, 0)

	name := content[i]
	if !name.IsIdent() {
		p.ctx.EmitMessage(name.Origin, ExpectedFound{
			Expected: TokenPart(Identifier),
			Found:    TokenPart(name.Kind),
		})
		return PPToken{}, false
	}

	i = skipWhitespaceNotNewline(content, i+1)
	if extra := content[i]; !extra.IsNewline() {
		p.ctx.EmitMessage(extra.Origin, ExpectedFound{
			Expected: PlainPart("newline"),
			Found:    TokenPart(extra.Kind),
		})
		return PPToken{}, false
	}
	return name, true
}

func (p *directiveParser) parseInclude(line Line) (IncludeDirective, bool) {
	hash := line[skipWhitespaceNotNewline(line, 0)]
	content := TrimWhitespace(directiveContent(line))
	if len(content) == 0 {
		p.ctx.EmitMessage(line[len(line)-1].Origin, IncludeBegin{})
		return IncludeDirective{}, false
	}

	// neither trailing whitespace nor the newline is part of the directive
	return IncludeDirective{
		Content: content,
		Span:    hash.Origin.Span.Union(content[len(content)-1].Origin.Span),
	}, true
}

type ifState int

const (
	inMain ifState = iota
	inElif
	inElse
)

// Parses the lines of an if-section up to and including its `#endif`.
// The directive line holding cond has already been consumed.
func (p *directiveParser) parseIfSection(cond IfCondition) (IfSectionDirective, bool) {
	sec := IfSectionDirective{Condition: cond}
	state := inMain
	var elif IfCondition

	for {
		body := p.collectBody()
		if p.atEnd() {
			p.ctx.EmitMessage(p.endOrigin(), ExpectedFound{
				Expected: DirectivePart("endif"),
				Found:    TokenPart(EndOfFile),
			})
			return IfSectionDirective{}, false
		}
		line := p.next()

		switch state {
		case inMain:
			sec.MainBody = body
		case inElif:
			sec.Elifs = append(sec.Elifs, ElifArm{Condition: elif, Body: body})
		case inElse:
			sec.ElseBody = body
			sec.HasElse = true
		}

		name, _ := lineDirective(line)
		switch {
		case name.Value == "endif":
			return sec, true
		case state == inElse:
			// only #endif may follow #else
			p.ctx.EmitMessage(name.Origin, ExpectedFound{
				Expected: DirectivePart("endif"),
				Found:    DirectivePart(name.Value),
			})
			return IfSectionDirective{}, false
		case name.Value == "elif":
			elif = IfCondition{Kind: CondPlain, Tokens: directiveContent(line)}
			state = inElif
		case name.Value == "else":
			content := directiveContent(line)
			i := skipWhitespaceNotNewline(content, 0)
			if t := content[i]; !t.IsNewline() {
				p.ctx.EmitMessage(t.Origin, ExpectedFound{
					Expected: PlainPart("newline"),
					Found:    TokenPart(t.Kind),
				})
			}
			state = inElse
		}
	}
}

// Collects the lines of one if-section body, stopping before the
// `#elif`, `#else` or `#endif` that ends it. Nested sections are included
// whole.
func (p *directiveParser) collectBody() []Line {
	var body []Line
	depth := 0
	for !p.atEnd() {
		line := p.lines[p.pos]
		if name, ok := lineDirective(line); ok {
			switch name.Value {
			case "if", "ifdef", "ifndef":
				depth++
			case "endif":
				if depth == 0 {
					return body
				}
				depth--
			case "else", "elif":
				if depth == 0 {
					return body
				}
			}
		}
		body = append(body, line)
		p.pos++
	}
	return body
}

func parseDirectives(ctx *TUCtx, lines []Line) []Directive {
	p := &directiveParser{ctx: ctx, lines: lines}
	return p.parse()
}

// Preprocess performs translation phase 4: conditional inclusion, file
// inclusion and macro expansion.
//
// Work is split in two stages. The first resolves if-sections and
// includes into a flat list of text, define and undefine directives; the
// second expands macros over that list. This lets a function-like macro
// invocation span an if-section or an included file.
func Preprocess(ctx *TUCtx, tokens []PPToken) []PPToken {
	lines := splitLines(tokens, ctx.OriginalInput())
	eof := lines[len(lines)-1][0]

	directives := processIncludeDirectives(ctx, lines, map[string]*MacroDef{})
	log.Debug("%s: %d directives after inclusion", ctx.OriginalInput().Name, len(directives))

	// The expander needs to see EndOfFile last to know that an unclosed
	// invocation cannot be completed.
	appended := false
	if n := len(directives); n > 0 {
		if text, ok := directives[n-1].(TextDirective); ok {
			text.Tokens = append(cloneTokens(text.Tokens), eof)
			directives[n-1] = text
			appended = true
		}
	}
	if !appended {
		directives = append(directives, TextDirective{Tokens: []PPToken{eof}})
	}

	return newDirectiveExpander(ctx, map[string]*MacroDef{}, directives).expand()
}
