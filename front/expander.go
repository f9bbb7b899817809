package front

import (
	"strings"
	"unicode/utf8"

	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

// Expander performs macro replacement over a stream of directives.
//
// Tokens come first from the rescan stack, then from the current text line,
// then from the next text directive. Define and undefine directives are
// applied as they are reached.
type Expander struct {
	ctx     *TUCtx
	defines map[string]*MacroDef
	output  []PPToken

	// stored in reverse; the next token is last
	rescan     []PPToken
	line       []PPToken
	directives []Directive
}

func newDirectiveExpander(ctx *TUCtx, defines map[string]*MacroDef, directives []Directive) *Expander {
	return &Expander{ctx: ctx, defines: defines, directives: directives}
}

// newLineExpander expands a lone run of tokens, such as a macro argument.
func newLineExpander(ctx *TUCtx, defines map[string]*MacroDef, tokens []PPToken) *Expander {
	return &Expander{ctx: ctx, defines: defines, line: tokens}
}

// pushRescan arranges for tokens to be read again, in order, before
// anything else.
func (e *Expander) pushRescan(tokens []PPToken) {
	for i := len(tokens) - 1; i >= 0; i-- {
		e.rescan = append(e.rescan, tokens[i])
	}
}

func (e *Expander) next() (PPToken, bool) {
	if n := len(e.rescan); n > 0 {
		t := e.rescan[n-1]
		e.rescan = e.rescan[:n-1]
		return t, true
	}
	if len(e.line) > 0 {
		t := e.line[0]
		e.line = e.line[1:]
		return t, true
	}
	return e.advanceLine()
}

// Applies directives until a text directive is found, and returns its
// first token.
func (e *Expander) advanceLine() (PPToken, bool) {
	for len(e.directives) > 0 {
		d := e.directives[0]
		e.directives = e.directives[1:]

		switch d := d.(type) {
		case DefineDirective:
			e.addDefine(d.Def)
		case UndefineDirective:
			e.removeDefine(d.Name)
		case TextDirective:
			if len(d.Tokens) > 0 {
				e.line = d.Tokens
				return e.next()
			}
		}
	}
	return PPToken{}, false
}

func (e *Expander) addDefine(def *MacroDef) {
	orig, ok := e.defines[def.Name]
	if !ok {
		e.defines[def.Name] = def
		return
	}
	if !orig.Equivalent(def) {
		e.ctx.EmitMessageWithChildren(def.Origin, MacroRedefinitionDifferent{Name: def.Name},
			NewMessage(orig.Origin, MacroFirstDefined{Name: def.Name}))
	}
}

func (e *Expander) removeDefine(name PPToken) {
	if _, ok := e.defines[name.Value]; !ok {
		e.ctx.EmitMessage(name.Origin, UndefineInvalidMacro{Name: name.Value})
		return
	}
	delete(e.defines, name.Value)
}

// Reads the arguments of an invocation of def whose `(` has been
// consumed. Also returns the closing `)`. Reports false after an error.
func (e *Expander) parseArguments(def *MacroDef, open PPToken) (map[string][]PPToken, PPToken, bool) {
	var args [][]PPToken
	var cur []PPToken
	var rparen PPToken
	depth := 0

loop:
	for {
		t, ok := e.next()
		if !ok || t.Kind == EndOfFile {
			at := open.Origin
			if ok {
				at = t.Origin
			}
			e.ctx.EmitMessageWithChildren(at, UnclosedMacroInvocation{Name: def.Name},
				NewMessage(open.Origin, MacroInvocationOpening{Name: def.Name}))
			if ok {
				// leave EndOfFile for the caller
				e.rescan = append(e.rescan, t)
			}
			return nil, PPToken{}, false
		}

		switch {
		case t.IsPunct(",") && depth == 0:
			if def.Vararg && len(args) == len(def.Params) {
				// the rest, commas included, is __VA_ARGS__
				cur = append(cur, t)
			} else {
				args = append(args, cur)
				cur = nil
			}
		case t.IsPunct("("):
			depth++
			cur = append(cur, t)
		case t.IsPunct(")") && depth > 0:
			depth--
			cur = append(cur, t)
		case t.IsPunct(")"):
			// no argument is passed to F() when F takes no parameters
			if len(TrimWhitespace(cur)) > 0 || len(def.Params) > 0 {
				args = append(args, cur)
			}
			rparen = t
			break loop
		default:
			cur = append(cur, t)
		}
	}

	for i := range args {
		args[i] = TrimWhitespace(args[i])
	}

	var vaArgs []PPToken
	if def.Vararg {
		vaArgs = []PPToken{}
		if len(args) > len(def.Params) {
			vaArgs = args[len(args)-1]
			args = args[:len(args)-1]
		}
	}

	if len(args) != len(def.Params) {
		e.ctx.EmitMessage(open.Origin, MacroArity{
			Name:     def.Name,
			Expected: len(def.Params),
			Found:    len(args),
			Vararg:   def.Vararg,
		})
		return nil, rparen, false
	}

	params := make(map[string][]PPToken, len(args)+1)
	for i, p := range def.Params {
		params[p] = args[i]
	}
	if def.Vararg {
		params[VaArgs] = vaArgs
	}

	if log.IsTrace() {
		for p, arg := range params {
			log.Trace("macro %s argument %s = %q", def.Name, p, TokensString(arg))
		}
	}
	return params, rparen, true
}

// Double-quote a given string literal or character constant, escaping
// backslashes and double quotes.
func quoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// stringize implements the `#` operator. Each run of whitespace in arg
// becomes a single space.
func stringize(arg []PPToken, origin TokenOrigin) PPToken {
	var b strings.Builder
	b.WriteByte('"')
	space := false
	for _, t := range TrimWhitespace(arg) {
		switch t.Kind {
		case Whitespace:
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		case StringLiteral, CharacterConstant:
			b.WriteString(quoteString(t.Value))
		default:
			b.WriteString(t.Value)
		}
		space = false
	}
	b.WriteByte('"')
	return NewPPToken(StringLiteral, b.String(), origin)
}

// Fully expands tokens with a fresh expander sharing the macro table.
func (e *Expander) expandTokens(tokens []PPToken) []PPToken {
	return newLineExpander(e.ctx, e.defines, cloneTokens(tokens)).expand()
}

// replace substitutes the parameters of def in body and applies the `#`
// and `##` operators. args is nil for object-like macros.
func (e *Expander) replace(def *MacroDef, body []PPToken, args map[string][]PPToken) []PPToken {
	function := def.Kind == FunctionMacro
	param := func(t PPToken) ([]PPToken, bool) {
		if !function || !t.IsIdent() {
			return nil, false
		}
		arg, ok := args[t.Value]
		return arg, ok
	}

	if log.IsTrace() {
		log.Trace("replace %s: %q", def.Name, TokensString(body))
	}

	var out []PPToken
	skipRHS := false
	for i := 0; i < len(body); {
		t := body[i]
		i++

		if arg, ok := param(t); ok {
			j := i
			for j < len(body) && body[j].IsWhitespace() {
				j++
			}
			ws := body[i:j]

			switch {
			case j < len(body) && body[j].IsPunct("##"):
				i = j
				if len(arg) > 0 {
					// the `##` is handled on the next iteration
					out = append(out, arg...)
					break
				}
				i = skipWhitespaceNotNewline(body, i+1)
				if i < len(body) {
					if _, ok := param(body[i]); ok {
						// substitute the rhs without expanding it
						skipRHS = true
					}
				}
				// an empty lhs with a plain rhs drops both lhs and `##`
			case skipRHS:
				i = j
				skipRHS = false
				out = append(out, arg...)
				out = append(out, ws...)
			default:
				i = j
				out = append(out, e.expandTokens(arg)...)
				out = append(out, ws...)
			}
			continue
		}

		if function && t.IsPunct("#") {
			// a parameter always follows; the definition was checked
			i = skipWhitespaceNotNewline(body, i)
			if i < len(body) {
				rhs := body[i]
				i++
				arg, _ := param(rhs)
				out = append(out, stringize(arg, t.Origin))
			}
			continue
		}

		if t.IsPunct("##") {
			k := len(out) - 1
			for k >= 0 && out[k].IsWhitespace() {
				k--
			}
			if k < 0 {
				continue
			}
			lhs := out[k]
			out = out[:k]

			i = skipWhitespaceNotNewline(body, i)
			if i >= len(body) {
				out = append(out, lhs)
				continue
			}
			rhs := body[i]
			i++

			var rest []PPToken
			if arg, ok := param(rhs); ok {
				if len(arg) == 0 {
					out = append(out, lhs)
					continue
				}
				rhs, rest = arg[0], arg[1:]
			}

			value := lhs.Value + rhs.Value
			n, kind := LexOne(value)
			if n != utf8.RuneCountInString(value) {
				e.ctx.EmitMessage(t.Origin, BadConcatenation{LHS: lhs.Value, RHS: rhs.Value})
				continue
			}
			out = append(out, NewPPToken(kind, value, t.Origin))
			out = append(out, rest...)
			continue
		}

		out = append(out, t)
	}

	if log.IsTrace() {
		log.Trace("replace %s result: %q", def.Name, TokensString(out))
	}
	return out
}

// Returns a copy of the replacement list of def whose origins point at
// the body slots of invocation.
func relabelBody(def *MacroDef, invocation uint32) []PPToken {
	body := cloneTokens(def.Replacement)
	for i := range body {
		body[i].Origin = MacroOrigin(NewBodyResult(invocation, uint16(i)))
	}
	return body
}

// Records the output position of every token produced by invocation.
func postUpdate(tokens []PPToken, invocation uint32) {
	for i := range tokens {
		o := &tokens[i].Origin
		if o.Kind == OriginMacro && o.Macro.Invocation == invocation {
			o.Macro = o.Macro.WithOutIndex(uint16(i))
		}
	}
}

// Marks every occurrence of name as non-expandable.
func markNonExpandable(tokens []PPToken, name string) {
	for i := range tokens {
		if tokens[i].IsIdent() && tokens[i].Value == name {
			tokens[i].Kind = IdentifierNonExpandable
		}
	}
}

func (e *Expander) expandIdent(t PPToken) {
	def, ok := e.defines[t.Value]
	if !ok {
		e.output = append(e.output, t)
		return
	}

	if def.Kind == ObjectMacro {
		id := e.ctx.AddMacroInvocation(MacroInvocation{
			Definition: def,
			Name:       t,
			Arguments:  map[string][]PPToken{},
		})
		out := e.replace(def, relabelBody(def, id), nil)
		markNonExpandable(out, def.Name)
		e.pushRescan(addHideset(out, hidesetUnion(t.hideset, newHideset(def.Name))))
		return
	}

	// Whitespace between the name and `(` belongs to the invocation, but
	// is kept when this turns out not to be one.
	var ws []PPToken
	var next PPToken
	found := false
	for {
		n, ok := e.next()
		if !ok {
			break
		}
		if n.IsWhitespace() {
			ws = append(ws, n)
			continue
		}
		next, found = n, true
		break
	}

	if !found || !next.IsPunct("(") {
		e.output = append(e.output, t)
		e.output = append(e.output, ws...)
		if found {
			if next.Kind == Identifier {
				e.rescan = append(e.rescan, next)
			} else {
				e.output = append(e.output, next)
			}
		}
		return
	}

	args, rparen, ok := e.parseArguments(def, next)
	if !ok {
		return
	}

	saved := make(map[string][]PPToken, len(args))
	for p, arg := range args {
		saved[p] = cloneTokens(arg)
	}
	id := e.ctx.AddMacroInvocation(MacroInvocation{Definition: def, Name: t, Arguments: saved})

	slot := uint16(0)
	for _, p := range def.allParams() {
		arg := args[p]
		for k := range arg {
			arg[k].Origin = MacroOrigin(NewParamResult(id, slot))
			slot++
		}
	}

	out := e.replace(def, relabelBody(def, id), args)
	postUpdate(out, id)
	markNonExpandable(out, def.Name)
	hs := hidesetUnion(hidesetIntersection(t.hideset, rparen.hideset), newHideset(def.Name))
	e.pushRescan(addHideset(out, hs))
}

func (e *Expander) expand() []PPToken {
	for {
		t, ok := e.next()
		if !ok {
			break
		}
		if t.Kind != Identifier {
			e.output = append(e.output, t)
			continue
		}
		if t.hideset.contains(t.Value) {
			t.Kind = IdentifierNonExpandable
			e.output = append(e.output, t)
			continue
		}
		e.expandIdent(t)
	}
	return e.output
}
