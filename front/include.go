package front

import (
	"strings"

	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

// MaxIncludeDepth bounds the nesting of `#include`.
const MaxIncludeDepth = 32

// processIncludeDirectives parses lines and resolves their if-sections and
// includes against defines, returning only text, define and undefine
// directives.
func processIncludeDirectives(ctx *TUCtx, lines []Line, defines map[string]*MacroDef) []Directive {
	var out []Directive
	for _, d := range parseDirectives(ctx, lines) {
		switch d := d.(type) {
		case IfSectionDirective:
			if body, ok := selectBody(ctx, d, defines); ok {
				out = append(out, processIncludeDirectives(ctx, body, defines)...)
			}
		case DefineDirective:
			if _, ok := defines[d.Def.Name]; !ok {
				defines[d.Def.Name] = d.Def
			}
			out = append(out, d)
		case UndefineDirective:
			delete(defines, d.Name.Value)
			out = append(out, d)
		case TextDirective:
			out = append(out, d)
		case IncludeDirective:
			included := processFileInclusion(ctx, d, defines)
			out = append(out, processIncludeDirectives(ctx, included, defines)...)
		}
	}
	return out
}

// Returns the body of the first arm of sec whose condition holds.
func selectBody(ctx *TUCtx, sec IfSectionDirective, defines map[string]*MacroDef) ([]Line, bool) {
	if evaluateCondition(ctx, sec.Condition, defines) {
		return sec.MainBody, true
	}
	for _, arm := range sec.Elifs {
		if evaluateCondition(ctx, arm.Condition, defines) {
			return arm.Body, true
		}
	}
	if sec.HasElse {
		return sec.ElseBody, true
	}
	return nil, false
}

func evaluateCondition(ctx *TUCtx, cond IfCondition, defines map[string]*MacroDef) bool {
	switch cond.Kind {
	case CondDefined:
		_, ok := defines[cond.Ident.Value]
		return ok
	case CondUndefined:
		_, ok := defines[cond.Ident.Value]
		return !ok
	case CondPlain:
		return evalPlainCondition(ctx, cond.Tokens, defines)
	}
	return false
}

// processFileInclusion resolves one `#include` and returns the lines of
// the included input.
func processFileInclusion(ctx *TUCtx, inc IncludeDirective, defines map[string]*MacroDef) []Line {
	if ctx.FatalError {
		return nil
	}

	tokens := inc.Content
	if tokens[0].Kind == Identifier {
		tokens = newLineExpander(ctx, defines, cloneTokens(tokens)).expand()
	}
	i := skipWhitespaceNotNewline(tokens, 0)
	if i >= len(tokens) {
		ctx.EmitMessage(inc.Content[0].Origin, IncludeBegin{})
		return nil
	}

	first := tokens[i]
	i++
	var name string
	var system bool
	switch {
	case first.IsPunct("<"):
		system = true
		var b strings.Builder
		closed := false
		for ; i < len(tokens); i++ {
			t := tokens[i]
			if t.IsPunct(">") {
				i++
				closed = true
				break
			}
			b.WriteString(t.Value)
		}
		if !closed {
			ctx.EmitMessage(first.Origin, IncludeUnclosed{})
			return nil
		}
		name = b.String()
	case first.Kind == StringLiteral && strings.HasPrefix(first.Value, `"`):
		name = first.Value[1 : len(first.Value)-1]
	default:
		ctx.EmitMessage(first.Origin, IncludeBegin{})
		return nil
	}

	i = skipWhitespaceNotNewline(tokens, i)
	if i < len(tokens) {
		// harmless, so keep going
		ctx.EmitMessage(tokens[i].Origin, IncludeExtra{Kind: tokens[i].Kind})
	}

	parent := ctx.Input(inc.Span.Pos.Input)
	if parent.Depth+1 > MaxIncludeDepth {
		ctx.EmitMessage(first.Origin, IncludeDepth{})
		return nil
	}

	in := ctx.AddInclude(name, system, IncludedFrom{Input: parent.ID, Span: inc.Span})
	if in == nil {
		ctx.EmitMessage(first.Origin, IncludeNotFound{DesiredFile: name})
		return nil
	}
	log.Debug("%s: `%s` in %s includes %s", ctx.OriginalInput().Name, parent.Text(inc.Span), parent.Name, in.Name)

	chars := CharTokensFromInput(in)
	chars = ConvertTrigraphs(chars)
	chars = SpliceLines(ctx, chars)
	return splitLines(Lex(ctx, chars, in), in)
}
