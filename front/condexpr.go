package front

import (
	"strconv"
	"strings"
)

// Conditions of `#if` and `#elif` are evaluated with the grammar below;
// anything else is reported as unsupported and taken as false.
//
//	cond    = and ("||" and)*
//	and     = unary ("&&" unary)*
//	unary   = "!" unary | primary
//	primary = "(" cond ")" | num

type condNodeKind int

const (
	condOr  condNodeKind = iota // ||
	condAnd                     // &&
	condNot                     // !
	condNum                     // integer
)

type condNode struct {
	kind condNodeKind
	lhs  *condNode
	rhs  *condNode
	val  int64 // used if kind is condNum
}

func newCondBinary(kind condNodeKind, lhs, rhs *condNode) *condNode {
	return &condNode{kind: kind, lhs: lhs, rhs: rhs}
}

func newCondUnary(kind condNodeKind, expr *condNode) *condNode {
	return &condNode{kind: kind, lhs: expr}
}

func newCondNumber(val int64) *condNode {
	return &condNode{kind: condNum, val: val}
}

func (n *condNode) eval() int64 {
	switch n.kind {
	case condOr:
		if n.lhs.eval() != 0 || n.rhs.eval() != 0 {
			return 1
		}
		return 0
	case condAnd:
		if n.lhs.eval() != 0 && n.rhs.eval() != 0 {
			return 1
		}
		return 0
	case condNot:
		if n.lhs.eval() == 0 {
			return 1
		}
		return 0
	}
	return n.val
}

type condParser struct {
	ctx    *TUCtx
	tokens []PPToken
	pos    int
	failed bool
}

func (p *condParser) peek() (PPToken, bool) {
	if p.pos >= len(p.tokens) {
		return PPToken{}, false
	}
	return p.tokens[p.pos], true
}

func (p *condParser) consume(op string) bool {
	if t, ok := p.peek(); ok && t.IsPunct(op) {
		p.pos++
		return true
	}
	return false
}

// Reports t and stops evaluation. Only the first failure is reported.
func (p *condParser) unsupported(t PPToken) *condNode {
	if !p.failed {
		p.ctx.EmitMessage(t.Origin, UnsupportedCondition{Token: t.Value})
		p.failed = true
	}
	return newCondNumber(0)
}

// cond = and ("||" and)*
func (p *condParser) cond() *condNode {
	node := p.and()
	for p.consume("||") {
		node = newCondBinary(condOr, node, p.and())
	}
	return node
}

// and = unary ("&&" unary)*
func (p *condParser) and() *condNode {
	node := p.unary()
	for p.consume("&&") {
		node = newCondBinary(condAnd, node, p.unary())
	}
	return node
}

// unary = "!" unary | primary
func (p *condParser) unary() *condNode {
	if p.consume("!") {
		return newCondUnary(condNot, p.unary())
	}
	return p.primary()
}

// primary = "(" cond ")" | num
func (p *condParser) primary() *condNode {
	t, ok := p.peek()
	if !ok {
		return p.unsupported(p.tokens[len(p.tokens)-1])
	}

	if p.consume("(") {
		node := p.cond()
		if !p.consume(")") {
			if t, ok := p.peek(); ok {
				return p.unsupported(t)
			}
			return p.unsupported(p.tokens[len(p.tokens)-1])
		}
		return node
	}

	if t.Kind == PPNumber {
		p.pos++
		val, err := strconv.ParseInt(strings.TrimRight(t.Value, "uUlL"), 0, 64)
		if err != nil {
			return p.unsupported(t)
		}
		return newCondNumber(val)
	}

	return p.unsupported(t)
}

func boolNumber(b bool, origin TokenOrigin) PPToken {
	if b {
		return NewPPToken(PPNumber, "1", origin)
	}
	return NewPPToken(PPNumber, "0", origin)
}

// Origin of toks[i], or of the `defined` token when the line ends first.
func operandOrigin(toks []PPToken, i int, defined PPToken) TokenOrigin {
	if i < len(toks) {
		return toks[i].Origin
	}
	return defined.Origin
}

// evalPlainCondition evaluates the tokens of an `#if` or `#elif` line,
// which end with the newline.
func evalPlainCondition(ctx *TUCtx, tokens []PPToken, defines map[string]*MacroDef) bool {
	toks := WithoutWhitespace(tokens)
	if len(toks) == 0 {
		at := TokenOrigin{}
		if len(tokens) > 0 {
			at = tokens[len(tokens)-1].Origin
		}
		ctx.EmitMessage(at, ExpectedFound{Expected: PlainPart("expression"), Found: PlainPart("newline")})
		return false
	}

	// "defined(foo)" or "defined foo" becomes "1" if macro "foo" is
	// defined. Otherwise "0". This happens before expansion so that the
	// operand is not expanded.
	expr := make([]PPToken, 0, len(toks))
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if !t.IsIdent() || t.Value != "defined" {
			expr = append(expr, t)
			continue
		}

		j := i + 1
		paren := j < len(toks) && toks[j].IsPunct("(")
		if paren {
			j++
		}
		if j >= len(toks) || !toks[j].IsIdent() {
			ctx.EmitMessage(operandOrigin(toks, j, t), DefineOperator{})
			return false
		}
		_, ok := defines[toks[j].Value]
		j++
		if paren {
			if j >= len(toks) || !toks[j].IsPunct(")") {
				ctx.EmitMessage(operandOrigin(toks, j, t), DefineOperator{})
				return false
			}
			j++
		}
		expr = append(expr, boolNumber(ok, t.Origin))
		i = j - 1
	}

	expr = WithoutWhitespace(newLineExpander(ctx, defines, expr).expand())

	// Identifiers left after expansion are not macros and count as 0.
	for i, t := range expr {
		if t.IsIdent() {
			expr[i] = NewPPToken(PPNumber, "0", t.Origin)
		}
	}
	if len(expr) == 0 {
		ctx.EmitMessage(toks[0].Origin, ExpectedFound{Expected: PlainPart("expression"), Found: PlainPart("newline")})
		return false
	}

	p := &condParser{ctx: ctx, tokens: expr}
	node := p.cond()
	if t, ok := p.peek(); ok {
		p.unsupported(t)
	}
	if p.failed {
		return false
	}
	return node.eval() != 0
}
