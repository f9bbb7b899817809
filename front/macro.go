package front

import "strings"

// VaArgs names the parameter holding the variable arguments of a vararg
// macro.
const VaArgs = "__VA_ARGS__"

type MacroKind int

const (
	ObjectMacro MacroKind = iota
	FunctionMacro
)

func (k MacroKind) String() string {
	if k == FunctionMacro {
		return "function"
	}
	return "object"
}

func (k MacroKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// MacroDef is a macro created by `#define`. Definitions are shared by every
// invocation citing them and are never modified once parsed.
type MacroDef struct {
	Kind        MacroKind
	Name        string
	Params      []string
	Vararg      bool
	Replacement []PPToken
	Origin      TokenOrigin // the name token in the #define line
}

// Equivalent reports whether a redefinition of d as o is allowed.
// Whitespace runs in the replacement lists compare equal regardless of
// their spelling.
func (d *MacroDef) Equivalent(o *MacroDef) bool {
	if d.Kind != o.Kind || d.Name != o.Name || d.Vararg != o.Vararg {
		return false
	}
	if len(d.Params) != len(o.Params) {
		return false
	}
	for i := range d.Params {
		if d.Params[i] != o.Params[i] {
			return false
		}
	}

	a := collapseWhitespace(d.Replacement)
	b := collapseWhitespace(o.Replacement)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].IsWhitespace() && b[i].IsWhitespace() {
			continue
		}
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func collapseWhitespace(tokens []PPToken) []PPToken {
	tokens = TrimWhitespace(tokens)
	out := make([]PPToken, 0, len(tokens))
	for _, t := range tokens {
		if t.IsWhitespace() && len(out) > 0 && out[len(out)-1].IsWhitespace() {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IsParam reports whether name is a parameter of d, including __VA_ARGS__
// for vararg macros.
func (d *MacroDef) IsParam(name string) bool {
	if d.Kind != FunctionMacro {
		return false
	}
	if d.Vararg && name == VaArgs {
		return true
	}
	for _, p := range d.Params {
		if p == name {
			return true
		}
	}
	return false
}

// allParams returns the parameter names in argument order.
func (d *MacroDef) allParams() []string {
	if !d.Vararg {
		return d.Params
	}
	params := make([]string, 0, len(d.Params)+1)
	params = append(params, d.Params...)
	return append(params, VaArgs)
}

func (d *MacroDef) String() string {
	var b strings.Builder
	b.WriteString(d.Name)
	if d.Kind == FunctionMacro {
		b.WriteByte('(')
		b.WriteString(strings.Join(d.Params, ", "))
		if d.Vararg {
			if len(d.Params) > 0 {
				b.WriteString(", ")
			}
			b.WriteString("...")
		}
		b.WriteByte(')')
	}
	b.WriteByte(' ')
	b.WriteString(TokensString(d.Replacement))
	return b.String()
}

// MacroInvocation records one expansion. The index of an invocation in the
// TUCtx log is its id.
type MacroInvocation struct {
	Definition *MacroDef
	Name       PPToken
	Arguments  map[string][]PPToken
}

// argumentAt finds the argument token at index, counting across the
// parameters in order.
func (inv *MacroInvocation) argumentAt(index int) (PPToken, bool) {
	for _, p := range inv.Definition.allParams() {
		arg := inv.Arguments[p]
		if index < len(arg) {
			return arg[index], true
		}
		index -= len(arg)
	}
	return PPToken{}, false
}
