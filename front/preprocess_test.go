package front

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func preprocess(t *testing.T, src string) ([]PPToken, *TUCtx) {
	t.Helper()
	return tokensAfter(t, src, 4, nil)
}

func TestObjectMacro(t *testing.T) {
	tokens, ctx := preprocess(t, "#define FOO 42\nFOO+FOO")
	assert.Equal(t, []string{"42", "+", "42"}, values(tokens))
	assert.Equal(t, "42+42\n", TokensString(tokens))
	assert.Empty(t, ctx.Messages)
	requireEOFLast(t, tokens)
	require.Len(t, ctx.MacroInvocations, 2)
	assert.Equal(t, "FOO", ctx.MacroInvocations[0].Definition.Name)
}

func TestEmptyObjectMacro(t *testing.T) {
	tokens, ctx := preprocess(t, "#define E\na E b")
	assert.Equal(t, []string{"a", "b"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

func TestConcatenationOperator(t *testing.T) {
	tokens, ctx := preprocess(t, "#define CAT(a,b) a##b\nCAT(x,y)")
	assert.Equal(t, []string{"xy"}, values(tokens))
	assert.Equal(t, Identifier, tokens[0].Kind)
	assert.Empty(t, ctx.Messages)

	tokens, _ = preprocess(t, "#define CAT(a,b) a ## b\nCAT(1,2) CAT(,x) CAT(x,) CAT(+,=)")
	assert.Equal(t, []string{"12", "x", "x", "+="}, values(tokens))
	assert.Equal(t, PPNumber, tokens[0].Kind)
}

func TestConcatenationInvalid(t *testing.T) {
	tokens, ctx := preprocess(t, "#define C(a,b) a##b\nC(+,/)")
	assert.Empty(t, values(tokens))
	require.Len(t, ctx.Messages, 1)
	assert.Equal(t, BadConcatenation{LHS: "+", RHS: "/"}, ctx.Messages[0].Kind)
	// reported at the `##` of the definition
	assert.Equal(t, testInputName+":1:17", ctx.Messages[0].Position)
	assert.Equal(t, "#define C(a,b) a##b", ctx.Messages[0].Excerpt)
}

func TestStringizeOperator(t *testing.T) {
	tokens, ctx := preprocess(t, "#define STR(x) #x\nSTR(hello world)")
	require.Equal(t, []string{`"hello world"`}, values(tokens))
	assert.Equal(t, StringLiteral, tokens[0].Kind)
	assert.Empty(t, ctx.Messages)

	tokens, _ = preprocess(t, "#define STR(x) # x\nSTR(  a   +\n b  ) STR() STR(\"q\\n\")")
	assert.Equal(t, []string{`"a + b"`, `""`, `"\"q\\n\""`}, values(tokens))
}

func TestMutualRecursion(t *testing.T) {
	tokens, ctx := preprocess(t, "#define A B\n#define B A\nA")
	require.Equal(t, []string{"A"}, values(tokens))
	assert.Equal(t, IdentifierNonExpandable, tokens[0].Kind)
	assert.Empty(t, ctx.Messages)
}

func TestSelfReference(t *testing.T) {
	tokens, _ := preprocess(t, "#define f(x) f(x)\nf(1)")
	require.Equal(t, []string{"f", "(", "1", ")"}, values(tokens))
	assert.Equal(t, IdentifierNonExpandable, tokens[0].Kind)

	tokens, _ = preprocess(t, "#define x x+1\nx")
	require.Equal(t, []string{"x", "+", "1"}, values(tokens))
	assert.Equal(t, IdentifierNonExpandable, tokens[0].Kind)
}

func TestFunctionMacroNotInvoked(t *testing.T) {
	tokens, ctx := preprocess(t, "#define f(x) x\nf + 1")
	assert.Equal(t, []string{"f", "+", "1"}, values(tokens))
	assert.Equal(t, "f + 1\n", TokensString(tokens))
	assert.Empty(t, ctx.Messages)

	tokens, _ = preprocess(t, "#define f(x) x\n#define g 2\nf g")
	assert.Equal(t, []string{"f", "2"}, values(tokens))

	tokens, _ = preprocess(t, "#define f(x) x\nf")
	assert.Equal(t, []string{"f"}, values(tokens))
	requireEOFLast(t, tokens)
}

func TestFunctionMacroArguments(t *testing.T) {
	tokens, ctx := preprocess(t, "#define f(a, b) b a\nf((1, 2), 3)")
	assert.Equal(t, []string{"3", "(", "1", ",", "2", ")"}, values(tokens))
	assert.Empty(t, ctx.Messages)

	// invocations may span lines
	tokens, _ = preprocess(t, "#define f(x) <x>\nf(\n1\n)")
	assert.Equal(t, []string{"<", "1", ">"}, values(tokens))

	// arguments are expanded before substitution
	tokens, _ = preprocess(t, "#define ONE 1\n#define f(x) x\nf(ONE)")
	assert.Equal(t, []string{"1"}, values(tokens))

	tokens, ctx = preprocess(t, "#define z() 0\nz()")
	assert.Equal(t, []string{"0"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

func TestVariadicMacro(t *testing.T) {
	tokens, ctx := preprocess(t, "#define V(a, ...) a __VA_ARGS__\nV(1, 2, 3)")
	assert.Equal(t, []string{"1", "2", ",", "3"}, values(tokens))
	assert.Empty(t, ctx.Messages)

	tokens, ctx = preprocess(t, "#define V(a, ...) [__VA_ARGS__]\nV(1)")
	assert.Equal(t, []string{"[", "]"}, values(tokens))
	assert.Empty(t, ctx.Messages)

	tokens, _ = preprocess(t, "#define V(...) #__VA_ARGS__\nV(x, y)")
	assert.Equal(t, []string{`"x, y"`}, values(tokens))
}

func TestMacroArity(t *testing.T) {
	tokens, ctx := preprocess(t, "#define f(a,b) a\nf(1)")
	assert.Empty(t, values(tokens))
	require.Len(t, ctx.Messages, 1)
	assert.Equal(t, MacroArity{Name: "f", Expected: 2, Found: 1}, ctx.Messages[0].Kind)
	assert.Equal(t, "`f` expects exactly 2 arguments; found 1", ctx.Messages[0].Kind.Headline())
	requireEOFLast(t, tokens)

	_, ctx = preprocess(t, "#define v(a, b, ...) a\nv(1)")
	require.Len(t, ctx.Messages, 1)
	assert.Equal(t, "`v` expects at least 2 arguments; found 1", ctx.Messages[0].Kind.Headline())

	_, ctx = preprocess(t, "#define g(a) a\ng(1, 2)")
	require.Len(t, ctx.Messages, 1)
	assert.Equal(t, "`g` expects exactly 1 argument; found 2", ctx.Messages[0].Kind.Headline())
}

func TestUnclosedInvocation(t *testing.T) {
	tokens, ctx := preprocess(t, "#define f(a) a\nf(1")
	assert.Empty(t, values(tokens))
	requireEOFLast(t, tokens)
	require.Len(t, ctx.Messages, 1)
	m := ctx.Messages[0]
	assert.Equal(t, UnclosedMacroInvocation{Name: "f"}, m.Kind)
	require.Len(t, m.Children, 1)
	assert.Equal(t, MacroInvocationOpening{Name: "f"}, m.Children[0].Kind)
	assert.Equal(t, testInputName+":2:2", m.Children[0].Position)
}

func TestMacroRedefinition(t *testing.T) {
	_, ctx := preprocess(t, "#define A 1\n#define A 2\n")
	require.Len(t, ctx.Messages, 1)
	m := ctx.Messages[0]
	assert.Equal(t, MacroRedefinitionDifferent{Name: "A"}, m.Kind)
	assert.Equal(t, testInputName+":2:9", m.Position)
	require.Len(t, m.Children, 1)
	assert.Equal(t, MacroFirstDefined{Name: "A"}, m.Children[0].Kind)
	assert.Equal(t, testInputName+":1:9", m.Children[0].Position)

	// the first definition is kept
	tokens, _ := preprocess(t, "#define A 1\n#define A 2\nA")
	assert.Equal(t, []string{"1"}, values(tokens))

	for _, src := range []string{
		"#define A 1\n#define A  1 \n",
		"#define A 1 + 2\n#define A 1   +  2\n",
		"#define F(x) x\n#define F(x) x\n",
	} {
		_, ctx := preprocess(t, src)
		assert.Empty(t, ctx.Messages, "%q", src)
	}

	for _, src := range []string{
		"#define A 1+2\n#define A 1 + 2\n",
		"#define F(x) x\n#define F(y) y\n",
		"#define F(x) x\n#define F (x) x\n",
	} {
		_, ctx := preprocess(t, src)
		assert.Len(t, ctx.Messages, 1, "%q", src)
	}
}

func TestUndefine(t *testing.T) {
	tokens, ctx := preprocess(t, "#define A 1\nA\n#undef A\nA")
	assert.Equal(t, []string{"1", "A"}, values(tokens))
	assert.Empty(t, ctx.Messages)

	_, ctx = preprocess(t, "#undef X\n")
	require.Len(t, ctx.Messages, 1)
	assert.Equal(t, UndefineInvalidMacro{Name: "X"}, ctx.Messages[0].Kind)
	assert.True(t, ctx.Success())

	_, ctx = preprocess(t, "#undef X Y\n")
	assert.Equal(t, []string{"expected newline; found identifier token"}, headlines(ctx))
}

func TestDefineErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"#define 1\n", "expected identifier token; found number token"},
		{"#define\n", "expected identifier token; found whitespace token"},
		{"#define f(a b) a\n", "expected `,`; found `b`"},
		{"#define f(a\n", "expected `)`; found newline"},
		{"#define f(1) a\n", "expected identifier or `...`; found `1`"},
		{"#define f(..., a) a\n", "expected `)`; found `,`"},
		{"#define S(x) #y\n", "the `#` operator must be followed by a macro parameter"},
		{"#define S(x) x #\n", "the `#` operator must be followed by a macro parameter"},
		{"#define S(x) x ##\n", "a macro cannot begin nor end with `##`"},
		{"#define S(x) ## x\n", "a macro cannot begin nor end with `##`"},
		{"#define O ## a\n", "a macro cannot begin nor end with `##`"},
		{"#define O a ##  \n", "a macro cannot begin nor end with `##`"},
		{"#define O ##\n", "a macro cannot begin nor end with `##`"},
		{"#define f(a, a) a\n", "macro parameter `a` repeated"},
	}
	for _, tt := range tests {
		_, ctx := preprocess(t, tt.src)
		assert.Equal(t, []string{tt.want}, headlines(ctx), "%q", tt.src)
	}

	// a definition with errors is not entered
	tokens, _ := preprocess(t, "#define S(x) #y\nS(1)")
	assert.Equal(t, []string{"S", "(", "1", ")"}, values(tokens))
	tokens, _ = preprocess(t, "#define O ## a\nO")
	assert.Equal(t, []string{"O"}, values(tokens))

	// `##` inside an object-like replacement is fine
	tokens, ctx := preprocess(t, "#define O a ## b\nO")
	assert.Equal(t, []string{"ab"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

func TestDirectiveErrors(t *testing.T) {
	_, ctx := preprocess(t, "#foo\n")
	assert.Equal(t, []string{"invalid directive `foo`"}, headlines(ctx))

	for _, name := range []string{"else", "elif", "endif"} {
		_, ctx := preprocess(t, "#"+name+"\n")
		assert.Equal(t, []string{"unexpected directive `" + name + "`"}, headlines(ctx))
	}

	tokens, ctx := preprocess(t, "#\n  # \nx")
	assert.Equal(t, []string{"x"}, values(tokens))
	assert.Empty(t, ctx.Messages)

	// not a directive unless `#` starts the line
	tokens, _ = preprocess(t, "x # define A\n")
	assert.Equal(t, []string{"x", "#", "define", "A"}, values(tokens))
}

func TestConditionals(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"ifdef taken", "#define A\n#ifdef A\nyes\n#else\nno\n#endif\n", []string{"yes"}},
		{"ifdef not taken", "#ifdef A\nyes\n#else\nno\n#endif\n", []string{"no"}},
		{"ifndef", "#ifndef A\nyes\n#endif\nafter", []string{"yes", "after"}},
		{"elif defined", "#define B 1\n#ifdef A\nx\n#elif defined(B)\ny\n#else\nz\n#endif", []string{"y"}},
		{"elif defined no parens", "#define B\n#if defined A\nx\n#elif defined B\ny\n#endif", []string{"y"}},
		{"if numbers", "#if 0\na\n#elif 1\nb\n#endif", []string{"b"}},
		{"if logic", "#if 1 && !0\na\n#endif", []string{"a"}},
		{"if or", "#if 0 || (0 || 2)\na\n#endif", []string{"a"}},
		{"if hex", "#if 0x10 && 1UL\na\n#endif", []string{"a"}},
		{"if macro", "#define ON 1\n#if ON\na\n#endif", []string{"a"}},
		{"if unknown identifier", "#if UNKNOWN\na\n#else\nb\n#endif", []string{"b"}},
		{"nested", "#if 0\n#if 1\na\n#endif\nb\n#endif\nc", []string{"c"}},
		{"nested ifdef", "#if 0\n#ifdef X\n#else\n#endif\n#else\nk\n#endif", []string{"k"}},
		{"no arm", "#if 0\na\n#elif 0\nb\n#endif\nc", []string{"c"}},
		{"define inside", "#ifndef G\n#define G 7\n#endif\nG", []string{"7"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, ctx := preprocess(t, tt.src)
			assert.Equal(t, tt.want, values(tokens))
			assert.Empty(t, ctx.Messages)
			requireEOFLast(t, tokens)
		})
	}
}

// An invocation may span the lines chosen by an if-section.
func TestInvocationAcrossConditional(t *testing.T) {
	tokens, ctx := preprocess(t, "#define f(x) [x]\nf(\n#ifdef NOPE\n1\n#else\n2\n#endif\n)")
	assert.Equal(t, []string{"[", "2", "]"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

func TestConditionalErrors(t *testing.T) {
	tokens, ctx := preprocess(t, "#ifdef A\nx\n")
	assert.Empty(t, values(tokens))
	assert.Equal(t, []string{"expected `endif` directive; found end-of-file token"}, headlines(ctx))

	_, ctx = preprocess(t, "#ifdef A\n#else\n#else\n#endif")
	assert.Contains(t, headlines(ctx), "expected `endif` directive; found `else` directive")

	tokens, ctx = preprocess(t, "#ifdef 1\nx\n#else\ny\n#endif\nz")
	assert.Equal(t, []string{"z"}, values(tokens))
	assert.Equal(t, []string{"expected identifier; found number token"}, headlines(ctx))

	_, ctx = preprocess(t, "#ifdef A B\n#endif\n")
	assert.Equal(t, []string{"expected newline; found identifier token"}, headlines(ctx))

	_, ctx = preprocess(t, "#ifdef A\n#else x\n#endif\n")
	assert.Equal(t, []string{"expected newline; found identifier token"}, headlines(ctx))

	tokens, ctx = preprocess(t, "#if FOO + 1\na\n#endif")
	assert.Empty(t, values(tokens))
	assert.Equal(t, []string{"cannot evaluate `+` in `#if` expression"}, headlines(ctx))

	_, ctx = preprocess(t, "#if\n#endif")
	assert.Equal(t, []string{"expected expression; found newline"}, headlines(ctx))

	for _, src := range []string{"#if defined(\n#endif", "#if defined 3\n#endif", "#if defined(A B\n#endif", "#if defined\n#endif"} {
		tokens, ctx = preprocess(t, src+"\nz")
		assert.Equal(t, []string{"z"}, values(tokens), src)
		assert.Equal(t, []string{"expected identifier or left-paren after define operator"}, headlines(ctx), src)
	}

	// reported at the operand
	_, ctx = preprocess(t, "#if defined 3\n#endif")
	require.Len(t, ctx.Messages, 1)
	assert.Equal(t, testInputName+":1:13", ctx.Messages[0].Position)

	_, ctx = preprocess(t, "#if (1\n#endif")
	assert.Equal(t, []string{"cannot evaluate `1` in `#if` expression"}, headlines(ctx))
}

func TestMacroOriginsResolveToSource(t *testing.T) {
	tokens, ctx := preprocess(t, "#define F(x) [x]\nF(y)")
	require.Equal(t, []string{"[", "y", "]"}, values(tokens))
	toks := WithoutWhitespace(tokens)

	// `[` comes from the body, `y` from the argument
	assert.Equal(t, OriginMacro, toks[0].Origin.Kind)
	assert.False(t, toks[0].Origin.Macro.IsParam())
	assert.Equal(t, NewSpan(0, 13, 1), ctx.RootSpan(toks[0].Origin))

	assert.Equal(t, OriginMacro, toks[1].Origin.Kind)
	assert.True(t, toks[1].Origin.Macro.IsParam())
	assert.Equal(t, NewSpan(0, 19, 1), ctx.RootSpan(toks[1].Origin))

	// source tokens resolve to themselves
	assert.Equal(t, NewSpan(0, 5, 1), ctx.RootSpan(SourceOrigin(NewSpan(0, 5, 1))))
}
