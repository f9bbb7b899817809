package front

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncludeQuoted(t *testing.T) {
	files := mapResolver{"a.h": "#define X 1\nX\n"}
	tokens, ctx := tokensAfter(t, "#include \"a.h\"\nmain X", 4, files)
	assert.Equal(t, []string{"1", "main", "1"}, values(tokens))
	assert.Empty(t, ctx.Messages)
	requireEOFLast(t, tokens)

	require.Len(t, ctx.Inputs, 2)
	in := ctx.Inputs[1]
	assert.Equal(t, uint32(1), in.ID)
	assert.Equal(t, "a.h", in.Name)
	assert.Equal(t, uint32(1), in.Depth)
	require.NotNil(t, in.IncludedFrom)
	assert.Equal(t, uint32(0), in.IncludedFrom.Input)
	// from `#` up to the closing quote
	assert.Equal(t, NewSpan(0, 0, 14), in.IncludedFrom.Span)
	assert.Equal(t, "#include \"a.h\"", ctx.Inputs[0].Text(in.IncludedFrom.Span))
}

func TestIncludeSpanIgnoresTrailingWhitespace(t *testing.T) {
	files := mapResolver{"a.h": "int a;\n", "b.h": "int b;\n"}
	for _, src := range []string{
		"#include \"a.h\"   \n",
		"#include \"a.h\" /* note */\n",
		"  #  include   \"a.h\"\t\n",
		"#include \"a.h\"",
	} {
		tokens, ctx := tokensAfter(t, src, 4, files)
		assert.Equal(t, []string{"int", "a", ";"}, values(tokens), "%q", src)
		assert.Empty(t, ctx.Messages, "%q", src)
		require.Len(t, ctx.Inputs, 2, "%q", src)
		span := ctx.Inputs[1].IncludedFrom.Span
		assert.True(t, strings.HasSuffix(ctx.Inputs[0].Text(span), `"a.h"`), "%q", src)
		assert.True(t, strings.HasPrefix(ctx.Inputs[0].Text(span), "#"), "%q", src)
	}

	// a macro name is kept whole, with the trailing blanks dropped
	tokens, ctx := tokensAfter(t, "#define H <b.h>\n#include H  \n", 4, files)
	assert.Equal(t, []string{"int", "b", ";"}, values(tokens))
	assert.Equal(t, "#include H", ctx.Inputs[0].Text(ctx.Inputs[1].IncludedFrom.Span))
}

func TestIncludeSystem(t *testing.T) {
	files := mapResolver{"sys/b.h": "int b;\n"}
	tokens, ctx := tokensAfter(t, "#include <sys/b.h>\n", 4, files)
	assert.Equal(t, []string{"int", "b", ";"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

func TestIncludeMacroName(t *testing.T) {
	files := mapResolver{"b.h": "b\n", "c.h": "c\n"}
	tokens, ctx := tokensAfter(t, "#define H <b.h>\n#define Q \"c.h\"\n#include H\n#include Q\n", 4, files)
	assert.Equal(t, []string{"b", "c"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

// A macro invocation may begin in one file and end in another.
func TestIncludeInsideInvocation(t *testing.T) {
	files := mapResolver{"args.h": "1, 2\n"}
	tokens, ctx := tokensAfter(t, "#define P(a, b) a + b\nP(\n#include \"args.h\"\n)", 4, files)
	assert.Equal(t, []string{"1", "+", "2"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

func TestIncludeGuard(t *testing.T) {
	files := mapResolver{"g.h": "#ifndef G\n#define G\nonce\n#endif\n"}
	tokens, ctx := tokensAfter(t, "#include \"g.h\"\n#include \"g.h\"\n", 4, files)
	assert.Equal(t, []string{"once"}, values(tokens))
	assert.Empty(t, ctx.Messages)
	assert.Len(t, ctx.Inputs, 3)
}

func TestIncludeEmptyFile(t *testing.T) {
	files := mapResolver{"e.h": ""}
	tokens, ctx := tokensAfter(t, "#include \"e.h\"\nx", 4, files)
	assert.Equal(t, []string{"x"}, values(tokens))
	assert.Empty(t, ctx.Messages)
}

func TestIncludeNotFound(t *testing.T) {
	ctx := runPhases(t, "#include <nope.h>\nx", 6, mapResolver{})
	require.Len(t, ctx.Messages, 1)
	m := ctx.Messages[0]
	assert.Equal(t, IncludeNotFound{DesiredFile: "nope.h"}, m.Kind)
	assert.Equal(t, SeverityFatal, m.Severity())
	assert.Equal(t, "could not include `nope.h`: file not found", m.Kind.Headline())
	assert.True(t, ctx.FatalError)
	assert.False(t, ctx.Success())

	// the passes after phase 4 did not run
	s, err := ctx.State()
	require.NoError(t, err)
	assert.Contains(t, values(s.Tokens), "x")
	assert.Equal(t, 1, ctx.CountMessages(SeverityFatal))

	// no resolver at all
	_, ctx = tokensAfter(t, "#include \"a.h\"\n", 4, nil)
	assert.Equal(t, []string{"could not include `a.h`: file not found"}, headlines(ctx))
}

func TestIncludeDepth(t *testing.T) {
	files := mapResolver{"self.h": "#include \"self.h\"\n"}
	ctx := runPhases(t, "#include \"self.h\"\n", 4, files)
	assert.Len(t, ctx.Inputs, MaxIncludeDepth+1)
	assert.Equal(t, uint32(MaxIncludeDepth), ctx.Inputs[MaxIncludeDepth].Depth)
	require.Len(t, ctx.Messages, 1)
	m := ctx.Messages[0]
	assert.Equal(t, IncludeDepth{}, m.Kind)
	assert.True(t, ctx.FatalError)
	assert.Equal(t, "self.h:1:10", m.Position)
	assert.Len(t, m.IncludeTrail, MaxIncludeDepth)
	assert.Equal(t, "In file included from self.h:1:1", m.IncludeTrail[0])
	assert.Equal(t, "In file included from "+testInputName+":1:1", m.IncludeTrail[MaxIncludeDepth-1])
}

func TestIncludeDepthBelowLimit(t *testing.T) {
	files := mapResolver{}
	// a chain of includes exactly MaxIncludeDepth deep
	names := make([]string, MaxIncludeDepth+1)
	for i := 1; i <= MaxIncludeDepth; i++ {
		names[i] = string(rune('A'+i%26)) + string(rune('a'+i/26)) + ".h"
	}
	for i := 1; i < MaxIncludeDepth; i++ {
		files[names[i]] = "#include \"" + names[i+1] + "\"\n"
	}
	files[names[MaxIncludeDepth]] = "deepest\n"

	tokens, ctx := tokensAfter(t, "#include \""+names[1]+"\"\n", 4, files)
	assert.Equal(t, []string{"deepest"}, values(tokens))
	assert.Empty(t, ctx.Messages)
	assert.Len(t, ctx.Inputs, MaxIncludeDepth+1)
}

func TestIncludeErrors(t *testing.T) {
	files := mapResolver{"a.h": ""}
	tests := []struct {
		src  string
		want string
	}{
		{"#include\n", "expected `<FILENAME>`, `\"FILENAME\"`, or a macro that expands to either of those"},
		{"#include foo\n", "expected `<FILENAME>`, `\"FILENAME\"`, or a macro that expands to either of those"},
		{"#include 12\n", "expected `<FILENAME>`, `\"FILENAME\"`, or a macro that expands to either of those"},
		{"#include <a.h\n", "expected `>` to close corresponding `<` after `#include`"},
		{"#include \"a.h\" x\n", "expected newline after <FILENAME>; found identifier"},
	}
	for _, tt := range tests {
		_, ctx := tokensAfter(t, tt.src, 4, files)
		assert.Equal(t, []string{tt.want}, headlines(ctx), "%q", tt.src)
	}

	// extra tokens are only a warning and the file is still included
	ctx := runPhases(t, "#include \"a.h\" x\n", 4, files)
	assert.True(t, ctx.Success())
	assert.Len(t, ctx.Inputs, 2)
}

func TestIncludedMessagePosition(t *testing.T) {
	files := mapResolver{"bad.h": "ok\n#undef NOPE\n"}
	ctx := runPhases(t, "int x;\n#include \"bad.h\"\n", 4, files)
	require.Len(t, ctx.Messages, 1)
	m := ctx.Messages[0]
	assert.Equal(t, "bad.h:2:8", m.Position)
	assert.Equal(t, "#undef NOPE", m.Excerpt)
	assert.Equal(t, []string{"In file included from " + testInputName + ":2:1"}, m.IncludeTrail)
}
