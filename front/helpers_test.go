package front

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testInputName = "<unit-test>"

// mapResolver serves includes from memory.
type mapResolver map[string]string

func (m mapResolver) Resolve(name string, system bool, including *Input) (*Input, error) {
	content, ok := m[name]
	if !ok {
		return nil, nil
	}
	return NewInput(name, content, ""), nil
}

// runPhases runs the read pass and phases 1 through upto over src.
func runPhases(t *testing.T, src string, upto int, resolver IncludeResolver) *TUCtx {
	t.Helper()
	ctx := NewTUCtx(NewInput(testInputName, src, ""), resolver)
	require.NoError(t, ctx.Run(FrontPasses()[:upto+1]))
	return ctx
}

func charsAfter(t *testing.T, src string, upto int) (string, *TUCtx) {
	t.Helper()
	ctx := runPhases(t, src, upto, nil)
	s, err := ctx.State()
	require.NoError(t, err)
	require.Equal(t, CharTokensState, s.Kind)
	return CharTokensString(s.Chars), ctx
}

func tokensAfter(t *testing.T, src string, upto int, resolver IncludeResolver) ([]PPToken, *TUCtx) {
	t.Helper()
	ctx := runPhases(t, src, upto, resolver)
	s, err := ctx.State()
	require.NoError(t, err)
	require.Equal(t, PPTokensState, s.Kind)
	return s.Tokens, ctx
}

// values returns the values of the non-whitespace tokens, without the
// final EndOfFile.
func values(tokens []PPToken) []string {
	out := []string{}
	for _, t := range WithoutWhitespace(tokens) {
		if t.Kind == EndOfFile {
			continue
		}
		out = append(out, t.Value)
	}
	return out
}

func headlines(ctx *TUCtx) []string {
	out := []string{}
	for _, m := range ctx.Messages {
		out = append(out, m.Kind.Headline())
	}
	return out
}

func requireEOFLast(t *testing.T, tokens []PPToken) {
	t.Helper()
	require.NotEmpty(t, tokens)
	for _, tok := range tokens[:len(tokens)-1] {
		require.NotEqual(t, EndOfFile, tok.Kind)
	}
	require.Equal(t, EndOfFile, tokens[len(tokens)-1].Kind)
}
