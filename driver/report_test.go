package driver

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAPerson/denuocc-sub000/front"
)

func reportFor(t *testing.T, files map[string]string, root string) string {
	cfg := DefaultConfig()
	cfg.SystemPaths = []string{"/sys"}
	s, err := NewSession(Options{Fs: newTestFs(t, files), Config: cfg, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	_, err = s.AddInputFile(root)
	require.NoError(t, err)
	require.NoError(t, s.RunAll())

	var out bytes.Buffer
	require.NoError(t, s.ReportMessages(&out, false))
	return out.String()
}

func TestReportMessage(t *testing.T) {
	got := reportFor(t, map[string]string{"/a.c": "int x;\n#undef X\n"}, "/a.c")
	assert.Equal(t, "/a.c:2:8: warning: macro `X` does not exist\n"+
		"  warning: macro `X` does not exist\n"+
		"  /a.c:2:8\n"+
		"  #undef X\n", got)
}

func TestReportIncludeTrail(t *testing.T) {
	got := reportFor(t, map[string]string{
		"/a.c":       "\n#include <bad.h>\n",
		"/sys/bad.h": "#undef Y\n",
	}, "/a.c")
	assert.Equal(t, "/sys/bad.h:1:8: warning: macro `Y` does not exist\n"+
		"  warning: macro `Y` does not exist\n"+
		"  /sys/bad.h:1:8\n"+
		"  #undef Y\n"+
		"  In file included from /a.c:2:1\n", got)
}

func TestReportChildren(t *testing.T) {
	in := front.NewInput("<x>", "#define F(a) a\nF(1\n", "")
	ctx := front.NewTUCtx(in, nil)
	require.NoError(t, ctx.Run(front.FrontPasses()))
	require.NotEmpty(t, ctx.Messages)

	var out bytes.Buffer
	require.NoError(t, WriteMessages(&out, ctx.Messages, false))
	for _, m := range ctx.Messages {
		assert.Contains(t, out.String(), m.Position+": "+m.Severity().String()+": "+m.Kind.Headline()+"\n")
		for _, child := range m.Children {
			assert.Contains(t, out.String(), "    "+child.Severity().String()+": "+child.Kind.Headline()+"\n")
		}
	}
}

func TestReportUnpositioned(t *testing.T) {
	m := front.NewMessage(front.TokenOrigin{}, front.IncludeDepth{})
	var out bytes.Buffer
	require.NoError(t, WriteMessages(&out, []*front.Message{m}, false))
	assert.Equal(t, "fatal error: maximum nested include depth exceeded\n"+
		"  fatal error: maximum nested include depth exceeded\n", out.String())
}

func TestReportColored(t *testing.T) {
	m := front.NewMessage(front.TokenOrigin{}, front.UndefineInvalidMacro{Name: "X"})
	var out bytes.Buffer
	require.NoError(t, WriteMessages(&out, []*front.Message{m}, true))
	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "macro `X` does not exist")
}
