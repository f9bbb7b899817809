package driver

import (
	"io"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/JustAPerson/denuocc-sub000/front"
	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

// StdinName is the name given to the input read for the file `-`.
const StdinName = "<stdin>"

type Options struct {
	Fs     afero.Fs // defaults to the OS filesystem
	Config *Config  // defaults to DefaultConfig()

	// Passes overrides Config.DefaultPasses.
	Passes []PassSpec

	// ExtraContents maps an include name to its contents, for headers that
	// exist only in memory. See Session.AddExtraFile.
	ExtraContents map[string]string

	Stderr io.Writer // pass output; defaults to os.Stderr
	Stdin  io.Reader // read for the input `-`; defaults to os.Stdin
}

// Session holds the pass pipeline and the translation units it is run on.
type Session struct {
	fs       afero.Fs
	config   *Config
	stderr   io.Writer
	stdin    io.Reader
	passes   []front.Pass
	resolver *FileResolver
	units    []*TranslationUnit
}

// NewSession builds and checks the pass pipeline. Errors are
// UnknownPassError, PassArgsArityError or an invalid trace glob.
func NewSession(opts Options) (*Session, error) {
	s := &Session{
		fs:     opts.Fs,
		config: opts.Config,
		stderr: opts.Stderr,
		stdin:  opts.Stdin,
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.stdin == nil {
		s.stdin = os.Stdin
	}

	specs := opts.Passes
	if len(specs) == 0 {
		specs = s.config.DefaultPasses
	}
	if len(specs) == 0 {
		specs = DefaultPasses()
	}

	var traced glob.Glob
	if s.config.TracePasses != "" {
		g, err := glob.Compile(s.config.TracePasses)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid TRACE_PASSES `%s`", s.config.TracePasses)
		}
		traced = g
	}

	for _, spec := range specs {
		p, err := s.BuildPass(spec)
		if err != nil {
			return nil, err
		}
		if traced != nil && traced.Match(spec.Name) {
			p = tracePass(spec, p)
		}
		s.passes = append(s.passes, p)
	}

	s.resolver = NewFileResolver(s.fs, s.config.SystemPaths, s.config.ExtraFiles)
	for alias, content := range opts.ExtraContents {
		s.resolver.AddContent(alias, content)
	}
	return s, nil
}

// Logs the state left by p.
func tracePass(spec PassSpec, p front.Pass) front.Pass {
	return front.NewPass(p.Name(), func(ctx *front.TUCtx) error {
		if err := p.Run(ctx); err != nil {
			return err
		}
		if state, err := ctx.State(); err == nil {
			log.Info("%s: after %s:\n%s", ctx.OriginalInput().Name, spec, state)
		}
		return nil
	})
}

// Passes returns the names of the pipeline, in order.
func (s *Session) Passes() []string {
	names := make([]string, len(s.passes))
	for i, p := range s.passes {
		names[i] = p.Name()
	}
	return names
}

// AddInputFile adds a translation unit read from path. The path `-` reads
// standard input.
func (s *Session) AddInputFile(path string) (*TranslationUnit, error) {
	if path == "-" {
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return nil, errors.WithStack(InputFileError{File: StdinName, Err: err})
		}
		return s.addInput(front.NewInput(StdinName, string(data), "")), nil
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, errors.WithStack(InputFileError{File: path, Err: err})
	}
	return s.addInput(front.NewInput(path, string(data), path)), nil
}

// AddInputString adds a translation unit holding content. alias must be of
// the form `<name>`, so it cannot be mistaken for a file.
func (s *Session) AddInputString(alias, content string) (*TranslationUnit, error) {
	if len(alias) < 2 || !strings.HasPrefix(alias, "<") || !strings.HasSuffix(alias, ">") {
		return nil, errors.WithStack(InputAliasError{Alias: alias})
	}
	return s.addInput(front.NewInput(alias, content, "")), nil
}

// AddExtraFile makes content includable as alias by every unit, with either
// `#include "alias"` or `#include <alias>`.
func (s *Session) AddExtraFile(alias, content string) {
	s.resolver.AddContent(alias, content)
}

func (s *Session) addInput(in *front.Input) *TranslationUnit {
	tu := newTranslationUnit(in)
	s.units = append(s.units, tu)
	log.Info("added input %s (%d bytes)", in.Name, len(in.Content))
	return tu
}

// RunAll runs the pipeline on every unit that has not been run yet. It
// stops at the first runtime error; source problems are only recorded as
// messages.
func (s *Session) RunAll() error {
	for _, tu := range s.units {
		if tu.ran {
			continue
		}
		ctx := front.NewTUCtx(tu.Input, s.resolver)
		err := ctx.Run(s.passes)
		tu.collect(ctx)
		if err != nil {
			return errors.WithMessagef(err, "%s", tu.Name())
		}
	}
	return nil
}

func (s *Session) Units() []*TranslationUnit {
	return s.units
}

func (s *Session) CountMessages(sev front.Severity) int {
	n := 0
	for _, tu := range s.units {
		n += tu.CountMessages(sev)
	}
	return n
}

// Success reports whether no unit produced an error or fatal message.
func (s *Session) Success() bool {
	for _, tu := range s.units {
		if !tu.Success() {
			return false
		}
	}
	return true
}

// ReportMessages writes the messages of every unit to w.
func (s *Session) ReportMessages(w io.Writer, colored bool) error {
	for _, tu := range s.units {
		if err := WriteMessages(w, tu.Messages, colored); err != nil {
			return err
		}
	}
	return nil
}
