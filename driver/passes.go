package driver

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/JustAPerson/denuocc-sub000/front"
	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

type passFunc = func(ctx *front.TUCtx) error

type passEntry struct {
	arity int
	build func(s *Session, args []string) passFunc
}

func fixed(fn passFunc) passEntry {
	return passEntry{build: func(*Session, []string) passFunc { return fn }}
}

var passRegistry = map[string]passEntry{
	"state_read_input": fixed(front.ReadInput),
	"phase1":           fixed(front.Phase1),
	"phase2":           fixed(front.Phase2),
	"phase3":           fixed(front.Phase3),
	"phase4":           fixed(front.Phase4),
	"phase5":           fixed(front.Phase5),
	"phase6":           fixed(front.Phase6),

	"state_save": {arity: 1, build: func(_ *Session, args []string) passFunc {
		name := args[0]
		return func(ctx *front.TUCtx) error {
			return ctx.SaveState(name)
		}
	}},
	"state_print": {build: func(s *Session, _ []string) passFunc {
		return func(ctx *front.TUCtx) error {
			state, err := ctx.State()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(s.stderr, state.String())
			return errors.WithStack(err)
		}
	}},
	"state_print_debug": {build: func(s *Session, _ []string) passFunc {
		return func(ctx *front.TUCtx) error {
			state, err := ctx.State()
			if err != nil {
				return err
			}
			data, err := DumpState(state, DumpJSON)
			if err != nil {
				return err
			}
			_, err = s.stderr.Write(data)
			return errors.WithStack(err)
		}
	}},
	"state_write": {arity: 1, build: func(s *Session, args []string) passFunc {
		path := args[0]
		return func(ctx *front.TUCtx) error {
			state, err := ctx.State()
			if err != nil {
				return err
			}
			return s.writeFile(path, []byte(state.String()))
		}
	}},
	"state_write_debug": {arity: 1, build: func(s *Session, args []string) passFunc {
		path := args[0]
		return func(ctx *front.TUCtx) error {
			state, err := ctx.State()
			if err != nil {
				return err
			}
			data, err := DumpState(state, DumpFormatFor(path))
			if err != nil {
				return err
			}
			return s.writeFile(path, data)
		}
	}},
}

// DefaultPasses is the pipeline used when neither the command line nor the
// config file names one.
func DefaultPasses() []PassSpec {
	names := []string{"state_read_input", "phase1", "phase2", "phase3", "phase4", "phase5", "phase6", "state_print"}
	specs := make([]PassSpec, len(names))
	for i, name := range names {
		specs[i] = PassSpec{Name: name, Args: []string{}}
	}
	return specs
}

// PassNames returns the name of every known pass, sorted, with its arity in
// the NAME(ARG) form.
func PassNames() []string {
	names := make([]string, 0, len(passRegistry))
	for name, entry := range passRegistry {
		switch entry.arity {
		case 0:
			names = append(names, name)
		case 1:
			names = append(names, name+"(ARG)")
		}
	}
	sort.Strings(names)
	return names
}

// BuildPass looks up spec in the registry and checks its argument count.
func (s *Session) BuildPass(spec PassSpec) (front.Pass, error) {
	entry, ok := passRegistry[spec.Name]
	if !ok {
		return nil, errors.WithStack(UnknownPassError{Name: spec.Name})
	}
	if len(spec.Args) != entry.arity {
		return nil, errors.WithStack(PassArgsArityError{
			Name:     spec.Name,
			Expected: entry.arity,
			Received: len(spec.Args),
		})
	}
	return front.NewPass(spec.Name, entry.build(s, spec.Args)), nil
}

func (s *Session) writeFile(path string, data []byte) error {
	if err := afero.WriteFile(s.fs, path, data, 0o644); err != nil {
		return errors.WithStack(OutputFileError{File: path, Err: err})
	}
	log.Info("wrote %s", path)
	return nil
}
