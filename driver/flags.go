package driver

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/pkg/errors"
)

// PassSpec names a pass and the arguments it is given, as written in
// `--pass=NAME(ARG, ...)`.
type PassSpec struct {
	Name string
	Args []string
}

func (s PassSpec) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + "(" + strings.Join(s.Args, ", ") + ")"
}

var passSpecRe = regexp2.MustCompile(`^([A-Za-z][A-Za-z0-9_]+)(\(([^)]+)\))?$`, regexp2.None)

// ParsePassSpec parses one NAME or NAME(ARG, ...) spec. Arguments are
// separated by commas and trimmed of surrounding spaces.
func ParsePassSpec(spec string) (PassSpec, error) {
	spec = strings.TrimSpace(spec)
	m, err := passSpecRe.FindStringMatch(spec)
	if err != nil {
		return PassSpec{}, errors.WithStack(err)
	}
	if m == nil {
		return PassSpec{}, errors.WithStack(InvalidPassSpecError{Spec: spec})
	}

	ps := PassSpec{Name: m.GroupByNumber(1).String(), Args: []string{}}
	if args := m.GroupByNumber(3); args.Length > 0 {
		for _, a := range strings.Split(args.String(), ",") {
			ps.Args = append(ps.Args, strings.TrimSpace(a))
		}
	}
	return ps, nil
}

// ParsePassList parses a list of specs separated by `;` or by commas
// outside of parentheses, e.g. "phase1; state_save(a, b), phase2".
func ParsePassList(list string) ([]PassSpec, error) {
	var specs []PassSpec
	for _, item := range splitPassList(list) {
		if strings.TrimSpace(item) == "" {
			continue
		}
		spec, err := ParsePassSpec(item)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func splitPassList(list string) []string {
	var items []string
	depth, start := 0, 0
	for i := 0; i < len(list); i++ {
		switch list[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';', ',':
			if depth == 0 {
				items = append(items, list[start:i])
				start = i + 1
			}
		}
	}
	return append(items, list[start:])
}
