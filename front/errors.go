package front

import (
	"fmt"

	"github.com/pkg/errors"
)

// StateAbsentError is returned when a pass needs a state but none was set.
type StateAbsentError struct{}

func (StateAbsentError) Error() string {
	return "no input state for pass"
}

// StateTypeError is returned when a pass receives a state of the wrong kind.
type StateTypeError struct {
	Current  StateKind
	Expected StateKind
}

func (e StateTypeError) Error() string {
	return fmt.Sprintf("mismatched input state for pass; got `%s`; expected `%s`", e.Current, e.Expected)
}

func errStateAbsent() error {
	return errors.WithStack(StateAbsentError{})
}

func errStateType(current, expected StateKind) error {
	return errors.WithStack(StateTypeError{Current: current, Expected: expected})
}
