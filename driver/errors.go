package driver

import "fmt"

// InputFileError is returned when an input file cannot be read.
type InputFileError struct {
	File string
	Err  error
}

func (e InputFileError) Error() string {
	return fmt.Sprintf("cannot read file `%s`: %v", e.File, e.Err)
}

func (e InputFileError) Unwrap() error { return e.Err }

// OutputFileError is returned when a pass cannot write its output file.
type OutputFileError struct {
	File string
	Err  error
}

func (e OutputFileError) Error() string {
	return fmt.Sprintf("cannot write file `%s`: %v", e.File, e.Err)
}

func (e OutputFileError) Unwrap() error { return e.Err }

type PassArgsArityError struct {
	Name     string
	Expected int
	Received int
}

func (e PassArgsArityError) Error() string {
	return fmt.Sprintf("pass `%s` takes %d arguments; received %d", e.Name, e.Expected, e.Received)
}

type UnknownPassError struct {
	Name string
}

func (e UnknownPassError) Error() string {
	return fmt.Sprintf("unknown pass `%s`", e.Name)
}

// InvalidPassSpecError is returned for a `--pass` value that is not of the
// form NAME or NAME(ARG, ...).
type InvalidPassSpecError struct {
	Spec string
}

func (e InvalidPassSpecError) Error() string {
	return fmt.Sprintf("invalid pass `%s`; expected NAME or NAME(ARG, ...)", e.Spec)
}

// InputAliasError is returned when a string input is not named `<...>`.
type InputAliasError struct {
	Alias string
}

func (e InputAliasError) Error() string {
	return fmt.Sprintf("input alias `%s` must be enclosed in `<` and `>`", e.Alias)
}

type ConfigError struct {
	File string
	Err  error
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("invalid config `%s`: %v", e.File, e.Err)
}

func (e ConfigError) Unwrap() error { return e.Err }
