package front

import (
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal error"
	}
	return fmt.Sprintf("Severity(%d)", int(s))
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MessageKind is implemented by every kind of source diagnostic.
type MessageKind interface {
	Headline() string
	Severity() Severity
}

// Message is a diagnostic attached to a token origin.
type Message struct {
	Kind     MessageKind
	Origin   TokenOrigin
	Children []*Message

	// Filled in by enrichment once all passes have run.
	Position     string
	Excerpt      string
	IncludeTrail []string
	Enriched     string
}

func NewMessage(origin TokenOrigin, kind MessageKind) *Message {
	return &Message{Kind: kind, Origin: origin}
}

func (m *Message) Severity() Severity {
	return m.Kind.Severity()
}

func (m *Message) String() string {
	if m.Position != "" {
		return m.Position + ": " + m.Kind.Headline()
	}
	return m.Kind.Headline()
}

func (m *Message) enrich(ctx *TUCtx) {
	span := ctx.RootSpan(m.Origin)
	in := ctx.Input(span.Pos.Input)
	if in != nil {
		line, col := in.LineColumn(int(span.Pos.Absolute))
		m.Position = fmt.Sprintf("%s:%d:%d", in.Name, line, col)
		m.Excerpt = in.Line(line)
		m.IncludeTrail = ctx.includeTrail(in)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", m.Severity(), m.Kind.Headline())
	fmt.Fprintf(&b, "  %s\n", m.Position)
	fmt.Fprintf(&b, "  %s\n", m.Excerpt)
	m.Enriched = b.String()

	for _, child := range m.Children {
		child.enrich(ctx)
	}
}

type partKind int

const (
	plainPart partKind = iota
	tokenPart
	directivePart
)

// ExpectedFoundPart is one side of an ExpectedFound message.
type ExpectedFoundPart struct {
	kind  partKind
	text  string
	token PPTokenKind
}

func PlainPart(text string) ExpectedFoundPart {
	return ExpectedFoundPart{kind: plainPart, text: text}
}

func TokenPart(kind PPTokenKind) ExpectedFoundPart {
	return ExpectedFoundPart{kind: tokenPart, token: kind}
}

func DirectivePart(name string) ExpectedFoundPart {
	return ExpectedFoundPart{kind: directivePart, text: name}
}

func (p ExpectedFoundPart) String() string {
	switch p.kind {
	case tokenPart:
		return p.token.String() + " token"
	case directivePart:
		return "`" + p.text + "` directive"
	}
	return p.text
}

type ExpectedFound struct {
	Expected ExpectedFoundPart
	Found    ExpectedFoundPart
}

func (k ExpectedFound) Headline() string {
	return fmt.Sprintf("expected %s; found %s", k.Expected, k.Found)
}
func (ExpectedFound) Severity() Severity { return SeverityError }

type FileEndingWithBackslash struct{}

func (FileEndingWithBackslash) Headline() string   { return "file cannot end with a backslash" }
func (FileEndingWithBackslash) Severity() Severity { return SeverityWarning }

type MissingTerminator struct {
	Terminator rune
}

func (k MissingTerminator) Headline() string {
	return fmt.Sprintf("missing closing %c terminator", k.Terminator)
}
func (MissingTerminator) Severity() Severity { return SeverityError }

type UnexpectedDirective struct {
	Directive string
}

func (k UnexpectedDirective) Headline() string {
	return fmt.Sprintf("unexpected directive `%s`", k.Directive)
}
func (UnexpectedDirective) Severity() Severity { return SeverityError }

type InvalidDirective struct {
	Directive string
}

func (k InvalidDirective) Headline() string {
	return fmt.Sprintf("invalid directive `%s`", k.Directive)
}
func (InvalidDirective) Severity() Severity { return SeverityError }

type UnsupportedCondition struct {
	Token string
}

func (k UnsupportedCondition) Headline() string {
	return fmt.Sprintf("cannot evaluate `%s` in `#if` expression", k.Token)
}
func (UnsupportedCondition) Severity() Severity { return SeverityError }

// DefineOperator is a `defined` not followed by NAME or (NAME).
type DefineOperator struct{}

func (DefineOperator) Headline() string {
	return "expected identifier or left-paren after define operator"
}
func (DefineOperator) Severity() Severity { return SeverityError }

type MacroArity struct {
	Name     string
	Expected int
	Found    int
	Vararg   bool
}

func (k MacroArity) Headline() string {
	quantity := "exactly"
	if k.Vararg {
		quantity = "at least"
	}
	noun := "arguments"
	if k.Expected == 1 {
		noun = "argument"
	}
	return fmt.Sprintf("`%s` expects %s %d %s; found %d", k.Name, quantity, k.Expected, noun, k.Found)
}
func (MacroArity) Severity() Severity { return SeverityError }

type MacroRedefinitionDifferent struct {
	Name string
}

func (k MacroRedefinitionDifferent) Headline() string {
	return fmt.Sprintf("macro `%s` redefined differently", k.Name)
}
func (MacroRedefinitionDifferent) Severity() Severity { return SeverityError }

type MacroFirstDefined struct {
	Name string
}

func (k MacroFirstDefined) Headline() string {
	return fmt.Sprintf("macro `%s` first defined here", k.Name)
}
func (MacroFirstDefined) Severity() Severity { return SeverityInfo }

type UndefineInvalidMacro struct {
	Name string
}

func (k UndefineInvalidMacro) Headline() string {
	return fmt.Sprintf("macro `%s` does not exist", k.Name)
}
func (UndefineInvalidMacro) Severity() Severity { return SeverityWarning }

type UnclosedMacroInvocation struct {
	Name string
}

func (k UnclosedMacroInvocation) Headline() string {
	return fmt.Sprintf("expected `)` to end invocation of macro `%s`", k.Name)
}
func (UnclosedMacroInvocation) Severity() Severity { return SeverityError }

type MacroInvocationOpening struct {
	Name string
}

func (k MacroInvocationOpening) Headline() string {
	return fmt.Sprintf("macro `%s` invocation opened here", k.Name)
}
func (MacroInvocationOpening) Severity() Severity { return SeverityInfo }

type RepeatedMacroParameter struct {
	Parameter string
}

func (k RepeatedMacroParameter) Headline() string {
	return fmt.Sprintf("macro parameter `%s` repeated", k.Parameter)
}
func (RepeatedMacroParameter) Severity() Severity { return SeverityError }

type IllegalSingleHash struct{}

func (IllegalSingleHash) Headline() string {
	return "the `#` operator must be followed by a macro parameter"
}
func (IllegalSingleHash) Severity() Severity { return SeverityError }

type IllegalDoubleHash struct{}

func (IllegalDoubleHash) Headline() string   { return "a macro cannot begin nor end with `##`" }
func (IllegalDoubleHash) Severity() Severity { return SeverityError }

type BadConcatenation struct {
	LHS string
	RHS string
}

func (k BadConcatenation) Headline() string {
	return fmt.Sprintf("concatenating `%s` and `%s` does not result in a valid preprocessor token", k.LHS, k.RHS)
}
func (BadConcatenation) Severity() Severity { return SeverityError }

type IncludeBegin struct{}

func (IncludeBegin) Headline() string {
	return "expected `<FILENAME>`, `\"FILENAME\"`, or a macro that expands to either of those"
}
func (IncludeBegin) Severity() Severity { return SeverityError }

type IncludeUnclosed struct{}

func (IncludeUnclosed) Headline() string {
	return "expected `>` to close corresponding `<` after `#include`"
}
func (IncludeUnclosed) Severity() Severity { return SeverityError }

type IncludeExtra struct {
	Kind PPTokenKind
}

func (k IncludeExtra) Headline() string {
	return fmt.Sprintf("expected newline after <FILENAME>; found %s", k.Kind)
}
func (IncludeExtra) Severity() Severity { return SeverityWarning }

type IncludeDepth struct{}

func (IncludeDepth) Headline() string   { return "maximum nested include depth exceeded" }
func (IncludeDepth) Severity() Severity { return SeverityFatal }

type IncludeNotFound struct {
	DesiredFile string
}

func (k IncludeNotFound) Headline() string {
	return fmt.Sprintf("could not include `%s`: file not found", k.DesiredFile)
}
func (IncludeNotFound) Severity() Severity { return SeverityFatal }

type Phase5Empty struct{}

func (Phase5Empty) Headline() string   { return "expected character after escape sequence" }
func (Phase5Empty) Severity() Severity { return SeverityError }

type Phase5Incomplete struct {
	Expected int
	Found    int
	Prefix   rune
}

func (k Phase5Incomplete) Headline() string {
	return fmt.Sprintf("expected %d digits after `\\%c`; found %d", k.Expected, k.Prefix, k.Found)
}
func (Phase5Incomplete) Severity() Severity { return SeverityError }

type Phase5OutOfRange struct {
	Prefix   string
	Value    string
	Encoding Encoding
}

func (k Phase5OutOfRange) Headline() string {
	return fmt.Sprintf("`\\%s%s` exceeds range of type (%s)", k.Prefix, k.Value, k.Encoding.TypeName())
}
func (Phase5OutOfRange) Severity() Severity { return SeverityError }

type Phase5Invalid struct {
	Prefix string
	Value  string
}

func (k Phase5Invalid) Headline() string {
	return fmt.Sprintf("`\\%s%s` cannot be represented", k.Prefix, k.Value)
}
func (Phase5Invalid) Severity() Severity { return SeverityError }

type Phase5Unrecognized struct {
	Escape rune
}

func (k Phase5Unrecognized) Headline() string {
	return fmt.Sprintf("`\\%c` is not a valid escape", k.Escape)
}
func (Phase5Unrecognized) Severity() Severity { return SeverityError }

type IncompatibleEncoding struct {
	Previous Encoding
	Current  Encoding
}

func (k IncompatibleEncoding) Headline() string {
	return fmt.Sprintf("incompatible encoding when concatenating; previously `%s` but found `%s`", k.Previous, k.Current)
}
func (IncompatibleEncoding) Severity() Severity { return SeverityError }
