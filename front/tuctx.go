package front

import (
	"fmt"

	"github.com/JustAPerson/denuocc-sub000/internal/log"
)

type StateKind int

const (
	CharTokensState StateKind = iota
	PPTokensState
)

func (k StateKind) String() string {
	if k == PPTokensState {
		return "PPTokens"
	}
	return "CharTokens"
}

func (k StateKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is the primary representation handed from one pass to the next.
type State struct {
	Kind   StateKind
	Chars  []CharToken `json:",omitempty" yaml:",omitempty"`
	Tokens []PPToken   `json:",omitempty" yaml:",omitempty"`
}

func NewCharState(chars []CharToken) *State {
	return &State{Kind: CharTokensState, Chars: chars}
}

func NewPPState(tokens []PPToken) *State {
	return &State{Kind: PPTokensState, Tokens: tokens}
}

// Len returns the number of tokens held.
func (s *State) Len() int {
	if s.Kind == PPTokensState {
		return len(s.Tokens)
	}
	return len(s.Chars)
}

func (s *State) Clone() *State {
	c := &State{Kind: s.Kind}
	if s.Chars != nil {
		c.Chars = make([]CharToken, len(s.Chars))
		copy(c.Chars, s.Chars)
	}
	c.Tokens = cloneTokens(s.Tokens)
	return c
}

// String reproduces the text held by the state.
func (s *State) String() string {
	if s.Kind == PPTokensState {
		return TokensString(s.Tokens)
	}
	return CharTokensString(s.Chars)
}

// Pass transforms the state of a translation unit.
type Pass interface {
	Name() string
	Run(ctx *TUCtx) error
}

// IncludeResolver finds the input named by an `#include`. system is true
// for the `<...>` form. including is the input holding the directive.
// A nil input with a nil error means the file does not exist.
type IncludeResolver interface {
	Resolve(name string, system bool, including *Input) (*Input, error)
}

// TUCtx is the per translation unit state shared by all passes.
type TUCtx struct {
	Inputs           []*Input
	MacroInvocations []MacroInvocation
	Messages         []*Message
	FatalError       bool

	state       *State
	savedStates map[string][]*State
	resolver    IncludeResolver
}

// NewTUCtx creates a context whose root input is root. resolver may be nil,
// in which case every include fails.
func NewTUCtx(root *Input, resolver IncludeResolver) *TUCtx {
	root.ID = 0
	return &TUCtx{
		Inputs:      []*Input{root},
		savedStates: map[string][]*State{},
		resolver:    resolver,
	}
}

func (ctx *TUCtx) OriginalInput() *Input {
	return ctx.Inputs[0]
}

// Input returns the input with the given id, or nil.
func (ctx *TUCtx) Input(id uint32) *Input {
	if int(id) >= len(ctx.Inputs) {
		return nil
	}
	return ctx.Inputs[id]
}

func (ctx *TUCtx) State() (*State, error) {
	if ctx.state == nil {
		return nil, errStateAbsent()
	}
	return ctx.state, nil
}

func (ctx *TUCtx) SetState(s *State) {
	ctx.state = s
}

// TakeState removes the state from the context and returns it.
func (ctx *TUCtx) TakeState() (*State, error) {
	s, err := ctx.State()
	if err != nil {
		return nil, err
	}
	ctx.state = nil
	return s, nil
}

func (ctx *TUCtx) TakeCharTokens() ([]CharToken, error) {
	s, err := ctx.State()
	if err != nil {
		return nil, err
	}
	if s.Kind != CharTokensState {
		return nil, errStateType(s.Kind, CharTokensState)
	}
	ctx.state = nil
	return s.Chars, nil
}

func (ctx *TUCtx) TakePPTokens() ([]PPToken, error) {
	s, err := ctx.State()
	if err != nil {
		return nil, err
	}
	if s.Kind != PPTokensState {
		return nil, errStateType(s.Kind, PPTokensState)
	}
	ctx.state = nil
	return s.Tokens, nil
}

// SaveState stores a copy of the current state under name. Saving under
// the same name again appends.
func (ctx *TUCtx) SaveState(name string) error {
	s, err := ctx.State()
	if err != nil {
		return err
	}
	ctx.savedStates[name] = append(ctx.savedStates[name], s.Clone())
	return nil
}

func (ctx *TUCtx) SavedStates() map[string][]*State {
	return ctx.savedStates
}

func (ctx *TUCtx) EmitMessage(origin TokenOrigin, kind MessageKind) {
	ctx.EmitMessageWithChildren(origin, kind)
}

func (ctx *TUCtx) EmitMessageWithChildren(origin TokenOrigin, kind MessageKind, children ...*Message) {
	m := NewMessage(origin, kind)
	m.Children = children
	if kind.Severity() == SeverityFatal {
		ctx.FatalError = true
	}
	log.Debug("message at %s: %s", origin, kind.Headline())
	ctx.Messages = append(ctx.Messages, m)
}

// AddMacroInvocation logs inv and returns its id.
func (ctx *TUCtx) AddMacroInvocation(inv MacroInvocation) uint32 {
	ctx.MacroInvocations = append(ctx.MacroInvocations, inv)
	return uint32(len(ctx.MacroInvocations) - 1)
}

// AddInclude resolves name through the include resolver and registers the
// result as a new input. It returns nil when the file cannot be found.
func (ctx *TUCtx) AddInclude(name string, system bool, from IncludedFrom) *Input {
	if ctx.resolver == nil {
		return nil
	}
	parent := ctx.Input(from.Input)
	in, err := ctx.resolver.Resolve(name, system, parent)
	if err != nil {
		log.Warn("cannot include `%s`: %v", name, err)
		return nil
	}
	if in == nil {
		return nil
	}

	in.ID = uint32(len(ctx.Inputs))
	in.IncludedFrom = &from
	if parent != nil {
		in.Depth = parent.Depth + 1
	}
	ctx.Inputs = append(ctx.Inputs, in)
	log.Info("included `%s` as input %d (depth %d)", in.Name, in.ID, in.Depth)
	return in
}

// Run applies passes in order. It stops after the first pass that returns
// an error or raises a fatal message. Messages are enriched either way.
func (ctx *TUCtx) Run(passes []Pass) error {
	defer ctx.enrichMessages()

	for _, p := range passes {
		log.Debug("%s: running pass %s", ctx.OriginalInput().Name, p.Name())
		if err := p.Run(ctx); err != nil {
			return err
		}
		if ctx.state != nil {
			log.Debug("%s: pass %s left %d %s", ctx.OriginalInput().Name, p.Name(), ctx.state.Len(), ctx.state.Kind)
		}
		if ctx.FatalError {
			log.Debug("%s: stopping after fatal error in pass %s", ctx.OriginalInput().Name, p.Name())
			break
		}
	}
	return nil
}

func (ctx *TUCtx) enrichMessages() {
	for _, m := range ctx.Messages {
		m.enrich(ctx)
	}
}

// CountMessages returns how many messages have severity sev.
func (ctx *TUCtx) CountMessages(sev Severity) int {
	n := 0
	for _, m := range ctx.Messages {
		if m.Severity() == sev {
			n++
		}
	}
	return n
}

// Success reports whether no error or fatal messages were emitted.
func (ctx *TUCtx) Success() bool {
	return ctx.CountMessages(SeverityError) == 0 && ctx.CountMessages(SeverityFatal) == 0
}

// RootSpan follows macro origins back to the source text they came from.
func (ctx *TUCtx) RootSpan(origin TokenOrigin) TextSpan {
	for origin.Kind == OriginMacro {
		r := origin.Macro
		if int(r.Invocation) >= len(ctx.MacroInvocations) {
			return TextSpan{}
		}
		inv := &ctx.MacroInvocations[r.Invocation]

		if r.IsParam() {
			tok, ok := inv.argumentAt(int(r.Index()))
			if !ok {
				origin = inv.Name.Origin
				continue
			}
			origin = tok.Origin
			continue
		}

		idx := int(r.Index())
		if idx < len(inv.Definition.Replacement) {
			origin = inv.Definition.Replacement[idx].Origin
		} else {
			origin = inv.Name.Origin
		}
	}
	return origin.Span
}

// Returns the "In file included from" chain of in, innermost first.
func (ctx *TUCtx) includeTrail(in *Input) []string {
	var trail []string
	for in != nil && in.IncludedFrom != nil {
		from := in.IncludedFrom
		parent := ctx.Input(from.Input)
		if parent == nil {
			break
		}
		line, col := parent.LineColumn(int(from.Span.Pos.Absolute))
		trail = append(trail, fmt.Sprintf("In file included from %s:%d:%d", parent.Name, line, col))
		in = parent
	}
	return trail
}
