package front

import "fmt"

type OriginKind uint8

const (
	OriginSource OriginKind = iota
	OriginMacro
)

func (k OriginKind) MarshalText() ([]byte, error) {
	if k == OriginMacro {
		return []byte("macro"), nil
	}
	return []byte("source"), nil
}

// TokenOrigin says where a token came from: a span of source text, or a
// slot of a macro invocation.
type TokenOrigin struct {
	Kind  OriginKind
	Span  TextSpan
	Macro MacroResult
}

func SourceOrigin(span TextSpan) TokenOrigin {
	return TokenOrigin{Kind: OriginSource, Span: span}
}

func MacroOrigin(result MacroResult) TokenOrigin {
	return TokenOrigin{Kind: OriginMacro, Macro: result}
}

func (o TokenOrigin) IsSource() bool {
	return o.Kind == OriginSource
}

func (o TokenOrigin) String() string {
	if o.Kind == OriginMacro {
		return o.Macro.String()
	}
	return fmt.Sprintf("%d:%d+%d", o.Span.Pos.Input, o.Span.Pos.Absolute, o.Span.Len)
}

const (
	bodySlot      uint16 = 0x8000
	unsetOutIndex uint16 = 0xFFFF
)

// MacroResult locates a token within a macro expansion.
//
// InIndex below 0x8000 is a position within the concatenated arguments of
// the invocation; otherwise InIndex-0x8000 is a position within the
// replacement list. OutIndex is the position in the expansion output, or
// 0xFFFF when not yet placed.
type MacroResult struct {
	Invocation uint32
	InIndex    uint16
	OutIndex   uint16
}

func NewParamResult(invocation uint32, index uint16) MacroResult {
	return MacroResult{Invocation: invocation, InIndex: index, OutIndex: unsetOutIndex}
}

func NewBodyResult(invocation uint32, index uint16) MacroResult {
	return MacroResult{Invocation: invocation, InIndex: index | bodySlot, OutIndex: unsetOutIndex}
}

func (r MacroResult) IsParam() bool {
	return r.InIndex < bodySlot
}

// Index returns the slot index with the body flag removed.
func (r MacroResult) Index() uint16 {
	return r.InIndex &^ bodySlot
}

// WithOutIndex returns r placed at position out of the expansion.
func (r MacroResult) WithOutIndex(out uint16) MacroResult {
	r.OutIndex = out
	return r
}

func (r MacroResult) HasOutIndex() bool {
	return r.OutIndex != unsetOutIndex
}

func (r MacroResult) String() string {
	slot := "body"
	if r.IsParam() {
		slot = "arg"
	}
	if r.HasOutIndex() {
		return fmt.Sprintf("macro#%d %s[%d]->%d", r.Invocation, slot, r.Index(), r.OutIndex)
	}
	return fmt.Sprintf("macro#%d %s[%d]", r.Invocation, slot, r.Index())
}
