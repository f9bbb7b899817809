package front

type funcPass struct {
	name string
	fn   func(ctx *TUCtx) error
}

func (p funcPass) Name() string         { return p.name }
func (p funcPass) Run(ctx *TUCtx) error { return p.fn(ctx) }

// NewPass wraps fn as a Pass called name.
func NewPass(name string, fn func(ctx *TUCtx) error) Pass {
	return funcPass{name: name, fn: fn}
}

// ReadInput sets the state to the characters of the original input.
func ReadInput(ctx *TUCtx) error {
	ctx.SetState(NewCharState(CharTokensFromInput(ctx.OriginalInput())))
	return nil
}

// Phase1 converts trigraphs.
func Phase1(ctx *TUCtx) error {
	chars, err := ctx.TakeCharTokens()
	if err != nil {
		return err
	}
	ctx.SetState(NewCharState(ConvertTrigraphs(chars)))
	return nil
}

// Phase2 splices lines.
func Phase2(ctx *TUCtx) error {
	chars, err := ctx.TakeCharTokens()
	if err != nil {
		return err
	}
	ctx.SetState(NewCharState(SpliceLines(ctx, chars)))
	return nil
}

// Phase3 lexes characters into preprocessing tokens.
func Phase3(ctx *TUCtx) error {
	chars, err := ctx.TakeCharTokens()
	if err != nil {
		return err
	}
	ctx.SetState(NewPPState(Lex(ctx, chars, ctx.OriginalInput())))
	return nil
}

// Phase4 preprocesses.
func Phase4(ctx *TUCtx) error {
	tokens, err := ctx.TakePPTokens()
	if err != nil {
		return err
	}
	ctx.SetState(NewPPState(Preprocess(ctx, tokens)))
	return nil
}

// Phase5 processes escape sequences.
func Phase5(ctx *TUCtx) error {
	tokens, err := ctx.TakePPTokens()
	if err != nil {
		return err
	}
	ctx.SetState(NewPPState(Unescape(ctx, tokens)))
	return nil
}

// Phase6 concatenates string literals and drops whitespace.
func Phase6(ctx *TUCtx) error {
	tokens, err := ctx.TakePPTokens()
	if err != nil {
		return err
	}
	ctx.SetState(NewPPState(Concatenate(ctx, tokens)))
	return nil
}

// FrontPasses returns state_read_input followed by phases 1 to 6.
func FrontPasses() []Pass {
	return []Pass{
		NewPass("state_read_input", ReadInput),
		NewPass("phase1", Phase1),
		NewPass("phase2", Phase2),
		NewPass("phase3", Phase3),
		NewPass("phase4", Phase4),
		NewPass("phase5", Phase5),
		NewPass("phase6", Phase6),
	}
}
