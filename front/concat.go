package front

// Concatenate drops whitespace and joins each run of adjacent string
// literals into one. A literal whose encoding conflicts with the run so far
// is reported and starts a new run.
func Concatenate(ctx *TUCtx, tokens []PPToken) []PPToken {
	tokens = WithoutWhitespace(tokens)
	out := make([]PPToken, 0, len(tokens))

	for i := 0; i < len(tokens); {
		t := tokens[i]
		i++
		if t.Kind != StringLiteral {
			out = append(out, t)
			continue
		}

		prefix, text := splitLiteral(t.Value, '"')
		encoding := EncodingFromPrefix(prefix)
		joined := false
		for i < len(tokens) && tokens[i].Kind == StringLiteral {
			next := tokens[i]
			p, body := splitLiteral(next.Value, '"')
			current := EncodingFromPrefix(p)
			previous := encoding
			if !encoding.Compatible(current) {
				ctx.EmitMessage(next.Origin, IncompatibleEncoding{Previous: previous, Current: current})
				break
			}
			text += body
			joined = true
			i++
		}

		if joined {
			t.Value = encoding.Prefix() + `"` + text + `"`
		}
		out = append(out, t)
	}
	return out
}
