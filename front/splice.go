package front

// SpliceLines removes every backslash-newline pair, joining physical lines
// into logical lines. A file must not end in a backslash, or in a
// backslash-newline pair.
func SpliceLines(ctx *TUCtx, chars []CharToken) []CharToken {
	out := make([]CharToken, 0, len(chars))
	i := 0
	for ; i+1 < len(chars); i++ {
		if chars[i].Value == '\\' && chars[i+1].Value == '\n' {
			i++
			if i+1 == len(chars) {
				ctx.EmitMessage(SourceOrigin(chars[i-1].Span), FileEndingWithBackslash{})
			}
			continue
		}
		out = append(out, chars[i])
	}

	if i < len(chars) {
		last := chars[i]
		if last.Value == '\\' {
			ctx.EmitMessage(SourceOrigin(last.Span), FileEndingWithBackslash{})
		} else {
			out = append(out, last)
		}
	}
	return out
}
