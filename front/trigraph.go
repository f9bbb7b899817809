package front

var trigraphs = map[rune]rune{
	'=':  '#',
	')':  ']',
	'!':  '|',
	'(':  '[',
	'\'': '^',
	'>':  '}',
	'/':  '\\',
	'<':  '{',
	'-':  '~',
}

// ConvertTrigraphs replaces every `??X` trigraph with the character it
// spells. The new token spans all three source characters.
func ConvertTrigraphs(chars []CharToken) []CharToken {
	out := make([]CharToken, 0, len(chars))
	for i := 0; i < len(chars); {
		if i+2 < len(chars) && chars[i].Value == '?' && chars[i+1].Value == '?' {
			if c, ok := trigraphs[chars[i+2].Value]; ok {
				out = append(out, CharToken{
					Value: c,
					Span:  chars[i].Span.Union(chars[i+2].Span),
				})
				i += 3
				continue
			}
		}
		out = append(out, chars[i])
		i++
	}
	return out
}
