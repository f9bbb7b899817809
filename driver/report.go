package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/JustAPerson/denuocc-sub000/front"
)

type palette map[front.Severity]*color.Color

func newPalette(colored bool) palette {
	p := palette{
		front.SeverityFatal:   color.New(color.FgRed, color.Bold),
		front.SeverityError:   color.New(color.FgRed, color.Bold),
		front.SeverityWarning: color.New(color.FgYellow, color.Bold),
		front.SeverityInfo:    color.New(color.FgCyan),
	}
	for _, c := range p {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev front.Severity) string {
	return p[sev].Sprint(sev.String())
}

// WriteMessages writes each enriched message as
//
//	file:line:col: severity: headline
//	  severity: headline
//	  file:line:col
//	  excerpt
//
// followed by its children, indented further, and the files that included
// it.
func WriteMessages(w io.Writer, messages []*front.Message, colored bool) error {
	p := newPalette(colored)
	var b strings.Builder
	for _, m := range messages {
		sev := p.severity(m.Severity())
		if m.Position != "" {
			fmt.Fprintf(&b, "%s: %s: %s\n", m.Position, sev, m.Kind.Headline())
		} else {
			fmt.Fprintf(&b, "%s: %s\n", sev, m.Kind.Headline())
		}
		writeBlock(&b, m, "  ", p)
	}
	_, err := io.WriteString(w, b.String())
	return errors.WithStack(err)
}

func writeBlock(b *strings.Builder, m *front.Message, indent string, p palette) {
	fmt.Fprintf(b, "%s%s: %s\n", indent, p.severity(m.Severity()), m.Kind.Headline())
	if m.Position != "" {
		fmt.Fprintf(b, "%s%s\n", indent, m.Position)
		fmt.Fprintf(b, "%s%s\n", indent, m.Excerpt)
	}
	for _, child := range m.Children {
		writeBlock(b, child, indent+"  ", p)
	}
	for _, line := range m.IncludeTrail {
		fmt.Fprintf(b, "%s%s\n", indent, line)
	}
}
