package driver

import (
	"github.com/JustAPerson/denuocc-sub000/front"
)

// TranslationUnit is one input file and everything its run produced.
type TranslationUnit struct {
	Input *front.Input

	// The following are filled in by Session.RunAll.
	Inputs      []*front.Input // every input read, the root first
	Messages    []*front.Message
	SavedStates map[string][]*front.State
	ran         bool
}

func newTranslationUnit(in *front.Input) *TranslationUnit {
	return &TranslationUnit{Input: in}
}

func (tu *TranslationUnit) Name() string {
	return tu.Input.Name
}

func (tu *TranslationUnit) CountMessages(sev front.Severity) int {
	n := 0
	for _, m := range tu.Messages {
		if m.Severity() == sev {
			n++
		}
	}
	return n
}

// Success reports whether the unit produced no error or fatal messages.
func (tu *TranslationUnit) Success() bool {
	return tu.CountMessages(front.SeverityError) == 0 && tu.CountMessages(front.SeverityFatal) == 0
}

func (tu *TranslationUnit) collect(ctx *front.TUCtx) {
	tu.Inputs = ctx.Inputs
	tu.Messages = ctx.Messages
	tu.SavedStates = ctx.SavedStates()
	tu.ran = true
}
