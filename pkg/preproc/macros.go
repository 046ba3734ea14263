package preproc

import (
	"strings"

	"lc2kpp/pkg/logging"
	"lc2kpp/pkg/macro"
)

// MacroStage consumes #define directives and expands macros in all other lines.
type MacroStage struct {
	Engine *macro.Engine
	Log    *logging.Logger
}

func (m *MacroStage) Step(l Line, emit func(Line)) error {
	out, ok, err := m.Engine.Process(l.Text)
	if err != nil {
		return lineError(l, err)
	}
	if !ok {
		if m.Log != nil && strings.HasPrefix(l.Text, "#") {
			m.Log.Debug("macro defined", "line", l.No, "directive", l.Text)
		}
		return nil
	}
	emit(Line{No: l.No, Text: out})
	return nil
}

func (m *MacroStage) Flush(func(Line)) error { return nil }
