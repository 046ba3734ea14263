package preproc

import (
	"fmt"
	"strings"

	"lc2kpp/pkg/logging"
)

// DefaultLabelWidth is the width of the label field in LC2K listings.
const DefaultLabelWidth = 6

// LabelSplitter moves an inline "name:" prefix onto its own line.
// Only the first colon counts, and a colon in column 0 is not a label.
type LabelSplitter struct{}

func (LabelSplitter) Step(l Line, emit func(Line)) error {
	colon := strings.IndexByte(l.Text, ':')
	if colon <= 0 {
		emit(l)
		return nil
	}
	emit(Line{No: l.No, Text: l.Text[:colon+1]})
	emit(Line{No: l.No, Text: l.Text[colon+1:]})
	return nil
}

func (LabelSplitter) Flush(func(Line)) error { return nil }

// LabelResolver attaches a pending label declaration to the next
// instruction and renders the fixed-width label field.
type LabelResolver struct {
	Width int
	Log   *logging.Logger

	label   string
	pending bool
	decl    Line
}

func NewLabelResolver(width int, log *logging.Logger) *LabelResolver {
	if width <= 0 {
		width = DefaultLabelWidth
	}
	return &LabelResolver{Width: width, Log: log}
}

func (r *LabelResolver) Step(l Line, emit func(Line)) error {
	if strings.HasSuffix(l.Text, ":") {
		if r.pending {
			return lineError(l, fmt.Errorf("%w: %q already labeled %q", ErrDuplicateLabelForLine, l.Text, r.label))
		}
		label := l.Text[:len(l.Text)-1]
		if len(label) > r.width() {
			return lineError(l, fmt.Errorf("%w: %q exceeds %d characters", ErrLabelTooLong, label, r.width()))
		}
		r.label, r.pending, r.decl = label, true, l
		return nil
	}

	if r.pending && r.Log != nil {
		r.Log.Debug("label resolved", "label", r.label, "line", l.No)
	}
	emit(Line{No: l.No, Text: r.render(l.Text)})
	r.label, r.pending = "", false
	return nil
}

// Flush emits a label declared after the last instruction as a label-only line.
func (r *LabelResolver) Flush(emit func(Line)) error {
	if !r.pending {
		return nil
	}
	if r.Log != nil {
		r.Log.Debug("label without instruction at end of input", "label", r.label, "line", r.decl.No)
	}
	emit(Line{No: r.decl.No, Text: r.render("")})
	r.label, r.pending = "", false
	return nil
}

func (r *LabelResolver) render(instr string) string {
	return fmt.Sprintf("%-*s %s", r.width(), r.label, instr)
}

func (r *LabelResolver) width() int {
	if r.Width <= 0 {
		return DefaultLabelWidth
	}
	return r.Width
}
