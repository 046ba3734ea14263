// Package preproc implements the LC2K+ line pipeline: a fixed chain of
// stages that turns raw source lines into one labeled instruction per line.
//
// Each stage owns its state explicitly and is driven one line at a time
// through Step, then once through Flush when its input is exhausted.
package preproc

import (
	"errors"
	"fmt"
)

var (
	ErrLabelTooLong          = errors.New("label too long")
	ErrDuplicateLabelForLine = errors.New("multiple labels for the same line")
	ErrUnterminatedComment   = errors.New("unterminated block comment")
)

// Line is a logical line with the number of the input line it came from.
type Line struct {
	No   int
	Text string
}

// Stage is one step of the pipeline. Step consumes a line and may emit any
// number of lines; Flush emits whatever state is still buffered at end of input.
type Stage interface {
	Step(l Line, emit func(Line)) error
	Flush(emit func(Line)) error
}

// LineError reports a fatal error together with the input line that caused it.
type LineError struct {
	No   int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	if e.No <= 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d: %v: %q", e.No, e.Err, e.Text)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

func lineError(l Line, err error) error {
	var le *LineError
	if errors.As(err, &le) {
		return err
	}
	return &LineError{No: l.No, Text: l.Text, Err: err}
}
