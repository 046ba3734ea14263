package preproc

import "strings"

// Trimmer strips surrounding whitespace and drops lines left empty.
type Trimmer struct{}

func (Trimmer) Step(l Line, emit func(Line)) error {
	l.Text = strings.TrimSpace(l.Text)
	if l.Text != "" {
		emit(l)
	}
	return nil
}

func (Trimmer) Flush(func(Line)) error { return nil }

// Joiner merges lines ending in a backslash with the lines that follow them.
// The joined line keeps the number of its first physical line.
type Joiner struct {
	buf     strings.Builder
	first   int
	pending bool
}

func (j *Joiner) Step(l Line, emit func(Line)) error {
	if strings.HasSuffix(l.Text, `\`) {
		if !j.pending {
			j.first = l.No
			j.pending = true
		}
		j.buf.WriteString(l.Text[:len(l.Text)-1])
		return nil
	}
	if !j.pending {
		emit(l)
		return nil
	}
	j.buf.WriteString(l.Text)
	j.flush(emit)
	return nil
}

// Flush emits a continuation left open at end of input.
func (j *Joiner) Flush(emit func(Line)) error {
	if j.pending {
		j.flush(emit)
	}
	return nil
}

func (j *Joiner) flush(emit func(Line)) {
	text := j.buf.String()
	j.buf.Reset()
	j.pending = false
	if text != "" {
		emit(Line{No: j.first, Text: text})
	}
}
