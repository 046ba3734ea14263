package preproc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"

	"lc2kpp/pkg/logging"
	"lc2kpp/pkg/macro"
)

// Options configures a Pipeline.
type Options struct {
	LabelWidth         int
	MaxExpansionDepth  int
	StrictComments     bool
	NormalizeRegisters bool
	// Defines are value macros installed before the first line.
	Defines map[string]string
	Log     *logging.Logger
}

func DefaultOptions() Options {
	return Options{
		LabelWidth:         DefaultLabelWidth,
		MaxExpansionDepth:  macro.DefaultMaxDepth,
		NormalizeRegisters: true,
	}
}

// Pipeline runs source lines through every stage in order. Each call to
// Lines, Process or Run starts from a fresh macro table.
type Pipeline struct {
	opts Options
	log  *logging.Logger
}

func New(opts Options) (*Pipeline, error) {
	if opts.Log == nil {
		opts.Log = logging.Nop()
	}
	p := &Pipeline{opts: opts, log: opts.Log}
	if _, err := p.newEngine(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Pipeline) newEngine() (*macro.Engine, error) {
	e := macro.NewEngine(p.opts.MaxExpansionDepth)
	names := make([]string, 0, len(p.opts.Defines))
	for name := range p.opts.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := e.DefineValue(name, p.opts.Defines[name]); err != nil {
			return nil, fmt.Errorf("predefined macro %s: %w", name, err)
		}
	}
	return e, nil
}

// Stages returns a fresh, ordered set of stages configured like p.
func (p *Pipeline) Stages() ([]Stage, error) {
	engine, err := p.newEngine()
	if err != nil {
		return nil, err
	}
	stages := []Stage{
		Trimmer{},
		&Joiner{},
		&CommentStripper{Strict: p.opts.StrictComments},
		LabelSplitter{},
		Trimmer{},
		&MacroStage{Engine: engine, Log: p.log},
		StatementSplitter{},
		Trimmer{},
		FillConverter{},
	}
	if p.opts.NormalizeRegisters {
		stages = append(stages, RegisterNormalizer{})
	}
	return append(stages, NewLabelResolver(p.opts.LabelWidth, p.log)), nil
}

// Lines lazily transforms src. Lines are pulled from src only as output is
// consumed. The first error is yielded once and ends the sequence.
func (p *Pipeline) Lines(src iter.Seq2[string, error]) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		stages, err := p.Stages()
		if err != nil {
			yield(Line{}, err)
			return
		}

		var failed error
		stopped := false

		emits := make([]func(Line), len(stages)+1)
		emits[len(stages)] = func(l Line) {
			if failed == nil && !stopped && !yield(l, nil) {
				stopped = true
			}
		}
		for i := len(stages) - 1; i >= 0; i-- {
			stage, next := stages[i], emits[i+1]
			emits[i] = func(l Line) {
				if failed != nil || stopped {
					return
				}
				if err := stage.Step(l, next); err != nil && failed == nil {
					failed = lineError(l, err)
				}
			}
		}

		no := 0
		for text, err := range src {
			if err != nil {
				yield(Line{}, err)
				return
			}
			no++
			emits[0](Line{No: no, Text: text})
			if stopped {
				return
			}
			if failed != nil {
				yield(Line{}, failed)
				return
			}
		}

		for i, stage := range stages {
			if err := stage.Flush(emits[i+1]); err != nil && failed == nil {
				failed = err
			}
			if stopped {
				return
			}
			if failed != nil {
				yield(Line{}, failed)
				return
			}
		}
		p.log.Debug("pipeline drained", "input_lines", no)
	}
}

// Process transforms a complete set of source lines. The No field of each
// returned line maps it back to its input line.
func (p *Pipeline) Process(lines []string) ([]Line, error) {
	var out []Line
	for l, err := range p.Lines(sliceSource(lines)) {
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}

// ProcessString transforms newline separated source text and returns the
// listing with a newline after every line.
func (p *Pipeline) ProcessString(src string) (string, error) {
	var sb strings.Builder
	if _, err := p.Run(strings.NewReader(src), &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Run reads source lines from r and writes the listing to w. It returns the
// number of lines written.
func (p *Pipeline) Run(r io.Reader, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	for l, err := range p.Lines(ReadLines(r)) {
		if err != nil {
			return n, err
		}
		if _, err := bw.WriteString(l.Text); err != nil {
			return n, err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// Apply runs lines through a single stage and flushes it.
func Apply(s Stage, lines []Line) ([]Line, error) {
	var out []Line
	emit := func(l Line) { out = append(out, l) }
	for _, l := range lines {
		if err := s.Step(l, emit); err != nil {
			return out, lineError(l, err)
		}
	}
	if err := s.Flush(emit); err != nil {
		return out, err
	}
	return out, nil
}

// StageName returns a short display name for s.
func StageName(s Stage) string {
	switch s.(type) {
	case Trimmer:
		return "trim"
	case *Joiner:
		return "continuations"
	case *CommentStripper:
		return "comments"
	case LabelSplitter:
		return "labels"
	case *MacroStage:
		return "macros"
	case StatementSplitter:
		return "statements"
	case FillConverter:
		return "fill"
	case RegisterNormalizer:
		return "registers"
	case *LabelResolver:
		return "resolve"
	default:
		return fmt.Sprintf("%T", s)
	}
}

const maxLineSize = 1 << 20

// ReadLines yields the lines of r without their line terminators.
func ReadLines(r io.Reader) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			if !yield(scanner.Text(), nil) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = fmt.Errorf("source line longer than %d bytes: %w", maxLineSize, err)
			}
			yield("", err)
		}
	}
}

func sliceSource(lines []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, line := range lines {
			if !yield(line, nil) {
				return
			}
		}
	}
}
