package macro

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultMaxDepth bounds how many times a substitution may be nested inside
// the text produced by an enclosing substitution.
const DefaultMaxDepth = 64

const directivePrefix = "#define"

// Engine holds the macro table and performs substitution. Definitions are
// visible to every line processed after them; a later definition of the same
// name replaces the earlier one.
type Engine struct {
	macros   map[string]Macro
	maxDepth int
}

func NewEngine(maxDepth int) *Engine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Engine{
		macros:   make(map[string]Macro),
		maxDepth: maxDepth,
	}
}

// Lookup returns the macro currently bound to name.
func (e *Engine) Lookup(name string) (Macro, bool) {
	m, ok := e.macros[name]
	return m, ok
}

// Names returns the defined macro names in sorted order.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.macros))
	for name := range e.macros {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefineValue binds name to text after expanding text against the current table.
func (e *Engine) DefineValue(name, text string) error {
	if !isName(name) {
		return fmt.Errorf("%w: bad macro name %q", ErrInvalidMacroDefinition, name)
	}
	expanded, err := e.Expand(text)
	if err != nil {
		return err
	}
	e.macros[name] = Value{Text: expanded}
	return nil
}

// Process handles one logical line. Directives update the table and produce no
// output (emit is false). Any other line is returned with macros expanded.
func (e *Engine) Process(line string) (out string, emit bool, err error) {
	if !strings.HasPrefix(line, "#") {
		out, err = e.Expand(line)
		return out, err == nil, err
	}
	if !strings.HasPrefix(line, directivePrefix) {
		return "", false, fmt.Errorf("%w: %s", ErrInvalidDirective, line[1:])
	}
	if _, err := e.Define(line[len(directivePrefix):]); err != nil {
		return "", false, err
	}
	return "", false, nil
}

// Define parses the text following "#define" and binds the macro it describes.
// It returns the name that was defined.
func (e *Engine) Define(def string) (string, error) {
	def = strings.TrimSpace(def)
	span, ok := nextName(def, 0)
	if !ok || span.Start != 0 {
		return "", fmt.Errorf("%w: %q has no macro name", ErrInvalidMacroDefinition, def)
	}
	name := def[:span.End]
	rest := def[span.End:]

	i := skipSpace(rest, 0)
	if i < len(rest) && rest[i] == '(' {
		closing := strings.IndexByte(rest[i:], ')')
		if closing < 0 {
			return "", fmt.Errorf("%w: unterminated parameter list for %s", ErrInvalidMacroDefinition, name)
		}
		params := splitArgs(rest[i+1 : i+closing])
		if len(params) == 0 {
			return "", fmt.Errorf("%w: empty parameter list for %s", ErrInvalidMacroDefinition, name)
		}
		body := rest[skipSpace(rest, i+closing+1):]
		e.macros[name] = newFunction(params, body)
		return name, nil
	}

	if err := e.DefineValue(name, rest[i:]); err != nil {
		return "", err
	}
	return name, nil
}

// region is the extent of text produced by a substitution that is still ahead
// of (or under) the scan position.
type region struct {
	end   int
	depth int
}

// Expand substitutes every macro invocation in text. After a substitution the
// scan restarts at the start of the inserted text, so expansions that produce
// further invocations are expanded as well. Each such nested rescan counts one
// level of depth; exceeding the engine's limit returns ErrMacroExpansionTooDeep.
func (e *Engine) Expand(text string) (string, error) {
	if len(e.macros) == 0 {
		return text, nil
	}

	s := text
	pos := 0
	var open []region

	for {
		span, ok := nextName(s, pos)
		if !ok {
			return s, nil
		}
		for len(open) > 0 && open[len(open)-1].end <= span.Start {
			open = open[:len(open)-1]
		}

		name := s[span.Start:span.End]
		m, ok := e.macros[name]
		if !ok {
			pos = span.End
			continue
		}

		var replacement string
		end := span.End
		switch m := m.(type) {
		case Value:
			replacement = m.Text
		case Function:
			args, after, ok := matchCall(s, span.End)
			if !ok {
				// A function macro name without an argument list is plain text.
				pos = span.End
				continue
			}
			if len(args) != len(m.Params) {
				return "", fmt.Errorf("%w: %s expects %d, got %d", ErrMacroArity, name, len(m.Params), len(args))
			}
			replacement = m.Render(args)
			end = after
		}

		// The call may run past the end of text inserted earlier.
		for len(open) > 0 && open[len(open)-1].end < end {
			open = open[:len(open)-1]
		}
		depth := 1
		if len(open) > 0 {
			depth = open[len(open)-1].depth + 1
		}
		if depth > e.maxDepth {
			return "", fmt.Errorf("%w: %s nested more than %d levels", ErrMacroExpansionTooDeep, name, e.maxDepth)
		}

		delta := len(replacement) - (end - span.Start)
		for i := range open {
			open[i].end += delta
		}
		open = append(open, region{end: span.Start + len(replacement), depth: depth})

		s = s[:span.Start] + replacement + s[end:]
		pos = span.Start
	}
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameChar(s[i]) {
			return false
		}
	}
	return true
}
