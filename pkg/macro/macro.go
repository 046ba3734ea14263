// Package macro implements the #define engine of the LC2K+ preprocessor:
// directive parsing, value and function macros, and recursive in-place
// substitution of macro invocations in ordinary code lines.
package macro

import (
	"errors"
	"strings"
)

var (
	ErrInvalidDirective       = errors.New("invalid directive")
	ErrInvalidMacroDefinition = errors.New("invalid macro definition")
	ErrMacroArity             = errors.New("wrong number of macro arguments")
	ErrMacroExpansionTooDeep  = errors.New("macro expansion too deep")
)

// Macro is either a Value or a Function.
type Macro interface {
	isMacro()
}

// Value is a macro without parameters. Text is already expanded against the
// macros that were known when it was defined.
type Value struct {
	Text string
}

// Function is a macro with a parameter list. Its body is kept as a template
// of literal text and parameter placeholders.
type Function struct {
	Params   []string
	Template []Fragment
}

// Fragment is one piece of a function macro template. Param is the index of
// the parameter to substitute, or -1 for literal text.
type Fragment struct {
	Literal string
	Param   int
}

func (Value) isMacro()    {}
func (Function) isMacro() {}

// newFunction splits body into literal text and placeholders for every name
// token that matches one of params.
func newFunction(params []string, body string) Function {
	index := make(map[string]int, len(params))
	for i := len(params) - 1; i >= 0; i-- {
		index[params[i]] = i
	}

	var template []Fragment
	last := 0
	for _, span := range Names(body) {
		i, ok := index[body[span.Start:span.End]]
		if !ok {
			continue
		}
		if span.Start > last {
			template = append(template, Fragment{Literal: body[last:span.Start], Param: -1})
		}
		template = append(template, Fragment{Param: i})
		last = span.End
	}
	if last < len(body) {
		template = append(template, Fragment{Literal: body[last:], Param: -1})
	}

	return Function{Params: params, Template: template}
}

// Render rebuilds the macro body with args substituted for the parameters.
func (f Function) Render(args []string) string {
	var sb strings.Builder
	for _, frag := range f.Template {
		if frag.Param < 0 {
			sb.WriteString(frag.Literal)
			continue
		}
		sb.WriteString(args[frag.Param])
	}
	return sb.String()
}
