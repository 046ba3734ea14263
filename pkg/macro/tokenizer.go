package macro

// Span is a half-open byte range [Start, End) of a name token.
type Span struct {
	Start int
	End   int
}

// isNameChar reports whether c may appear in a macro name token.
func isNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '$' || c == '.'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// nextName finds the first name token starting at or after from.
func nextName(s string, from int) (Span, bool) {
	i := from
	for i < len(s) && !isNameChar(s[i]) {
		i++
	}
	if i >= len(s) {
		return Span{}, false
	}
	start := i
	for i < len(s) && isNameChar(s[i]) {
		i++
	}
	return Span{Start: start, End: i}, true
}

// Names returns every name token in s, left to right.
func Names(s string) []Span {
	var spans []Span
	pos := 0
	for {
		span, ok := nextName(s, pos)
		if !ok {
			return spans
		}
		spans = append(spans, span)
		pos = span.End
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	return i
}

// matchCall matches an argument list "( a b ... )" at s[from:], allowing
// leading whitespace. The list must not be empty and ends at the first ')'.
// It returns the whitespace separated arguments and the offset just past ')'.
func matchCall(s string, from int) ([]string, int, bool) {
	i := skipSpace(s, from)
	if i >= len(s) || s[i] != '(' {
		return nil, 0, false
	}
	j := i + 1
	for j < len(s) && s[j] != ')' {
		j++
	}
	if j >= len(s) || j == i+1 {
		return nil, 0, false
	}
	return splitArgs(s[i+1 : j]), j + 1, true
}

func splitArgs(s string) []string {
	var args []string
	i := 0
	for {
		i = skipSpace(s, i)
		if i >= len(s) {
			return args
		}
		start := i
		for i < len(s) && !isSpace(s[i]) {
			i++
		}
		args = append(args, s[start:i])
	}
}
