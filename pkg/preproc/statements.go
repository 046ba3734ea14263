package preproc

import (
	"math/big"
	"regexp"
	"strings"
)

// StatementSplitter puts every ';'-separated statement on its own line.
type StatementSplitter struct{}

func (StatementSplitter) Step(l Line, emit func(Line)) error {
	for _, part := range strings.Split(l.Text, ";") {
		emit(Line{No: l.No, Text: part})
	}
	return nil
}

func (StatementSplitter) Flush(func(Line)) error { return nil }

// FillConverter rewrites a line holding only a decimal integer as a .fill directive.
type FillConverter struct{}

func (FillConverter) Step(l Line, emit func(Line)) error {
	if n, ok := parseInteger(l.Text); ok {
		l.Text = ".fill " + n.String()
	}
	emit(l)
	return nil
}

func (FillConverter) Flush(func(Line)) error { return nil }

func parseInteger(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	return new(big.Int).SetString(s, 10)
}

var (
	fieldSep    = regexp.MustCompile(`\s+`)
	registerRef = regexp.MustCompile(`\br(\d)\b`)
)

// RegisterNormalizer turns rN operands into bare register numbers. The
// first field of the line is the opcode and is never rewritten.
type RegisterNormalizer struct{}

func (RegisterNormalizer) Step(l Line, emit func(Line)) error {
	l.Text = normalizeRegisters(l.Text)
	emit(l)
	return nil
}

func (RegisterNormalizer) Flush(func(Line)) error { return nil }

func normalizeRegisters(line string) string {
	loc := fieldSep.FindStringIndex(line)
	if loc == nil {
		return line
	}
	return line[:loc[1]] + registerRef.ReplaceAllString(line[loc[1]:], "$1")
}
