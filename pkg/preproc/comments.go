package preproc

import "strings"

// CommentStripper removes // and /* */ comments. A block comment left open
// at the end of a line stays open into the next one.
type CommentStripper struct {
	// Strict makes Flush fail when input ends inside a block comment.
	Strict bool

	inBlock bool
	opened  Line
}

func (c *CommentStripper) Step(l Line, emit func(Line)) error {
	text := l.Text
	wasInBlock := c.inBlock
	if wasInBlock {
		text = "/*" + text
	}
	text, c.inBlock = stripComments(text)
	if c.inBlock && !wasInBlock {
		c.opened = l
	}
	l.Text = text
	emit(l)
	return nil
}

func (c *CommentStripper) Flush(func(Line)) error {
	if c.inBlock && c.Strict {
		return lineError(c.opened, ErrUnterminatedComment)
	}
	return nil
}

// stripComments removes the comments in line and reports whether it ends
// inside an unterminated block comment.
func stripComments(line string) (string, bool) {
	pos := 0
	for {
		start := commentStart(line, pos)
		if start < 0 {
			return line, false
		}
		if line[start+1] == '/' {
			return line[:start], false
		}
		end := strings.Index(line[start+2:], "*/")
		if end < 0 {
			return line[:start], true
		}
		line = line[:start] + line[start+2+end+2:]
		pos = start
	}
}

// commentStart returns the index of the first "//" or "/*" at or after pos.
func commentStart(line string, pos int) int {
	for i := pos; i+1 < len(line); i++ {
		if line[i] == '/' && (line[i+1] == '/' || line[i+1] == '*') {
			return i
		}
	}
	return -1
}
