package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatch is the soft failure of a rule: nothing was consumed that the
// caller has to keep, and alternatives may still be tried.
var ErrNoMatch = errors.New("no match")

// mismatch is a soft failure carrying where and what was expected.
type mismatch struct {
	expected string
	pos      int
	cause    error
}

func (m *mismatch) Error() string {
	return fmt.Sprintf("expected %s at offset %d", m.expected, m.pos)
}

func (m *mismatch) Is(target error) bool { return target == ErrNoMatch }

// Scanner holds the input text and the current position of a parse.
type Scanner struct {
	src    string
	pos    int
	noSkip int
	last   string // last named production that matched
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: src}
}

func (s *Scanner) Pos() int { return s.pos }

func (s *Scanner) AtEnd() bool { return s.pos >= len(s.src) }

// Skip consumes whitespace and '#' comments up to the next token. It does
// nothing inside a Lexeme or NoSkip rule.
func (s *Scanner) Skip() {
	if s.noSkip > 0 {
		return
	}
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch {
		case isSpace(c):
			s.pos++
		case c == '#':
			for s.pos < len(s.src) && !isEOL(s.src[s.pos]) {
				s.pos++
			}
		default:
			return
		}
	}
}

func (s *Scanner) fail(expected string) error {
	return &mismatch{expected: expected, pos: s.pos}
}

// errorAt turns a failure at offset pos into a positional SyntaxError.
func (s *Scanner) errorAt(pos int, expected string, cause error) *SyntaxError {
	if pos > len(s.src) {
		pos = len(s.src)
	}
	line, lineStart := 1, 0
	for i := 0; i < pos; {
		eol := false
		if s.src[i] == '\r' {
			eol = true
			i++
			lineStart = i
		}
		if i < pos && s.src[i] == '\n' {
			eol = true
			i++
			lineStart = i
		}
		if eol {
			line++
		} else {
			i++
		}
	}
	lineEnd := lineStart
	for lineEnd < len(s.src) && !isEOL(s.src[lineEnd]) {
		lineEnd++
	}
	// Keep tabs so the caret lines up with the echoed text.
	var pad strings.Builder
	for _, c := range []byte(s.src[lineStart:pos]) {
		if c == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}
	return &SyntaxError{
		Line:     line,
		Column:   pos - lineStart + 1,
		Offset:   pos,
		Text:     s.src[lineStart:lineEnd],
		Marker:   pad.String() + "^",
		Expected: expected,
		After:    s.last,
		EOF:      pos >= len(s.src),
		Err:      cause,
	}
}

// hard converts a soft failure into a SyntaxError. Hard errors pass through.
func (s *Scanner) hard(err error) error {
	var m *mismatch
	if errors.As(err, &m) {
		return s.errorAt(m.pos, m.expected, m.cause)
	}
	return err
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isEOL(c byte) bool { return c == '\r' || c == '\n' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
