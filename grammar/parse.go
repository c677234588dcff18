package grammar

import (
	"errors"
	"strconv"
	"strings"
)

// Rule consumes input at the scanner position. It returns nil on a match,
// a soft failure (errors.Is(err, ErrNoMatch)) when the input does not
// start with the rule, or a *SyntaxError when a committed sequence broke.
type Rule func(s *Scanner) error

// ParseAll runs root over the whole input. Trailing whitespace and
// comments are allowed; anything else is a syntax error.
func ParseAll(s *Scanner, root Rule) error {
	if err := root(s); err != nil {
		return s.hard(err)
	}
	s.Skip()
	if !s.AtEnd() {
		return s.errorAt(s.pos, "end of input", nil)
	}
	return nil
}

// Lit matches the literal text.
func Lit(text string) Rule {
	return func(s *Scanner) error {
		s.Skip()
		if !strings.HasPrefix(s.src[s.pos:], text) {
			return s.fail(strconv.Quote(text))
		}
		s.pos += len(text)
		return nil
	}
}

// Keyword matches the first of words found at the position and stores it.
func Keyword(dst *string, words ...string) Rule {
	return func(s *Scanner) error {
		s.Skip()
		for _, w := range words {
			if strings.HasPrefix(s.src[s.pos:], w) {
				s.pos += len(w)
				*dst = w
				return nil
			}
		}
		return s.fail("one of " + strings.Join(words, ", "))
	}
}

// Uint matches an unsigned decimal integer.
func Uint(dst *int) Rule {
	return UintIf(dst, nil)
}

// UintIf matches an unsigned integer for which accept returns true. A nil
// accept takes any value. A rejected value is not consumed.
func UintIf(dst *int, accept func(int) bool) Rule {
	return func(s *Scanner) error {
		s.Skip()
		end := s.pos
		for end < len(s.src) && isDigit(s.src[end]) {
			end++
		}
		if end == s.pos {
			return s.fail("unsigned integer")
		}
		v, err := strconv.Atoi(s.src[s.pos:end])
		if err != nil || (accept != nil && !accept(v)) {
			return s.fail("unsigned integer")
		}
		*dst = v
		s.pos = end
		return nil
	}
}

// Float matches a real number: optional sign, digits with an optional
// fraction and exponent, or nan / inf / infinity.
func Float(dst *float64) Rule {
	return func(s *Scanner) error {
		s.Skip()
		end, ok := scanFloat(s.src, s.pos)
		if !ok {
			return s.fail("real number")
		}
		v, err := strconv.ParseFloat(s.src[s.pos:end], 64)
		if err != nil {
			return s.fail("real number")
		}
		*dst = v
		s.pos = end
		return nil
	}
}

func scanFloat(src string, i int) (int, bool) {
	start := i
	if i < len(src) && (src[i] == '+' || src[i] == '-') {
		i++
	}
	rest := strings.ToLower(src[i:min(len(src), i+8)])
	switch {
	case strings.HasPrefix(rest, "nan") && i == start:
		return i + 3, true
	case strings.HasPrefix(rest, "infinity"):
		return i + 8, true
	case strings.HasPrefix(rest, "inf"):
		return i + 3, true
	}
	digits := 0
	for i < len(src) && isDigit(src[i]) {
		i++
		digits++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return start, false
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		if j < len(src) && isDigit(src[j]) {
			for j < len(src) && isDigit(src[j]) {
				j++
			}
			i = j
		}
	}
	return i, true
}

// UntilEOL matches one or more characters up to the end of the line.
func UntilEOL(dst *string) Rule {
	return restOfLine(dst, false)
}

// Label matches one or more characters up to the end of the line or the
// start of a '#' comment.
func Label(dst *string) Rule {
	return restOfLine(dst, true)
}

func restOfLine(dst *string, stopAtComment bool) Rule {
	return func(s *Scanner) error {
		s.Skip()
		end := s.pos
		for end < len(s.src) && !isEOL(s.src[end]) && !(stopAtComment && s.src[end] == '#') {
			end++
		}
		if end == s.pos {
			return s.fail("text up to end of line")
		}
		*dst = s.src[s.pos:end]
		s.pos = end
		return nil
	}
}

// Spaces matches one or more whitespace characters. It never skips
// comments, so it is meant for use inside a Lexeme.
func Spaces() Rule {
	return func(s *Scanner) error {
		end := s.pos
		for end < len(s.src) && isSpace(s.src[end]) {
			end++
		}
		if end == s.pos {
			return s.fail("whitespace")
		}
		s.pos = end
		return nil
	}
}

// Seq matches the rules in order. Any failure fails the whole sequence and
// restores the position.
func Seq(rules ...Rule) Rule {
	return func(s *Scanner) error {
		start := s.pos
		for _, r := range rules {
			if err := r(s); err != nil {
				if errors.Is(err, ErrNoMatch) {
					s.pos = start
				}
				return err
			}
		}
		return nil
	}
}

// Expect is a committed sequence. Only the first rule may fail softly;
// once it matched, every following rule must match or parsing stops with
// a SyntaxError naming the rule that broke.
func Expect(rules ...Rule) Rule {
	return func(s *Scanner) error {
		start := s.pos
		for i, r := range rules {
			err := r(s)
			if err == nil {
				continue
			}
			if i == 0 && errors.Is(err, ErrNoMatch) {
				s.pos = start
				return err
			}
			return s.hard(err)
		}
		return nil
	}
}

// Repeat matches item exactly *count times. The count is read when the
// rule runs, so an earlier rule in the same sequence may set it.
func Repeat(count *int, item Rule) Rule {
	return func(s *Scanner) error {
		start := s.pos
		for i := 0; i < *count; i++ {
			if err := item(s); err != nil {
				if errors.Is(err, ErrNoMatch) {
					s.pos = start
				}
				return err
			}
		}
		return nil
	}
}

// Many matches item zero or more times, stopping at the first soft failure.
func Many(item Rule) Rule {
	return func(s *Scanner) error {
		for {
			start := s.pos
			err := item(s)
			if errors.Is(err, ErrNoMatch) {
				s.pos = start
				return nil
			}
			if err != nil {
				return err
			}
			if s.pos == start {
				return nil
			}
		}
	}
}

// Alt tries the rules in order and keeps the first match. When every
// alternative fails and one of them carries a cause, that failure wins.
func Alt(rules ...Rule) Rule {
	return func(s *Scanner) error {
		start := s.pos
		var names []string
		for _, r := range rules {
			err := r(s)
			if err == nil {
				return nil
			}
			var m *mismatch
			if !errors.As(err, &m) {
				return err
			}
			s.pos = start
			if m.cause != nil {
				return m
			}
			names = append(names, m.expected)
		}
		s.Skip()
		failure := s.fail(strings.Join(names, " or "))
		s.pos = start
		return failure
	}
}

// Reject turns a match of r into a soft failure carrying cause, positioned
// where r started. It is the last alternative of an Alt that lists the
// accepted forms first.
func Reject(cause error, r Rule) Rule {
	return func(s *Scanner) error {
		start := s.pos
		if err := r(s); err != nil {
			return err
		}
		s.pos = start
		s.Skip()
		failure := &mismatch{expected: "valid value", pos: s.pos, cause: cause}
		s.pos = start
		return failure
	}
}

// Named gives a rule the production name used in diagnostics. The failure
// position stays where the inner rule stopped matching.
func Named(name string, r Rule) Rule {
	return Require(name, nil, r)
}

// Require is Named with a cause attached to the diagnostic, so callers can
// tell a domain violation from a plain syntax error with errors.Is.
func Require(name string, cause error, r Rule) Rule {
	return func(s *Scanner) error {
		err := r(s)
		if err == nil {
			s.last = name
			return nil
		}
		var m *mismatch
		if errors.As(err, &m) {
			c := cause
			if c == nil {
				c = m.cause
			}
			return &mismatch{expected: name, pos: m.pos, cause: c}
		}
		return err
	}
}

// Lexeme skips once, then runs r with skipping disabled.
func Lexeme(r Rule) Rule {
	return func(s *Scanner) error {
		s.Skip()
		return NoSkip(r)(s)
	}
}

// NoSkip runs r with skipping disabled.
func NoSkip(r Rule) Rule {
	return func(s *Scanner) error {
		s.noSkip++
		defer func() { s.noSkip-- }()
		return r(s)
	}
}

// Then runs fn after r matched.
func Then(r Rule, fn func()) Rule {
	return func(s *Scanner) error {
		if err := r(s); err != nil {
			return err
		}
		fn()
		return nil
	}
}

// Do always matches and runs fn.
func Do(fn func()) Rule {
	return func(*Scanner) error {
		fn()
		return nil
	}
}
