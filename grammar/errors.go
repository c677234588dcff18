package grammar

import (
	"fmt"
)

// SyntaxError reports a committed production that did not match.
type SyntaxError struct {
	Line     int    // 1-based
	Column   int    // 1-based
	Offset   int    // byte offset into the input
	Text     string // the offending line, without its terminator
	Marker   string // padding and a caret under Column
	Expected string // name of the expected production
	After    string // last production that matched
	EOF      bool
	Err      error
}

func (e *SyntaxError) Error() string {
	var msg string
	if e.EOF {
		msg = fmt.Sprintf("unexpected end of file at line %d: expected %s", e.Line, e.Expected)
		if e.After != "" {
			msg += " after " + e.After
		}
	} else {
		msg = fmt.Sprintf("line %d: expected %s at or after:\n%s\n%s", e.Line, e.Expected, e.Text, e.Marker)
	}
	if e.Err != nil {
		msg = e.Err.Error() + ": " + msg
	}
	return msg
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// GenerationError reports an emitter that could not render its value.
type GenerationError struct {
	Rule   string
	Reason string
}

func (e *GenerationError) Error() string {
	if e.Rule == "" {
		return "generation failed: " + e.Reason
	}
	return fmt.Sprintf("generation of %s failed: %s", e.Rule, e.Reason)
}
