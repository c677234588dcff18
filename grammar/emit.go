package grammar

import (
	"errors"
	"math"
	"strconv"
)

// RealPrecision is the number of fractional digits of every real number
// written by Real. Target readers expect this exact width.
const RealPrecision = 24

// Writer accumulates generated text.
type Writer struct {
	buf []byte
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) String() string { return string(w.buf) }

// Emitter renders part of a value into the writer.
type Emitter func(w *Writer) error

// Render runs e into a fresh buffer. Nothing is returned on failure.
func Render(e Emitter) ([]byte, error) {
	w := &Writer{}
	if err := e(w); err != nil {
		return nil, err
	}
	return w.buf, nil
}

// FormatReal renders v in fixed notation with RealPrecision fractional
// digits, always with a decimal point and trailing zeros.
func FormatReal(v float64) string {
	return string(appendReal(nil, v))
}

func appendReal(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}
	return strconv.AppendFloat(dst, v, 'f', RealPrecision, 64)
}

// Text writes the literal text.
func Text(text string) Emitter {
	return func(w *Writer) error {
		w.buf = append(w.buf, text...)
		return nil
	}
}

// Newline writes a line feed.
var Newline = Text("\n")

// Int writes a decimal integer.
func Int(v int) Emitter {
	return func(w *Writer) error {
		w.buf = strconv.AppendInt(w.buf, int64(v), 10)
		return nil
	}
}

// Real writes v with FormatReal.
func Real(v float64) Emitter {
	return func(w *Writer) error {
		w.buf = appendReal(w.buf, v)
		return nil
	}
}

// Concat emits each part in order and stops at the first failure.
func Concat(parts ...Emitter) Emitter {
	return func(w *Writer) error {
		for _, p := range parts {
			if err := p(w); err != nil {
				return err
			}
		}
		return nil
	}
}

// Join emits item(0) ... item(n-1) separated by sep. Like a list
// generator it needs at least one item.
func Join(n int, sep Emitter, item func(i int) Emitter) Emitter {
	return func(w *Writer) error {
		if n == 0 {
			return &GenerationError{Reason: "empty list"}
		}
		for i := 0; i < n; i++ {
			if i > 0 {
				if err := sep(w); err != nil {
					return err
				}
			}
			if err := item(i)(w); err != nil {
				return err
			}
		}
		return nil
	}
}

// Ints emits the values separated by single spaces.
func Ints(vs []int) Emitter {
	return Join(len(vs), Text(" "), func(i int) Emitter { return Int(vs[i]) })
}

// Reals emits the values separated by single spaces.
func Reals(vs []float64) Emitter {
	return Join(len(vs), Text(" "), func(i int) Emitter { return Real(vs[i]) })
}

// Indexed emits n rows, one per line, each prefixed with its running
// 1-based index and a space.
func Indexed(n int, row func(i int) Emitter) Emitter {
	return Join(n, Newline, func(i int) Emitter {
		return Concat(Int(i+1), Text(" "), row(i))
	})
}

// When emits e only if cond holds.
func When(cond bool, e Emitter) Emitter {
	if !cond {
		return func(*Writer) error { return nil }
	}
	return e
}

// Discard consumes a part of the value without producing output.
func Discard(Emitter) Emitter {
	return func(*Writer) error { return nil }
}

// RuleName names the emitter in generation errors that have no name yet.
func RuleName(name string, e Emitter) Emitter {
	return func(w *Writer) error {
		err := e(w)
		var ge *GenerationError
		if errors.As(err, &ge) && ge.Rule == "" {
			ge.Rule = name
		}
		return err
	}
}
