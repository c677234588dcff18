package utils

import (
	"io"

	jww "github.com/spf13/jwalterweatherman"
)

// NewNotepad returns the logger shared by the conversion stages. Warnings
// and errors always reach w; progress lines only in verbose mode.
func NewNotepad(w io.Writer, verbose bool) *jww.Notepad {
	threshold := jww.LevelWarn
	if verbose {
		threshold = jww.LevelInfo
	}
	return jww.NewNotepad(threshold, jww.LevelFatal, w, io.Discard, "", 0)
}

// QuietNotepad discards everything.
func QuietNotepad() *jww.Notepad {
	return jww.NewNotepad(jww.LevelFatal, jww.LevelFatal, io.Discard, io.Discard, "", 0)
}

// Notepad returns n, or a quiet notepad when n is nil.
func Notepad(n *jww.Notepad) *jww.Notepad {
	if n == nil {
		return QuietNotepad()
	}
	return n
}

// Verbose reports whether n prints progress lines.
func Verbose(n *jww.Notepad) bool {
	return n != nil && n.GetStdoutThreshold() <= jww.LevelInfo
}
