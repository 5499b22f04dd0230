package report

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is connected to a terminal. Grounded on the
// teacher's output.IsTTY.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// TerminalWidth returns w's terminal width, or 80 if it cannot be
// determined (not a terminal, or the ioctl failed).
func TerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}
