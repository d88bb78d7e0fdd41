// Package highlight renders converted text output with syntax colors
// when it is headed for an interactive terminal.
package highlight

import (
	"io"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/term"
)

// Enabled reports whether colored output should be used for the given
// --color mode when writing to w.
func Enabled(mode string, w *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(w.Fd()))
	}
}

// Print writes src to w highlighted with the lexer named by the output
// format (chroma knows json, toml and yaml by those names).
func Print(w io.Writer, src []byte, lexer string) error {
	return quick.Highlight(w, string(src), lexer, "terminal256", "monokai")
}
