// Package wsize queries the controlling terminal's window size, used to
// answer the window_lines/window_columns builtin and to react to SIGWINCH
// (§5). It wraps golang.org/x/term rather than hand-rolling an ioctl, the
// way other_examples' terminal line reader does for the same purpose.
package wsize

import (
	"os"

	"golang.org/x/term"
)

// Get returns the current terminal size of stdout, or an error if stdout
// isn't a terminal (a pipe, a redirected file, a non-interactive script).
func Get() (lines, cols int, err error) {
	cols, lines, err = term.GetSize(int(os.Stdout.Fd()))
	return lines, cols, err
}
