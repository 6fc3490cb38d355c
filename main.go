/* Command goed is a line-oriented text editor in the classic ed tradition.

It reads a script of addressed commands from standard input (an optional
file argument is loaded into the buffer first; "-" or "--" in its place
means no file), applies them to a scratch-file-backed line buffer, and
writes the result back out on demand via w/W. Addresses may be absolute
line numbers, ., $, marks, or regular-expression searches; commands range
from simple printing and appending through substitution, move/copy/join,
and global iteration over a regex-selected active set. A single level of
undo is kept across top-level commands, and toggles itself into redo on a
second invocation.

See doc.go for the package-level narrative and DESIGN.md in the module
root for how each piece is grounded.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jcorbin/goed/internal/logio"
	"github.com/jcorbin/goed/internal/panicerr"
)

func main() {
	var (
		extendedRegex bool
		loose         bool
		verboseErrors bool
		suppressDiag  bool
		prompt        string
		restricted    bool
		stripCR       bool
		highlight     bool
		showVersion   bool
	)

	flag.BoolVar(&extendedRegex, "E", false, "use POSIX extended regular expressions")
	flag.BoolVar(&loose, "G", false, "run in compatibility (loose) mode")
	flag.BoolVar(&verboseErrors, "H", false, "print explanations for error messages")
	flag.BoolVar(&highlight, "l", false, "highlight output lines by recognized file type")
	flag.StringVar(&prompt, "p", "", "specify a command prompt")
	flag.BoolVar(&restricted, "r", false, "run in restricted mode")
	flag.BoolVar(&suppressDiag, "s", false, "suppress diagnostics and byte counts")
	flag.BoolVar(&verboseErrors, "v", false, "equivalent to -H")
	flag.BoolVar(&stripCR, "strip-trailing-cr", false, "strip a trailing carriage return from every input line")
	flag.BoolVar(&showVersion, "V", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Println("goed (a line-oriented text editor)")
		os.Exit(0)
	}

	log := logio.Logger{}
	log.SetOutput(os.Stderr)

	args := flag.Args()
	var filename string
	switch len(args) {
	case 0:
	case 1:
		filename = args[0]
		if filename == "-" || filename == "--" {
			// a bare - or -- as the filename argument means "no initial
			// file, and suppress the startup byte count", matching
			// classic ed's treatment of a leading dash.
			filename = ""
			suppressDiag = true
		}
	default:
		usage()
		os.Exit(1)
	}

	ed, err := NewEditor(
		WithInput(os.Stdin, "<stdin>"),
		WithOutput(os.Stdout),
		WithPrompt(prompt),
		WithExtendedRegex(extendedRegex),
		WithLoose(loose),
		WithVerboseErrors(verboseErrors),
		WithRestricted(restricted),
		WithScripted(suppressDiag),
		WithStripCR(stripCR),
		WithHighlighter(highlight),
	)
	if err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
	defer ed.Close()

	stop := ed.watchSignals()
	defer stop()

	if filename != "" {
		if strings.HasPrefix(filename, "!") {
			if err := ed.cmdEdit('E', newAddrParser(ed, filename)); err != nil {
				log.Errorf("%v", err)
				os.Exit(exitCodeFor(err))
			}
		} else {
			ed.filename = filename
			if data, rerr := os.ReadFile(filename); rerr == nil {
				lines := splitLines(data, stripCR)
				if ierr := ed.insertLines(0, lines); ierr != nil {
					log.Errorf("%v", ierr)
					os.Exit(1)
				}
				ed.modified = false
				if !suppressDiag {
					fmt.Fprintf(os.Stdout, "%d\n", len(data))
				}
			} else if !os.IsNotExist(rerr) {
				log.Errorf("%v", rerr)
				os.Exit(1)
			}
		}
	}

	err = ed.Run()
	if err != nil {
		log.Errorf("%v", err)
	}
	os.Exit(exitCodeFor(err))
}

// exitCodeFor maps an error taxonomy kind to the process exit code (§5):
// 0 normal, 1 environmental, 2 corrupt input or unsaved-buffer EOF under
// script input, 3 internal invariant violation.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(edError); ok {
		switch {
		case ee.kind == errState:
			return 2
		case strings.HasPrefix(ee.mess, "invariant violation"):
			return 3
		default:
			return 1
		}
	}
	if panicerr.IsPanic(err) {
		return 3
	}
	return 1
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-EGHlrsvV] [-p prompt] [--strip-trailing-cr] [file]\n", os.Args[0])
	flag.PrintDefaults()
}
