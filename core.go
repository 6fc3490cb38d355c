package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcorbin/goed/internal/fileinput"
	"github.com/jcorbin/goed/internal/flushio"
	"github.com/jcorbin/goed/internal/wsize"
)

// Editor is the line-oriented text editor core (§3): a scratch-file-backed
// line buffer, a single-level undo journal, and the address/command
// interpreter that drives them. Its embedding shape -- logging, a
// fileinput.Input for command-stream reading, a flushio.WriteFlusher for
// output, and an accumulated closer list -- is carried over directly from
// the teacher's Core (core.go).
type Editor struct {
	logging
	fileinput.Input
	out     flushio.WriteFlusher
	closers []io.Closer

	opts editorOptions

	scratch *scratchStore
	buf     *lineList
	yank    *yankBuffer
	arena   *lineArena
	marks   markTable
	undoJ   *undoJournal
	res     regexCache

	active *activeSet

	current    int // "."
	filename   string
	modified   bool
	lastErr    edError
	suppressed bool

	winLines, winCols int
	crit              criticalSection
}

// NewEditor constructs an Editor from a sequence of functional options,
// mirroring the teacher's VMOptions/VM.apply pattern (options.go).
func NewEditor(opts ...EditorOption) (*Editor, error) {
	ed := &Editor{}
	ed.arena = newLineArena()
	ed.buf = newLineList(ed.arena)
	ed.yank = newYankBuffer(ed.arena)
	ed.undoJ = newUndoJournal(ed.arena)

	scratch, err := newScratchStore()
	if err != nil {
		return nil, err
	}
	ed.scratch = scratch

	EditorOptions(defaultEditorOptions, EditorOptions(opts...)).apply(ed)

	if ed.out == nil {
		ed.out = flushio.NewWriteFlusher(io.Discard)
	}

	if lines, cols, err := wsize.Get(); err == nil {
		ed.winLines, ed.winCols = lines, cols
	} else {
		ed.winLines, ed.winCols = 24, 80
	}

	ed.crit.onHangup = func() {
		ed.dumpRecovery()
		os.Exit(1)
	}
	ed.crit.onIntr = func() {
		ed.writeString("\n")
	}

	return ed, nil
}

func (ed *Editor) Close() (err error) {
	for i := len(ed.closers) - 1; i >= 0; i-- {
		if cerr := ed.closers[i].Close(); err == nil {
			err = cerr
		}
	}
	if ed.scratch != nil {
		if cerr := ed.scratch.close(); err == nil {
			err = cerr
		}
	}
	return err
}

// halt flushes output (ignoring any secondary panic while doing so), logs
// the halting error, and panics with haltError to unwind out of the
// command loop -- mirroring the teacher's Core.halt.
func (ed *Editor) halt(err error) {
	func() {
		defer func() { recover() }()
		if ed.out != nil {
			if ferr := ed.out.Flush(); err == nil {
				err = ferr
			}
		}
	}()
	func() {
		defer func() { recover() }()
		ed.logf("#", "halt error: %v", err)
	}()
	panic(haltError{err})
}

func (ed *Editor) writeString(s string) {
	if _, err := io.WriteString(ed.out, s); err != nil {
		ed.halt(err)
	}
}

// reportError records err as the most recent failure (for h/H) and writes
// the "?" the user sees at the prompt -- or, once -v/verbose or H is
// active, "?" followed by the message -- per §5.
func (ed *Editor) reportError(err error) {
	ee, ok := err.(edError)
	if !ok {
		ee = fatalErrorf("%v", err)
	}
	ed.lastErr = ee
	ed.suppressed = true

	if ed.opts.verboseErrors {
		ed.writeString(fmt.Sprintf("?\n%s\n", ee.mess))
	} else {
		ed.writeString("?\n")
	}
}

// beginCommand opens a fresh undo snapshot for the command about to run,
// unless it is running as part of a global construct's command list: per
// §4.3 a whole g/v/G/V iteration is one undoable unit, so the individual
// mutating commands inside it must not each reset the snapshot -- only
// globalCommand itself calls undoJ.beginCommand directly, before the
// iteration starts.
func (ed *Editor) beginCommand() {
	if ed.active == nil {
		ed.undoJ.beginCommand(ed)
	}
}

// notifyRangeRemoved clears every mark and active-set entry that names a
// handle in [first,last], per §3's "on deletion of a line, all marks
// referring to it are cleared" and the active set's own pruning rule.
func (ed *Editor) notifyRangeRemoved(first, last lineHandle) {
	removed := handleRange(ed.arena, first, last)
	ed.marks.clearRefs(removed)
	if ed.active != nil {
		ed.active.pruneRange(removed)
	}
}

// logging is carried over unchanged from the teacher's internal logging
// helper (core.go); logf is a no-op unless a sink was installed with
// WithLogfn, which the command-line front end does not do.
type logging struct {
	logfn func(mess string, args ...interface{})

	markWidth int
}

func (log *logging) withLogPrefix(prefix string) func() {
	logfn := log.logfn
	log.logfn = func(mess string, args ...interface{}) {
		logfn(prefix+mess, args...)
	}
	return func() { log.logfn = logfn }
}

func (log logging) logf(mark, mess string, args ...interface{}) {
	if log.logfn == nil {
		return
	}
	if n := log.markWidth - len(mark); n > 0 {
		for _, r := range mark {
			mark = strings.Repeat(string(r), n) + mark
			break
		}
	} else if n < 0 {
		log.markWidth = len(mark)
	}
	if len(args) > 0 {
		mess = fmt.Sprintf(mess, args...)
	}
	log.logfn("%v %v", mark, mess)
}
