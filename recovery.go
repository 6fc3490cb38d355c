package main

import (
	"bufio"
	"os"
	"path/filepath"
)

// recoveryDumper serializes the live buffer to a hangup recovery file,
// adapting the shape of the teacher's vmDumper (dumper.go): a small struct
// wrapping the state to be dumped and the io.Writer target, with one
// top-level dump method and a buffered write loop underneath it.
type recoveryDumper struct {
	ed  *Editor
	out *bufio.Writer
}

// hangupPath returns the path ed writes a crash/hangup recovery copy of
// the buffer to: ed.hup in the current directory if writable, else
// $HOME/ed.hup (§6).
func hangupPath() string {
	if f, err := os.OpenFile("ed.hup", os.O_WRONLY|os.O_CREATE, 0644); err == nil {
		f.Close()
		return "ed.hup"
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "ed.hup")
	}
	return "ed.hup"
}

// dumpRecovery writes the entire current buffer to the hangup file,
// invoked by the hangup hook on SIGHUP (§5, §6). Errors are deliberately
// swallowed beyond logging: a failed recovery dump must never itself crash
// an already-dying process.
func (ed *Editor) dumpRecovery() {
	path := hangupPath()
	f, err := os.Create(path)
	if err != nil {
		ed.logf("!", "cannot write recovery file %v: %v", path, err)
		return
	}
	defer f.Close()

	dump := recoveryDumper{ed: ed, out: bufio.NewWriter(f)}
	dump.dump()
	if err := dump.out.Flush(); err != nil {
		ed.logf("!", "cannot flush recovery file %v: %v", path, err)
	}
}

func (dump recoveryDumper) dump() {
	ed := dump.ed
	if ed.buf.count == 0 {
		return
	}
	ed.buf.lineRange(ed.buf.first, ed.buf.last, func(h lineHandle) {
		node := ed.arena.node(h)
		text, err := ed.scratch.read(node.pos, node.len)
		if err != nil {
			return
		}
		dump.out.Write(text)
		dump.out.WriteByte('\n')
	})
}
