package main

import (
	"strconv"

	"github.com/jcorbin/goed/internal/runeio"
)

// printLines writes [first,last] to output per the trailing command suffix
// (§4.7): plain text for the default/'p' form, numbered for 'n', and
// unambiguously escaped (control chars, trailing $) for 'l'. current_addr
// is left at the last line printed, per §4.1.
func (ed *Editor) printLines(first, last lineHandle, mode rune, numbered bool) error {
	if first == 0 {
		return nil
	}

	addr := ed.buf.addrOf(first)
	if addr < 0 {
		return fatalErrorf("invariant violation: printLines on detached handle")
	}

	var buf []byte
	ed.buf.lineRange(first, last, func(h lineHandle) {
		node := ed.arena.node(h)
		text, err := ed.scratch.read(node.pos, node.len)
		if err != nil {
			ed.halt(err)
		}

		buf = buf[:0]
		if numbered {
			buf = strconv.AppendInt(buf, int64(addr), 10)
			buf = append(buf, '\t')
		}

		if ed.opts.highlight {
			text = highlightLine(text, ed.filename)
		}

		switch mode {
		case 'l':
			for _, b := range text {
				buf = runeio.EdEscape(buf, b)
			}
			buf = append(buf, '$')
		default:
			buf = append(buf, text...)
		}
		buf = append(buf, '\n')
		ed.writeString(string(buf))
		addr++
	})

	ed.current = ed.buf.addrOf(last)
	return nil
}
