package main

import (
	"bytes"
	"regexp"
)

// replPart is one piece of a parsed s/// replacement template: either a
// literal run of bytes, a reference to the whole match (&, or \0), or a
// reference to a numbered submatch (\1-\9).
type replPart struct {
	lit   []byte
	group int // -1 for a literal part
}

// parseReplacement splits a raw replacement string into a template of
// literal/group parts per §4.4: & stands for the whole match, \& is a
// literal &, \N (1-9) stands for the Nth submatch, \n is a newline, \\ is a
// literal backslash, and any other backslash escape passes its escaped character
// through literally (matching the teacher's UnquoteRune philosophy of
// "unrecognized escape means literal escaped char" rather than an error).
func parseReplacement(s string) []replPart {
	var parts []replPart
	var lit []byte
	flush := func() {
		if len(lit) > 0 {
			parts = append(parts, replPart{lit: lit, group: -1})
			lit = nil
		}
	}
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case c == '&':
			flush()
			parts = append(parts, replPart{group: 0})
		case c == '\\' && i+1 < len(b):
			n := b[i+1]
			switch {
			case n >= '0' && n <= '9':
				flush()
				parts = append(parts, replPart{group: int(n - '0')})
			case n == 'n':
				flush()
				lit = append(lit, '\n')
			default:
				lit = append(lit, n)
			}
			i++
		default:
			lit = append(lit, c)
		}
	}
	flush()
	return parts
}

// expand renders parts against a regexp match's submatch byte slices (as
// returned by Regexp.FindSubmatchIndex against src), appending to dst.
func expandReplacement(dst []byte, parts []replPart, src []byte, idx []int) []byte {
	for _, p := range parts {
		if p.group < 0 {
			dst = append(dst, p.lit...)
			continue
		}
		g := p.group * 2
		if g+1 < len(idx) && idx[g] >= 0 {
			dst = append(dst, src[idx[g]:idx[g+1]]...)
		}
	}
	return dst
}

// substSpec is a parsed s/// command body (§4.4).
type substSpec struct {
	pattern  string // empty means "reuse last pattern"
	replRaw  string
	reuseRepl bool // replacement was exactly "%", reuse last template
	nth      int  // 1-based Nth occurrence to replace; 0 means unspecified
	global   bool // g flag: replace every occurrence on the line
	print    rune // 0, 'p', 'l', or 'n' trailing print suffix
}

// substitute applies spec to every line in [first,last] (§4.4): for each
// line, the regex is matched repeatedly; each match is replaced if it is
// the selected occurrence (by spec.nth) or if spec.global is set and the
// occurrence count has reached spec.nth (default 1). A replaced line is
// rebuilt from scratch and appended as a new line via the undo-tracked add
// path; unreplaced lines are left untouched (same handle, same scratch
// range). Returns the number of lines actually changed.
func (ed *Editor) substitute(first, last lineHandle, spec substSpec) (changed int, lastChanged lineHandle, err error) {
	extended := ed.opts.extendedRegex

	var re *regexp.Regexp
	if spec.pattern != "" {
		re, err = ed.res.setPattern(spec.pattern, extended)
	} else {
		re, err = ed.res.pattern()
	}
	if err != nil {
		return 0, 0, err
	}

	var repl []replPart
	if spec.reuseRepl {
		repl, err = ed.res.repl()
		if err != nil {
			return 0, 0, err
		}
	} else {
		repl = parseReplacement(spec.replRaw)
		ed.res.setRepl(repl)
	}

	nth := spec.nth
	if nth == 0 {
		nth = 1
	}

	h := first
	for {
		next := ed.buf.arena.node(h).next
		node := ed.buf.arena.node(h)
		text, rerr := ed.scratch.read(node.pos, node.len)
		if rerr != nil {
			return changed, lastChanged, rerr
		}

		out, n, rerr := substLine(text, re, repl, nth, spec.global)
		if rerr != nil {
			return changed, lastChanged, rerr
		}
		if n > 0 {
			newH, perr := ed.replaceLine(h, out)
			if perr != nil {
				return changed, lastChanged, perr
			}
			lastChanged = newH
			changed++
		}

		if h == last {
			break
		}
		h = next
	}

	if changed == 0 {
		return 0, 0, semanticErrorf("no match")
	}
	return changed, lastChanged, nil
}

// substLine applies re/repl to a single line's text, honoring nth/global,
// and guards against an infinite loop on a zero-width match by always
// advancing at least one byte past any match that consumed nothing.
func substLine(text []byte, re *regexp.Regexp, repl []replPart, nth int, global bool) ([]byte, int, error) {
	var out []byte
	occurrence := 0
	pos := 0
	n := 0
	lastZeroWidthAt := -1

	for pos <= len(text) {
		idx := re.FindSubmatchIndex(text[pos:])
		if idx == nil {
			out = append(out, text[pos:]...)
			break
		}
		occurrence++
		matchStart, matchEnd := pos+idx[0], pos+idx[1]

		if matchEnd == matchStart {
			if matchStart == lastZeroWidthAt {
				return nil, 0, errInfiniteSubst
			}
			lastZeroWidthAt = matchStart
		}

		replaceThis := occurrence == nth || (global && occurrence >= nth)
		out = append(out, text[pos:matchStart]...)
		if replaceThis {
			out = expandReplacement(out, repl, text[pos:], idx)
			n++
		} else {
			out = append(out, text[matchStart:matchEnd]...)
		}

		if matchEnd == matchStart {
			if matchEnd < len(text) {
				out = append(out, text[matchEnd])
			}
			pos = matchEnd + 1
		} else {
			pos = matchEnd
		}

		if pos > len(text) {
			break
		}
		if !global && occurrence >= nth {
			out = append(out, text[pos:]...)
			break
		}
	}

	return out, n, nil
}

// replaceLine removes the line at h and inserts newText in its place,
// preserving its address, recorded to the undo journal as a DEL-then-ADD
// pair. Per §4.4, a replacement that expands to multiple output lines (an
// embedded, unescaped newline in the rebuilt text) gets one descriptor per
// line, with the ADD atom extended over each extra segment the same way
// cmdTransfer extends an ADD atom over a multi-line copy. Returns the
// handle of the last line inserted.
func (ed *Editor) replaceLine(h lineHandle, newText []byte) (lineHandle, error) {
	addr := ed.buf.addrOf(h)
	if addr < 0 {
		return 0, fatalErrorf("invariant violation: replaceLine on detached handle")
	}

	if err := ed.deleteRange(h, h); err != nil {
		return 0, err
	}

	var firstH, lastH lineHandle
	at := addr - 1
	for _, seg := range bytes.Split(newText, []byte{'\n'}) {
		pos, length, err := ed.scratch.append(seg)
		if err != nil {
			return 0, err
		}
		nh := ed.buf.insertAfter(at, pos, length)
		if firstH == 0 {
			firstH = nh
			ed.undoJ.push(undoAdd, nh, nh, 0, 0)
		} else {
			ed.undoJ.extendTail(nh)
		}
		lastH = nh
		at++
	}
	ed.current = at
	ed.modified = true
	return lastH, nil
}
