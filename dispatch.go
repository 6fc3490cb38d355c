package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/goed/internal/panicerr"
)

// Run drives the editor's main command loop to completion, isolating any
// halting error (a haltError raised by Editor.halt, or an unexpected
// runtime panic) behind panicerr.Recover the same way the teacher's
// VM.Run isolates vm.run (api.go).
func (ed *Editor) Run() error {
	err := panicerr.Recover("ed", func() error {
		return ed.run()
	})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var he haltError
	if errors.As(err, &he) {
		err = he.error
	}
	return err
}

// run is the top-level read-dispatch-report loop (§5): read one command
// line, execute it, and on error print "?" (or the full message once
// verbose/H is active) and continue, except for a fatal error, which
// propagates out to halt the process.
func (ed *Editor) run() error {
	for {
		if ed.opts.prompt != "" {
			ed.writeString(ed.opts.prompt)
		}

		line, terminated, err := ed.ReadLine(nil)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if len(line) == 0 && !terminated && ed.atEOF() {
			return nil
		}

		if err := ed.dispatchLine(string(line)); err != nil {
			if ee, ok := err.(edError); ok && ee.kind == errFatal {
				ed.halt(ee)
			}
			if errors.Is(err, errQuitRequested) {
				return nil
			}
			ed.reportError(err)
		}
	}
}

func (ed *Editor) atEOF() bool { return len(ed.Queue) == 0 && ed.rrExhausted() }

// rrExhausted always reports true: fileinput.Input doesn't expose whether
// its current stream has been fully consumed, so run relies instead on
// ReadLine returning an empty, unterminated line, which happens only once
// the input has run out.
func (ed *Editor) rrExhausted() bool { return true }

var errQuitRequested = stateErrorf("quit")

// dispatchLine parses and executes a single top-level command line,
// including the g/v/G/V global forms, which recursively collect and run a
// command list against an active set (§4.6).
func (ed *Editor) dispatchLine(line string) error {
	ed.crit.enter()
	defer ed.crit.leave()

	p := newAddrParser(ed, line)
	first, last, explicit, err := p.parseRange()
	if err != nil {
		return err
	}

	p.skipSpace()
	if p.rest == "" {
		return ed.gotoLine(last)
	}

	cmd := p.rest[0]
	p.rest = p.rest[1:]

	switch cmd {
	case 'g', 'v', 'G', 'V':
		// g/v/G/V default to the whole buffer, not ".", when no address
		// was given (§4: "range (dflt 1,$)").
		if !explicit {
			first, last = 1, ed.buf.count
		}
		return ed.globalCommand(p, first, last, cmd)
	case 'w', 'W':
		// w/W likewise default to the whole buffer.
		if !explicit {
			first, last = 1, ed.buf.count
		}
		return ed.execCommand(p, first, last, cmd)
	default:
		return ed.execCommand(p, first, last, cmd)
	}
}

// gotoLine implements the bare-address command: print the addressed line
// and set current_addr to it.
func (ed *Editor) gotoLine(addr int) error {
	if addr < 1 || addr > ed.buf.count {
		return errInvalidAddress
	}
	ed.current = addr
	h := ed.buf.at(addr)
	return ed.printLines(h, h, 0, false)
}

// execCommand dispatches a single non-global command, given its already
// parsed [first,last] address range and the command letter just consumed
// from p.
func (ed *Editor) execCommand(p *addrParser, first, last int, cmd byte) error {
	// commands that take only a trailing print-mode suffix (or nothing)
	// consume it generically here; every other command parses its own
	// trailing syntax (a destination address, a mark letter, a pattern, a
	// filename, ...) straight off p.rest below.
	switch cmd {
	case 'p', 'n', 'l', 'a', 'i', 'c', 'd', 'j', 'u':
		suffix, err := parseSuffix(p)
		if err != nil {
			return err
		}
		switch cmd {
		case 'p', 'n', 'l':
			return ed.cmdPrint(first, last, cmd, suffix)
		case 'a':
			return ed.cmdAppend(last, suffix)
		case 'i':
			return ed.cmdInsert(last, suffix)
		case 'c':
			return ed.cmdChange(first, last, suffix)
		case 'd':
			return ed.cmdDelete(first, last, suffix)
		case 'j':
			return ed.cmdJoin(first, last, suffix)
		case 'u':
			return ed.undo()
		}
	}

	switch cmd {
	case 'm':
		return ed.cmdMove(first, last, p)
	case 't':
		return ed.cmdTransfer(first, last, p)
	case 'y':
		return ed.cmdYank(first, last)
	case 'x':
		return ed.cmdPut(last)
	case 'k':
		return ed.cmdMark(last, p)
	case 's':
		return ed.cmdSubstitute(first, last, p)
	case '=':
		ed.writeString(fmt.Sprintf("%d\n", last))
		return nil
	case 'w', 'W':
		return ed.cmdWrite(first, last, cmd, p)
	case 'r':
		return ed.cmdRead(last, p)
	case 'e', 'E':
		return ed.cmdEdit(cmd, p)
	case 'f':
		return ed.cmdFilename(p)
	case 'q', 'Q':
		return ed.cmdQuit(cmd)
	case 'h':
		return ed.cmdHelpLast()
	case 'H':
		ed.opts.verboseErrors = !ed.opts.verboseErrors
		return nil
	case 'P':
		return ed.cmdTogglePrompt()
	case 'z':
		return ed.cmdScroll(last, p)
	case '!':
		return ed.cmdShell(p.rest)
	case '#':
		return nil
	default:
		return errUnknownCommand
	}
}

// parseSuffix consumes a trailing l/n/p print-mode suffix, if present.
func parseSuffix(p *addrParser) (rune, error) {
	p.skipSpace()
	switch p.peek() {
	case 'l', 'n', 'p':
		c := rune(p.peek())
		p.rest = p.rest[1:]
		p.skipSpace()
		if p.rest != "" {
			return 0, errInvalidSuffix
		}
		return c, nil
	}
	if p.rest != "" {
		return 0, errInvalidSuffix
	}
	return 0, nil
}

func (ed *Editor) cmdPrint(first, last int, cmd byte, suffix rune) error {
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}
	h1, h2 := ed.buf.at(first), ed.buf.at(last)
	mode := rune(cmd)
	if suffix != 0 {
		mode = suffix
	}
	return ed.printLines(h1, h2, mode, mode == 'n')
}

// deleteRange unlinks [first,last] from the buffer, recording a DEL atom
// so undo can restore it verbatim, clears any marks/active-set entries
// that named a line in the range, and appends the removed text to the
// yank buffer (§3: the yank buffer is "filled by explicit yank, by
// delete, and by most range-destructive commands", and only an explicit y
// clears it first). The range's internal links survive unlink untouched,
// so walking it into the yank buffer afterward is still safe.
func (ed *Editor) deleteRange(first, last lineHandle) error {
	prevH, nextH, _ := ed.buf.unlink(first, last)
	ed.yank.appendRange(ed.buf, first, last)
	ed.undoJ.push(undoDel, first, last, prevH, nextH)
	ed.notifyRangeRemoved(first, last)
	ed.modified = true
	return nil
}

func (ed *Editor) cmdDelete(first, last int, suffix rune) error {
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}
	h1, h2 := ed.buf.at(first), ed.buf.at(last)
	addr := first
	ed.beginCommand()
	if err := ed.deleteRange(h1, h2); err != nil {
		return err
	}
	if addr > ed.buf.count {
		addr = ed.buf.count
	}
	ed.current = addr
	if suffix != 0 {
		if ed.buf.count == 0 {
			return nil
		}
		h := ed.buf.at(ed.current)
		return ed.printLines(h, h, suffix, suffix == 'n')
	}
	return nil
}

// readInputLines reads lines from the command stream until a lone "."
// line, per the classic ed insert-mode discipline, or until the input runs
// out, in which case it returns the lines read so far with io.EOF.
func (ed *Editor) readInputLines() ([][]byte, error) {
	var lines [][]byte
	for {
		line, terminated, err := ed.ReadLine(nil)
		if err != nil {
			return lines, err
		}
		if string(line) == "." {
			return lines, nil
		}
		if !terminated {
			if len(line) > 0 {
				lines = append(lines, append([]byte(nil), line...))
			}
			return lines, io.EOF
		}
		lines = append(lines, append([]byte(nil), line...))
	}
}

// insertLines appends each of lines to the scratch store and links them
// into the buffer after addr, pushing one ADD atom for the whole run.
func (ed *Editor) insertLines(addr int, lines [][]byte) error {
	if len(lines) == 0 {
		return nil
	}
	at := addr
	var firstH lineHandle
	for _, text := range lines {
		pos, length, err := ed.scratch.append(text)
		if err != nil {
			return err
		}
		h := ed.buf.insertAfter(at, pos, length)
		if firstH == 0 {
			firstH = h
			ed.undoJ.push(undoAdd, h, h, 0, 0)
		} else {
			ed.undoJ.extendTail(h)
		}
		at++
	}
	ed.current = at
	ed.modified = true
	return nil
}

func (ed *Editor) cmdAppend(addr int, suffix rune) error {
	_ = suffix
	lines, err := ed.readInputLines()
	if err != nil && err != io.EOF {
		return err
	}
	ed.beginCommand()
	return ed.insertLines(addr, lines)
}

func (ed *Editor) cmdInsert(addr int, suffix rune) error {
	_ = suffix
	lines, err := ed.readInputLines()
	if err != nil && err != io.EOF {
		return err
	}
	ed.beginCommand()
	return ed.insertLines(addr-1, lines)
}

func (ed *Editor) cmdChange(first, last int, suffix rune) error {
	_ = suffix
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}
	lines, err := ed.readInputLines()
	if err != nil && err != io.EOF {
		return err
	}
	h1, h2 := ed.buf.at(first), ed.buf.at(last)
	ed.beginCommand()
	if err := ed.deleteRange(h1, h2); err != nil {
		return err
	}
	return ed.insertLines(first-1, lines)
}

func (ed *Editor) cmdJoin(first, last int, suffix rune) error {
	if last <= first {
		if first < 1 || first > ed.buf.count {
			return errInvalidAddress
		}
		ed.current = first
		return nil
	}
	h1, h2 := ed.buf.at(first), ed.buf.at(last)

	var joined []byte
	ed.buf.lineRange(h1, h2, func(h lineHandle) {
		node := ed.arena.node(h)
		text, err := ed.scratch.read(node.pos, node.len)
		if err != nil {
			ed.halt(err)
		}
		joined = append(joined, text...)
	})

	ed.beginCommand()
	if err := ed.deleteRange(h1, h2); err != nil {
		return err
	}
	pos, length, err := ed.scratch.append(joined)
	if err != nil {
		return err
	}
	newH := ed.buf.insertAfter(first-1, pos, length)
	ed.undoJ.push(undoAdd, newH, newH, 0, 0)
	ed.current = first
	ed.modified = true

	if suffix != 0 {
		return ed.printLines(newH, newH, suffix, suffix == 'n')
	}
	return nil
}

// parseDestAddr parses a single trailing destination address for m/t, per
// §4.5.
func parseDestAddr(p *addrParser) (int, error) {
	p.skipSpace()
	if !addrStartsHere(p.peek()) {
		return p.ed.current, errBadDest
	}
	return p.parseOneAddr()
}

func (ed *Editor) cmdMove(first, last int, p *addrParser) error {
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}
	dest, err := parseDestAddr(p)
	if err != nil {
		return err
	}
	if dest >= first && dest < last {
		return errBadDest
	}

	h1, h2 := ed.buf.at(first), ed.buf.at(last)
	prevH, nextH, _ := ed.buf.unlink(h1, h2)

	destAddr := dest
	if dest >= last {
		// dest == last addresses the last line of the range being moved,
		// which no longer exists at that address once the range is
		// unlinked -- the same shift that applies for dest beyond the
		// range also recovers the right reinsertion point for the
		// dest == last no-op (§8: moving a range onto its own boundary).
		destAddr -= (last - first + 1)
	}
	destH := ed.buf.at(destAddr)
	destNext := ed.buf.nextOf(destH)
	ed.buf.linkBetween(destH, h1, h2, destNext)
	n := 1
	for h := h1; h != h2; h = ed.arena.node(h).next {
		n++
	}
	ed.buf.count += n
	ed.buf.resetCache()

	ed.beginCommand()
	ed.undoJ.push(undoMov, h1, h2, prevH, nextH)
	ed.current = destAddr + n
	ed.modified = true
	return nil
}

func (ed *Editor) cmdTransfer(first, last int, p *addrParser) error {
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}
	dest, err := parseDestAddr(p)
	if err != nil {
		return err
	}
	h1, h2 := ed.buf.at(first), ed.buf.at(last)

	ed.beginCommand()
	var firstCopy lineHandle
	at := dest
	ed.buf.lineRange(h1, h2, func(h lineHandle) {
		node := ed.arena.node(h)
		nh := ed.buf.insertAfter(at, node.pos, node.len)
		if firstCopy == 0 {
			firstCopy = nh
			ed.undoJ.push(undoAdd, nh, nh, 0, 0)
		} else {
			ed.undoJ.extendTail(nh)
		}
		at++
	})
	ed.current = at
	ed.modified = true
	return nil
}

func (ed *Editor) cmdYank(first, last int) error {
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}
	h1, h2 := ed.buf.at(first), ed.buf.at(last)
	ed.yank.replace(ed.buf, h1, h2)
	return nil
}

func (ed *Editor) cmdPut(addr int) error {
	ed.beginCommand()
	first, last, err := ed.yank.put(ed.buf, addr)
	if err != nil {
		return err
	}
	ed.undoJ.push(undoAdd, first, last, 0, 0)
	ed.current = ed.buf.addrOf(last)
	ed.modified = true
	return nil
}

func (ed *Editor) cmdMark(addr int, p *addrParser) error {
	if addr < 1 || addr > ed.buf.count {
		return errInvalidAddress
	}
	p.skipSpace()
	if p.rest == "" {
		return errInvalidAddress
	}
	letter := rune(p.rest[0])
	h := ed.buf.at(addr)
	if !ed.marks.set(letter, h) {
		return semanticErrorf("invalid mark character")
	}
	return nil
}

func (ed *Editor) cmdSubstitute(first, last int, p *addrParser) error {
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}

	spec, err := parseSubstSpec(p)
	if err != nil {
		return err
	}

	h1, h2 := ed.buf.at(first), ed.buf.at(last)
	ed.beginCommand()
	n, lastH, err := ed.substitute(h1, h2, spec)
	if err != nil {
		return err
	}
	_ = n
	if spec.print != 0 {
		return ed.printLines(lastH, lastH, spec.print, spec.print == 'n')
	}
	return nil
}

// parseSubstSpec parses the body of an s command after the leading 's':
// delimiter, pattern, replacement, and flags (g, p, l, n, or a trailing
// occurrence number), per §4.4.
func parseSubstSpec(p *addrParser) (substSpec, error) {
	var spec substSpec
	if p.rest == "" {
		return spec, errInvalidSuffix
	}
	delim := p.rest[0]
	if delim == ' ' || delim == '\\' || (delim >= '0' && delim <= '9') {
		return spec, parseErrorf("invalid pattern delimiter")
	}
	p.rest = p.rest[1:]

	pat, rest, err := splitDelimited(p.rest, delim)
	if err != nil {
		return spec, err
	}
	spec.pattern = pat
	p.rest = rest

	repl, rest2, err := splitDelimited(p.rest, delim)
	if err != nil {
		// no closing delimiter for replacement: rest of line is the
		// replacement, no flags follow.
		spec.replRaw = p.rest
		p.rest = ""
	} else {
		if repl == "%" {
			spec.reuseRepl = true
		} else {
			spec.replRaw = repl
		}
		p.rest = rest2
	}

	for p.rest != "" {
		c := p.rest[0]
		switch {
		case c == 'g':
			spec.global = true
			p.rest = p.rest[1:]
		case c == 'p' || c == 'l' || c == 'n':
			spec.print = rune(c)
			p.rest = p.rest[1:]
		case c >= '0' && c <= '9':
			n, _, nerr := p.parseNumber()
			if nerr != nil {
				return spec, nerr
			}
			spec.nth = n
		default:
			return spec, errInvalidSuffix
		}
	}
	return spec, nil
}

// splitDelimited consumes s up to (and past) the next unescaped occurrence
// of delim, returning the content before it.
func splitDelimited(s string, delim byte) (content, rest string, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] == delim {
			return s[:i], s[i+1:], nil
		}
	}
	return "", "", parseErrorf("unterminated pattern")
}

func (ed *Editor) cmdTogglePrompt() error {
	if ed.opts.prompt == "" {
		ed.opts.prompt = "*"
	} else {
		ed.opts.prompt = ""
	}
	return nil
}

func (ed *Editor) cmdHelpLast() error {
	if ed.lastErr.mess != "" {
		ed.writeString(ed.lastErr.mess + "\n")
	}
	return nil
}

func (ed *Editor) cmdScroll(addr int, p *addrParser) error {
	n := ed.winLines - 1
	if n < 1 {
		n = 22
	}
	p.skipSpace()
	if p.peek() >= '0' && p.peek() <= '9' {
		if v, _, err := p.parseNumber(); err == nil {
			n = v
		}
	}
	start := addr + 1
	if start > ed.buf.count {
		return errInvalidAddress
	}
	end := start + n - 1
	if end > ed.buf.count {
		end = ed.buf.count
	}
	h1, h2 := ed.buf.at(start), ed.buf.at(end)
	return ed.printLines(h1, h2, 0, false)
}

func (ed *Editor) cmdQuit(cmd byte) error {
	if cmd == 'q' && ed.modified && !ed.suppressed {
		ed.suppressed = true
		return errModified
	}
	return errQuitRequested
}

func (ed *Editor) cmdFilename(p *addrParser) error {
	p.skipSpace()
	if p.rest == "" {
		if ed.filename == "" {
			return errNoFileName
		}
		ed.writeString(ed.filename + "\n")
		return nil
	}
	return ed.setFilename(p.rest)
}

func (ed *Editor) setFilename(name string) error {
	if ed.opts.restricted && (strings.HasPrefix(name, "!") || strings.Contains(name, "/")) {
		return semanticErrorf("shell access restricted")
	}
	ed.filename = name
	return nil
}

// globalCommand implements g/v/G/V (§4.6): build the active set by
// matching (g/G) or not matching (v/V) pattern against [first,last], then
// either execute the accumulated command list against it non-interactively
// (g/v) or prompt per line and accept a command list interactively (G/V).
func (ed *Editor) globalCommand(p *addrParser, first, last int, cmd byte) error {
	if ed.active != nil {
		return semanticErrorf("cannot nest global commands")
	}
	if ed.buf.count == 0 || first < 1 {
		return errInvalidAddress
	}

	if p.rest == "" {
		return errInvalidSuffix
	}
	delim := p.rest[0]
	p.rest = p.rest[1:]
	pat, rest, err := splitDelimitedOrEOL(p.rest, delim)
	if err != nil {
		return err
	}
	p.rest = rest

	var re = ed.res.lastPattern
	if pat != "" {
		re, err = ed.res.setPattern(pat, ed.opts.extendedRegex)
		if err != nil {
			return err
		}
	} else if re == nil {
		return errNoPreviousPat
	}

	negate := cmd == 'v' || cmd == 'V'
	interactive := cmd == 'G' || cmd == 'V'

	as := newActiveSet()
	h1, h2 := ed.buf.at(first), ed.buf.at(last)
	ed.buf.lineRange(h1, h2, func(h lineHandle) {
		node := ed.arena.node(h)
		text, rerr := ed.scratch.read(node.pos, node.len)
		if rerr != nil {
			ed.halt(rerr)
		}
		if re.Match(text) != negate {
			as.add(h)
		}
	})

	// the whole global construct is one undoable unit (§4.3): open its
	// snapshot here, before any per-line command in its list runs.
	ed.undoJ.beginCommand(ed)

	ed.active = as
	defer func() { ed.active = nil }()

	if interactive {
		return ed.globalInteractive(as)
	}
	return ed.globalScripted(as, p.rest)
}

// globalScripted runs cmdList (or, if empty, "p") against every surviving
// entry of as in turn, re-deriving each entry's current address since
// intervening commands can shift the buffer.
func (ed *Editor) globalScripted(as *activeSet, cmdList string) error {
	if strings.TrimSpace(cmdList) == "" {
		cmdList = "p"
	}
	for {
		h, ok := as.advance()
		if !ok {
			return nil
		}
		addr := ed.buf.addrOf(h)
		if addr < 0 {
			continue
		}
		ed.current = addr
		for _, line := range strings.Split(cmdList, "\n") {
			if err := ed.dispatchLine(line); err != nil {
				return err
			}
		}
	}
}

// globalInteractive implements G/V: for each surviving entry, print it and
// read one command line from the user to run against it; a bare blank line
// leaves that line alone, and '&' repeats the last command line given.
func (ed *Editor) globalInteractive(as *activeSet) error {
	var lastLine string
	for {
		h, ok := as.advance()
		if !ok {
			return nil
		}
		addr := ed.buf.addrOf(h)
		if addr < 0 {
			continue
		}
		ed.current = addr
		if err := ed.printLines(h, h, 0, false); err != nil {
			return err
		}

		line, _, err := ed.ReadLine(nil)
		if err != nil {
			return err
		}
		text := string(line)
		switch text {
		case "":
			continue
		case "&":
			text = lastLine
		}
		lastLine = text
		if err := ed.dispatchLine(text); err != nil {
			return err
		}
	}
}

func splitDelimitedOrEOL(s string, delim byte) (content, rest string, err error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] == delim {
			return s[:i], s[i+1:], nil
		}
	}
	return s, "", nil
}
