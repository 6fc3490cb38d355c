package main

// yankBuffer holds the most recent cut/copy (§3: explicit y replaces its
// contents wholesale; d and the other range-destructive commands append
// the text they remove; x puts its contents after an address). It is a
// second lineList sharing the main buffer's lineArena: yanked lines get
// brand-new arena
// handles that alias the same (pos, len) into the scratch store as their
// source, since the scratch store is append-only and never overwrites
// existing bytes, so aliasing the underlying text is always safe. A fresh
// handle is required rather than reusing the source's, because a node's
// prev/next fields belong to exactly one list's chain at a time.
type yankBuffer struct {
	list *lineList
}

func newYankBuffer(arena *lineArena) *yankBuffer {
	return &yankBuffer{list: newLineList(arena)}
}

func (y *yankBuffer) empty() bool { return y.list.empty() }

// replace discards the current contents and yanks buf's [first,last] range
// as fresh aliasing copies, used by y.
func (y *yankBuffer) replace(buf *lineList, first, last lineHandle) {
	y.list = newLineList(buf.arena)
	y.appendRange(buf, first, last)
}

// appendRange adds aliasing copies of buf's [first,last] range to the end
// of the yank buffer, used by delete and the other range-destructive
// commands that accumulate into the cut buffer rather than replacing it.
func (y *yankBuffer) appendRange(buf *lineList, first, last lineHandle) {
	buf.lineRange(first, last, func(h lineHandle) {
		node := buf.arena.node(h)
		y.list.insertAfter(y.list.count, node.pos, node.len)
	})
}

// put copies the yank buffer's contents into dst, inserting after addr, and
// returns the handles of the first and last inserted lines (0, 0 if the
// yank buffer is empty). Each put produces yet another fresh round of
// aliasing handles, so repeated puts of the same yank never share nodes.
func (y *yankBuffer) put(dst *lineList, addr int) (first, last lineHandle, err error) {
	if y.empty() {
		return 0, 0, errNothingToYank
	}

	at := addr
	y.list.lineRange(y.list.first, y.list.last, func(h lineHandle) {
		node := y.list.arena.node(h)
		nh := dst.insertAfter(at, node.pos, node.len)
		if first == 0 {
			first = nh
		}
		last = nh
		at++
	})
	return first, last, nil
}
