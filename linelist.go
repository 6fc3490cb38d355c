package main

// lineHandle names a line descriptor by a stable integer index into a
// lineArena. Handle 0 is reserved: it never names a real line, and doubles
// as the "sentinel" neighbor of a list's first and last real nodes (so
// address 0, "before the first line", falls out of the same representation
// used for "the node before/after the ends of the list").
//
// This is the arena-of-handles re-architecture called for in spec §9: the
// line list, the yank buffer, and the undo journal all hold lineHandle
// values rather than raw pointers, so that a node detached from the main
// list (held live only by an undo DEL atom) can't dangle.
type lineHandle uint32

// lineNode is a line descriptor: a (pos, len) pair into the scratch store,
// plus the forward/backward links for whichever list currently holds it. A
// node's text is never cached here; it is fetched from the scratch store on
// demand.
type lineNode struct {
	pos, len int64
	prev, next lineHandle
}

// lineArena owns every line descriptor ever allocated during an editing
// session, by stable handle. Nodes are freed (and their storage slot
// reused) only when the undo journal drops the last reference to them, via
// release.
type lineArena struct {
	nodes []lineNode // nodes[0] is an unused placeholder so handle 0 stays invalid
	free  []lineHandle
}

func newLineArena() *lineArena {
	return &lineArena{nodes: make([]lineNode, 1)}
}

func (a *lineArena) alloc(pos, length int64) lineHandle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.nodes[h] = lineNode{pos: pos, len: length}
		return h
	}
	a.nodes = append(a.nodes, lineNode{pos: pos, len: length})
	return lineHandle(len(a.nodes) - 1)
}

// release returns a handle to the free list. Callers must ensure nothing
// (mark, active set entry, list, or journal atom) still names it.
func (a *lineArena) release(h lineHandle) {
	if h == 0 {
		return
	}
	a.nodes[h] = lineNode{}
	a.free = append(a.free, h)
}

func (a *lineArena) node(h lineHandle) *lineNode {
	if h == 0 {
		panic(haltError{fatalErrorf("invariant violation: sentinel handle dereferenced")})
	}
	return &a.nodes[h]
}

// lineList is a circular doubly-linked sequence sharing a lineArena. Two
// instances exist per editor: the main buffer and the yank buffer (§3). The
// sequence is represented purely via the arena's prev/next links plus the
// list's own first/last handles; there is no separate sentinel node
// allocated in the arena since handle 0 already serves that role for every
// list.
type lineList struct {
	arena      *lineArena
	first, last lineHandle // 0 if empty
	count      int         // last_addr: count of real lines

	cacheAddr int
	cacheH    lineHandle // valid even when cacheAddr == 0 (sentinel)
}

func newLineList(arena *lineArena) *lineList {
	return &lineList{arena: arena}
}

func (l *lineList) empty() bool { return l.count == 0 }

// resetCache invalidates the positional cache back to (sentinel, 0).
func (l *lineList) resetCache() {
	l.cacheAddr = 0
	l.cacheH = 0
}

// at returns the handle of the line at 1-based address addr, or 0 if addr
// is 0 (the sentinel / before-first-line position). addr must be in
// [0, count]; callers validate range before calling.
func (l *lineList) at(addr int) lineHandle {
	if addr == 0 {
		return 0
	}

	// choose the cheapest of four origins: head-forward, tail-backward,
	// cache-forward, cache-backward (§4.2).
	type origin struct {
		h    lineHandle
		addr int
		fwd  bool
	}
	origins := [4]origin{
		{0, 0, true},                 // head forward
		{0, l.count + 1, false},      // tail backward (0 handle = sentinel-after-last too)
		{l.cacheH, l.cacheAddr, true}, // cache forward
		{l.cacheH, l.cacheAddr, false},
	}

	best := 0
	bestSteps := -1
	for i, o := range origins {
		var steps int
		if o.fwd {
			steps = addr - o.addr
		} else {
			steps = o.addr - addr
		}
		if steps < 0 {
			continue
		}
		if bestSteps < 0 || steps < bestSteps {
			bestSteps, best = steps, i
		}
	}

	o := origins[best]
	h := o.h
	if o.addr == l.count+1 {
		h = 0
	}
	cur := o.addr
	for cur != addr {
		if o.fwd {
			if h == 0 {
				h = l.first
			} else {
				h = l.arena.node(h).next
			}
			cur++
		} else {
			if h == 0 {
				h = l.last
			} else {
				h = l.arena.node(h).prev
			}
			cur--
		}
	}

	l.cacheAddr, l.cacheH = addr, h
	return h
}

// addrOf linearly scans the list for node, returning its 1-based address or
// -1 if node is not currently a member (used to validate marks, per §4.2).
func (l *lineList) addrOf(node lineHandle) int {
	addr := 1
	for h := l.first; h != 0; h = l.arena.node(h).next {
		if h == node {
			return addr
		}
		addr++
	}
	return -1
}

// insertAfter inserts a freshly allocated single-node run after addr (addr
// may be 0, meaning "before the first line"). Returns the new node's handle
// and updates the position cache to reference it.
func (l *lineList) insertAfter(addr int, pos, lineLen int64) lineHandle {
	h := l.arena.alloc(pos, lineLen)
	prevH := l.at(addr)
	nextH := l.nextOf(prevH)
	l.linkBetween(prevH, h, h, nextH)
	l.count++
	l.cacheAddr, l.cacheH = addr+1, h
	return h
}

func (l *lineList) nextOf(h lineHandle) lineHandle {
	if h == 0 {
		return l.first
	}
	return l.arena.node(h).next
}

func (l *lineList) prevOf(h lineHandle) lineHandle {
	if h == 0 {
		return l.last
	}
	return l.arena.node(h).prev
}

// linkBetween bridges prevH -> first..last -> nextH, setting first.prev and
// last.next, and fixing up the list's first/last pointers as needed. It
// does not touch the internal links within first..last.
func (l *lineList) linkBetween(prevH, first, last, nextH lineHandle) {
	if prevH == 0 {
		l.first = first
	} else {
		l.arena.node(prevH).next = first
	}
	l.arena.node(first).prev = prevH

	if nextH == 0 {
		l.last = last
	} else {
		l.arena.node(nextH).prev = last
	}
	l.arena.node(last).next = nextH
}

// unlink splices the range [first..last] out of the list, bridging over the
// boundary. The internal prev/next links within the range are left intact
// (so the range remains a coherent sub-chain, walkable head-to-tail), which
// is what lets the undo journal hold onto it as a DEL atom and restore it
// verbatim later. Returns the boundary handles that used to surround the
// range, and the count of lines removed.
func (l *lineList) unlink(first, last lineHandle) (prevH, nextH lineHandle, n int) {
	prevH = l.arena.node(first).prev
	nextH = l.arena.node(last).next

	if prevH == 0 {
		l.first = nextH
	} else {
		l.arena.node(prevH).next = nextH
	}
	if nextH == 0 {
		l.last = prevH
	} else {
		l.arena.node(nextH).prev = prevH
	}

	n = 1
	for h := first; h != last; h = l.arena.node(h).next {
		n++
	}
	l.count -= n
	l.resetCache()
	return prevH, nextH, n
}

// spliceBefore re-links a previously unlinked (still-coherent) range
// [first..last] back into the list between prevH and nextH -- the inverse
// of unlink, used by the undo journal.
func (l *lineList) spliceBefore(prevH, first, last, nextH lineHandle) int {
	l.linkBetween(prevH, first, last, nextH)
	n := 1
	for h := first; h != last; h = l.arena.node(h).next {
		n++
	}
	l.count += n
	l.resetCache()
	return n
}

// lineRange walks handles from first to last inclusive, calling f for each.
func (l *lineList) lineRange(first, last lineHandle, f func(lineHandle)) {
	for h := first; ; h = l.arena.node(h).next {
		f(h)
		if h == last {
			break
		}
	}
}
