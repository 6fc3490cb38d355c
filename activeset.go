package main

// activeSet is the per-global-command selection of line handles built by
// buildActiveList and consumed by the command list inside a g/v/G/V
// iteration (§3, §4.6). Entries are nulled (set to 0) rather than removed
// when their line is deleted or moved out from under the iteration, so
// indices stay stable while the iteration is in progress.
type activeSet struct {
	entries []lineHandle
	next    int // index of the next entry to consider
}

func newActiveSet() *activeSet { return &activeSet{} }

func (as *activeSet) add(h lineHandle) {
	as.entries = append(as.entries, h)
}

// advance returns the next non-null entry and true, advancing past it, or
// (0, false) once the set is exhausted.
func (as *activeSet) advance() (lineHandle, bool) {
	for as.next < len(as.entries) {
		h := as.entries[as.next]
		as.next++
		if h != 0 {
			return h, true
		}
	}
	return 0, false
}

// pruneRange nulls out any entry whose handle is in removed, scanning
// cyclically starting at the current iteration position (§3: "the active
// set must scan itself (cyclically from its last scan position)"). The scan
// always visits every entry once, so each call costs a full pass.
func (as *activeSet) pruneRange(removed map[lineHandle]bool) {
	if len(as.entries) == 0 || len(removed) == 0 {
		return
	}
	n := len(as.entries)
	start := as.next
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if h := as.entries[idx]; h != 0 && removed[h] {
			as.entries[idx] = 0
		}
	}
}

// handleRange collects every handle in [first,last] (inclusive, walked via
// the arena's still-intact internal links right after an unlink) into a
// set, for use with pruneRange and mark clearing.
func handleRange(arena *lineArena, first, last lineHandle) map[lineHandle]bool {
	set := make(map[lineHandle]bool)
	for h := first; ; h = arena.node(h).next {
		set[h] = true
		if h == last {
			break
		}
	}
	return set
}
