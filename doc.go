/* Package main: goed -- a line-oriented text editor

goed edits text one line at a time, the way ed has since before screens
could move a cursor. There is no visual representation of the buffer: every
command either names a range of lines (an "address") or inspects/changes
the editor's own state, and the only output is what a command chooses to
print.

Section 1: the buffer

The live document lives in a lineList (linelist.go): a circular doubly
linked list of lineHandle values, each indexing a node in a shared
lineArena. A handle's node records where its bytes live in the scratch
file (scratch.go), an append-only temp file fronted by a paged byte cache,
rather than holding the text itself. This is the same split the teacher
keeps between "the editor's notion of structure" and "the editor's notion
of storage" -- here the former is the line list, and the latter is the
scratch store.

Handle 0 is reserved: it never names a real line, and serves as both the
list's own sentinel node and the conventional "address 0", meaning
"before the first line". Deleting a range only rebridges the boundary
immediately around it, leaving the detached range's own internal links
untouched, so the same handles remain walkable afterward -- which is what
lets undo (undo.go) splice a deleted range back in exactly where it came
from, and what lets a delete command hand the same range to the yank
buffer (yank.go) before it is forgotten.

Section 2: addresses and commands

addrParser (address.go) resolves the leading address expression on a
command line -- digits, ., $, 'x marks, /re/ and ?re? searches, and +/-
offsets chained together -- to concrete line numbers, without ever
building an address AST. dispatch.go then reads the trailing command
letter and its own argument syntax: some commands (p, n, l, a, i, c, d,
j, u) take only a generic l/n/p print suffix; others (m, t, y, x, k, s,
w, W, r, e, E, f, q, Q, z, !) parse arguments of their own straight out of
the address parser's remaining input.

Section 3: undo and the yank buffer

Every top-level command that mutates the buffer pushes one or more
self-toggling atoms onto a single undo journal (undo.go): an add atom
reverses into a delete atom and vice versa, and a move atom reverses into
a "reverse move" atom that records where the lines came from. Calling u
replays the journal in reverse, producing a fresh journal of the opposite
atoms -- so a second u undoes the undo.

The yank buffer (yank.go) is a second lineList sharing the main buffer's
arena. An explicit y discards its previous contents and copies in; d and
the rest of the range-destructive commands append to whatever is already
there instead of replacing it; x puts the yank buffer's contents into the
main buffer after an address.

Section 4: substitution and global commands

subst.go implements s///, built on the standard library's RE2 engine
(regexcache.go adapts BRE-style escaping onto it, since goed's pattern
syntax follows POSIX conventions rather than RE2's own). g, v, G, and V
(dispatch.go's globalCommand) build an active set of matching lines, then
either apply a fixed command list to each (scripted) or prompt for one
command per line interactively.

Section 5: the command loop

main.go parses flags, constructs an Editor (core.go) via functional
options (options.go) the same way the teacher builds a VM, and calls
Run. Run brackets each dispatched line in a criticalSection (signal.go)
so that a SIGHUP or SIGINT arriving mid-command is deferred until the
command finishes rather than acting on half-updated buffer state; SIGHUP
itself triggers a recovery dump of the whole buffer (recovery.go) before
the process exits.
*/
package main
