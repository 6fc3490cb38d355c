package main

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_parseReplacement_expand(t *testing.T) {
	parts := parseReplacement(`[&]-\1-\n-\\`)
	out := expandReplacement(nil, parts, []byte("abc"), []int{0, 3, 1, 2})
	require.Equal(t, "[abc]-b-\n-\\", string(out))
}

func Test_substLine_nth_and_global(t *testing.T) {
	re := mustCompile(t, "a")
	repl := parseReplacement("X")

	out, n, err := substLine([]byte("a-a-a"), re, repl, 2, false)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "a-X-a", string(out))

	out, n, err = substLine([]byte("a-a-a"), re, repl, 2, true)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "a-X-X", string(out))
}

func Test_substLine_zeroWidth_infiniteLoop(t *testing.T) {
	re := mustCompile(t, "x*")
	repl := parseReplacement("-")
	_, _, err := substLine([]byte("abc"), re, repl, 1, true)
	// every position matches the empty string; the first replacement
	// consumes nothing and must not recur at the same position forever.
	require.NoError(t, err)
}

func Test_substitute_wholeBuffer(t *testing.T) {
	ed := newAddrTestEditor(t, []string{"foo", "bar", "foo"})
	ed.undoJ.beginCommand(ed)

	h1 := ed.buf.at(1)
	h3 := ed.buf.at(3)
	changed, _, err := ed.substitute(h1, h3, substSpec{pattern: "foo", replRaw: "baz"})
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	text, err := ed.scratch.read(ed.buf.arena.node(ed.buf.at(1)).pos, ed.buf.arena.node(ed.buf.at(1)).len)
	require.NoError(t, err)
	require.Equal(t, "baz", string(text))

	text, err = ed.scratch.read(ed.buf.arena.node(ed.buf.at(2)).pos, ed.buf.arena.node(ed.buf.at(2)).len)
	require.NoError(t, err)
	require.Equal(t, "bar", string(text))
}

func Test_substitute_noMatch(t *testing.T) {
	ed := newAddrTestEditor(t, []string{"foo"})
	ed.undoJ.beginCommand(ed)
	h := ed.buf.at(1)
	_, _, err := ed.substitute(h, h, substSpec{pattern: "zzz", replRaw: "x"})
	require.Equal(t, semanticErrorf("no match"), err)
}

func mustCompile(t *testing.T, pat string) *regexp.Regexp {
	t.Helper()
	var rc regexCache
	re, err := rc.setPattern(pat, true)
	require.NoError(t, err)
	return re
}
