package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newAddrTestEditor(t *testing.T, lines []string) *Editor {
	t.Helper()
	ed := newTestEditor()
	scratch, err := newScratchStore()
	require.NoError(t, err)
	t.Cleanup(func() { scratch.close() })
	ed.scratch = scratch

	for i, s := range lines {
		pos, length, err := scratch.append([]byte(s))
		require.NoError(t, err)
		ed.buf.insertAfter(i, pos, length)
	}
	ed.current = ed.buf.count
	return ed
}

func Test_addrParser_dotAndDollar(t *testing.T) {
	ed := newAddrTestEditor(t, []string{"a", "b", "c"})
	ed.current = 2

	p := newAddrParser(ed, ".")
	first, last, _, err := p.parseRange()
	require.NoError(t, err)
	require.Equal(t, 2, first)
	require.Equal(t, 2, last)

	p = newAddrParser(ed, "$")
	first, last, _, err = p.parseRange()
	require.NoError(t, err)
	require.Equal(t, 3, first)
	require.Equal(t, 3, last)
}

func Test_addrParser_rangeAndOffsets(t *testing.T) {
	ed := newAddrTestEditor(t, []string{"a", "b", "c", "d", "e"})

	p := newAddrParser(ed, "1,3")
	first, last, _, err := p.parseRange()
	require.NoError(t, err)
	require.Equal(t, 1, first)
	require.Equal(t, 3, last)

	p = newAddrParser(ed, "2+2")
	first, last, _, err = p.parseRange()
	require.NoError(t, err)
	require.Equal(t, 4, first)
	require.Equal(t, 4, last)

	p = newAddrParser(ed, "%")
	first, last, _, err = p.parseRange()
	require.NoError(t, err)
	require.Equal(t, 1, first)
	require.Equal(t, 5, last)
}

func Test_addrParser_invalidAddress(t *testing.T) {
	ed := newAddrTestEditor(t, []string{"a"})
	p := newAddrParser(ed, "5")
	_, _, _, err := p.parseRange()
	require.Equal(t, errInvalidAddress, err)
}

func Test_addrParser_search(t *testing.T) {
	ed := newAddrTestEditor(t, []string{"foo", "bar", "baz"})
	ed.current = 1

	p := newAddrParser(ed, "/baz/")
	first, last, _, err := p.parseRange()
	require.NoError(t, err)
	require.Equal(t, 3, first)
	require.Equal(t, 3, last)
}

func Test_addrParser_mark(t *testing.T) {
	ed := newAddrTestEditor(t, []string{"a", "b", "c"})
	ed.marks.set('x', ed.buf.at(2))

	p := newAddrParser(ed, "'x")
	first, last, _, err := p.parseRange()
	require.NoError(t, err)
	require.Equal(t, 2, first)
	require.Equal(t, 2, last)
}
