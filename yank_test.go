package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildYankTestBuffer(t *testing.T, lines []string) (*lineList, *scratchStore) {
	t.Helper()
	scratch, err := newScratchStore()
	require.NoError(t, err)
	t.Cleanup(func() { scratch.close() })

	arena := newLineArena()
	buf := newLineList(arena)
	for i, s := range lines {
		pos, length, err := scratch.append([]byte(s))
		require.NoError(t, err)
		buf.insertAfter(i, pos, length)
	}
	return buf, scratch
}

func readLine(t *testing.T, buf *lineList, scratch *scratchStore, addr int) string {
	t.Helper()
	h := buf.at(addr)
	node := buf.arena.node(h)
	text, err := scratch.read(node.pos, node.len)
	require.NoError(t, err)
	return string(text)
}

func Test_yankBuffer_replace_discardsPriorContents(t *testing.T) {
	buf, scratch := buildYankTestBuffer(t, []string{"one", "two", "three"})
	y := newYankBuffer(buf.arena)

	y.replace(buf, buf.at(1), buf.at(1))
	require.False(t, y.empty())
	require.Equal(t, 1, y.list.count)

	y.replace(buf, buf.at(2), buf.at(3))
	require.Equal(t, 2, y.list.count)
	require.Equal(t, "two", string(mustRead(t, y.list, scratch, 1)))
	require.Equal(t, "three", string(mustRead(t, y.list, scratch, 2)))
}

func Test_yankBuffer_appendRange_accumulates(t *testing.T) {
	buf, scratch := buildYankTestBuffer(t, []string{"a", "b", "c", "d"})
	y := newYankBuffer(buf.arena)

	y.appendRange(buf, buf.at(1), buf.at(1))
	y.appendRange(buf, buf.at(3), buf.at(4))
	require.Equal(t, 3, y.list.count)
	require.Equal(t, "a", string(mustRead(t, y.list, scratch, 1)))
	require.Equal(t, "c", string(mustRead(t, y.list, scratch, 2)))
	require.Equal(t, "d", string(mustRead(t, y.list, scratch, 3)))
}

func Test_yankBuffer_put_emptyYieldsError(t *testing.T) {
	buf, _ := buildYankTestBuffer(t, []string{"a"})
	y := newYankBuffer(buf.arena)

	_, _, err := y.put(buf, 1)
	require.Equal(t, errNothingToYank, err)
}

func Test_yankBuffer_put_insertsAfterAddr(t *testing.T) {
	buf, scratch := buildYankTestBuffer(t, []string{"one", "two", "three"})
	y := newYankBuffer(buf.arena)
	y.replace(buf, buf.at(1), buf.at(1))

	first, last, err := y.put(buf, 3)
	require.NoError(t, err)
	require.Equal(t, first, last)
	require.Equal(t, 4, buf.count)
	require.Equal(t, "one", readLine(t, buf, scratch, 4))
}

func Test_yankBuffer_put_repeatedUseFreshHandles(t *testing.T) {
	buf, _ := buildYankTestBuffer(t, []string{"one"})
	y := newYankBuffer(buf.arena)
	y.replace(buf, buf.at(1), buf.at(1))

	firstA, _, err := y.put(buf, 1)
	require.NoError(t, err)
	firstB, _, err := y.put(buf, 2)
	require.NoError(t, err)
	require.NotEqual(t, firstA, firstB)
	require.Equal(t, 3, buf.count)
}

func mustRead(t *testing.T, list *lineList, scratch *scratchStore, addr int) []byte {
	t.Helper()
	h := list.at(addr)
	node := list.arena.node(h)
	text, err := scratch.read(node.pos, node.len)
	require.NoError(t, err)
	return text
}
