package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildList(t *testing.T, n int) (*lineArena, *lineList, []lineHandle) {
	t.Helper()
	arena := newLineArena()
	list := newLineList(arena)
	handles := make([]lineHandle, 0, n)
	for i := 0; i < n; i++ {
		h := list.insertAfter(list.count, int64(i), 1)
		handles = append(handles, h)
	}
	return arena, list, handles
}

func Test_lineList_at(t *testing.T) {
	_, list, handles := buildList(t, 5)
	for addr := 1; addr <= 5; addr++ {
		require.Equal(t, handles[addr-1], list.at(addr), "addr %d", addr)
	}
	require.Equal(t, lineHandle(0), list.at(0), "address 0 is the sentinel")
}

func Test_lineList_addrOf(t *testing.T) {
	_, list, handles := buildList(t, 3)
	require.Equal(t, 2, list.addrOf(handles[1]))
	require.Equal(t, -1, list.addrOf(lineHandle(999)))
}

func Test_lineList_unlink_preserves_internal_links(t *testing.T) {
	arena, list, handles := buildList(t, 5)

	prevH, nextH, n := list.unlink(handles[1], handles[3])
	require.Equal(t, 3, n)
	require.Equal(t, handles[0], prevH)
	require.Equal(t, handles[4], nextH)
	require.Equal(t, 2, list.count)

	// the detached range must still be walkable head to tail.
	var walked []lineHandle
	list2 := &lineList{arena: arena}
	list2.lineRange(handles[1], handles[3], func(h lineHandle) { walked = append(walked, h) })
	require.Equal(t, handles[1:4], walked)

	// and the remaining list must skip straight over the gap.
	require.Equal(t, handles[0], list.at(1))
	require.Equal(t, handles[4], list.at(2))
}

func Test_lineList_spliceBefore_restores_range(t *testing.T) {
	_, list, handles := buildList(t, 5)

	prevH, nextH, _ := list.unlink(handles[1], handles[3])
	n := list.spliceBefore(prevH, handles[1], handles[3], nextH)
	require.Equal(t, 3, n)
	require.Equal(t, 5, list.count)
	for addr, want := range handles {
		require.Equal(t, want, list.at(addr+1), "addr %d after restore", addr+1)
	}
}
