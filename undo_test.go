package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestEditor() *Editor {
	arena := newLineArena()
	ed := &Editor{arena: arena}
	ed.buf = newLineList(arena)
	ed.yank = newYankBuffer(arena)
	ed.undoJ = newUndoJournal(arena)
	return ed
}

func Test_undo_nothingToUndo(t *testing.T) {
	ed := newTestEditor()
	require.Equal(t, errNothingToUndo, ed.undo())
}

func Test_undo_toggles_add_into_delete_and_back(t *testing.T) {
	ed := newTestEditor()

	ed.undoJ.beginCommand(ed)
	h := ed.buf.insertAfter(0, 0, 1)
	ed.undoJ.push(undoAdd, h, h, 0, 0)
	ed.current = 1
	ed.modified = true

	require.NoError(t, ed.undo())
	require.Equal(t, 0, ed.buf.count, "add must be undone")
	require.Equal(t, 0, ed.current)
	require.False(t, ed.modified)

	// a second call redoes, since undo toggled the stack in place.
	require.NoError(t, ed.undo())
	require.Equal(t, 1, ed.buf.count)
	require.Equal(t, 1, ed.current)
	require.True(t, ed.modified)
}

func Test_undo_restores_deleted_range_in_place(t *testing.T) {
	ed := newTestEditor()
	h1 := ed.buf.insertAfter(0, 0, 1)
	h2 := ed.buf.insertAfter(1, 1, 1)
	h3 := ed.buf.insertAfter(2, 2, 1)

	ed.undoJ.beginCommand(ed)
	prevH, nextH, _ := ed.buf.unlink(h2, h2)
	ed.undoJ.push(undoDel, h2, h2, prevH, nextH)
	ed.current = 1
	ed.modified = true

	require.Equal(t, 2, ed.buf.count)
	require.NoError(t, ed.undo())
	require.Equal(t, 3, ed.buf.count)
	require.Equal(t, h1, ed.buf.at(1))
	require.Equal(t, h2, ed.buf.at(2))
	require.Equal(t, h3, ed.buf.at(3))
}
