package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, script string) string {
	t.Helper()
	var out bytes.Buffer
	ed, err := NewEditor(
		WithInput(strings.NewReader(script), "test"),
		WithOutput(&out),
	)
	require.NoError(t, err)
	t.Cleanup(func() { ed.Close() })
	require.NoError(t, ed.Run())
	return out.String()
}

func Test_append_print_undo(t *testing.T) {
	out := runScript(t, "a\nhello\nworld\n.\n,p\nu\n,p\n")
	// undo empties the buffer again, so the second ,p reports "?" rather
	// than printing anything.
	require.Equal(t, "hello\nworld\n?\n", out)
}

func Test_global_delete(t *testing.T) {
	out := runScript(t, "a\na\nb\nc\nb\n.\ng/^b$/d\n,p\n")
	require.Equal(t, "a\nc\n", out)
}

func Test_move_range(t *testing.T) {
	out := runScript(t, "a\na\nb\nc\nd\ne\n.\n1,2m4\n,p\n")
	require.Equal(t, "c\nd\na\nb\ne\n", out)
}

func Test_mark_and_delete(t *testing.T) {
	out := runScript(t, "a\nx\ny\nz\nw\n.\n2ka\n4d\n'a=\n")
	require.Equal(t, "2\n", out)
}

func Test_substitute_with_undo(t *testing.T) {
	out := runScript(t, "a\nfoo\nbar\n.\ng/./s/^./X/\n,p\nu\n,p\n")
	require.Equal(t, "Xoo\nXar\nfoo\nbar\n", out)
}

func Test_yank_and_put(t *testing.T) {
	out := runScript(t, "a\none\ntwo\nthree\n.\n1y\n3x\n,p\n")
	require.Equal(t, "one\ntwo\nthree\none\n", out)
}

func Test_quit_requires_confirmation_when_modified(t *testing.T) {
	var out bytes.Buffer
	ed, err := NewEditor(
		WithInput(strings.NewReader("a\nhi\n.\nq\nq\n"), "test"),
		WithOutput(&out),
		WithVerboseErrors(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { ed.Close() })
	require.NoError(t, ed.Run())
	require.Contains(t, out.String(), "warning: file modified")
}
