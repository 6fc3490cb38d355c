package fileinput_test

import (
	"strings"
	"testing"

	"github.com/jcorbin/goed/internal/fileinput"
	"github.com/stretchr/testify/require"
)

func TestInput_ReadLine(t *testing.T) {
	var in fileinput.Input
	in.Queue = append(in.Queue, strings.NewReader("hello\nworld\\\ncontinued\nlast"))

	var binary bool

	line, terminated, err := in.ReadLine(&binary)
	require.NoError(t, err)
	require.True(t, terminated)
	require.Equal(t, "hello", string(line))

	line, terminated, err = in.ReadLine(&binary)
	require.NoError(t, err)
	require.True(t, terminated)
	require.Equal(t, "worldcontinued", string(line))

	line, terminated, err = in.ReadLine(&binary)
	require.NoError(t, err)
	require.False(t, terminated, "final line has no trailing newline")
	require.Equal(t, "last", string(line))

	require.False(t, binary)
}

func TestInput_ReadLine_binary(t *testing.T) {
	var in fileinput.Input
	in.Queue = append(in.Queue, strings.NewReader("a\x00b\n"))

	var binary bool
	line, terminated, err := in.ReadLine(&binary)
	require.NoError(t, err)
	require.True(t, terminated)
	require.Equal(t, "a\x00b", string(line))
	require.True(t, binary)
}
