package pagecache_test

import (
	"testing"

	"github.com/jcorbin/goed/internal/pagecache"
	"github.com/stretchr/testify/require"
)

func Test_Bytes(t *testing.T) {
	var m pagecache.Bytes
	m.PageSize = 4

	ok, err := m.Load(0, make([]byte, 1))
	require.NoError(t, err, "unexpected load error")
	require.False(t, ok, "expected miss on empty cache")
	require.Equal(t, uint(0), m.Size(), "expected 0 initial size")

	require.NoError(t, m.Store(0, []byte("9")), "must store @0")
	buf := make([]byte, 1)
	ok, err = m.Load(0, buf)
	require.NoError(t, err)
	require.True(t, ok, "expected hit after store")
	require.Equal(t, []byte("9"), buf)

	require.NoError(t, m.Store(0x9, []byte{1, 2, 3, 4, 5, 6}), "must store @0x9")
	require.Equal(t, pagecache.Dump{
		Bases: []uint{0x0, 0x8, 0xc},
		Sizes: []uint{4, 4, 4},
		Pages: [][]byte{
			{'9', 0, 0, 0},
			{0, 1, 2, 3},
			{4, 5, 6, 0},
		},
	}, m.Dump(), "expected a page split hole")

	ok, err = m.Load(0x9, make([]byte, 3))
	require.NoError(t, err)
	require.True(t, ok)

	// a read spanning an uncached hole misses entirely
	ok, err = m.Load(0x4, make([]byte, 4))
	require.NoError(t, err)
	require.False(t, ok, "expected miss spanning an unallocated page")
}

func Test_Bytes_limit(t *testing.T) {
	var m pagecache.Bytes
	m.PageSize = 4
	m.Limit = 8

	require.NoError(t, m.Store(4, []byte{1, 2, 3, 4}))
	err := m.Store(8, []byte{1})
	require.Error(t, err)
	var lim pagecache.LimitError
	require.ErrorAs(t, err, &lim)
	require.Equal(t, "store", lim.Op)
}
