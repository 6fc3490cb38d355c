package main

import (
	"testing"

	"github.com/jcorbin/goed/internal/pagecache"
	"github.com/stretchr/testify/require"
)

func Test_scratchStore_appendAndRead(t *testing.T) {
	s, err := newScratchStore()
	require.NoError(t, err)
	defer s.close()

	pos1, len1, err := s.append([]byte("hello"))
	require.NoError(t, err)
	pos2, len2, err := s.append([]byte("world"))
	require.NoError(t, err)
	require.NotEqual(t, pos1, pos2)

	text, err := s.read(pos1, len1)
	require.NoError(t, err)
	require.Equal(t, "hello", string(text))

	text, err = s.read(pos2, len2)
	require.NoError(t, err)
	require.Equal(t, "world", string(text))
}

func Test_scratchStore_readMissCache(t *testing.T) {
	s, err := newScratchStore()
	require.NoError(t, err)
	defer s.close()

	pos, length, err := s.append([]byte("cached"))
	require.NoError(t, err)

	// drop the cache's knowledge without touching the file, forcing read
	// to fall back to a real ReadAt and re-warm the cache.
	s.cache = pagecache.Bytes{PagedCore: pagecache.PagedCore{PageSize: pagecache.DefaultPageSize}}

	text, err := s.read(pos, length)
	require.NoError(t, err)
	require.Equal(t, "cached", string(text))
}
