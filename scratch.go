package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jcorbin/goed/internal/pagecache"
)

// scratchStore is the append-only, scratch-file-backed text store described
// in §3: lines are never edited or overwritten in place, only appended; a
// lineNode's (pos, len) names a still-valid byte range for as long as the
// process runs. It is fronted by a pagecache.Bytes read-through cache so
// that repeated reads of recently appended or recently read ranges don't
// cost a seek+read syscall pair each time.
type scratchStore struct {
	file  *os.File
	cache pagecache.Bytes
	size  int64
}

// newScratchStore creates (and immediately unlinks, on platforms where that
// leaves the file descriptor usable) a private temp file to back a single
// editing session's line text.
func newScratchStore() (*scratchStore, error) {
	f, err := os.CreateTemp("", "goed-scratch-*")
	if err != nil {
		return nil, resourceErrorf("cannot create scratch file: %v", err)
	}
	if err := os.Remove(f.Name()); err != nil {
		f.Close()
		return nil, resourceErrorf("cannot unlink scratch file: %v", err)
	}
	return &scratchStore{
		file:  f,
		cache: pagecache.Bytes{PagedCore: pagecache.PagedCore{PageSize: pagecache.DefaultPageSize}},
	}, nil
}

func (s *scratchStore) close() error {
	return s.file.Close()
}

// append writes text to the end of the store and returns its (pos, len).
func (s *scratchStore) append(text []byte) (pos, length int64, err error) {
	pos = s.size
	n, err := s.file.WriteAt(text, pos)
	if err != nil {
		return 0, 0, resourceErrorf("scratch file write: %v", err)
	}
	if err := s.cache.Store(uint(pos), text); err != nil {
		return 0, 0, resourceErrorf("scratch cache: %v", err)
	}
	s.size += int64(n)
	return pos, int64(n), nil
}

// read returns the length bytes at pos, a cache hit served from pagecache
// when possible, falling back to a direct pread (and warming the cache)
// on a miss.
func (s *scratchStore) read(pos, length int64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	buf := make([]byte, length)
	ok, err := s.cache.Load(uint(pos), buf)
	if err != nil {
		return nil, resourceErrorf("scratch cache: %v", err)
	}
	if ok {
		return buf, nil
	}

	if _, err := s.file.ReadAt(buf, pos); err != nil && err != io.EOF {
		return nil, resourceErrorf("scratch file read: %v", err)
	}
	if err := s.cache.Store(uint(pos), buf); err != nil {
		return nil, resourceErrorf("scratch cache: %v", err)
	}
	return buf, nil
}

// readInto appends the text at (pos, len) to dst and returns the result.
// It reads through read, so the text is still copied via an intermediate
// buffer.
func (s *scratchStore) readInto(dst []byte, pos, length int64) ([]byte, error) {
	text, err := s.read(pos, length)
	if err != nil {
		return nil, err
	}
	return append(dst, text...), nil
}

func (s *scratchStore) String() string {
	return fmt.Sprintf("scratchStore{size:%d}", s.size)
}
