package pagecache

// DefaultPageSize provides a default for Bytes.PageSize.
const DefaultPageSize = 4096

// Bytes implements an offset-addressed paged byte cache.
// Pages may not necessarily be the same size, but usually are in practice.
//
// Bytes never touches a backing store itself: on a Load miss the caller
// reads the bytes from its authoritative source (the scratch file) and
// calls Store to cache them, and Store is also used to remember bytes just
// appended to the scratch file without re-reading them.
type Bytes struct {
	PagedCore
	pages [][]byte
}

// Size returns an offset one position higher than the last position in the
// last page allocated so far.
func (m *Bytes) Size() uint {
	if i := len(m.bases) - 1; i >= 0 {
		return m.bases[i] + uint(len(m.pages[i]))
	}
	return 0
}

// Load copies len(buf) bytes from the cache starting at addr into buf.
// Returns false if any byte in the range is not currently cached, in which
// case buf is left unmodified and the caller should read the bytes from
// its backing store and Store them.
func (m *Bytes) Load(addr uint, buf []byte) (ok bool, err error) {
	if len(buf) == 0 {
		return true, nil
	}

	end := addr + uint(len(buf))
	if err := m.checkLimit(end, "load"); err != nil {
		return false, err
	}

	if m.PageSize == 0 || len(m.pages) == 0 {
		return false, nil
	}

	pageID := m.findPage(addr)
	base := m.bases[pageID]
	page := m.pages[pageID]
	i := int(addr) - int(base)
	if i < 0 || i+len(buf) > len(page) {
		return false, nil
	}
	copy(buf, page[i:i+len(buf)])
	return true, nil
}

// Store writes data into the cache at addr, allocating or splitting pages as
// necessary. Returns an error if Limit would be exceeded; no partial store
// is done.
func (m *Bytes) Store(addr uint, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	end := addr + uint(len(data))
	if err := m.checkLimit(end, "store"); err != nil {
		return err
	}

	if m.PageSize == 0 {
		m.PageSize = DefaultPageSize
	}

	for pageID := m.findPage(addr); addr < end; pageID++ {
		base, size, page := m.allocPage(pageID, addr)
		if skip := addr - base; skip > 0 {
			if skip >= size {
				continue
			}
			base += skip
			page = page[skip:]
		}
		n := copy(page, data)
		data = data[n:]
		addr += uint(n)
	}

	return nil
}

func (m *Bytes) allocPage(pageID int, addr uint) (base, size uint, page []byte) {
	base, size, isNew := m.PagedCore.allocPage(pageID, addr)
	if isNew {
		page = make([]byte, size)
		if pageID == len(m.bases) {
			m.pages = append(m.pages, page)
		} else {
			m.pages = append(m.pages, nil)
			copy(m.pages[pageID+1:], m.pages[pageID:])
			m.pages[pageID] = page
		}
	} else {
		page = m.pages[pageID]
	}
	return base, size, page
}

// Dump provides data for testing.
type Dump struct {
	Bases []uint
	Sizes []uint
	Pages [][]byte
}

// Dump returns the cache's internal page layout for test assertions.
func (m *Bytes) Dump() (d Dump) {
	d.Bases = m.bases
	d.Sizes = m.sizes
	d.Pages = m.pages
	return d
}
