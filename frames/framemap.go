package frames

import "sort"

// FrameReader is the read-only view of a FrameMap.
type FrameReader interface {
	Lookup(frameNumber int) (*FrameRecord, bool)
	Contains(frameNumber int) bool
	Len() int
	SortedKeys() []int
	Items() []FrameEntry
}

// FrameMap maps scene frame numbers to frame records.
// Every change to the key set through its methods invalidates the sorted keys.
type FrameMap struct {
	frames map[int]*FrameRecord
	cache  SortedKeysCache
}

func NewFrameMap() *FrameMap {
	return &FrameMap{
		frames: make(map[int]*FrameRecord),
	}
}

// Lookup returns the record stored at exactly frameNumber.
// The record can be modified in place, this does not change the key set.
func (m *FrameMap) Lookup(frameNumber int) (*FrameRecord, bool) {
	f, ok := m.frames[frameNumber]
	return f, ok
}

func (m *FrameMap) Contains(frameNumber int) bool {
	_, ok := m.frames[frameNumber]
	return ok
}

func (m *FrameMap) Len() int {
	return len(m.frames)
}

// SortedKeys returns the keys in ascending order.
func (m *FrameMap) SortedKeys() []int {
	return m.cache.Get(func() []int {
		keys := make([]int, 0, len(m.frames))
		for k := range m.frames {
			keys = append(keys, k)
		}
		return keys
	})
}

// Items returns a copy of every entry, ordered by frame number.
func (m *FrameMap) Items() []FrameEntry {
	keys := m.SortedKeys()
	items := make([]FrameEntry, 0, len(keys))
	for _, k := range keys {
		items = append(items, FrameEntry{FrameNumber: k, FrameRecord: *m.frames[k]})
	}
	return items
}

// Add stores record at frameNumber, replacing any existing record, and returns
// the stored record.
func (m *FrameMap) Add(frameNumber int, record FrameRecord) *FrameRecord {
	if m.frames == nil {
		m.frames = make(map[int]*FrameRecord)
	}
	if f, ok := m.frames[frameNumber]; ok {
		*f = record
		return f
	}
	f := &record
	m.frames[frameNumber] = f
	m.cache.Invalidate()
	return f
}

// Remove erases frameNumber and reports whether it was present.
func (m *FrameMap) Remove(frameNumber int) bool {
	if _, ok := m.frames[frameNumber]; !ok {
		return false
	}
	delete(m.frames, frameNumber)
	m.cache.Invalidate()
	return true
}

func (m *FrameMap) Clear() {
	m.frames = make(map[int]*FrameRecord)
	m.cache.Invalidate()
}

// CopyFrom replaces the whole content of m with a deep copy of src.
func (m *FrameMap) CopyFrom(src FrameReader) {
	m.frames = make(map[int]*FrameRecord, src.Len())
	for _, item := range src.Items() {
		record := item.FrameRecord
		m.frames[item.FrameNumber] = &record
	}
	m.cache.Invalidate()
}

func (m *FrameMap) Clone() *FrameMap {
	c := NewFrameMap()
	c.CopyFrom(m)
	return c
}

// indexAt returns the position in keys of the greatest key <= frameNumber, or -1.
func indexAt(keys []int, frameNumber int) int {
	i := sort.Search(len(keys), func(i int) bool { return keys[i] > frameNumber })
	return i - 1
}
