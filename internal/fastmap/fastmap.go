// Package fastmap provides an open-addressed hash map from uint32 to
// uint32, used for the page's slot-index<->key maps where sizing is known
// up front and heap allocation per entry is unwanted.
package fastmap

// Uint32Map is a hash map from uint32 to uint32. It uses open addressing
// with linear probing and fibonacci hashing for good distribution of
// sequential keys (slot indices and random-looking user keys alike).
type Uint32Map struct {
	buckets []bucket
	count   int
	mask    uint32
}

type bucket struct {
	key   uint32
	value uint32
	used  bool // needed because key=0 and value=0 are both valid
}

// fibHash32 is 2^32 divided by the golden ratio, truncated to odd.
const fibHash32 = 2654435769

func hash(key uint32) uint32 {
	return key * fibHash32
}

// NewUint32Map returns a map pre-sized to hold at least capHint entries
// without growing, mirroring PageMeta's "no allocation in the hot path
// once maps are sized" contract.
func NewUint32Map(capHint int) *Uint32Map {
	m := &Uint32Map{}
	if capHint <= 0 {
		return m
	}
	size := 16
	for size < capHint*4/3+1 {
		size *= 2
	}
	m.buckets = make([]bucket, size)
	m.mask = uint32(size - 1)
	return m
}

// Get returns the value for key and whether it was present.
func (m *Uint32Map) Get(key uint32) (uint32, bool) {
	if len(m.buckets) == 0 {
		return 0, false
	}
	idx := hash(key) & m.mask
	for {
		b := &m.buckets[idx]
		if !b.used {
			return 0, false
		}
		if b.key == key {
			return b.value, true
		}
		idx = (idx + 1) & m.mask
	}
}

// Has reports whether key is present.
func (m *Uint32Map) Has(key uint32) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores key -> value, overwriting any prior value.
func (m *Uint32Map) Set(key, value uint32) {
	if len(m.buckets) == 0 {
		m.buckets = make([]bucket, 16)
		m.mask = 15
	} else if m.count >= len(m.buckets)*3/4 {
		m.grow()
	}

	idx := hash(key) & m.mask
	for {
		b := &m.buckets[idx]
		if !b.used {
			b.key = key
			b.value = value
			b.used = true
			m.count++
			return
		}
		if b.key == key {
			b.value = value
			return
		}
		idx = (idx + 1) & m.mask
	}
}

// Delete removes key, returning its prior value and whether it was
// present. Uses backward-shift deletion so probe chains stay intact
// without needing tombstones.
func (m *Uint32Map) Delete(key uint32) (uint32, bool) {
	if len(m.buckets) == 0 {
		return 0, false
	}
	idx := hash(key) & m.mask
	for {
		b := &m.buckets[idx]
		if !b.used {
			return 0, false
		}
		if b.key == key {
			removed := b.value
			m.count--
			b.used = false
			m.backwardShift(idx)
			return removed, true
		}
		idx = (idx + 1) & m.mask
	}
}

// backwardShift re-homes entries following a deleted slot so linear
// probing keeps working without tombstone markers.
func (m *Uint32Map) backwardShift(hole uint32) {
	n := uint32(len(m.buckets))
	idx := (hole + 1) & m.mask
	for {
		b := &m.buckets[idx]
		if !b.used {
			return
		}
		ideal := hash(b.key) & m.mask
		// distance from ideal to idx, wrapping
		dist := (idx - ideal + n) & m.mask
		holeDist := (idx - hole + n) & m.mask
		if dist >= holeDist {
			m.buckets[hole] = *b
			b.used = false
			hole = idx
		}
		idx = (idx + 1) & m.mask
	}
}

func (m *Uint32Map) grow() {
	old := m.buckets
	newSize := len(old) * 2
	if newSize == 0 {
		newSize = 16
	}
	m.buckets = make([]bucket, newSize)
	m.mask = uint32(newSize - 1)
	m.count = 0
	for i := range old {
		if old[i].used {
			m.Set(old[i].key, old[i].value)
		}
	}
}

// ForEach calls fn for every key/value pair. fn must not mutate the map.
func (m *Uint32Map) ForEach(fn func(key, value uint32)) {
	for i := range m.buckets {
		if m.buckets[i].used {
			fn(m.buckets[i].key, m.buckets[i].value)
		}
	}
}

// Len returns the number of entries.
func (m *Uint32Map) Len() int {
	return m.count
}
