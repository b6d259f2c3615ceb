package pagebook

import "github.com/pagebook/pagebook/internal/fastmap"

// PageMeta is the in-memory mirror of a page's on-disk bitmap: it tracks
// which slots are occupied, the key stored at each occupied slot, and an
// ordered set of vacant slots so insertion can always pick the smallest
// free index (spec.md §4.3 — compact low-address packing, deterministic
// iteration order, and fast scans are a consequence of this policy, not
// an accident of implementation).
// V never appears in the fields below — keys and slot indices carry no
// value bytes — but PageMeta is parameterised on it anyway so a Page[V]
// owns exactly one PageMeta[V], built from and type-checked against the
// same pageLayout[V] that knows V's size.
type PageMeta[V any] struct {
	idxToKey *fastmap.Uint32Map
	keyToIdx *fastmap.Uint32Map
	vacant   *vacantSet
	cap      uint32
}

// newPageMeta builds an empty PageMeta for a page of the given capacity:
// every slot starts vacant.
func newPageMeta[V any](cap uint32) *PageMeta[V] {
	m := &PageMeta[V]{
		idxToKey: fastmap.NewUint32Map(int(cap)),
		keyToIdx: fastmap.NewUint32Map(int(cap)),
		vacant:   newVacantSet(int(cap)),
		cap:      cap,
	}
	for i := uint32(0); i < cap; i++ {
		m.vacant.Insert(i)
	}
	return m
}

// parsePageMeta rebuilds a PageMeta by walking layout's bitmap over data,
// recording the key found at each occupied slot and the smallest-first
// vacant set for everything else. This is how a Page reconstructs its
// in-memory view when opening an existing page file.
func parsePageMeta[V any](layout pageLayout[V], data []byte) *PageMeta[V] {
	m := newPageMeta[V](layout.cap)
	it := newEntryIter(layout, data)
	for {
		idx, key, occupied, ok := it.next()
		if !ok {
			break
		}
		if occupied {
			m.vacant.Remove(idx.Uint32())
			m.idxToKey.Set(idx.Uint32(), key.Uint32())
			m.keyToIdx.Set(key.Uint32(), idx.Uint32())
		}
	}
	return m
}

// Len returns the number of occupied slots.
func (m *PageMeta[V]) Len() uint32 {
	return uint32(m.idxToKey.Len())
}

// Capacity returns the total number of slots, occupied or vacant.
func (m *PageMeta[V]) Capacity() uint32 {
	return m.cap
}

// IsFull reports whether every slot is occupied.
func (m *PageMeta[V]) IsFull() bool {
	return m.vacant.Len() == 0
}

// IsVacant reports whether slot i holds no entry.
func (m *PageMeta[V]) IsVacant(i SlotIndex) bool {
	return !m.idxToKey.Has(i.Uint32())
}

// ContainsKey reports whether k is stored in this page.
func (m *PageMeta[V]) ContainsKey(k Key) bool {
	return m.keyToIdx.Has(k.Uint32())
}

// KeyOf returns the key stored at slot i, if occupied.
func (m *PageMeta[V]) KeyOf(i SlotIndex) (Key, bool) {
	v, ok := m.idxToKey.Get(i.Uint32())
	return NewKey(v), ok
}

// IndexOf returns the slot holding k, if present.
func (m *PageMeta[V]) IndexOf(k Key) (SlotIndex, bool) {
	v, ok := m.keyToIdx.Get(k.Uint32())
	return NewSlotIndex(v), ok
}

// InsertKey records k at the smallest vacant slot and returns that slot.
// Fails with ErrKeyExists if k is already present, or ErrPageFull if no
// slot is vacant.
func (m *PageMeta[V]) InsertKey(k Key) (SlotIndex, error) {
	if m.ContainsKey(k) {
		return SlotIndex{}, NewError(ErrKeyExists)
	}
	idx, ok := m.vacant.PopMin()
	if !ok {
		return SlotIndex{}, NewError(ErrPageFull)
	}
	m.idxToKey.Set(idx, k.Uint32())
	m.keyToIdx.Set(k.Uint32(), idx)
	return NewSlotIndex(idx), nil
}

// InsertAt records k at a caller-chosen slot i. Fails with ErrInvalid if
// i is already occupied.
func (m *PageMeta[V]) InsertAt(i SlotIndex, k Key) error {
	if !m.IsVacant(i) {
		return NewError(ErrInvalid)
	}
	m.vacant.Remove(i.Uint32())
	m.idxToKey.Set(i.Uint32(), k.Uint32())
	m.keyToIdx.Set(k.Uint32(), i.Uint32())
	return nil
}

// ReplaceKey overwrites the key at an occupied slot i with newK,
// returning the key that was there before. Fails with ErrSlotVacant if i
// holds no entry.
func (m *PageMeta[V]) ReplaceKey(i SlotIndex, newK Key) (Key, error) {
	prior, ok := m.KeyOf(i)
	if !ok {
		return Key{}, NewError(ErrSlotVacant)
	}
	m.keyToIdx.Delete(prior.Uint32())
	m.idxToKey.Set(i.Uint32(), newK.Uint32())
	m.keyToIdx.Set(newK.Uint32(), i.Uint32())
	return prior, nil
}

// Vacate frees the slot named by sel — either directly by index or by
// the key stored there — returning the freed (SlotIndex, Key) pair.
// Fails with ErrSlotVacant (selecting by index) or ErrKeyNotFound
// (selecting by key) if the target isn't occupied.
func (m *PageMeta[V]) Vacate(sel Selector) (SlotIndex, Key, error) {
	var idx SlotIndex
	var key Key

	if sel.byKey {
		i, ok := m.IndexOf(sel.key)
		if !ok {
			return SlotIndex{}, Key{}, NewError(ErrKeyNotFound)
		}
		idx, key = i, sel.key
	} else {
		k, ok := m.KeyOf(sel.idx)
		if !ok {
			return SlotIndex{}, Key{}, NewError(ErrSlotVacant)
		}
		idx, key = sel.idx, k
	}

	m.idxToKey.Delete(idx.Uint32())
	m.keyToIdx.Delete(key.Uint32())
	m.vacant.Insert(idx.Uint32())
	return idx, key, nil
}

// Keys returns every stored key, in unspecified order.
func (m *PageMeta[V]) Keys() []Key {
	keys := make([]Key, 0, m.idxToKey.Len())
	m.idxToKey.ForEach(func(_, key uint32) {
		keys = append(keys, NewKey(key))
	})
	return keys
}
