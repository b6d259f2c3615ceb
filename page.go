package pagebook

import (
	"os"

	"github.com/pagebook/pagebook/mmap"
)

// PageBytes is the fixed byte budget of every page file. Production
// deployments want this near 1 MiB; tests shrink it to exercise the
// capacity-solving arithmetic and multi-page overflow behaviour without
// allocating megabytes per case.
const PageBytes = 1 << 20

// Page binds a file-backed memory mapping to a PageMeta under a
// reader-writer lock with an upgradeable-read tier (spec.md §4.4):
// Insert starts by checking whether the key is already present — a
// read — and only pays for exclusivity once it knows which mutation is
// needed, without ever giving another writer a window to intervene.
// Delete takes the writer lock directly.
type Page[V any] struct {
	lock   upgradableMutex
	layout pageLayout[V]
	mm     *mmap.Map
	meta   *PageMeta[V]
	path   string
}

// createPage sets path's length to pageBytes, zeroes the bitmap region,
// maps it read-write, and builds a fresh PageMeta — spec.md §4.4's
// create(file) constructor. "The remainder of the mapping is not
// zeroed": the bitmap says vacant, and vacant slots are never read
// without occupancy, so leftover filesystem-allocated bytes are inert.
func createPage[V any](path string, pageBytes uint32) (*Page[V], error) {
	layout := newPageLayout[V](pageBytes)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, WrapIoError(path, err)
	}
	if err := f.Truncate(int64(pageBytes)); err != nil {
		f.Close()
		return nil, WrapIoError(path, err)
	}
	f.Close()

	mm, err := mmap.MapFile(path, true)
	if err != nil {
		return nil, WrapIoError(path, err)
	}

	data := mm.Data()
	for i := uint32(0); i < layout.bitmapBytes; i++ {
		data[i] = 0
	}

	return &Page[V]{
		layout: layout,
		mm:     mm,
		meta:   newPageMeta[V](layout.cap),
		path:   path,
	}, nil
}

// openPage maps an existing page file and reconstructs its PageMeta by
// parsing the on-disk bitmap and entry array — spec.md §4.4's open(file)
// constructor. Fails with ErrCorrupt if the file isn't exactly pageBytes
// long.
func openPage[V any](path string, pageBytes uint32) (*Page[V], error) {
	layout := newPageLayout[V](pageBytes)

	fi, err := os.Stat(path)
	if err != nil {
		return nil, WrapIoError(path, err)
	}
	if uint32(fi.Size()) != pageBytes {
		return nil, WrapCorruptError(path, "page file length does not match PAGE_BYTES")
	}

	mm, err := mmap.MapFile(path, true)
	if err != nil {
		return nil, WrapIoError(path, err)
	}

	meta := parsePageMeta(layout, mm.Data())

	return &Page[V]{
		layout: layout,
		mm:     mm,
		meta:   meta,
		path:   path,
	}, nil
}

// Close unmaps the page's backing file.
func (p *Page[V]) Close() error {
	return p.mm.Close()
}

// Len returns the number of occupied slots.
func (p *Page[V]) Len() uint32 {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.meta.Len()
}

// IsFull reports whether every slot is occupied.
func (p *Page[V]) IsFull() bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.meta.IsFull()
}

// ContainsKey reports whether k is stored in this page.
func (p *Page[V]) ContainsKey(k Key) bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.meta.ContainsKey(k)
}

// LookupIndex returns the slot holding k, if present.
func (p *Page[V]) LookupIndex(k Key) (SlotIndex, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.meta.IndexOf(k)
}

// LookupKey returns the key stored at slot i, if occupied.
func (p *Page[V]) LookupKey(i SlotIndex) (Key, bool) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.meta.KeyOf(i)
}

// GetByIndex returns the value at slot i. Fails with ErrSlotVacant if i
// holds no entry.
func (p *Page[V]) GetByIndex(i SlotIndex) (V, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	var zero V
	if p.meta.IsVacant(i) {
		return zero, NewError(ErrSlotVacant)
	}
	return readEntryValue[V](p.layout.entryBytes(p.mm.Data(), i.Uint32())), nil
}

// GetByKey returns the value stored under k. Fails with ErrKeyNotFound
// if k is absent.
func (p *Page[V]) GetByKey(k Key) (V, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()

	var zero V
	i, ok := p.meta.IndexOf(k)
	if !ok {
		return zero, NewError(ErrKeyNotFound)
	}
	return readEntryValue[V](p.layout.entryBytes(p.mm.Data(), i.Uint32())), nil
}

// Insert stores v under k, following spec.md §4.4's two-branch contract:
//
//   - k already present at slot i: overwrite the entry's value in place
//     (replace_key is a semantic no-op, kept for bytewise key equality)
//     and return the prior value.
//   - k absent: allocate a slot via PageMeta.InsertKey, stamp key and
//     value into the entry, and — unlike the source, which only updates
//     the in-memory maps — set the bitmap bit for the slot so a reopen
//     doesn't lose the entry (spec.md §9).
//
// Insert starts with an upgradeable read so ContainsKey-then-mutate
// never races another writer slipping in between the check and the
// write.
func (p *Page[V]) Insert(k Key, v V) (*V, error) {
	g := p.lock.UpgradableRLock()

	if i, ok := p.meta.IndexOf(k); ok {
		w := g.Upgrade()
		defer w.Unlock()

		entry := p.layout.entryBytes(p.mm.Data(), i.Uint32())
		p.meta.ReplaceKey(i, k)
		writeEntryKey(entry, k)
		prior := writeEntryValue(entry, v)
		return &prior, nil
	}

	w := g.Upgrade()
	defer w.Unlock()

	i, err := p.meta.InsertKey(k)
	if err != nil {
		return nil, err
	}

	entry := p.layout.entryBytes(p.mm.Data(), i.Uint32())
	writeEntryKey(entry, k)
	writeEntryValue(entry, v)
	p.layout.setSlotBit(p.mm.Data(), i.Uint32(), true)

	return nil, nil
}

// Delete vacates k, clearing its bitmap bit. Value bytes are not
// scrubbed; PageMeta's occupancy state is what makes them unreadable.
func (p *Page[V]) Delete(k Key) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	i, _, err := p.meta.Vacate(ByKey(k))
	if err != nil {
		return err
	}
	p.layout.setSlotBit(p.mm.Data(), i.Uint32(), false)
	return nil
}
