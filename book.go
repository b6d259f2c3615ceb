package pagebook

import (
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/pagebook/pagebook/internal/fastmap"
)

// Book is the storage for one BookId, rooted at
// <data_dir>/books/<id>/pages/ (spec.md §4.5). It owns the page list, a
// key -> page-index map, and an ordered set of partially-full page
// indices, all guarded by a single lock: Book operations never hold a
// Page's lock across the Book's own, keeping the lock order fixed at
// Book-then-Page (spec.md §5).
type Book[V any] struct {
	mu sync.RWMutex

	id        BookId
	dataDir   string
	pageBytes uint32
	pages     []*Page[V]
	keyLookup *fastmap.Uint32Map // Key -> PageIndex
	partial   *vacantSet         // ordered set of PageIndex with vacancy
	count     uint32

	log     zerolog.Logger
	metrics *bookMetrics
}

// Option configures Open.
type Option func(*bookOptions)

type bookOptions struct {
	dataDir   string
	pageBytes uint32
	logger    zerolog.Logger
	registry  prometheus.Registerer
}

// WithDataDir overrides the process-wide default data directory.
func WithDataDir(dir string) Option {
	return func(o *bookOptions) { o.dataDir = dir }
}

// WithPageBytes overrides the default PAGE_BYTES budget. Intended for
// tests that want to exercise the capacity-solving arithmetic and
// multi-page overflow without megabyte-sized fixtures.
func WithPageBytes(n uint32) Option {
	return func(o *bookOptions) { o.pageBytes = n }
}

// WithLogger overrides the package-default console logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *bookOptions) { o.logger = l }
}

// WithMetrics registers the Book's Prometheus collectors against reg.
// Without this option the collectors still exist and accumulate, they
// are simply never exposed.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *bookOptions) { o.registry = reg }
}

// Open opens (creating if necessary) the Book directory for id, scanning
// every existing page file and synthesising a single page at index 0 if
// none exist (spec.md §4.5).
func Open[V any](id BookId, opts ...Option) (*Book[V], error) {
	o := bookOptions{pageBytes: PageBytes, logger: defaultLogger}
	for _, apply := range opts {
		apply(&o)
	}
	if o.dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		o.dataDir = dir
	}

	dir := pagesDir(o.dataDir, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		o.logger.Error().Err(err).Str("dir", dir).Msg("failed to create book directory")
		return nil, WrapIoError(dir, err)
	}

	indices, err := scanPageIndices(dir)
	if err != nil {
		return nil, err
	}

	b := &Book[V]{
		id:        id,
		dataDir:   o.dataDir,
		pageBytes: o.pageBytes,
		keyLookup: fastmap.NewUint32Map(0),
		partial:   newVacantSet(0),
		log:       o.logger,
		metrics:   newBookMetrics(id, o.registry),
	}

	if len(indices) == 0 {
		indices = []uint32{0}
	}

	for _, idx := range indices {
		pi := NewPageIndex(idx)
		path := pageFilePath(o.dataDir, id, pi)

		fi, statErr := os.Stat(path)
		var page *Page[V]
		if statErr == nil && fi.Size() > 0 {
			page, err = openPage[V](path, o.pageBytes)
		} else {
			b.log.Debug().Str("path", path).Msg("creating new page")
			page, err = createPage[V](path, o.pageBytes)
		}
		if err != nil {
			o.logger.Error().Err(err).Str("path", path).Msg("failed to open page")
			return nil, err
		}

		if err := b.adoptPage(pi, page); err != nil {
			b.log.Error().Err(err).Uint32("page_index", pi.Uint32()).Msg("corruption detected while adopting page")
			return nil, err
		}
	}

	b.metrics.pageCount.Set(float64(len(b.pages)))
	b.metrics.partialCount.Set(float64(b.partial.Len()))
	b.log.Debug().
		Str("book_id", id.String()).
		Int("page_count", len(b.pages)).
		Uint32("recovered_keys", b.count).
		Msg("book opened")

	return b, nil
}

// scanPageIndices lists dir for files named by decimal page index,
// sorted ascending.
func scanPageIndices(dir string) ([]uint32, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, WrapIoError(dir, err)
	}

	indices := make([]uint32, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		indices = append(indices, uint32(n))
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	return indices, nil
}

// adoptPage registers page at pi in the page list, key_lookup, and
// partial set. Called only during Open, before the Book is shared.
func (b *Book[V]) adoptPage(pi PageIndex, page *Page[V]) error {
	for uint32(len(b.pages)) <= pi.Uint32() {
		b.pages = append(b.pages, nil)
	}
	b.pages[pi.Uint32()] = page

	if !page.IsFull() {
		b.partial.Insert(pi.Uint32())
	}

	var conflict error
	for _, k := range page.meta.Keys() {
		if b.keyLookup.Has(k.Uint32()) {
			conflict = WrapCorruptError(pageFilePath(b.dataDir, b.id, pi), "duplicate key across pages")
			continue
		}
		b.keyLookup.Set(k.Uint32(), pi.Uint32())
		b.count++
	}
	return conflict
}

// Len returns the total number of keys stored across every page.
func (b *Book[V]) Len() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// ContainsKey reports whether k is stored anywhere in this Book.
func (b *Book[V]) ContainsKey(k Key) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.keyLookup.Has(k.Uint32())
}

// Get returns the value stored under k.
func (b *Book[V]) Get(k Key) (V, error) {
	b.mu.RLock()
	pi, ok := b.keyLookup.Get(k.Uint32())
	page := b.pageAt(pi)
	b.mu.RUnlock()

	var zero V
	if !ok {
		return zero, NewError(ErrKeyNotFound)
	}
	return page.GetByKey(k)
}

func (b *Book[V]) pageAt(idx uint32) *Page[V] {
	return b.pages[idx]
}

// Insert stores v under k. Unlike Page.insert, the Book contract never
// replaces an existing key: it fails with ErrKeyExists instead
// (spec.md §9 — deliberate defence-in-depth; Page.insert's replace
// branch is unreachable via this API because key_lookup is checked
// first).
func (b *Book[V]) Insert(k Key, v V) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.keyLookup.Has(k.Uint32()) {
		return NewError(ErrKeyExists)
	}

	pi, page, err := b.choosePartialPageLocked()
	if err != nil {
		return err
	}

	if _, err := page.Insert(k, v); err != nil {
		return err
	}

	if page.IsFull() {
		b.partial.Remove(pi.Uint32())
		b.log.Debug().Uint32("page_index", pi.Uint32()).Msg("page entered full state")
	}
	b.keyLookup.Set(k.Uint32(), pi.Uint32())
	b.count++
	b.metrics.inserts.Inc()
	b.metrics.partialCount.Set(float64(b.partial.Len()))
	return nil
}

// choosePartialPageLocked returns the smallest partially-full page,
// allocating a new one (next sequential index) if none has vacancy.
// Caller must hold b.mu for writing.
func (b *Book[V]) choosePartialPageLocked() (PageIndex, *Page[V], error) {
	if min, ok := b.partial.Min(); ok {
		pi := NewPageIndex(min)
		return pi, b.pages[min], nil
	}

	pi := NewPageIndex(uint32(len(b.pages)))
	path := pageFilePath(b.dataDir, b.id, pi)
	page, err := createPage[V](path, b.pageBytes)
	if err != nil {
		b.log.Error().Err(err).Str("path", path).Msg("failed to allocate new page")
		return PageIndex{}, nil, err
	}
	b.log.Debug().Uint32("page_index", pi.Uint32()).Msg("allocated new page")

	b.pages = append(b.pages, page)
	b.partial.Insert(pi.Uint32())
	b.metrics.pageCount.Set(float64(len(b.pages)))
	return pi, page, nil
}

// Delete removes k from the Book. Fails with ErrKeyNotFound if absent.
//
// Matching spec.md §9's two mandated deviations from the source: the
// partial-set update happens here, under the Book's writer lock and
// after the page's delete completes (the source did it under a read
// guard, leaving a narrow race); and k is removed from key_lookup (the
// source omitted this, almost certainly a bug).
func (b *Book[V]) Delete(k Key) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	pi, ok := b.keyLookup.Get(k.Uint32())
	if !ok {
		return NewError(ErrKeyNotFound)
	}
	page := b.pages[pi]

	wasFull := page.IsFull()
	if err := page.Delete(k); err != nil {
		return err
	}

	if wasFull {
		b.partial.Insert(pi)
		b.log.Debug().Uint32("page_index", pi).Msg("page left full state")
	}
	b.keyLookup.Delete(k.Uint32())
	b.count--
	b.metrics.deletes.Inc()
	b.metrics.partialCount.Set(float64(b.partial.Len()))
	return nil
}

// Close unmaps every page's backing file.
func (b *Book[V]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var first error
	for _, p := range b.pages {
		if p == nil {
			continue
		}
		if err := p.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
