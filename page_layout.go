package pagebook

import "unsafe"

// keyFieldSize is the size in bytes of the key field prefixing every
// entry. Keys are always 32-bit, so this is a constant rather than a
// function of the value type.
const keyFieldSize = 4

// pageLayout is pure arithmetic: given a page byte budget and a value
// type V, it computes the largest slot capacity that lets a bitmap plus
// an array of (key, V) entries fit in that budget, packed with no
// implementation-inserted padding (entries behave as if declared with a
// packed/unaligned layout, so the array's effective alignment is 1 and
// array_start never needs rounding beyond the bitmap's own byte count).
type pageLayout[V any] struct {
	pageBytes   uint32
	cap         uint32
	bitmapBytes uint32
	arrayStart  uint32
	stride      uint32
	valueSize   uint32
	totalUsage  uint32
	wastedBytes uint32
}

// newPageLayout runs the capacity-solving routine described in spec.md
// §4.1: start from an upper-bound guess and decrement until the bitmap
// plus the entry array fit within pageBytes. The routine is total,
// deterministic, and pure; it always terminates because cap=0 trivially
// fits (bitmap_bytes=0, array size=0).
func newPageLayout[V any](pageBytes uint32) pageLayout[V] {
	var zero V
	valueSize := uint32(unsafe.Sizeof(zero))
	stride := keyFieldSize + valueSize

	cap := (pageBytes - 1) / stride // initial upper-bound guess

	for {
		bitmapBytes := ceilDiv8(cap)
		arrayStart := bitmapBytes // packed entries: align_of == 1
		total := arrayStart + cap*stride

		if total <= pageBytes {
			return pageLayout[V]{
				pageBytes:   pageBytes,
				cap:         cap,
				bitmapBytes: bitmapBytes,
				arrayStart:  arrayStart,
				stride:      stride,
				valueSize:   valueSize,
				totalUsage:  total,
				wastedBytes: pageBytes - total,
			}
		}

		cap--
	}
}

func ceilDiv8(n uint32) uint32 {
	return (n + 7) / 8
}

// Capacity returns the number of slots a page of this layout holds.
func (l pageLayout[V]) Capacity() uint32 {
	return l.cap
}

// BitmapBytes returns the size in bytes of the occupancy bitmap.
func (l pageLayout[V]) BitmapBytes() uint32 {
	return l.bitmapBytes
}

// entryOffset returns the byte offset of slot n's entry within the page.
// Unchecked: callers must ensure n < cap.
func (l pageLayout[V]) entryOffset(n uint32) uint32 {
	return l.arrayStart + n*l.stride
}

// entryBytes returns the raw byte window covering slot n's entry.
// Unchecked: callers must ensure n < cap.
func (l pageLayout[V]) entryBytes(data []byte, n uint32) []byte {
	off := l.entryOffset(n)
	return data[off : off+l.stride]
}

// slotIsVacant reports whether bit n of the bitmap region is clear.
// Unchecked: callers must ensure n < cap.
func (l pageLayout[V]) slotIsVacant(data []byte, n uint32) bool {
	byteIdx := n / 8
	bit := n % 8
	return data[byteIdx]&(1<<bit) == 0
}

// setSlotBit sets or clears bit n of the bitmap region.
// Unchecked: callers must ensure n < cap.
func (l pageLayout[V]) setSlotBit(data []byte, n uint32, occupied bool) {
	byteIdx := n / 8
	bit := byte(1) << (n % 8)
	if occupied {
		data[byteIdx] |= bit
	} else {
		data[byteIdx] &^= bit
	}
}

// entryIter is a finite, restartable iterator over (SlotIndex, *Key) by
// walking the bitmap in ascending slot order; for each occupied bit it
// issues an unaligned read of the entry's key field.
type entryIter[V any] struct {
	layout pageLayout[V]
	data   []byte
	step   uint32
}

// newEntryIter builds an iterator over data, which must be at least
// pageBytes long.
func newEntryIter[V any](layout pageLayout[V], data []byte) *entryIter[V] {
	return &entryIter[V]{layout: layout, data: data}
}

// next returns the next (SlotIndex, Key, occupied) triple, or ok=false
// once every slot has been visited.
func (it *entryIter[V]) next() (idx SlotIndex, key Key, occupied bool, ok bool) {
	if it.step >= it.layout.cap {
		return SlotIndex{}, Key{}, false, false
	}
	n := it.step
	it.step++

	idx = NewSlotIndex(n)
	if it.layout.slotIsVacant(it.data, n) {
		return idx, Key{}, false, true
	}
	entry := it.layout.entryBytes(it.data, n)
	return idx, readEntryKey(entry), true, true
}
