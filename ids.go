package pagebook

import (
	"fmt"
	"math/rand"
)

// Key identifies a stored value. Keys carry no semantic meaning beyond
// identity and are unique within a single Book.
type Key struct {
	val uint32
}

// NewKey wraps a raw scalar as a Key.
func NewKey(val uint32) Key {
	return Key{val: val}
}

// RandKey draws a Key from the process-wide, non-cryptographic PRNG.
func RandKey() Key {
	return Key{val: rand.Uint32()}
}

// Uint32 returns the raw scalar value.
func (k Key) Uint32() uint32 {
	return k.val
}

func (k Key) String() string {
	return fmt.Sprintf("%#08x", k.val)
}

// SlotIndex identifies a slot within one page; 0 <= i < capacity.
type SlotIndex struct {
	val uint32
}

// NewSlotIndex wraps a raw scalar as a SlotIndex.
func NewSlotIndex(val uint32) SlotIndex {
	return SlotIndex{val: val}
}

func (i SlotIndex) Uint32() uint32 {
	return i.val
}

// AsInt returns the index as a platform int, for slice indexing.
func (i SlotIndex) AsInt() int {
	return int(i.val)
}

func (i SlotIndex) String() string {
	return fmt.Sprintf("%d", i.val)
}

// PageIndex is the position of a page within a Book. Assignment is
// monotonic: indices are never reused or reordered, even if a page is
// later deleted (deletion of whole pages is not part of this core).
type PageIndex struct {
	val uint32
}

// NewPageIndex wraps a raw scalar as a PageIndex.
func NewPageIndex(val uint32) PageIndex {
	return PageIndex{val: val}
}

func (p PageIndex) Uint32() uint32 {
	return p.val
}

func (p PageIndex) AsInt() int {
	return int(p.val)
}

func (p PageIndex) String() string {
	return fmt.Sprintf("%d", p.val)
}

// BookId identifies a Book — a directory on disk.
type BookId struct {
	val uint64
}

// NewBookId wraps a raw scalar as a BookId.
func NewBookId(val uint64) BookId {
	return BookId{val: val}
}

// RandBookId draws a BookId from the process-wide, non-cryptographic PRNG.
func RandBookId() BookId {
	return BookId{val: rand.Uint64()}
}

func (b BookId) Uint64() uint64 {
	return b.val
}

func (b BookId) String() string {
	return fmt.Sprintf("%d", b.val)
}

// Selector names a slot either by its index or by the key stored there.
// It is the Go equivalent of the source's IdxOrKey enum, used by
// PageMeta.Vacate so callers can evict a slot either way without two
// near-identical methods.
type Selector struct {
	idx    SlotIndex
	key    Key
	byKey  bool
}

// BySlot builds a Selector naming a slot index.
func BySlot(idx SlotIndex) Selector {
	return Selector{idx: idx}
}

// ByKey builds a Selector naming a key.
func ByKey(key Key) Selector {
	return Selector{key: key, byKey: true}
}
