package pagebook

import (
	"encoding/binary"
	"unsafe"
)

// readEntryKey performs an unaligned read of the 4-byte key field at the
// front of an entry byte window. Entries are packed with no
// implementation-inserted padding, so the key field may start at any
// byte offset within the page — encoding/binary never assumes natural
// alignment, unlike a direct *uint32 pointer cast.
func readEntryKey(entry []byte) Key {
	return NewKey(binary.LittleEndian.Uint32(entry[:keyFieldSize]))
}

// writeEntryKey performs an unaligned write of k into entry's key field,
// returning the key that was there before.
func writeEntryKey(entry []byte, k Key) Key {
	prior := readEntryKey(entry)
	binary.LittleEndian.PutUint32(entry[:keyFieldSize], k.Uint32())
	return prior
}

// readEntryValue performs an unaligned bitwise copy of the value payload
// out of entry into a freshly zeroed V. The bytes may be the arbitrary
// contents of a vacant slot; whether the result is meaningful is a
// question PageMeta's occupancy bookkeeping answers, not this function.
func readEntryValue[V any](entry []byte) V {
	var v V
	size := unsafe.Sizeof(v)
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	copy(dst, entry[keyFieldSize:keyFieldSize+uintptr(size)])
	return v
}

// writeEntryValue performs an unaligned bitwise write of v's bytes into
// entry's value payload, returning the prior byte-image as a V. The
// caller decides, using PageMeta occupancy state, whether that prior
// image was a live value.
func writeEntryValue[V any](entry []byte, v V) V {
	prior := readEntryValue[V](entry)
	size := unsafe.Sizeof(v)
	src := unsafe.Slice((*byte)(unsafe.Pointer(&v)), size)
	copy(entry[keyFieldSize:keyFieldSize+uintptr(size)], src)
	return prior
}
