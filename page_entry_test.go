package pagebook

import "testing"

func TestEntryKeyRoundTrip(t *testing.T) {
	entry := make([]byte, 9) // 4-byte key + 5-byte value, at an odd offset on purpose
	offsetEntry := append([]byte{0xff}, entry...)[1:]

	prior := writeEntryKey(offsetEntry, NewKey(0x01020304))
	if prior.Uint32() != 0 {
		t.Fatalf("prior key = %#x; want 0", prior.Uint32())
	}
	if got := readEntryKey(offsetEntry); got.Uint32() != 0x01020304 {
		t.Fatalf("readEntryKey = %#x; want 0x01020304", got.Uint32())
	}

	prior = writeEntryKey(offsetEntry, NewKey(0xdeadbeef))
	if prior.Uint32() != 0x01020304 {
		t.Fatalf("prior key = %#x; want 0x01020304", prior.Uint32())
	}
}

type odd5ByteValue struct {
	data [5]byte
}

func TestEntryValueRoundTrip(t *testing.T) {
	entry := make([]byte, keyFieldSize+5)

	v := odd5ByteValue{data: [5]byte{1, 2, 3, 4, 5}}
	prior := writeEntryValue(entry, v)
	if prior != (odd5ByteValue{}) {
		t.Fatalf("prior value = %v; want zero value", prior)
	}

	got := readEntryValue[odd5ByteValue](entry)
	if got != v {
		t.Fatalf("readEntryValue = %v; want %v", got, v)
	}

	// key field must be untouched by value writes
	if readEntryKey(entry).Uint32() != 0 {
		t.Fatal("writeEntryValue must not touch the key field")
	}
}
