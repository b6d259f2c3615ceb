package pagebook

import "testing"

func TestVacantSetPopMinOrder(t *testing.T) {
	s := newVacantSet(8)
	for _, v := range []uint32{5, 1, 9, 3, 7} {
		s.Insert(v)
	}

	want := []uint32{1, 3, 5, 7, 9}
	for _, w := range want {
		got, ok := s.PopMin()
		if !ok || got != w {
			t.Fatalf("PopMin() = %d, %v; want %d, true", got, ok, w)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d; want 0", s.Len())
	}
	if _, ok := s.PopMin(); ok {
		t.Fatal("PopMin on empty set reported ok")
	}
}

func TestVacantSetRemoveArbitrary(t *testing.T) {
	s := newVacantSet(8)
	for i := uint32(0); i < 8; i++ {
		s.Insert(i)
	}

	s.Remove(3)
	if s.Contains(3) {
		t.Fatal("Remove(3) did not remove 3")
	}
	if s.Len() != 7 {
		t.Fatalf("Len() = %d; want 7", s.Len())
	}

	want := []uint32{0, 1, 2, 4, 5, 6, 7}
	for _, w := range want {
		got, ok := s.PopMin()
		if !ok || got != w {
			t.Fatalf("PopMin() = %d, %v; want %d, true", got, ok, w)
		}
	}
}

func TestVacantSetInsertIsIdempotent(t *testing.T) {
	s := newVacantSet(4)
	s.Insert(1)
	s.Insert(1)
	if s.Len() != 1 {
		t.Fatalf("Len() = %d; want 1 after duplicate Insert", s.Len())
	}
}
