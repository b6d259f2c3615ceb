package pagebook

import "github.com/pagebook/pagebook/internal/fastmap"

// vacantSet is an ordered set of uint32 slot indices supporting O(log n)
// minimum extraction, insertion, and arbitrary removal. It backs both
// PageMeta's vacant-index set and Book's partial-page set (spec.md §9:
// "vacant_indices and partial are ordered sets because their minimum is
// selected on insert; this is part of the contract, not an
// implementation preference").
//
// Implemented as a binary min-heap with a position index (reusing
// fastmap.Uint32Map) so that Remove(v) doesn't require a linear scan.
type vacantSet struct {
	heap []uint32
	pos  *fastmap.Uint32Map // value -> index into heap
}

func newVacantSet(capHint int) *vacantSet {
	return &vacantSet{
		heap: make([]uint32, 0, capHint),
		pos:  fastmap.NewUint32Map(capHint),
	}
}

func (s *vacantSet) Len() int {
	return len(s.heap)
}

func (s *vacantSet) Contains(v uint32) bool {
	return s.pos.Has(v)
}

// Min returns the smallest member and true, or (0, false) if empty.
func (s *vacantSet) Min() (uint32, bool) {
	if len(s.heap) == 0 {
		return 0, false
	}
	return s.heap[0], true
}

// PopMin removes and returns the smallest member.
func (s *vacantSet) PopMin() (uint32, bool) {
	v, ok := s.Min()
	if !ok {
		return 0, false
	}
	s.Remove(v)
	return v, true
}

// Insert adds v to the set. Inserting a value already present is a no-op.
func (s *vacantSet) Insert(v uint32) {
	if s.pos.Has(v) {
		return
	}
	s.heap = append(s.heap, v)
	i := len(s.heap) - 1
	s.pos.Set(v, uint32(i))
	s.siftUp(i)
}

// Remove deletes v from the set if present.
func (s *vacantSet) Remove(v uint32) {
	i, ok := s.pos.Get(v)
	if !ok {
		return
	}
	last := len(s.heap) - 1
	s.swap(int(i), last)
	s.heap = s.heap[:last]
	s.pos.Delete(v)
	if int(i) < last {
		s.siftDown(int(i))
		s.siftUp(int(i))
	}
}

func (s *vacantSet) swap(i, j int) {
	s.heap[i], s.heap[j] = s.heap[j], s.heap[i]
	s.pos.Set(s.heap[i], uint32(i))
	s.pos.Set(s.heap[j], uint32(j))
}

func (s *vacantSet) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if s.heap[parent] <= s.heap[i] {
			break
		}
		s.swap(parent, i)
		i = parent
	}
}

func (s *vacantSet) siftDown(i int) {
	n := len(s.heap)
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < n && s.heap[left] < s.heap[smallest] {
			smallest = left
		}
		if right < n && s.heap[right] < s.heap[smallest] {
			smallest = right
		}
		if smallest == i {
			return
		}
		s.swap(i, smallest)
		i = smallest
	}
}

// forEach calls fn for every member, in unspecified order.
func (s *vacantSet) forEach(fn func(v uint32)) {
	for _, v := range s.heap {
		fn(v)
	}
}
