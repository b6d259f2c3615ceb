package pagebook

import (
	"path/filepath"
	"testing"
)

func TestPageCreateInsertGetDelete(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0")

	p, err := createPage[fixedValue](path, 128)
	if err != nil {
		t.Fatalf("createPage: %v", err)
	}
	defer p.Close()

	if p.Len() != 0 || p.IsFull() {
		t.Fatal("fresh page should be empty and not full")
	}

	k := NewKey(7)
	v := fixedValue{b: 42}
	if prior, err := p.Insert(k, v); err != nil || prior != nil {
		t.Fatalf("Insert(new key) = %v, %v; want nil, nil", prior, err)
	}

	if !p.ContainsKey(k) {
		t.Fatal("page should contain key 7 after insert")
	}
	if p.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", p.Len())
	}

	got, err := p.GetByKey(k)
	if err != nil || got.b != 42 {
		t.Fatalf("GetByKey = %v, %v; want {42}, nil", got, err)
	}

	// Insert of an existing key replaces the value and returns the prior one.
	prior, err := p.Insert(k, fixedValue{b: 99})
	if err != nil || prior == nil || prior.b != 42 {
		t.Fatalf("Insert(existing key) = %v, %v; want &{42}, nil", prior, err)
	}
	got, _ = p.GetByKey(k)
	if got.b != 99 {
		t.Fatalf("value after replace = %v; want {99}", got)
	}

	if err := p.Delete(k); err != nil {
		t.Fatalf("Delete(7) failed: %v", err)
	}
	if p.ContainsKey(k) {
		t.Fatal("key 7 still present after delete")
	}
	if err := p.Delete(k); !IsKeyNotFound(err) {
		t.Fatalf("Delete of absent key = %v; want ErrKeyNotFound", err)
	}
}

func TestPageInsertSetsBitmapBit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0")

	p, err := createPage[fixedValue](path, 128)
	if err != nil {
		t.Fatal(err)
	}

	k := NewKey(3)
	if _, err := p.Insert(k, fixedValue{b: 1}); err != nil {
		t.Fatal(err)
	}
	idx, ok := p.LookupIndex(k)
	if !ok {
		t.Fatal("key not found after insert")
	}
	if p.layout.slotIsVacant(p.mm.Data(), idx.Uint32()) {
		t.Fatal("bitmap bit must be set after Page.Insert's no-key path (spec.md §9)")
	}
	p.Close()
}

func TestPageCreateThenOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0")

	p, err := createPage[fixedValue](path, 128)
	if err != nil {
		t.Fatal(err)
	}
	for k := uint32(0); k < 5; k++ {
		if _, err := p.Insert(NewKey(k), fixedValue{b: byte(k)}); err != nil {
			t.Fatalf("Insert(%d): %v", k, err)
		}
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := openPage[fixedValue](path, 128)
	if err != nil {
		t.Fatalf("openPage: %v", err)
	}
	defer reopened.Close()

	if reopened.Len() != 5 {
		t.Fatalf("Len() after reopen = %d; want 5", reopened.Len())
	}
	for k := uint32(0); k < 5; k++ {
		v, err := reopened.GetByKey(NewKey(k))
		if err != nil || v.b != byte(k) {
			t.Fatalf("GetByKey(%d) after reopen = %v, %v; want {%d}, nil", k, v, err, k)
		}
	}
}

func TestOpenPageRejectsWrongLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0")

	p, err := createPage[fixedValue](path, 128)
	if err != nil {
		t.Fatal(err)
	}
	p.Close()

	if _, err := openPage[fixedValue](path, 256); !IsCorrupt(err) {
		t.Fatalf("openPage with mismatched PAGE_BYTES = %v; want ErrCorrupt", err)
	}
}

func TestPageFillsUpToCapacityThenFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0")

	p, err := createPage[fixedValue](path, 128)
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	cap := p.layout.Capacity()
	for k := uint32(0); k < cap; k++ {
		if _, err := p.Insert(NewKey(k), fixedValue{b: byte(k)}); err != nil {
			t.Fatalf("Insert(%d) failed before capacity reached: %v", k, err)
		}
	}
	if !p.IsFull() {
		t.Fatal("page should be full after inserting Capacity() distinct keys")
	}
	if _, err := p.Insert(NewKey(cap), fixedValue{b: 1}); !IsPageFull(err) {
		t.Fatalf("Insert beyond capacity = %v; want ErrPageFull", err)
	}
}
