package pagebook

import (
	"sync"
	"testing"
	"time"
)

func TestUpgradableMutexAllowsConcurrentPlainReaders(t *testing.T) {
	var u upgradableMutex
	u.RLock()
	defer u.RUnlock()

	done := make(chan struct{})
	go func() {
		u.RLock()
		u.RUnlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second RLock blocked behind an already-held RLock")
	}
}

func TestUpgradableMutexSerialisesUpgradableReaders(t *testing.T) {
	var u upgradableMutex
	g := u.UpgradableRLock()

	acquired := make(chan struct{})
	go func() {
		g2 := u.UpgradableRLock()
		close(acquired)
		g2.Unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("a second UpgradableRLock succeeded while the first was still held")
	case <-time.After(50 * time.Millisecond):
	}

	g.Unlock()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second UpgradableRLock never acquired after the first was released")
	}
}

func TestUpgradableMutexUpgradeExcludesWriters(t *testing.T) {
	var u upgradableMutex
	var order []string
	var mu sync.Mutex

	g := u.UpgradableRLock()

	writerDone := make(chan struct{})
	go func() {
		u.Lock()
		mu.Lock()
		order = append(order, "writer")
		mu.Unlock()
		u.Unlock()
		close(writerDone)
	}()

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	order = append(order, "upgradable")
	mu.Unlock()

	w := g.Upgrade()
	w.Unlock()

	<-writerDone
	if len(order) != 2 || order[0] != "upgradable" || order[1] != "writer" {
		t.Fatalf("order = %v; want [upgradable writer]", order)
	}
}
