// internal/storage/memory/memory_test.go
package memory

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/colortour/hotspot-editor/internal/config"
	"github.com/colortour/hotspot-editor/internal/storage"
)

// Verify Medium implements storage.Medium interface
var _ storage.Medium = (*Medium)(nil)

func TestNew(t *testing.T) {
	m := New(config.MemoryConfig{CapacityBytes: 1024})

	if m == nil {
		t.Fatal("New returned nil")
	}
	if m.Capacity() != 1024 {
		t.Errorf("expected capacity=1024, got %d", m.Capacity())
	}
	if m.values == nil {
		t.Error("values map not initialized")
	}
}

func TestInitAndClose(t *testing.T) {
	m := New(config.MemoryConfig{})

	if err := m.Init(); err != nil {
		t.Errorf("Init failed: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestSetAndGet(t *testing.T) {
	m := New(config.MemoryConfig{})

	if err := m.Set("k", "value"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, ok, err := m.Get("k")
	if err != nil || !ok {
		t.Fatalf("expected key to exist, ok=%v err=%v", ok, err)
	}
	if v != "value" {
		t.Errorf("expected value, got %q", v)
	}
	if m.Used() != 5 {
		t.Errorf("expected used=5, got %d", m.Used())
	}
}

func TestGet_Missing(t *testing.T) {
	m := New(config.MemoryConfig{})

	_, ok, err := m.Get("missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestSet_QuotaExceeded(t *testing.T) {
	m := New(config.MemoryConfig{CapacityBytes: 10})

	if err := m.Set("a", "12345"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	err := m.Set("b", "123456")
	if !errors.Is(err, storage.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	// rejected write leaves previous state intact
	if _, ok, _ := m.Get("b"); ok {
		t.Error("rejected key must not be stored")
	}
	if m.Used() != 5 {
		t.Errorf("expected used=5, got %d", m.Used())
	}
}

func TestSet_OverwriteAccountsForOldValue(t *testing.T) {
	m := New(config.MemoryConfig{CapacityBytes: 10})

	if err := m.Set("a", strings.Repeat("x", 8)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := m.Set("a", strings.Repeat("y", 10)); err != nil {
		t.Fatalf("overwrite within capacity failed: %v", err)
	}
	if m.Used() != 10 {
		t.Errorf("expected used=10, got %d", m.Used())
	}
}

func TestRemoveAndClear(t *testing.T) {
	m := New(config.MemoryConfig{})
	_ = m.Set("a", "1")
	_ = m.Set("b", "22")

	if err := m.Remove("a"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := m.Remove("nonexistent"); err != nil {
		t.Fatalf("Remove of missing key failed: %v", err)
	}
	if _, ok, _ := m.Get("a"); ok {
		t.Error("a should be removed")
	}
	if m.Used() != 2 {
		t.Errorf("expected used=2, got %d", m.Used())
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	entries, _ := m.Entries()
	if len(entries) != 0 {
		t.Errorf("expected no entries after clear, got %d", len(entries))
	}
	if m.Used() != 0 {
		t.Errorf("expected used=0, got %d", m.Used())
	}
}

func TestEntries_Sorted(t *testing.T) {
	m := New(config.MemoryConfig{})
	_ = m.Set("b", "22")
	_ = m.Set("a", "1")

	entries, err := m.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	want := []storage.Entry{{Key: "a", Size: 1}, {Key: "b", Size: 2}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	m := New(config.MemoryConfig{})
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			_ = m.Set("key"+string(rune('A'+id%26)), "v")
		}(i)
		go func(id int) {
			defer wg.Done()
			_, _, _ = m.Get("key" + string(rune('A'+id%26)))
		}(i)
	}
	wg.Wait()
}
