package embedded

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestStorePutOverwritesSameKey(t *testing.T) {
	store := New()
	store.Put("Project/json/0", []byte("first"), "application/json")
	store.Put("Project/json/0", []byte("second"), "application/json")

	if store.Len() != 1 {
		t.Fatalf("expected single entry after overwrite, got %d", store.Len())
	}
	entry, ok := store.Get("Project/json/0")
	if !ok {
		t.Fatalf("expected entry")
	}
	if string(entry.Data) != "second" {
		t.Fatalf("expected overwritten data, got %q", entry.Data)
	}
	if entry.Digest != Digest([]byte("second")) {
		t.Fatalf("expected digest of latest data")
	}
}

func TestStoreGetReturnsCopies(t *testing.T) {
	store := New()
	data := []byte("abc")
	store.Put("k", data, "")
	data[0] = 'z'

	entry, _ := store.Get("k")
	if string(entry.Data) != "abc" {
		t.Fatalf("expected stored data isolated from caller slice, got %q", entry.Data)
	}
	entry.Data[0] = 'y'
	again, _ := store.Get("k")
	if string(again.Data) != "abc" {
		t.Fatalf("expected stored data isolated from returned slice, got %q", again.Data)
	}
}

func TestStoreMissingKey(t *testing.T) {
	store := New()
	if _, ok := store.Get("missing"); ok {
		t.Fatalf("expected miss")
	}
	if store.Delete("missing") {
		t.Fatalf("expected delete of missing key to report false")
	}
}

func TestStoreClearDeleteAndKeys(t *testing.T) {
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := New(WithClock(func() time.Time { return fixed }))
	store.Put("b", []byte("2"), "")
	entry := store.Put("a", []byte("1"), "")
	if !entry.StoredAt.Equal(fixed) {
		t.Fatalf("expected injected clock, got %v", entry.StoredAt)
	}

	keys := store.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Fatalf("expected sorted keys, got %v", keys)
	}
	if !store.Delete("a") {
		t.Fatalf("expected delete to report true")
	}
	store.Clear()
	if store.Len() != 0 {
		t.Fatalf("expected empty store after clear")
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("Sound/wav/%d", i%4)
			store.Put(key, []byte{byte(i)}, "audio/x-wav")
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()
	if store.Len() != 4 {
		t.Fatalf("expected 4 distinct keys, got %d", store.Len())
	}
}
