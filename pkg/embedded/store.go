package embedded

import (
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

// Entry is one stored payload plus storage-owned metadata.
type Entry struct {
	Data        []byte
	ContentType string
	Digest      string
	StoredAt    time.Time
}

// Store is a concurrency safe in-memory table.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for Entry.StoredAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{entries: map[string]Entry{}, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Get returns a copy of the entry stored under key.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	return cloneEntry(entry), true
}

// Put stores data under key, replacing any previous entry.
func (s *Store) Put(key string, data []byte, contentType string) Entry {
	entry := Entry{
		Data:        cloneBytes(data),
		ContentType: contentType,
		Digest:      Digest(data),
		StoredAt:    s.now(),
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return cloneEntry(entry)
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return false
	}
	delete(s.entries, key)
	return true
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = map[string]Entry{}
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Keys returns the stored keys sorted alphabetically.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Digest returns the hex encoded BLAKE3-256 digest of data.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func cloneEntry(entry Entry) Entry {
	out := entry
	out.Data = cloneBytes(entry.Data)
	return out
}

func cloneBytes(src []byte) []byte {
	if src == nil {
		return nil
	}
	dst := make([]byte, len(src))
	copy(dst, src)
	return dst
}
