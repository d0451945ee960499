package snapshot

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Store - keeps the most recent Image per camera key. Writes are
// last-write-wins: whatever lands later replaces the previous record
// in one swap, readers never observe a half-written image. All methods
// are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	images map[string]*Image
}

// NewStore - store constructor
func NewStore() *Store {
	return &Store{
		images: make(map[string]*Image),
	}
}

// Put stores img under key, replacing any previous record. The store
// takes ownership of img; callers must not mutate it afterwards.
func (store *Store) Put(key string, img *Image) {
	store.mu.Lock()
	store.images[key] = img
	store.mu.Unlock()

	log.Trace().Str("key", key).Int("bytes", img.Size()).Msg("Snapshot stored")
}

// Get returns the current record for key. The returned Image must be
// treated as read-only.
func (store *Store) Get(key string) (*Image, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	img, ok := store.images[key]
	return img, ok
}

// Keys returns all camera keys with at least one stored snapshot, in
// lexicographic order.
func (store *Store) Keys() []string {
	store.mu.RLock()
	keys := make([]string, 0, len(store.images))
	for key := range store.images {
		keys = append(keys, key)
	}
	store.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// Len returns the number of cameras with a stored snapshot.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.images)
}
