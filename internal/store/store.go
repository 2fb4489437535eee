package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/rsawada/aniterm/internal/domain"
)

// Bucket names
var (
	bucketSession = []byte("session")
	bucketCache   = []byte("cache")
)

// Session storage keys. User and token live under separate keys to mirror
// the two-entry durable storage contract, but every write path goes through
// SaveSession/ClearSession so they change together.
const (
	keySessionUser  = "user"
	keySessionToken = "token"
)

// Store is the durable client-side state: the persisted session plus cached
// read-mostly lists (top anime, genres) used to paint the first frame before
// the network answers. Backed by BoltDB; with an empty dir it runs
// memory-only, which tests use.
type Store struct {
	db *bolt.DB
	mu sync.RWMutex

	// In-memory mirror for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens (or creates) the store under dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		// Memory-only mode (no persistence)
		return &Store{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "aniterm.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSession, bucketCache} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, cache: make(map[string][]byte)}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *Store) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *Store) delete(bucket []byte, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.cache, string(bucket)+":"+key)
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
}

// === Session ===

// LoadSession reads the persisted session. Returns false when no complete
// session is stored; a half-written pair (user without token or vice versa)
// also reads as absent.
func (s *Store) LoadSession() (domain.Session, bool) {
	var user domain.User
	var token string

	hasUser := s.get(bucketSession, keySessionUser, &user)
	hasToken := s.get(bucketSession, keySessionToken, &token)

	if !hasUser || !hasToken || token == "" {
		return domain.Session{}, false
	}
	return domain.Session{User: &user, Token: token}, true
}

// SaveSession persists user and token together.
func (s *Store) SaveSession(sess domain.Session) error {
	if !sess.IsAuthenticated() {
		return fmt.Errorf("refusing to persist incomplete session")
	}
	if err := s.set(bucketSession, keySessionUser, sess.User); err != nil {
		return err
	}
	return s.set(bucketSession, keySessionToken, sess.Token)
}

// ClearSession removes both persisted entries.
func (s *Store) ClearSession() error {
	return s.delete(bucketSession, keySessionUser, keySessionToken)
}

// === Cached lists ===

// GetTopAnime returns the cached top list, if any.
func (s *Store) GetTopAnime() ([]domain.DisplayItem, bool) {
	var items []domain.DisplayItem
	ok := s.get(bucketCache, "top", &items)
	return items, ok
}

// SaveTopAnime caches the top list.
func (s *Store) SaveTopAnime(items []domain.DisplayItem) error {
	return s.set(bucketCache, "top", items)
}

// GetGenres returns the cached genre list, if any.
func (s *Store) GetGenres() ([]string, bool) {
	var genres []string
	ok := s.get(bucketCache, "genres", &genres)
	return genres, ok
}

// SaveGenres caches the genre list.
func (s *Store) SaveGenres(genres []string) error {
	return s.set(bucketCache, "genres", genres)
}

// InvalidateCache drops all cached lists, leaving the session alone.
func (s *Store) InvalidateCache() error {
	return s.delete(bucketCache, "top", "genres")
}
