package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketMovies = []byte("movies")
)

// Keys inside bucketMovies
const (
	keyList    = "list"
	keySavedAt = "saved_at"
)

// SnapshotStore implements domain.SnapshotStore using BoltDB.
type SnapshotStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory copy of the last written or read values
	cache map[string][]byte
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore opens the snapshot database for a backend. Each backend
// gets its own subdirectory so switching endpoints never mixes collections.
// An empty baseDir gives a memory-only store.
func NewSnapshotStore(baseDir, backendURL string) (*SnapshotStore, error) {
	if baseDir == "" {
		// Memory-only mode (no persistence)
		return &SnapshotStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseDir
	if backendURL != "" {
		dir = filepath.Join(baseDir, hashBackendURL(backendURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "reel.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketMovies)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SnapshotStore{db: db, cache: make(map[string][]byte)}, nil
}

func hashBackendURL(backendURL string) string {
	normalized := strings.TrimRight(strings.ToLower(backendURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SnapshotStore) get(key string, dest any) bool {
	s.mu.RLock()
	if data, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMovies)
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

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

// setAll writes every key in a single transaction
func (s *SnapshotStore) setAll(values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for k, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded[k] = data
	}

	s.mu.Lock()
	for k, data := range encoded {
		s.cache[k] = data
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMovies)
		for k, data := range encoded {
			if err := b.Put([]byte(k), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMovies returns the last saved working set
func (s *SnapshotStore) GetMovies() ([]domain.Movie, bool) {
	var movies []domain.Movie
	ok := s.get(keyList, &movies)
	return movies, ok
}

// SaveMovies replaces the stored working set
func (s *SnapshotStore) SaveMovies(movies []domain.Movie) error {
	if movies == nil {
		movies = []domain.Movie{}
	}
	return s.setAll(map[string]any{
		keyList:    movies,
		keySavedAt: time.Now().Unix(),
	})
}

// SavedAt reports when the working set was last saved
func (s *SnapshotStore) SavedAt() (time.Time, bool) {
	var ts int64
	if !s.get(keySavedAt, &ts) {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}

// Clear removes the stored working set
func (s *SnapshotStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMovies)
		if b == nil {
			return nil
		}
		var keys [][]byte
		b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		})
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
