// Package cache memoizes successful analysis results on disk so a repeated
// (provider, code) pair never triggers a second paid call.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/reviewlens/reviewlens/apimodels"
)

const storeFile = "analysis_cache.json"

// Store is a content-addressed result cache: a single JSON object on disk,
// loaded wholesale at startup and rewritten wholesale on every write, with
// an in-memory layer in front. The whole-file rewrite is acceptable for a
// low-frequency, single-process workload; concurrent processes would need
// file locking or an embedded store instead.
type Store struct {
	mu      sync.Mutex
	path    string
	mem     *gocache.Cache
	entries map[string]apimodels.AnalysisResult
	logger  *slog.Logger
}

// New opens (or creates) the store under dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	s := &Store{
		path:    filepath.Join(dir, storeFile),
		mem:     gocache.New(5*time.Minute, 10*time.Minute),
		entries: make(map[string]apimodels.AnalysisResult),
		logger:  slog.Default().With("component", "cache"),
	}
	s.load()
	return s, nil
}

// Key derives the cache key for a (provider, model, code) triple. The
// provider and model identities are part of the key so the same code
// analyzed by two backends never collides.
func Key(providerID, model, code string) string {
	h := sha256.New()
	h.Write([]byte(providerID))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the memoized result for key, if any.
func (s *Store) Get(key string) (apimodels.AnalysisResult, bool) {
	if v, ok := s.mem.Get(key); ok {
		return v.(apimodels.AnalysisResult), true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.entries[key]
	if ok {
		s.mem.SetDefault(key, res)
	}
	return res, ok
}

// Put memoizes a successful result. Failures are never cached so transient
// errors do not stick; they are simply retried on the next request.
func (s *Store) Put(key string, res apimodels.AnalysisResult) error {
	if res.Failed() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = res
	s.mem.SetDefault(key, res)
	return s.save()
}

// Len reports the number of persisted entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read cache file", "path", s.path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		// A corrupt store is discarded rather than blocking startup.
		s.logger.Warn("discarding unreadable cache file", "path", s.path, "error", err)
		s.entries = make(map[string]apimodels.AnalysisResult)
		return
	}
	s.logger.Info("loaded cached analyses", "count", len(s.entries))
}

func (s *Store) save() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
