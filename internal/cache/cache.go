package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/sportcast/internal/logger"
)

// DefaultTTL is used when Save is called with a negative TTL override.
const DefaultTTL = time.Hour

// entry is the on-disk envelope for one cached value.
type entry struct {
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	Timestamp float64         `json:"timestamp"`
	ExpiresAt float64         `json:"expires_at"`
	TTL       float64         `json:"ttl"`
}

// Store handles persistence of cached payloads with expiry.
type Store struct {
	dir        string
	defaultTTL time.Duration
	log        *logger.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
// A ~ prefix expands to the user's home directory.
func New(dir string, defaultTTL time.Duration, log *logger.Logger) (*Store, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	return &Store{
		dir:        dir,
		defaultTTL: defaultTTL,
		log:        log,
	}, nil
}

// Dir returns the resolved cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// path returns the backing file for a key. The key is sanitized so that only
// alphanumerics, '-' and '_' survive; everything else becomes '_'.
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitizeKey(key)+".json")
}

func sanitizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// Save serializes value and persists it under key with the given TTL.
// A negative ttl falls back to the store's default; a zero ttl produces an
// entry that is already expired on the next Load. Any existing entry under
// the same key is overwritten.
func (s *Store) Save(key string, value interface{}, ttl time.Duration) error {
	if ttl < 0 {
		ttl = s.defaultTTL
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding cache payload: %w", err)
	}

	now := float64(time.Now().UnixNano()) / float64(time.Second)
	env := entry{
		Key:       key,
		Data:      payload,
		Timestamp: now,
		ExpiresAt: now + ttl.Seconds(),
		TTL:       ttl.Seconds(),
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	if err := os.WriteFile(s.path(key), data, 0644); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}

	s.log.Debug("cache saved", logger.Fields{"key": key, "ttl_seconds": ttl.Seconds()})
	return nil
}

// Load reads the entry under key into dst and reports whether it was found.
// Missing files, unreadable or corrupt entries, and expired entries all count
// as misses; an expired entry is eagerly deleted as a side effect.
func (s *Store) Load(key string, dst interface{}) bool {
	path := s.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Debug("cache miss", logger.Fields{"key": key})
		return false
	}

	var env entry
	if err := json.Unmarshal(data, &env); err != nil {
		// Corrupt entry: treat as a miss and drop the file.
		s.log.Debug("cache entry corrupt", logger.Fields{"key": key})
		os.Remove(path)
		return false
	}

	if nowSeconds() > env.ExpiresAt {
		s.log.Debug("cache expired", logger.Fields{"key": key})
		s.Delete(key)
		return false
	}

	if err := json.Unmarshal(env.Data, dst); err != nil {
		s.log.Debug("cache payload unreadable", logger.Fields{"key": key})
		os.Remove(path)
		return false
	}

	s.log.Debug("cache hit", logger.Fields{"key": key})
	return true
}

// Delete removes the entry under key, reporting whether a file was removed.
func (s *Store) Delete(key string) bool {
	path := s.path(key)
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		s.log.Error("cache delete failed", logger.Fields{"key": key}, err)
		return false
	}
	s.log.Debug("cache deleted", logger.Fields{"key": key})
	return true
}

// ClearAll removes every cache file and returns the number removed.
func (s *Store) ClearAll() int {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0
	}

	count := 0
	for _, f := range files {
		if err := os.Remove(f); err == nil {
			count++
		}
	}

	s.log.Info("cache cleared", logger.Fields{"removed": count})
	return count
}

// CleanupExpired scans all entries and deletes any whose expiry has passed or
// whose envelope fails to parse. It returns the number of files removed.
// Invoked once at process start, not periodically.
func (s *Store) CleanupExpired() int {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return 0
	}

	count := 0
	now := nowSeconds()
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}

		var env entry
		if err := json.Unmarshal(data, &env); err != nil {
			// Unparseable file: remove it.
			if os.Remove(f) == nil {
				count++
			}
			continue
		}

		if now > env.ExpiresAt {
			if os.Remove(f) == nil {
				count++
			}
		}
	}

	if count > 0 {
		s.log.Info("expired cache cleaned", logger.Fields{"removed": count})
	}
	return count
}

// Info summarizes the state of the cache directory.
type Info struct {
	TotalFiles   int    `json:"total_files"`
	ExpiredFiles int    `json:"expired_files"`
	ValidFiles   int    `json:"valid_files"`
	TotalBytes   int64  `json:"total_size_bytes"`
	Dir          string `json:"cache_dir"`
}

// Stat reports counts and sizes across all cache files. Unparseable files
// count as expired.
func (s *Store) Stat() Info {
	info := Info{Dir: s.dir}

	files, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return info
	}

	now := nowSeconds()
	for _, f := range files {
		info.TotalFiles++
		if fi, err := os.Stat(f); err == nil {
			info.TotalBytes += fi.Size()
		}

		data, err := os.ReadFile(f)
		if err != nil {
			info.ExpiredFiles++
			continue
		}
		var env entry
		if err := json.Unmarshal(data, &env); err != nil || now > env.ExpiresAt {
			info.ExpiredFiles++
		}
	}

	info.ValidFiles = info.TotalFiles - info.ExpiredFiles
	return info
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
