package cache

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// Cache stores extracted references on disk, keyed by the content hash of
// the file they were extracted from.
type Cache struct {
	fs      afero.Fs
	dir     string
	ttl     time.Duration
	enabled bool
}

// Entry represents a cached extraction.
type Entry struct {
	Hash       string    `json:"hash"`
	Timestamp  time.Time `json:"timestamp"`
	References []string  `json:"references"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithFs sets the filesystem entries are stored on.
func WithFs(fs afero.Fs) Option {
	return func(c *Cache) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// New creates a new cache instance. A disabled cache never hits and never writes.
func New(dir string, ttlHours int, enabled bool, opts ...Option) (*Cache, error) {
	c := &Cache{
		fs:      afero.NewOsFs(),
		dir:     dir,
		ttl:     time.Duration(ttlHours) * time.Hour,
		enabled: enabled,
	}
	for _, opt := range opts {
		opt(c)
	}
	if !enabled {
		return c, nil
	}

	if err := c.fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}
	return c, nil
}

// Enabled reports whether the cache reads and writes entries.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashBytes computes a BLAKE3 hash of bytes and returns it as a hex string.
func HashBytes(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Get returns the references stored for hash if present and not expired.
func (c *Cache) Get(hash string) ([]string, bool) {
	if !c.enabled {
		return nil, false
	}

	path := c.keyPath(hash)
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	// Different content landing on the same file name.
	if entry.Hash != hash {
		return nil, false
	}

	if c.ttl > 0 && time.Since(entry.Timestamp) > c.ttl {
		_ = c.fs.Remove(path)
		return nil, false
	}

	return entry.References, true
}

// Put stores refs under hash.
func (c *Cache) Put(hash string, refs []string) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(Entry{
		Hash:       hash,
		Timestamp:  time.Now(),
		References: refs,
	})
	if err != nil {
		return err
	}

	return afero.WriteFile(c.fs, c.keyPath(hash), data, 0600)
}

// Clear removes all cache entries. The cache stays usable afterwards.
func (c *Cache) Clear() error {
	if !c.enabled {
		return nil
	}
	if err := c.fs.RemoveAll(c.dir); err != nil {
		return err
	}
	return c.fs.MkdirAll(c.dir, 0755)
}

// keyPath maps a content hash to a short file name.
func (c *Cache) keyPath(hash string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x.json", xxhash.Sum64String(hash)))
}

// Stats returns cache statistics.
type Stats struct {
	Entries   int           `json:"entries"`
	TotalSize int64         `json:"total_size"`
	OldestAge time.Duration `json:"oldest_age"`
}

// GetStats returns statistics about the cache.
func (c *Cache) GetStats() (*Stats, error) {
	if !c.enabled {
		return &Stats{}, nil
	}

	stats := &Stats{}
	var oldest time.Time

	err := afero.Walk(c.fs, c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		stats.Entries++
		stats.TotalSize += info.Size()
		if oldest.IsZero() || info.ModTime().Before(oldest) {
			oldest = info.ModTime()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !oldest.IsZero() {
		stats.OldestAge = time.Since(oldest)
	}
	return stats, nil
}
