package market

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"poeflow/logger"
)

// Cache stores the raw validated lines of one (league, category) pair as
// a JSON file, using the file's mtime as the freshness marker. Writes
// replace the whole file, so concurrent runs can at worst duplicate a
// fetch, never corrupt an entry.
type Cache struct {
	dir string
	ttl time.Duration
	log *logger.Log
}

func NewCache(dir string, ttl time.Duration) *Cache {
	return &Cache{
		dir: dir,
		ttl: ttl,
		log: logger.GetLogger(),
	}
}

func (c *Cache) path(league, category string) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.json", league, category))
}

// Load returns the cached lines for the pair if the entry exists and is
// still within the TTL.
func (c *Cache) Load(league, category string) ([]line, bool) {
	path := c.path(league, category)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) >= c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		c.log.WithComponent("cache").WithError(err).Warn("failed to read cache file")
		return nil, false
	}

	var lines []line
	if err := json.Unmarshal(data, &lines); err != nil {
		c.log.WithComponent("cache").WithError(err).WithFields(logger.Fields{
			"path": path,
		}).Warn("discarding unreadable cache entry")
		return nil, false
	}

	return lines, true
}

// Store writes the lines for the pair, overwriting any previous entry.
func (c *Cache) Store(league, category string, lines []line) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := os.WriteFile(c.path(league, category), data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}
