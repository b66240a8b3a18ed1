package io

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/dot5enko/pointindex/schema"
	"golang.org/x/sync/singleflight"
)

type CacheStats struct {
	Reads   int
	Created time.Time
}

type cacheEntry struct {
	value any
	stats CacheStats
}

// FileCache shares parsed auxiliary files between index builders. Concurrent
// requests for the same file are collapsed into one load.
type FileCache struct {
	entries map[string]*cacheEntry
	locker  sync.RWMutex

	loadGroup singleflight.Group
}

func NewFileCache() *FileCache {
	return &FileCache{
		entries: map[string]*cacheEntry{},
	}
}

func cacheKey(kind, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return kind + ":" + abs
}

func (c *FileCache) lookup(key string) (any, bool) {

	c.locker.Lock()
	defer c.locker.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	entry.stats.Reads++

	return entry.value, true
}

func cachedLoad[T any](c *FileCache, kind, path string, load func(string) (T, error)) (T, error) {

	key := cacheKey(kind, path)

	if v, ok := c.lookup(key); ok {
		return v.(T), nil
	}

	v, err, shared := c.loadGroup.Do(key, func() (any, error) {

		// a concurrent Do may have finished between lookup and Do
		if v, ok := c.lookup(key); ok {
			return v, nil
		}

		loaded, loadErr := load(path)
		if loadErr != nil {
			return nil, loadErr
		}

		c.locker.Lock()
		c.entries[key] = &cacheEntry{
			value: loaded,
			stats: CacheStats{Created: time.Now(), Reads: 1},
		}
		c.locker.Unlock()

		slog.Debug("loaded auxiliary file", "kind", kind, "path", path)

		return loaded, nil
	})

	if err != nil {
		var empty T
		return empty, fmt.Errorf("unable to load %s file %s: %s", kind, path, err.Error())
	}

	if shared {
		slog.Debug("shared auxiliary file load", "kind", kind, "path", path)
	}

	return v.(T), nil
}

func (c *FileCache) Mapping(path string) (*CorrelationMapping, error) {
	return cachedLoad(c, "mapping", path, LoadMapping)
}

func (c *FileCache) TargetBuckets(path string) (TargetBuckets, error) {
	return cachedLoad(c, "target_buckets", path, LoadTargetBuckets)
}

func (c *FileCache) OutlierList(path string) (schema.IndexList, error) {
	return cachedLoad(c, "outliers", path, LoadOutlierList)
}

func (c *FileCache) SingleColumnMapping(path string) (*SingleColumnMapping, error) {
	return cachedLoad(c, "single_column", path, LoadSingleColumnMapping)
}

func (c *FileCache) LinearModel(path string) (*LinearModel, error) {
	return cachedLoad(c, "linear", path, LoadLinearModel)
}

// Stats returns read counters per cached file.
func (c *FileCache) Stats() map[string]CacheStats {

	c.locker.RLock()
	defer c.locker.RUnlock()

	out := make(map[string]CacheStats, len(c.entries))
	for k, e := range c.entries {
		out[k] = e.stats
	}

	return out
}
