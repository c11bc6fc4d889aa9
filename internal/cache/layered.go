package cache

import (
	"time"

	"github.com/ppiankov/posterior/internal/model"
	"go.uber.org/zap"
)

// LayeredCache checks memory first and falls back to disk
type LayeredCache struct {
	memory *MemoryCache
	disk   *DiskCache
	logger *zap.Logger
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memoryTTL time.Duration, diskDir string, diskTTL time.Duration, logger *zap.Logger) *LayeredCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LayeredCache{
		memory: NewMemoryCache(memoryTTL, 10*time.Minute),
		disk:   NewDiskCache(diskDir, diskTTL),
		logger: logger,
	}
}

// FromConfig builds the layered cache described by cfg
func FromConfig(cfg model.CacheConfig, logger *zap.Logger) *LayeredCache {
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL, logger)
}

// Get retrieves a value, promoting disk hits into memory
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		c.logger.Debug("Cache hit", zap.String("layer", "memory"), zap.String("key", key))
		return val, true
	}

	if val, found := c.disk.Get(key); found {
		c.logger.Debug("Cache hit", zap.String("layer", "disk"), zap.String("key", key))
		_ = c.memory.Set(key, val, 0)
		return val, true
	}

	c.logger.Debug("Cache miss", zap.String("key", key))
	return nil, false
}

// Set stores a value in both layers.
// A disk failure is logged and the memory copy is kept.
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}

	if err := c.disk.Set(key, value, ttl); err != nil {
		c.logger.Warn("Disk cache write failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	_ = c.memory.Delete(key)
	return c.disk.Delete(key)
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	_ = c.memory.Clear()
	return c.disk.Clear()
}

// Len reports the number of entries persisted on disk
func (c *LayeredCache) Len() int {
	return c.disk.Len()
}

// Prune drops expired disk entries
func (c *LayeredCache) Prune() (int, error) {
	return c.disk.Prune()
}
