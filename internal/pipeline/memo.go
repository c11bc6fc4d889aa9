package pipeline

import (
	"time"

	"github.com/ppiankov/posterior/internal/cache"
	"go.uber.org/zap"
)

// Memo caches rendered reports by input content.
// Entries are keyed by the exact input bytes, so an edited input never hits a stale entry.
type Memo struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewMemo wraps c; a nil cache disables memoization
func NewMemo(c cache.Cache, ttl time.Duration, logger *zap.Logger) *Memo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memo{cache: c, ttl: ttl, logger: logger}
}

// Get returns the memoized output for key, or calls compute and stores its result.
// The boolean reports a cache hit. Failed computations are never stored, nor are
// results that compute marks as not cacheable.
func (m *Memo) Get(key string, compute func() (out []byte, cacheable bool, err error)) ([]byte, bool, error) {
	if m == nil || m.cache == nil {
		out, _, err := compute()
		return out, false, err
	}

	if out, ok := m.cache.Get(key); ok {
		m.logger.Debug("Report served from cache", zap.String("key", key))
		return out, true, nil
	}

	out, cacheable, err := compute()
	if err != nil {
		return nil, false, err
	}
	if !cacheable {
		m.logger.Debug("Report not cached", zap.String("key", key))
		return out, false, nil
	}

	if err := m.cache.Set(key, out, m.ttl); err != nil {
		m.logger.Warn("Failed to cache report", zap.String("key", key), zap.Error(err))
	}
	return out, false, nil
}
