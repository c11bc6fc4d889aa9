package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// keyPrefix is bumped whenever the cached report layout changes
const keyPrefix = "posterior:v1:"

// Cache stores rendered reports by content key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the render format and the raw input bytes.
// Any edit to the input produces a different key.
func Key(format string, input []byte) string {
	h := sha256.New()
	h.Write([]byte(format))
	h.Write([]byte{0})
	h.Write(input)
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
