package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrItemTooLarge is returned when an item exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

// CacheStats holds cache performance metrics.
type CacheStats struct {
	Capacity  int64   // Maximum capacity in bytes
	Size      int64   // Current size in bytes
	ItemCount int64   // Number of items in cache
	Hits      int64   // Number of cache hits
	Misses    int64   // Number of cache misses
	Evictions int64   // Number of evictions
	HitRate   float64 // hits / (hits + misses)
}

// Key derives the cache key for a synthesis request.
func Key(model, voice, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + voice + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
