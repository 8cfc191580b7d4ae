package app

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/die-net/lrucache"
)

const maxCacheAge = int64(time.Hour / time.Second)

// responseCache holds encoded responses of pure endpoints, keyed by a digest
// of everything the response depends on. A nil cache stores nothing.
type responseCache struct {
	lru *lrucache.LruCache
}

func newResponseCache(maxBytes int64) *responseCache {
	if maxBytes <= 0 {
		return nil
	}
	return &responseCache{lru: lrucache.New(maxBytes, maxCacheAge)}
}

func (rc *responseCache) get(key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	return rc.lru.Get(key)
}

func (rc *responseCache) set(key string, data []byte) {
	if rc == nil {
		return
	}
	rc.lru.Set(key, data)
}

// cacheKey digests the parts with length prefixes so that no two part lists
// collide.
func cacheKey(kind string, parts ...string) string {
	hash := sha256.New()
	var buf []byte
	for _, part := range append([]string{kind}, parts...) {
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(len(part)))
		buf = append(buf, part...)
		_, _ = hash.Write(buf)
	}
	return hex.EncodeToString(hash.Sum(nil))
}
