package speech

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// audioCache is a thread-safe in-memory cache for synthesized audio.
// The key is sha256(voice + ":" + text) so a voice change causes
// misses rather than speaking stale audio in the old voice.
type audioCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	voice   string
	hits    int64
	misses  int64
}

func newAudioCache(voice string) *audioCache {
	return &audioCache{
		entries: make(map[string][]byte),
		voice:   voice,
	}
}

func (c *audioCache) get(text string) ([]byte, bool) {
	key := c.key(text)

	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()

	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	return data, ok
}

func (c *audioCache) put(text string, audio []byte) {
	key := c.key(text)
	c.mu.Lock()
	c.entries[key] = audio
	c.mu.Unlock()
}

func (c *audioCache) has(text string) bool {
	key := c.key(text)
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

func (c *audioCache) stats() (hits, misses int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

func (c *audioCache) key(text string) string {
	h := sha256.Sum256([]byte(c.voice + ":" + text))
	return hex.EncodeToString(h[:])
}
