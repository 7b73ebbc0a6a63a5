// Package audio holds the narration cache and the PCM decoding contract
// for synthesized speech.
package audio

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Generator produces raw PCM bytes for a cache key, typically by calling
// the inference boundary's audio-synthesis mode.
type Generator func(ctx context.Context) ([]byte, error)

// Cache memoizes generated narration audio for the process lifetime.
// There is no eviction: the working set is the landmark registry plus a
// handful of phrases. Failed generations are never cached; the next
// request for the same key retries. Concurrent requests for one key
// collapse into a single generator invocation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

// GuideKey keys the narration audio for a landmark guide.
func GuideKey(landmarkName string) string { return "guide:" + landmarkName }

// PhraseKey keys the pronunciation audio for a phrase.
func PhraseKey(phrase string) string { return "phrase:" + phrase }

// Get returns the cached audio for key, invoking gen on a miss.
func (c *Cache) Get(ctx context.Context, key string, gen Generator) ([]byte, error) {
	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check: another flight may have filled the entry between the
		// read above and joining the group.
		c.mu.RLock()
		data, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return data, nil
		}

		data, err := gen(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = data
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
