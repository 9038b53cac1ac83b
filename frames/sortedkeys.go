package frames

import (
	"slices"
	"sync"

	log "github.com/sirupsen/logrus"
)

// SortedKeysCache memoizes the ascending keys of a FrameMap.
// A nil keys slice means the cache has to be rebuilt.
type SortedKeysCache struct {
	mu   sync.Mutex
	keys []int
}

// Get returns the cached keys, rebuilding them from keysOf when the cache is dirty.
// The returned slice must not be modified.
func (c *SortedKeysCache) Get(keysOf func() []int) []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.keys != nil {
		return c.keys
	}
	keys := keysOf()
	if keys == nil {
		keys = []int{}
	}
	slices.Sort(keys)
	log.Tracef("sorted keys rebuilt: %d keys", len(keys))
	c.keys = keys
	return c.keys
}

func (c *SortedKeysCache) Invalidate() {
	c.mu.Lock()
	c.keys = nil
	c.mu.Unlock()
}

func (c *SortedKeysCache) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keys != nil
}
