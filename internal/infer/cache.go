package infer

import (
	"container/list"
	"sync"
)

// embedCache is an LRU cache of embeddings keyed by input text. Repeated
// chunks and repeated queries skip the forward pass.
type embedCache struct {
	capacity int
	entries  map[string]*list.Element
	lru      *list.List
	mu       sync.Mutex
}

type embedEntry struct {
	key string
	vec []float32
}

func newEmbedCache(capacity int) *embedCache {
	if capacity <= 0 {
		capacity = 1024
	}
	return &embedCache{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		lru:      list.New(),
	}
}

func (c *embedCache) get(key string) ([]float32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*embedEntry).vec, true
	}
	return nil, false
}

func (c *embedCache) set(key string, vec []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		elem.Value.(*embedEntry).vec = vec
		return
	}

	elem := c.lru.PushFront(&embedEntry{key: key, vec: vec})
	c.entries[key] = elem

	if c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.entries, oldest.Value.(*embedEntry).key)
		}
	}
}
