package categorize

import (
	"container/list"
	"sync"

	"github.com/cardsift/cardsift/internal/model"
)

// ProbabilityCache stores model-produced category distributions per merchant.
// Implementations must be safe for concurrent use by pool workers; a race
// between two workers populating the same merchant costs a redundant model
// call, never a lost update.
type ProbabilityCache interface {
	Get(merchant string) ([]model.CategoryProbability, bool)
	Put(merchant string, probs []model.CategoryProbability)
}

// DefaultCacheSize bounds the per-pipeline merchant cache.
const DefaultCacheSize = 512

// lruCache is a bounded LRU ProbabilityCache. It lives for the lifetime of
// the pipeline that owns it and is never persisted.
type lruCache struct {
	mu      sync.Mutex
	cap     int
	order   *list.List               // front = most recently used
	entries map[string]*list.Element // merchant -> element holding *cacheEntry
}

type cacheEntry struct {
	merchant string
	probs    []model.CategoryProbability
}

// NewLRUCache creates a bounded merchant probability cache. Size <= 0 falls
// back to DefaultCacheSize.
func NewLRUCache(size int) ProbabilityCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &lruCache{
		cap:     size,
		order:   list.New(),
		entries: make(map[string]*list.Element, size),
	}
}

func (c *lruCache) Get(merchant string) ([]model.CategoryProbability, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[merchant]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).probs, true
}

func (c *lruCache) Put(merchant string, probs []model.CategoryProbability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Entries are immutable once inserted; a re-insert evicts the old entry
	// and pushes a fresh one rather than rewriting the stored value.
	if el, ok := c.entries[merchant]; ok {
		c.order.Remove(el)
		delete(c.entries, merchant)
	}
	el := c.order.PushFront(&cacheEntry{merchant: merchant, probs: probs})
	c.entries[merchant] = el
	if c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).merchant)
	}
}
