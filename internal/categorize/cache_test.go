package categorize

import (
	"fmt"
	"testing"

	"github.com/cardsift/cardsift/internal/model"
)

func probsFor(id string) []model.CategoryProbability {
	return []model.CategoryProbability{{CategoryID: id, Probability: 1}}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache(2)
	c.Put("a", probsFor("a"))
	c.Put("b", probsFor("b"))

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected a to be cached")
	}

	c.Put("c", probsFor("c"))
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should have survived")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("c should be cached")
	}
}

func TestLRUCache_PutExistingUpdates(t *testing.T) {
	c := NewLRUCache(2)
	c.Put("a", probsFor("old"))
	before, _ := c.Get("a")

	c.Put("a", probsFor("new"))
	got, ok := c.Get("a")
	if !ok || got[0].CategoryID != "new" {
		t.Errorf("got %v", got)
	}
	// The re-insert replaces the entry; the previously returned slice is
	// left untouched for any caller still holding it.
	if before[0].CategoryID != "old" {
		t.Errorf("prior read was mutated in place: %v", before)
	}
	if lru := c.(*lruCache); lru.order.Len() != 1 || len(lru.entries) != 1 {
		t.Errorf("re-insert should not grow the cache: list=%d map=%d", lru.order.Len(), len(lru.entries))
	}
}

func TestLRUCache_BoundedUnderChurn(t *testing.T) {
	c := NewLRUCache(8).(*lruCache)
	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("m%d", i), probsFor("x"))
	}
	if c.order.Len() != 8 || len(c.entries) != 8 {
		t.Errorf("cache grew past its bound: list=%d map=%d", c.order.Len(), len(c.entries))
	}
}
