// Package dedupe tracks recently seen event identifiers so redelivered
// Slack events are processed at most once. Capacity is fixed: the oldest
// entry is evicted when a new id would exceed it.
package dedupe

import (
	"container/list"
	"strings"
	"sync"
)

const DefaultCapacity = 1024

type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	index    map[string]*list.Element
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[string]*list.Element, capacity),
	}
}

// Seen reports whether id was already recorded, recording it when it was
// not. A seen id is refreshed to most-recently-used. Blank ids are never
// deduplicated.
func (c *Cache) Seen(id string) bool {
	id = strings.TrimSpace(id)
	if c == nil || id == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[id]; ok {
		c.order.MoveToFront(el)
		return true
	}
	c.index[id] = c.order.PushFront(id)
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.index, oldest.Value.(string))
		}
	}
	return false
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
