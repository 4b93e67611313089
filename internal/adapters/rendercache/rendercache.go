// Package rendercache keeps rendered chart bytes so an immutable plot is
// encoded at most once per output kind.
package rendercache

import (
	"context"
	"sync"
	"sync/atomic"
)

// RenderFunc produces the bytes for a key on a cache miss.
type RenderFunc func(ctx context.Context) ([]byte, error)

// Cache stores rendered output by key.
type Cache interface {
	// GetOrRender returns the cached bytes for key, calling render on a miss.
	// Failed renders are not stored. hit reports whether render was skipped.
	GetOrRender(ctx context.Context, key string, render RenderFunc) (out []byte, hit bool, err error)

	// Invalidate drops key.
	Invalidate(ctx context.Context, key string)

	// Purge drops every entry.
	Purge(ctx context.Context)

	Size() int64
}

// node is one entry in the insertion-ordered list, newest first.
type node struct {
	key  string
	data []byte
	next *node
}

func (n *node) reset() {
	n.key = ""
	n.data = nil
	n.next = nil
}

// inMemoryCache evicts the oldest entry once maxSize is reached. With
// maxSize <= 0 it never evicts.
type inMemoryCache struct {
	mu       sync.Mutex
	entries  map[string]*node
	head     *node
	maxSize  int
	size     atomic.Int64
	nodePool sync.Pool
}

// New creates an in-memory cache.
func New(opts ...Option) Cache {
	c := &inMemoryCache{
		maxSize: 16,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.entries = make(map[string]*node)
	c.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}
	return c
}

// GetOrRender holds the lock across render, so concurrent misses on the
// same key render once.
func (c *inMemoryCache) GetOrRender(ctx context.Context, key string, render RenderFunc) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		return n.data, true, nil
	}

	data, err := render(ctx)
	if err != nil {
		return nil, false, err
	}

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	n := c.nodePool.Get().(*node)
	n.key = key
	n.data = data
	n.next = c.head
	c.head = n
	c.entries[key] = n
	c.size.Add(1)
	return data, false, nil
}

func (c *inMemoryCache) Invalidate(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	if c.head == n {
		c.head = n.next
	} else {
		cur := c.head
		for cur != nil && cur.next != n {
			cur = cur.next
		}
		if cur != nil {
			cur.next = n.next
		}
	}
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

func (c *inMemoryCache) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for cur := c.head; cur != nil; {
		next := cur.next
		cur.reset()
		c.nodePool.Put(cur)
		cur = next
	}
	c.head = nil
	c.entries = make(map[string]*node)
	c.size.Store(0)
}

// evictOldest removes the tail. Must be called with c.mu held.
func (c *inMemoryCache) evictOldest() {
	if c.head == nil {
		return
	}
	if c.head.next == nil {
		delete(c.entries, c.head.key)
		c.head.reset()
		c.nodePool.Put(c.head)
		c.head = nil
		c.size.Add(-1)
		return
	}
	prev, cur := c.head, c.head.next
	for cur.next != nil {
		prev, cur = cur, cur.next
	}
	prev.next = nil
	delete(c.entries, cur.key)
	cur.reset()
	c.nodePool.Put(cur)
	c.size.Add(-1)
}

func (c *inMemoryCache) Size() int64 {
	return c.size.Load()
}
