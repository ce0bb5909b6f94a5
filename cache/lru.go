package cache

import "sync"

// LRU 是容量固定的键值缓存，超出容量时淘汰最久未使用的条目。
// Get 命中与 Set 都会把条目提升为最近使用；淘汰严格按最近使用顺序，而不是插入顺序。
//
// LRU 可被多个 goroutine 共享；零值不可用，请使用 New 创建。
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*node[K, V]
	order    list[K, V]
	capacity int
}

// New 创建容量为 capacity 的缓存。capacity 小于 0 时按 0 处理（写入后立即被淘汰）。
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &LRU[K, V]{
		entries:  make(map[K]*node[K, V]),
		capacity: capacity,
	}
}

// Get 返回 key 对应的值；命中时将条目提升为最近使用。
// 未命中返回零值与 false。
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.moveToFront(n)
	return n.value, true
}

// Set 写入或覆盖 key，并将其提升为最近使用。
// 写入后若条目数超过容量，则反复淘汰最久未使用的条目直到不超过容量。
func (c *LRU[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.value = value
		c.order.moveToFront(n)
	} else {
		c.entries[key] = c.order.pushFront(key, value)
	}

	for len(c.entries) > c.capacity {
		oldest := c.order.back()
		if oldest == nil {
			break
		}
		c.order.unlink(oldest)
		delete(c.entries, oldest.key)
	}
}

// Clear 无条件清空全部条目。
func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*node[K, V])
	c.order = list[K, V]{}
}

// Len 返回当前条目数。
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity 返回构造时设定的容量。
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Keys 按从最近使用到最久未使用的顺序返回全部键，不改变使用顺序。
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.entries))
	for n := c.order.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}
