package cache

import (
	"reflect"
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](3)
	if c.Capacity() != 3 {
		t.Fatalf("expected capacity 3, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", c.Len())
	}
	if _, ok := c.Get("missing"); ok {
		t.Fatalf("expected miss on empty cache")
	}
}

// 容量为 2：set(a) set(b) set(c) 后只剩 {b,c}；get(b) 再 set(d) 应淘汰 c 而不是 b。
func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should have been evicted")
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"c", "b"}) {
		t.Fatalf("unexpected keys after first eviction: %v", got)
	}

	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("expected b=2, got %d ok=%v", v, ok)
	}
	c.Set("d", 4)

	if _, ok := c.Get("c"); ok {
		t.Fatalf("c should have been evicted after b was promoted")
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"d", "b"}) {
		t.Fatalf("unexpected keys after second eviction: %v", got)
	}
}

func TestSetOverwritePromotes(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should be evicted: overwrite of a promotes it")
	}
	if v, ok := c.Get("a"); !ok || v != 10 {
		t.Fatalf("expected a=10, got %d ok=%v", v, ok)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New[int, string](4)
	for i := 0; i < 4; i++ {
		c.Set(i, strconv.Itoa(i))
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after Clear, got %d", c.Len())
	}
	if len(c.Keys()) != 0 {
		t.Fatalf("expected no keys after Clear")
	}
	c.Set(9, "9")
	if v, ok := c.Get(9); !ok || v != "9" {
		t.Fatalf("cache unusable after Clear")
	}
}

func TestZeroCapacityKeepsNothing(t *testing.T) {
	c := New[string, int](0)
	c.Set("a", 1)
	if c.Len() != 0 {
		t.Fatalf("zero capacity cache should stay empty, got %d", c.Len())
	}
	if neg := New[string, int](-5); neg.Capacity() != 0 {
		t.Fatalf("negative capacity should clamp to 0, got %d", neg.Capacity())
	}
}

func TestEvictionOrderLongRun(t *testing.T) {
	c := New[int, int](3)
	for i := 0; i < 10; i++ {
		c.Set(i, i)
		if i%2 == 0 {
			c.Get(0)
		}
	}
	// 0 一直被访问，应始终保留
	if _, ok := c.Get(0); !ok {
		t.Fatalf("frequently promoted key 0 was evicted")
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[int, int](16)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Set((g*200+i)%32, i)
				c.Get(i % 32)
			}
		}(g)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Fatalf("cache exceeded capacity: %d", c.Len())
	}
}
