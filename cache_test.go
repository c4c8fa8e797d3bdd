package itc

import "testing"

func TestGrowWithCacheAgreesWithUncached(t *testing.T) {
	cache := NewGrowCache[uint64]()
	e := node(1, leaf(2), nil)
	id := idNode(Leaf1, idNode(Leaf1, Leaf0))

	uncached := Grow(e, id, uint64(3))
	cachedOnce := growWithCache(e, id, uint64(3), cache)
	cachedTwice := growWithCache(e, id, uint64(3), cache)

	if !EqualEvent(uncached, cachedOnce) {
		t.Errorf("cached Grow = %s, want %s", cachedOnce, uncached)
	}
	if !EqualEvent(cachedOnce, cachedTwice) {
		t.Errorf("repeated cached Grow disagreed: first=%s second=%s", cachedOnce, cachedTwice)
	}
}

func TestEventWithCacheAgreesWithEvent(t *testing.T) {
	cache := NewGrowCache[uint64]()
	s0 := Seed()
	s1, _ := s0.Event()
	a, b, _ := s1.Fork()

	want, err := a.Event()
	if err != nil {
		t.Fatalf("a.Event(): %v", err)
	}
	got, err := a.EventWithCache(cache)
	if err != nil {
		t.Fatalf("a.EventWithCache(): %v", err)
	}
	if !EqualEvent(got.EventTree(), want.EventTree()) {
		t.Errorf("EventWithCache = %s, want %s", got.EventTree(), want.EventTree())
	}
	if !EqualID(got.ID(), want.ID()) {
		t.Errorf("EventWithCache id = %s, want %s", got.ID(), want.ID())
	}
	_ = b
}

func TestNoGrowCacheNeverMemoizes(t *testing.T) {
	cache := NewGrowCache[uint64](WithCacheProvider(NoGrowCache[uint64]()))
	if _, ok := cache.cache.get("anything"); ok {
		t.Fatalf("NoGrowCache should never report a hit")
	}
	e := leaf(uint64(0))
	cache.cache.set(growKey(e, Leaf1, uint64(1)), leaf(1))
	if _, ok := cache.cache.get(growKey(e, Leaf1, uint64(1))); ok {
		t.Errorf("NoGrowCache should discard sets")
	}
}

func TestWithCacheSizeBuildsBoundedStore(t *testing.T) {
	cache := NewGrowCache[uint64](WithCacheSize[uint64](4))
	for i := 0; i < 16; i++ {
		e := leaf(uint64(i))
		cache.cache.set(growKey(e, Leaf1, uint64(1)), leaf(uint64(i + 1)))
	}
	// No assertion on which entries survive eviction; just confirm the
	// store tolerates exceeding its bound without panicking or losing every
	// entry outright.
	hits := 0
	for i := 0; i < 16; i++ {
		e := leaf(uint64(i))
		if _, ok := cache.cache.get(growKey(e, Leaf1, uint64(1))); ok {
			hits++
		}
	}
	if hits == 0 {
		t.Errorf("expected at least some entries to survive a bounded cache of size 4")
	}
}

func TestClearWithNoOptionsRebuildsSameKindOfStore(t *testing.T) {
	cache := NewGrowCache[uint64]()
	e := leaf(uint64(0))
	cache.cache.set(growKey(e, Leaf1, uint64(1)), leaf(1))

	cache.Clear()

	if _, ok := cache.cache.get(growKey(e, Leaf1, uint64(1))); ok {
		t.Errorf("Clear should have discarded the prior entry")
	}
	// Clear with no options must not fall back to a no-op store: a value
	// set immediately after Clear should still be retrievable.
	cache.cache.set(growKey(e, Leaf1, uint64(1)), leaf(1))
	if _, ok := cache.cache.get(growKey(e, Leaf1, uint64(1))); !ok {
		t.Errorf("Clear() with no options disabled caching instead of resetting it")
	}
}

func TestClearWithProviderReprovisions(t *testing.T) {
	cache := NewGrowCache[uint64]()
	cache.Clear(WithCacheProvider(NoGrowCache[uint64]()))

	e := leaf(uint64(0))
	cache.cache.set(growKey(e, Leaf1, uint64(1)), leaf(1))
	if _, ok := cache.cache.get(growKey(e, Leaf1, uint64(1))); ok {
		t.Errorf("Clear(WithCacheProvider(NoGrowCache)) should leave caching disabled")
	}
}
