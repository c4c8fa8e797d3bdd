package itc

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// growStore is the backing store a GrowCache memoizes onto. The teacher
// declares golang-lru/v2 in its go.mod but never imports it; this package is
// where that dependency actually gets called, as the backing store for
// memoized Grow candidate searches.
type growStore[C Counter] interface {
	get(key string) (*EventTree[C], bool)
	set(key string, val *EventTree[C])
}

// GrowCacheProvider mirrors the teacher's CacheProvider: a constructor for
// a fresh, empty store, so a GrowCache can be reset without re-deriving its
// configuration.
type GrowCacheProvider[C Counter] func() growStore[C]

// NoGrowCache disables memoization entirely; it is the store a GrowCache
// would use if every candidate call missed, matching the teacher's
// NoCache().
func NoGrowCache[C Counter]() GrowCacheProvider[C] {
	return func() growStore[C] {
		return noGrowStore[C]{}
	}
}

type noGrowStore[C Counter] struct{}

func (noGrowStore[C]) get(string) (*EventTree[C], bool) { return nil, false }
func (noGrowStore[C]) set(string, *EventTree[C])        {}

// LRUGrowCache backs a GrowCache with a bounded github.com/hashicorp/golang-lru/v2
// cache, evicting the least-recently-used memoized candidate once size is
// exceeded.
func LRUGrowCache[C Counter](size int) GrowCacheProvider[C] {
	return func() growStore[C] {
		c, err := lru.New[string, *EventTree[C]](size)
		if err != nil {
			// lru.New only fails for a non-positive size. NewGrowCache's
			// default is positive; WithCacheSize passes its size through
			// unchecked, so a non-positive size panics here.
			panic(err)
		}
		return &lruGrowStore[C]{c}
	}
}

type lruGrowStore[C Counter] struct {
	c *lru.Cache[string, *EventTree[C]]
}

func (l *lruGrowStore[C]) get(key string) (*EventTree[C], bool) { return l.c.Get(key) }
func (l *lruGrowStore[C]) set(key string, val *EventTree[C])    { l.c.Add(key, val) }

// GrowCache is a caller-owned memoization layer for Grow's three-candidate
// search. It is not part of the pure ITC algebra and is never reached
// unless a caller explicitly passes one to (*Stamp).EventWithCache; the default
// Grow is always uncached and stateless. Like the teacher's Txn, a
// GrowCache is meant to be used from a single goroutine at a time.
type GrowCache[C Counter] struct {
	cache    growStore[C]
	provider GrowCacheProvider[C]
}

// NewGrowCache builds a GrowCache, defaulting to an LRU store of
// defaultGrowCacheSize entries.
func NewGrowCache[C Counter](opts ...CacheOption[C]) *GrowCache[C] {
	cfg := cacheOptions[C]{provider: LRUGrowCache[C](defaultGrowCacheSize)}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GrowCache[C]{cache: cfg.provider(), provider: cfg.provider}
}

// Clear discards every memoized candidate, the same reset the teacher's
// writable cache gets at the end of a transaction. With no options it
// rebuilds a fresh store from the provider the GrowCache was created (or
// last re-provisioned) with; pass WithCacheProvider or WithCacheSize to
// re-provision it instead.
func (g *GrowCache[C]) Clear(opts ...CacheOption[C]) {
	cfg := cacheOptions[C]{provider: g.provider}
	for _, opt := range opts {
		opt(&cfg)
	}
	g.cache = cfg.provider()
	g.provider = cfg.provider
}

// growKey builds the memoization key for growWithCache: a structural digest
// of the inputs the three-candidate search depends on.
func growKey[C Counter](e *EventTree[C], id *ID, amount C) string {
	return eventDigest(e) + "#" + id.String() + "#" + fmtCounter(amount)
}

func eventDigest[C Counter](e *EventTree[C]) string {
	if e == nil {
		return "_"
	}
	left, right := eventDigest(e.topL), eventDigest(e.topR)
	return "[" + fmtCounter(e.base) + " " + left + " " + right + "]"
}

func fmtCounter[C Counter](c C) string {
	return fmt.Sprintf("%v", c)
}
