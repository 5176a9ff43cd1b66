package sweep

import (
	"sync"

	"github.com/rustyeddy/trixsweep/market"
)

// BarLoader reads the bars of a pair; market.Store implements it.
type BarLoader interface {
	Load(pair, timeframe string) (*market.Series, error)
}

// Cache loads each (pair, timeframe) series once and shares it between
// workers. Cached series must be treated as read-only.
type Cache struct {
	loader BarLoader

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	pair   string
	once   sync.Once
	series *market.Series
	err    error
}

func NewCache(loader BarLoader) *Cache {
	return &Cache{loader: loader, entries: map[string]*cacheEntry{}}
}

func (c *Cache) Load(pair, timeframe string) (*market.Series, error) {
	key := market.Key(timeframe, pair)

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{pair: pair}
		c.entries[key] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		e.series, e.err = c.loader.Load(pair, timeframe)
	})
	return e.series, e.err
}

// Forget drops every series of a pair, typically once its group is done.
func (c *Cache) Forget(pair string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.pair == pair {
			delete(c.entries, k)
		}
	}
}
