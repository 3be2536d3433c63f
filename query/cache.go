package query

import (
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultCacheSize is used by NewCache when size is not positive.
const DefaultCacheSize = 64

// Cache keeps resolved programs keyed by expression and header, so that
// files sharing a header are resolved once. Safe for concurrent use.
type Cache struct {
	mu  sync.Mutex
	lru *lru.Cache
}

// NewCache creates a cache holding at most size programs.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{lru: lru.New(size)}
}

type cacheKey struct {
	expr   string
	labels string
}

func keyFor(e *Expression, env Environment) cacheKey {
	return cacheKey{expr: e.Source, labels: strings.Join(env.Labels, "\x1f")}
}

// Resolve returns the cached program for e and env's labels, resolving and
// storing it on a miss. Resolution errors are not cached, since they name
// the source file.
func (c *Cache) Resolve(e *Expression, env Environment) (*Program, bool, error) {
	key := keyFor(e, env)

	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	if ok {
		return v.(*Program), true, nil
	}

	prog, err := e.Resolve(env)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.lru.Add(key, prog)
	c.mu.Unlock()
	return prog, false, nil
}

// Len returns the number of cached programs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}
