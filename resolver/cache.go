/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package resolver

import (
	"context"
	"sync"
)

// CacheResolver wraps one child and memoizes its Resolution by name for
// the lifetime of the job (spec.md §3, Lifecycle). Memoization preserves
// the identity of FailedToRead/Invalid results: a class whose underlying
// read fails once reports that failure exactly once to the problem
// registrar no matter how many instructions reference it (spec.md §7).
//
// Per spec.md §5 the engine is single-threaded within one job, so the
// mutex here is a defensive measure against a Resolver being reused
// across a job boundary by mistake, not a concurrency requirement of the
// core itself.
type CacheResolver struct {
	child Resolver

	mu    sync.Mutex
	cache map[string]Resolution
}

func NewCacheResolver(child Resolver) *CacheResolver {
	return &CacheResolver{child: child, cache: make(map[string]Resolution)}
}

func (c *CacheResolver) Contains(ctx context.Context, name string) bool {
	c.mu.Lock()
	if cached, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return cached.Kind == Found
	}
	c.mu.Unlock()
	return c.child.Contains(ctx, name)
}

func (c *CacheResolver) Find(ctx context.Context, name string) Resolution {
	c.mu.Lock()
	if r, ok := c.cache[name]; ok {
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	r := c.child.Find(ctx, name)

	c.mu.Lock()
	c.cache[name] = r
	c.mu.Unlock()
	return r
}

func (c *CacheResolver) IterateAllClasses(ctx context.Context) ([]string, error) {
	return c.child.IterateAllClasses(ctx)
}

func (c *CacheResolver) ClassPath() []string { return c.child.ClassPath() }

func (c *CacheResolver) Close() error {
	return c.child.Close()
}

// CacheSize reports the number of memoized entries, for tests asserting
// that repeated lookups only hit the child resolver once.
func (c *CacheResolver) CacheSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
