// Package assets handles asset loading and the template cache of
// swappable sub-assemblies.
package assets

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/engine/scene"
	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// Source turns an asset path into a parsed node hierarchy.
type Source interface {
	LoadAsset(ctx context.Context, path string) (*scene.Node, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, path string) (*scene.Node, error)

// LoadAsset calls f.
func (f SourceFunc) LoadAsset(ctx context.Context, path string) (*scene.Node, error) {
	return f(ctx, path)
}

// LoadResult is the outcome of a cache load: either Node is the cached
// template or Err says why the key stayed absent.
type LoadResult struct {
	Key  string
	Node *scene.Node
	Err  error
}

// Loaded reports whether the load produced a template.
func (r LoadResult) Loaded() bool {
	return r.Err == nil && r.Node != nil
}

// Cache maps part keys to template nodes. Entries are written once and never
// replaced or evicted. Templates must only be used as clone sources.
//
// Cache is owned by the goroutine that pumps its Queue; it has no locks.
type Cache struct {
	source    Source
	queue     *Queue
	templates map[string]*scene.Node
	waiting   map[string][]func(LoadResult)
	failures  int
}

// NewCache creates an empty cache loading through source on queue.
func NewCache(source Source, queue *Queue) *Cache {
	return &Cache{
		source:    source,
		queue:     queue,
		templates: make(map[string]*scene.Node),
		waiting:   make(map[string][]func(LoadResult)),
	}
}

// Get returns the template stored under key.
func (c *Cache) Get(key string) (*scene.Node, bool) {
	n, ok := c.templates[key]
	return n, ok
}

// Loading reports whether a load for key is in flight.
func (c *Cache) Loading(key string) bool {
	_, ok := c.waiting[key]
	return ok
}

// Load fetches path and stores the result under key, then calls done (which
// may be nil) with the outcome.
//
// A key that is already cached completes immediately without fetching. A key
// that is already loading does not start a second fetch: done is queued
// behind the first request and receives the same result.
func (c *Cache) Load(key, path string, done func(LoadResult)) {
	if tpl, ok := c.templates[key]; ok {
		if done != nil {
			done(LoadResult{Key: key, Node: tpl})
		}
		return
	}
	if waiters, ok := c.waiting[key]; ok {
		logger.Debug("asset load already in flight", zap.String("key", key))
		c.waiting[key] = append(waiters, done)
		return
	}

	c.waiting[key] = []func(LoadResult){done}
	logger.Debug("loading asset", zap.String("key", key), zap.String("path", path))

	Submit(c.queue,
		func(ctx context.Context) (*scene.Node, error) {
			return c.source.LoadAsset(ctx, path)
		},
		func(node *scene.Node, err error) {
			c.complete(key, path, node, err)
		},
	)
}

func (c *Cache) complete(key, path string, node *scene.Node, err error) {
	waiters := c.waiting[key]
	delete(c.waiting, key)

	res := LoadResult{Key: key}
	switch {
	case err != nil:
		res.Err = fmt.Errorf("loading %s: %w", path, err)
	case node == nil:
		res.Err = fmt.Errorf("loading %s: no scene", path)
	default:
		if _, exists := c.templates[key]; !exists {
			node.MarkTemplate()
			c.templates[key] = node
		}
		res.Node = c.templates[key]
	}

	if res.Err != nil {
		c.failures++
		logger.Warn("asset load failed", zap.String("key", key), zap.Error(res.Err))
	} else {
		logger.Info("asset cached",
			zap.String("key", key),
			zap.Int("nodes", res.Node.Count()),
		)
	}

	for _, w := range waiters {
		if w != nil {
			w(res)
		}
	}
}

// Keys returns the cached keys in sorted order.
func (c *Cache) Keys() []string {
	keys := make([]string, 0, len(c.templates))
	for k := range c.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats returns the number of cached templates, loads in flight and failed loads.
func (c *Cache) Stats() (cached, loading, failed int) {
	return len(c.templates), len(c.waiting), c.failures
}
