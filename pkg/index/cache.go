package index

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/yaklabco/ipmt/pkg/fsutil"
)

// DefaultCacheSize is the number of decoded indexes kept by default.
const DefaultCacheSize = 16

// Cache keeps recently decoded indexes in memory, keyed by path.
//
// A cached index is reused only while its file is unchanged on disk.
// Concurrent loads of the same path share one decode. Cache is safe for
// concurrent use.
type Cache struct {
	entries *lru.Cache[string, *Index]
	group   singleflight.Group
}

// NewCache creates a cache holding up to size indexes.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, *Index](size)
	if err != nil {
		return nil, fmt.Errorf("create index cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Load returns the decoded index at path, reading it on a miss or when
// the file changed since it was cached.
//
// The shared read is not tied to any one caller's context: a caller whose
// ctx ends stops waiting with ctx's error while the read continues for the
// others.
func (c *Cache) Load(ctx context.Context, path string) (*Index, error) {
	if idx, ok := c.entries.Get(path); ok {
		modified, err := fsutil.CheckModifiedQuick(ctx, idx.Info)
		if err == nil && !modified {
			return idx, nil
		}
		c.entries.Remove(path)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(path, func() (any, error) {
		idx, err := Read(readCtx, path)
		if err != nil {
			return nil, err
		}
		c.entries.Add(path, idx)
		return idx, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	}
}

// Len returns the number of cached indexes.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached index.
func (c *Cache) Purge() {
	c.entries.Purge()
}
