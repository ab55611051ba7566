package index_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ipmt/pkg/index"
	"github.com/yaklabco/ipmt/pkg/suffixarray"
)

func writeIndex(t *testing.T, source string, text string) string {
	t.Helper()

	path, err := index.Write(context.Background(), source, suffixarray.Build([]byte(text)), []byte(text), index.Huffman)
	require.NoError(t, err)
	return path
}

func TestCacheLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeIndex(t, filepath.Join(dir, "a.txt"), "abracadabra")

	cache, err := index.NewCache(2)
	require.NoError(t, err)

	ctx := context.Background()
	first, err := cache.Load(ctx, path)
	require.NoError(t, err)
	second, err := cache.Load(ctx, path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, cache.Len())
}

func TestCacheReloadsChangedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	source := filepath.Join(dir, "a.txt")
	path := writeIndex(t, source, "first")

	cache, err := index.NewCache(0)
	require.NoError(t, err)

	ctx := context.Background()
	idx, err := cache.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(idx.Text))

	writeIndex(t, source, "second version")
	// Make the change visible to a size and mtime check.
	future := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, future, future))

	idx, err = cache.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "second version", string(idx.Text))
}

func TestCacheEviction(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cache, err := index.NewCache(1)
	require.NoError(t, err)

	ctx := context.Background()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		path := writeIndex(t, filepath.Join(dir, name), name)
		_, err := cache.Load(ctx, path)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, cache.Len())

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeIndex(t, filepath.Join(dir, "a.txt"), "mississippi")

	cache, err := index.NewCache(4)
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cache.Load(ctx, path)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestCacheLoadCancelledCaller(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeIndex(t, filepath.Join(dir, "a.txt"), "mississippi")

	cache, err := index.NewCache(4)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = cache.Load(cancelled, path)
	require.ErrorIs(t, err, context.Canceled)

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := context.Background()
			if i%2 == 0 {
				ctx = cancelled
			}
			_, errs[i] = cache.Load(ctx, path)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if i%2 == 0 {
			require.ErrorIs(t, err, context.Canceled)
			continue
		}
		require.NoError(t, err, "a cancelled caller must not fail others")
	}
	assert.Equal(t, 1, cache.Len())
}

func TestCacheMissingFile(t *testing.T) {
	t.Parallel()

	cache, err := index.NewCache(1)
	require.NoError(t, err)

	_, err = cache.Load(context.Background(), filepath.Join(t.TempDir(), "none.idx"))
	require.ErrorIs(t, err, index.ErrNotFound)
	assert.Equal(t, 0, cache.Len())
}
