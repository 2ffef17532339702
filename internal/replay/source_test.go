package replay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	content string
	found   bool
	err     error
	calls   int
}

func (f *fakeFetcher) GetFileAtBranch(_ context.Context, _, _, _, _ string) (string, bool, error) {
	f.calls++
	return f.content, f.found, f.err
}

type mapCache struct {
	entries map[string][2]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][2]interface{})}
}

func (m *mapCache) GetSource(key string) (string, bool, bool) {
	e, ok := m.entries[key]
	if !ok {
		return "", false, false
	}
	return e[0].(string), e[1].(bool), true
}

func (m *mapCache) PutSource(key, content string, found bool) error {
	m.entries[key] = [2]interface{}{content, found}
	return nil
}

func TestFetchCachesResult(t *testing.T) {
	fetcher := &fakeFetcher{content: "package main", found: true}
	provider := NewSourceProvider(fetcher, newMapCache(), "owner", "repo")

	content, found, err := provider.Fetch(context.Background(), "main.go", "main")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "package main", content)

	_, _, err = provider.Fetch(context.Background(), "main.go", "main")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls, "second fetch served from cache")
}

func TestFetchCachesNotFound(t *testing.T) {
	fetcher := &fakeFetcher{found: false}
	provider := NewSourceProvider(fetcher, newMapCache(), "owner", "repo")

	_, found, err := provider.Fetch(context.Background(), "gone.go", "main")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, _ = provider.Fetch(context.Background(), "gone.go", "main")
	assert.False(t, found)
	assert.Equal(t, 1, fetcher.calls, "404 outcome is cached too")
}

func TestFetchErrorNotCached(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("network down")}
	provider := NewSourceProvider(fetcher, newMapCache(), "owner", "repo")

	_, _, err := provider.Fetch(context.Background(), "main.go", "main")
	require.Error(t, err)

	fetcher.err = nil
	fetcher.content = "ok"
	fetcher.found = true
	content, found, err := provider.Fetch(context.Background(), "main.go", "main")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ok", content)
	assert.Equal(t, 2, fetcher.calls)
}

func TestFetchWithoutCache(t *testing.T) {
	fetcher := &fakeFetcher{content: "x", found: true}
	provider := NewSourceProvider(fetcher, nil, "owner", "repo")

	_, _, err := provider.Fetch(context.Background(), "main.go", "main")
	require.NoError(t, err)
	_, _, err = provider.Fetch(context.Background(), "main.go", "main")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}
