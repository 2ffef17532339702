// Package replay runs the interactive timeline playback view over one
// cluster's heartbeats.
package replay

import (
	"context"

	"github.com/yswstools/hackreview/internal/data/cache"
	"github.com/yswstools/hackreview/internal/util"
)

// FileFetcher fetches raw file text from the code host.
type FileFetcher interface {
	GetFileAtBranch(ctx context.Context, owner, repo, path, ref string) (string, bool, error)
}

// SourceCache recalls TTL-bounded source snapshots.
type SourceCache interface {
	GetSource(key string) (content string, found bool, ok bool)
	PutSource(key, content string, found bool) error
}

// SourceProvider is the single-flight source loader for the playback
// overlay. The playback loop is single-threaded, so one fetch is in
// flight at a time by construction; the cache keeps repeat selections of
// the same file from refetching inside the TTL window.
type SourceProvider struct {
	fetcher FileFetcher
	cache   SourceCache
	owner   string
	repo    string
}

// NewSourceProvider wires a provider for one repository. Cache may be nil.
func NewSourceProvider(fetcher FileFetcher, sourceCache SourceCache, owner, repo string) *SourceProvider {
	return &SourceProvider{fetcher: fetcher, cache: sourceCache, owner: owner, repo: repo}
}

// Fetch loads one file at a ref, consulting the cache first. The bool
// reports existence; a cached not-found is honored inside the TTL.
func (p *SourceProvider) Fetch(ctx context.Context, path, ref string) (string, bool, error) {
	key := cache.SourceKey(p.owner, p.repo, path, ref)
	if p.cache != nil {
		if content, found, ok := p.cache.GetSource(key); ok {
			util.LogDebugf("Source cache hit: %s", key)
			return content, found, nil
		}
	}

	content, found, err := p.fetcher.GetFileAtBranch(ctx, p.owner, p.repo, path, ref)
	if err != nil {
		return "", false, err
	}
	if p.cache != nil {
		if err := p.cache.PutSource(key, content, found); err != nil {
			util.LogWarnf("Failed to cache source %s: %v", key, err)
		}
	}
	return content, found, nil
}
