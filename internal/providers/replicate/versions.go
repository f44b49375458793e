package replicate

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"interiorai/internal/domain"
	"interiorai/internal/infra"
	"interiorai/internal/metrics"
)

// lookupTimeout bounds a shared registry lookup. The lookup outlives the
// caller that started it so other waiters on the same model are unaffected
// by that caller's cancellation.
const lookupTimeout = 15 * time.Second

// VersionLookup fetches the latest published version of a model.
type VersionLookup interface {
	LatestVersion(ctx context.Context, owner, name string) (string, error)
}

// VersionCache stores resolved version ids by "owner/name".
type VersionCache interface {
	Get(key string) (string, bool)
	Set(key, version string)
}

// MemoryVersionCache is a process-local VersionCache.
type MemoryVersionCache struct {
	mu       sync.RWMutex
	versions map[string]string
}

func NewMemoryVersionCache() *MemoryVersionCache {
	return &MemoryVersionCache{versions: make(map[string]string)}
}

func (c *MemoryVersionCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.versions[key]
	return v, ok
}

func (c *MemoryVersionCache) Set(key, version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key] = version
}

// VersionResolver maps models to their latest version id, caching only
// successful lookups for the lifetime of the resolver.
type VersionResolver struct {
	lookup  VersionLookup
	cache   VersionCache
	group   singleflight.Group
	logger  *infra.Logger
	metrics *metrics.Collector
}

func NewVersionResolver(lookup VersionLookup, cache VersionCache, logger *infra.Logger, m *metrics.Collector) *VersionResolver {
	if cache == nil {
		cache = NewMemoryVersionCache()
	}
	return &VersionResolver{lookup: lookup, cache: cache, logger: infra.OrDiscard(logger), metrics: m}
}

// Resolve returns the latest version of owner/name. A cached id is returned
// without touching the network. Concurrent misses for one model share a
// single lookup. Failures are logged, never cached, and reported as ok=false.
func (r *VersionResolver) Resolve(ctx context.Context, owner, name string) (string, bool) {
	key := owner + "/" + name
	if v, ok := r.cache.Get(key); ok {
		r.metrics.ObserveVersionLookup("hit")
		return v, true
	}
	if r.lookup == nil {
		return "", false
	}

	ch := r.group.DoChan(key, func() (any, error) {
		if v, ok := r.cache.Get(key); ok {
			return v, nil
		}
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		v, err := r.lookup.LatestVersion(lookupCtx, owner, name)
		if err != nil {
			return "", err
		}
		r.cache.Set(key, v)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return "", false
	case res := <-ch:
		if res.Err != nil {
			r.metrics.ObserveVersionLookup("error")
			r.logger.Warn().Err(res.Err).Str("model", key).Msg("replicate: version lookup failed")
			return "", false
		}
		r.metrics.ObserveVersionLookup("miss")
		return res.Val.(string), true
	}
}

// ResolveRef resolves ref, falling back to its pinned version. Refs that are
// not dynamic always run their pinned version.
func (r *VersionResolver) ResolveRef(ctx context.Context, ref ModelRef) domain.ModelVersionRef {
	out := domain.ModelVersionRef{Owner: ref.Owner, Name: ref.Name, VersionID: ref.Pinned}
	if !ref.Dynamic {
		return out
	}
	if v, ok := r.Resolve(ctx, ref.Owner, ref.Name); ok {
		out.VersionID = v
	}
	return out
}
