package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultLookupFailureTTL is how long a failed page name lookup is remembered.
const DefaultLookupFailureTTL = 10 * time.Minute

// PageLookupCache remembers Facebook page ids whose name lookup failed so
// status polling does not retry the Graph API on every request.
type PageLookupCache struct {
	c *gocache.Cache
}

func NewPageLookupCache(ttl time.Duration) *PageLookupCache {
	if ttl <= 0 {
		ttl = DefaultLookupFailureTTL
	}
	return &PageLookupCache{c: gocache.New(ttl, ttl)}
}

func (p *PageLookupCache) MarkFailed(pageID string) {
	p.c.SetDefault(pageID, struct{}{})
}

func (p *PageLookupCache) RecentlyFailed(pageID string) bool {
	_, ok := p.c.Get(pageID)
	return ok
}

func (p *PageLookupCache) Forget(pageID string) {
	p.c.Delete(pageID)
}
