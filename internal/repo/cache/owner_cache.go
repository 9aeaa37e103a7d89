package cache

import (
	"strings"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/jellydator/ttlcache/v3"
)

// OwnerCache keeps authentication lookups keyed by login identifier.
type OwnerCache struct {
	c *ttlcache.Cache[string, *entity.BusinessOwner]
}

func NewOwnerCache(ttl time.Duration) *OwnerCache {
	c := ttlcache.New[string, *entity.BusinessOwner](
		ttlcache.WithTTL[string, *entity.BusinessOwner](ttl),
		ttlcache.WithDisableTouchOnHit[string, *entity.BusinessOwner](),
	)

	return &OwnerCache{c: c}
}

func key(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func (oc *OwnerCache) Get(identifier string) (*entity.BusinessOwner, bool) {
	item := oc.c.Get(key(identifier))
	if item == nil {
		return nil, false
	}

	return item.Value(), true
}

func (oc *OwnerCache) Set(identifier string, owner *entity.BusinessOwner) {
	oc.c.Set(key(identifier), owner, ttlcache.DefaultTTL)
}

// Invalidate drops every identifier of owner, and anything still cached under its id.
func (oc *OwnerCache) Invalidate(owner *entity.BusinessOwner) {
	if owner == nil {
		return
	}

	for _, id := range owner.LoginIdentifiers() {
		oc.c.Delete(key(id))
	}

	var stale []string
	oc.c.Range(func(item *ttlcache.Item[string, *entity.BusinessOwner]) bool {
		if v := item.Value(); v != nil && v.ID == owner.ID {
			stale = append(stale, item.Key())
		}
		return true
	})

	for _, k := range stale {
		oc.c.Delete(k)
	}
}

func (oc *OwnerCache) Len() int {
	return oc.c.Len()
}

// Start runs the expiry loop until Stop is called.
func (oc *OwnerCache) Start() {
	go oc.c.Start()
}

func (oc *OwnerCache) Stop() {
	oc.c.Stop()
}
