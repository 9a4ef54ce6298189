package serviceability

import (
	"context"
	"milkroute/internal/models"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/patrickmn/go-cache"
)

const activeZonesKey = "zones:active"

// DefaultCacheTTL is used when a non-positive TTL is configured
const DefaultCacheTTL = 5 * time.Minute

// ZoneSource loads the current set of active zones
type ZoneSource interface {
	ListActive(ctx context.Context) ([]models.Zone, error)
}

// Directory serves serviceability checks from a cached snapshot of the
// active zones
type Directory struct {
	source ZoneSource
	cache  *cache.Cache
}

// NewDirectory creates a directory that refreshes its snapshot after ttl
func NewDirectory(source ZoneSource, ttl time.Duration) *Directory {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Directory{
		source: source,
		cache:  cache.New(ttl, 2*ttl),
	}
}

// Zones returns the cached active zones, loading them on a miss
func (d *Directory) Zones(ctx context.Context) ([]models.Zone, error) {
	if cached, ok := d.cache.Get(activeZonesKey); ok {
		return cached.([]models.Zone), nil
	}

	zones, err := d.source.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load active zones")
	}
	d.cache.SetDefault(activeZonesKey, zones)
	return zones, nil
}

// Check resolves the query against the current snapshot
func (d *Directory) Check(ctx context.Context, query models.ServiceabilityQuery, now time.Time) (*models.Zone, error) {
	zones, err := d.Zones(ctx)
	if err != nil {
		return nil, err
	}
	return Resolve(query, zones, now)
}

// Invalidate drops the snapshot so the next check reloads it
func (d *Directory) Invalidate() {
	d.cache.Delete(activeZonesKey)
}
