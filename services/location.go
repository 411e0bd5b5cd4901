/*
# Module: services/location.go
Resolves a visitor's country and currency, cached per visitor for a day.

## Linked Modules
- [types/location](../types/location.go) - Location data structures
- [storage/repository](../storage/repository.go) - Location cache repository
- [services/currency](./currency.go) - Country to currency mapping

## Tags
business-logic, geolocation, cache

## Exports
GeoLocator, LocationResolver, NewLocationResolver, FallbackLocation, DefaultLocationTTL

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/location.go" ;
    code:description "Resolves a visitor's country and currency, cached per visitor for a day" ;
    code:linksTo [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location data structures"
    ], [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Location cache repository"
    ], [
        code:name "services/currency" ;
        code:path "./currency.go" ;
        code:relationship "Country to currency mapping"
    ] ;
    code:exports :GeoLocator, :LocationResolver, :NewLocationResolver, :FallbackLocation, :DefaultLocationTTL ;
    code:tags "business-logic", "geolocation", "cache" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"recipe-giving/logging"
	"recipe-giving/storage"
	"recipe-giving/types"
)

// DefaultLocationTTL is how long a resolved location is reused
const DefaultLocationTTL = 24 * time.Hour

// errNoCountry marks a geolocation answer that carries no country code
var errNoCountry = errors.New("geolocation response has no country code")

// GeoLocator looks up the country for an IP address. An empty ip means the caller's own address.
type GeoLocator interface {
	Locate(ctx context.Context, ip string) (*types.GeoIPResponse, error)
}

// FallbackLocation is used whenever geolocation fails
func FallbackLocation() types.UserLocation {
	return types.UserLocation{
		CountryCode:    "IE",
		CountryName:    "Ireland",
		City:           "Unknown",
		Currency:       "EUR",
		CurrencySymbol: "€",
	}
}

// LocationResolver answers "where is this visitor" without ever failing
type LocationResolver struct {
	geo   GeoLocator
	cache storage.LocationCacheRepository
	ttl   time.Duration
	now   func() time.Time
}

// NewLocationResolver creates a resolver with the default TTL. cache may be nil.
func NewLocationResolver(geo GeoLocator, cache storage.LocationCacheRepository) *LocationResolver {
	return &LocationResolver{
		geo:   geo,
		cache: cache,
		ttl:   DefaultLocationTTL,
		now:   time.Now,
	}
}

// WithClock replaces the resolver's clock
func (r *LocationResolver) WithClock(now func() time.Time) *LocationResolver {
	r.now = now
	return r
}

// WithTTL replaces the cache lifetime
func (r *LocationResolver) WithTTL(ttl time.Duration) *LocationResolver {
	r.ttl = ttl
	return r
}

// Resolve returns the visitor's location: a fresh cached record when one exists,
// otherwise a geolocation lookup (persisted on success), otherwise the fallback.
func (r *LocationResolver) Resolve(ctx context.Context, visitorID, clientIP string) types.UserLocation {
	log := logging.FromContext(ctx).WithField("visitor_id", visitorID)

	if loc, ok := r.cached(ctx, visitorID); ok {
		return loc
	}

	loc, err := r.lookup(ctx, clientIP)
	if err != nil {
		log.WithError(err).Warn("⚠️  Geolocation failed, using fallback location")
		return FallbackLocation()
	}

	if r.cache != nil && visitorID != "" {
		entry := types.LocationCacheEntry{
			VisitorID: visitorID,
			Data:      loc,
			Timestamp: r.now().UnixMilli(),
			Version:   types.LocationCacheVersion,
		}
		if err := r.cache.Put(ctx, entry); err != nil {
			log.WithError(err).Warn("⚠️  Failed to cache location")
		}
	}

	log.WithField("country", loc.CountryCode).Info("📍 Location resolved")
	return loc
}

func (r *LocationResolver) cached(ctx context.Context, visitorID string) (types.UserLocation, bool) {
	if r.cache == nil || visitorID == "" {
		return types.UserLocation{}, false
	}

	entry, err := r.cache.Get(ctx, visitorID)
	if err != nil {
		logging.FromContext(ctx).WithError(err).Warn("⚠️  Failed to read cached location")
		return types.UserLocation{}, false
	}
	if entry == nil || entry.Version != types.LocationCacheVersion {
		return types.UserLocation{}, false
	}

	age := r.now().UnixMilli() - entry.Timestamp
	if age < 0 || age >= r.ttl.Milliseconds() {
		return types.UserLocation{}, false
	}
	return entry.Data, true
}

func (r *LocationResolver) lookup(ctx context.Context, clientIP string) (types.UserLocation, error) {
	if r.geo == nil {
		return types.UserLocation{}, errors.New("no geolocation provider")
	}

	geo, err := r.geo.Locate(ctx, clientIP)
	if err != nil {
		return types.UserLocation{}, err
	}
	if geo == nil || strings.TrimSpace(geo.CountryCode) == "" {
		return types.UserLocation{}, errNoCountry
	}

	code := strings.ToUpper(strings.TrimSpace(geo.CountryCode))
	currency := CurrencyForCountry(code)

	city := geo.City
	if city == "" {
		city = "Unknown"
	}
	country := geo.Country
	if country == "" {
		country = code
	}

	return types.UserLocation{
		CountryCode:    code,
		CountryName:    country,
		City:           city,
		Currency:       currency.Code,
		CurrencySymbol: currency.Symbol,
	}, nil
}
