/*
# Module: storage/repository.go
Repository interfaces for the location cache and the donation log.

## Linked Modules
- [types/location](../types/location.go) - Location cache records
- [types/donation](../types/donation.go) - Donation click records

## Tags
storage, repository, interface, persistence

## Exports
LocationCacheRepository, DonationRepository, Backend, StorageInfo, ErrNotConfigured

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "storage/repository.go" ;
    code:description "Repository interfaces for the location cache and the donation log" ;
    code:linksTo [
        code:name "types/location" ;
        code:path "../types/location.go" ;
        code:relationship "Location cache records"
    ], [
        code:name "types/donation" ;
        code:path "../types/donation.go" ;
        code:relationship "Donation click records"
    ] ;
    code:exports :LocationCacheRepository, :DonationRepository, :Backend, :StorageInfo, :ErrNotConfigured ;
    code:tags "storage", "repository", "interface", "persistence" .
<!-- End LinkedDoc RDF -->
*/
package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"recipe-giving/types"
)

// ErrNotConfigured is returned by a repository whose client was never initialized
var ErrNotConfigured = errors.New("storage client not initialized")

// LocationCacheRepository persists one geolocation record per visitor.
// Get returns (nil, nil) when the visitor has no record.
type LocationCacheRepository interface {
	Get(ctx context.Context, visitorID string) (*types.LocationCacheEntry, error)
	Put(ctx context.Context, entry types.LocationCacheEntry) error
}

// DonationRepository handles donation log persistence
type DonationRepository interface {
	Save(ctx context.Context, donation types.Donation) error
	// GetRecent returns up to limit donations, most recent first
	GetRecent(ctx context.Context, limit int) ([]types.Donation, error)
	// GetAll returns every donation, most recent first
	GetAll(ctx context.Context) ([]types.Donation, error)
}

// Backend is a storage backend serving both repositories
type Backend interface {
	LocationCacheRepository
	DonationRepository
	Info(ctx context.Context) StorageInfo
	Close() error
}

// StorageInfo describes where and how data is stored
type StorageInfo struct {
	Type        string    `json:"type"`     // "memory", "sqlite", "dynamodb"
	Location    string    `json:"location"` // table names or database path
	LastSync    time.Time `json:"last_sync"`
	RecordCount int       `json:"record_count"` // donations, -1 when unknown
}
