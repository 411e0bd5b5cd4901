/*
# Module: types/location.go
Visitor location data structures and the cached location record.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, location, cache

## Exports
UserLocation, LocationCacheEntry, LocationCacheVersion

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/location.go" ;
    code:description "Visitor location data structures and the cached location record" ;
    code:exports :UserLocation, :LocationCacheEntry, :LocationCacheVersion ;
    code:tags "data-types", "location", "cache" .
<!-- End LinkedDoc RDF -->
*/
package types

// LocationCacheVersion is bumped whenever UserLocation changes shape.
// Cached records carrying another version are ignored.
const LocationCacheVersion = 1

// UserLocation is the visitor's geolocated country and the currency used to display meal values
type UserLocation struct {
	CountryCode    string `json:"countryCode" dynamodbav:"country_code"`
	CountryName    string `json:"countryName" dynamodbav:"country_name"`
	City           string `json:"city" dynamodbav:"city"`
	Currency       string `json:"currency" dynamodbav:"currency"`
	CurrencySymbol string `json:"currencySymbol" dynamodbav:"currency_symbol"`
}

// LocationCacheEntry is the persisted {data, timestamp} record for one visitor
type LocationCacheEntry struct {
	VisitorID string       `json:"visitor_id" dynamodbav:"visitor_id"`
	Data      UserLocation `json:"data" dynamodbav:"data"`
	Timestamp int64        `json:"timestamp" dynamodbav:"timestamp"` // epoch milliseconds
	Version   int          `json:"version" dynamodbav:"version"`
}
