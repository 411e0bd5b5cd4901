/*
# Module: types/api_types.go
Response structures for the external geolocation and charity search APIs.

## Linked Modules
- [types/charity](./charity.go) - Charity project structures

## Tags
data-types, api, external

## Exports
GeoIPResponse, CharitySearchResponse

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/api_types.go" ;
    code:description "Response structures for the external geolocation and charity search APIs" ;
    code:linksTo [
        code:name "types/charity" ;
        code:path "./charity.go" ;
        code:relationship "Charity project structures"
    ] ;
    code:exports :GeoIPResponse, :CharitySearchResponse ;
    code:tags "data-types", "api", "external" .
<!-- End LinkedDoc RDF -->
*/
package types

// GeoIPResponse represents the IP geolocation API response
type GeoIPResponse struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Region      string `json:"region"`
	Timezone    string `json:"timezone"`
}

// CharitySearchResponse represents the charity search API response.
// Every level may be missing; project may be an object or an array.
type CharitySearchResponse struct {
	Search *struct {
		Response *struct {
			NumberFound int `json:"numberFound"`
			Projects    *struct {
				Project OneOrMany[CharityProject] `json:"project"`
			} `json:"projects"`
		} `json:"response"`
	} `json:"search"`
}
