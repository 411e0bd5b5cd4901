/*
# Module: types/charity.go
Charity project and page structures returned by the charity search gateway.

## Linked Modules
(None - types package has no dependencies)

## Tags
data-types, charity, pagination

## Exports
ProjectID, CharityProject, Organization, ProjectImage, ImageLink, CharityPage, EmptyCharityPage, OneOrMany

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "types/charity.go" ;
    code:description "Charity project and page structures returned by the charity search gateway" ;
    code:exports :ProjectID, :CharityProject, :Organization, :ProjectImage, :ImageLink, :CharityPage, :EmptyCharityPage, :OneOrMany ;
    code:tags "data-types", "charity", "pagination" .
<!-- End LinkedDoc RDF -->
*/
package types

import (
	"bytes"
	"encoding/json"
)

// SourceGlobal tags projects that came from the global charity search
const SourceGlobal = "global"

// ProjectID is a charity project identifier. The search API sends numbers,
// the proxy endpoint sends strings; both decode to the same value.
type ProjectID string

// UnmarshalJSON accepts either a JSON string or a JSON number
func (id *ProjectID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProjectID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ProjectID(n.String())
	return nil
}

// Organization is the charity running a project
type Organization struct {
	Name string `json:"name"`
}

// ImageLink is one sized variant of a project image
type ImageLink struct {
	Size string `json:"size"`
	URL  string `json:"url"`
}

// ProjectImage holds the structured image variants of a project
type ProjectImage struct {
	ImageLink OneOrMany[ImageLink] `json:"imagelink"`
}

// CharityProject is an externally sourced project record.
// Only the fields the site displays are decoded.
type CharityProject struct {
	ID                 ProjectID     `json:"id"`
	Title              string        `json:"title"`
	Summary            string        `json:"summary"`
	Organization       Organization  `json:"organization"`
	ImageLink          string        `json:"imageLink,omitempty"`
	Image              *ProjectImage `json:"image,omitempty"`
	Country            string        `json:"country,omitempty"`
	ISO3166CountryCode string        `json:"iso3166CountryCode,omitempty"`
	Region             string        `json:"region,omitempty"`
	Goal               float64       `json:"goal"`
	Funding            float64       `json:"funding"`
	Remaining          float64       `json:"remaining,omitempty"`
	Active             bool          `json:"active"`
	Status             string        `json:"status,omitempty"`
	ProjectLink        string        `json:"projectLink,omitempty"`

	// Provenance tags added by the gateway
	Source        string `json:"_source,omitempty"`
	SourceCountry string `json:"_sourceCountry,omitempty"`
}

// IsActive reports whether the project still accepts donations
func (p CharityProject) IsActive() bool {
	return p.Active || p.Status == "active"
}

// PreferredImage returns the original-size image variant when one exists,
// falling back to the flat imageLink field
func (p CharityProject) PreferredImage() string {
	if p.Image != nil && len(p.Image.ImageLink) > 0 {
		for _, link := range p.Image.ImageLink {
			if link.Size == "original" && link.URL != "" {
				return link.URL
			}
		}
	}
	return p.ImageLink
}

// CharityPage is one offset-paginated page of charity projects
type CharityPage struct {
	Projects     []CharityProject `json:"projects"`
	TotalFound   int              `json:"totalFound"`
	CurrentStart int              `json:"currentStart"`
}

// EmptyCharityPage is the result of every failed fetch; it preserves the requested offset
func EmptyCharityPage(start int) CharityPage {
	return CharityPage{
		Projects:     []CharityProject{},
		TotalFound:   0,
		CurrentStart: start,
	}
}

// NextStart is the offset to request for the following page
func (p CharityPage) NextStart() int {
	return p.CurrentStart + len(p.Projects)
}

// OneOrMany decodes a JSON field that is sometimes a single object and
// sometimes an array of objects into a slice
type OneOrMany[T any] []T

// UnmarshalJSON normalizes object, array and null into a slice
func (o *OneOrMany[T]) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}

	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*o = OneOrMany[T]{one}
	return nil
}
