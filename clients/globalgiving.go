/*
# Module: clients/globalgiving.go
GlobalGiving project search client: fetches hunger-themed projects and
normalizes the search response into charity pages.

## Linked Modules
- [types/charity](../types/charity.go) - Charity project structures
- [types/api_types](../types/api_types.go) - Search response envelope

## Tags
api-client, external, charity, globalgiving

## Exports
GlobalGivingClient, NewGlobalGivingClient, ParseSearchResponse, SearchResult, SearchOutcome, UpstreamStatusError, ErrMissingAPIKey

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "clients/globalgiving.go" ;
    code:description "GlobalGiving project search client" ;
    code:linksTo [
        code:name "types/charity" ;
        code:path "../types/charity.go" ;
        code:relationship "Charity project structures"
    ], [
        code:name "types/api_types" ;
        code:path "../types/api_types.go" ;
        code:relationship "Search response envelope"
    ] ;
    code:exports :GlobalGivingClient, :NewGlobalGivingClient, :ParseSearchResponse, :SearchResult, :SearchOutcome, :UpstreamStatusError, :ErrMissingAPIKey ;
    code:tags "api-client", "external", "charity", "globalgiving" .
<!-- End LinkedDoc RDF -->
*/
package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"recipe-giving/logging"
	"recipe-giving/types"
)

// DefaultGlobalGivingURL is the public API host
const DefaultGlobalGivingURL = "https://api.globalgiving.org"

// ErrMissingAPIKey means no GlobalGiving key is configured
var ErrMissingAPIKey = errors.New("API key not configured")

// UpstreamStatusError carries a non-2xx status from the search API
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("charity search returned status %d", e.StatusCode)
}

// SearchOutcome tags a parsed search response
type SearchOutcome int

const (
	// SearchOK means the response carried a project field (possibly an empty list)
	SearchOK SearchOutcome = iota
	// SearchEmpty means the response had no project field at all
	SearchEmpty
)

// SearchResult is a normalized search response
type SearchResult struct {
	Outcome     SearchOutcome
	Projects    []types.CharityProject
	NumberFound int
}

// ParseSearchResponse decodes a search body, keeps only active projects and
// tags each with its source and display country
func ParseSearchResponse(body []byte) (*SearchResult, error) {
	var resp types.CharitySearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode charity search response")
	}

	if resp.Search == nil || resp.Search.Response == nil ||
		resp.Search.Response.Projects == nil || resp.Search.Response.Projects.Project == nil {
		return &SearchResult{Outcome: SearchEmpty, Projects: []types.CharityProject{}}, nil
	}

	projects := make([]types.CharityProject, 0, len(resp.Search.Response.Projects.Project))
	for _, p := range resp.Search.Response.Projects.Project {
		if !p.IsActive() {
			continue
		}
		p.Source = types.SourceGlobal
		p.SourceCountry = firstNonEmpty(p.Country, p.ISO3166CountryCode, "Unknown")
		projects = append(projects, p)
	}

	return &SearchResult{
		Outcome:     SearchOK,
		Projects:    projects,
		NumberFound: resp.Search.Response.NumberFound,
	}, nil
}

// GlobalGivingClient calls the search API directly with the server-side key
type GlobalGivingClient struct {
	apiKey string
	http   *resty.Client
}

// NewGlobalGivingClient creates a client; an empty baseURL uses the public API
func NewGlobalGivingClient(apiKey, baseURL string) *GlobalGivingClient {
	if baseURL == "" {
		baseURL = DefaultGlobalGivingURL
	}
	return &GlobalGivingClient{
		apiKey: apiKey,
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(10 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// HasAPIKey reports whether a key is configured
func (c *GlobalGivingClient) HasAPIKey() bool {
	return c.apiKey != ""
}

// SearchHungerProjects fetches one page (ten projects) of hunger-themed projects at offset start
func (c *GlobalGivingClient) SearchHungerProjects(ctx context.Context, start int) (*SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key": c.apiKey,
			"q":       "*",
			"filter":  "theme:hunger",
			"start":   strconv.Itoa(start),
		}).
		Get("/api/public/services/search/projects")
	if err != nil {
		return nil, errors.Wrap(err, "failed to call charity search")
	}

	if !resp.IsSuccess() {
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode()}
	}

	return ParseSearchResponse(resp.Body())
}

// FetchCharityPage never fails: any error yields an empty page at start.
// countryCode is accepted for future filtering and not applied.
func (c *GlobalGivingClient) FetchCharityPage(ctx context.Context, countryCode string, start int) types.CharityPage {
	log := logging.FromContext(ctx).WithFields(logrus.Fields{"start": start, "country": countryCode})

	result, err := c.SearchHungerProjects(ctx, start)
	if err != nil {
		log.WithError(err).Warn("⚠️  Charity search failed")
		return types.EmptyCharityPage(start)
	}
	if result.Outcome == SearchEmpty {
		return types.EmptyCharityPage(start)
	}

	return types.CharityPage{
		Projects:     result.Projects,
		TotalFound:   result.NumberFound,
		CurrentStart: start,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
