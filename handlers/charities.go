/*
# Module: handlers/charities.go
Server-side proxy for the charity search API so the API key never reaches the browser.

## Linked Modules
- [clients/globalgiving](../clients/globalgiving.go) - Charity search client
- [types/charity](../types/charity.go) - Charity page shape

## Tags
http, api, proxy, charity

## Exports
CharitySearcher

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/charities.go" ;
    code:description "Server-side proxy for the charity search API so the API key never reaches the browser" ;
    code:linksTo [
        code:name "clients/globalgiving" ;
        code:path "../clients/globalgiving.go" ;
        code:relationship "Charity search client"
    ], [
        code:name "types/charity" ;
        code:path "../types/charity.go" ;
        code:relationship "Charity page shape"
    ] ;
    code:exports :CharitySearcher ;
    code:tags "http", "api", "proxy", "charity" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"recipe-giving/clients"
	"recipe-giving/types"
)

// CharitySearcher runs the hunger project search with the server-side key
type CharitySearcher interface {
	HasAPIKey() bool
	SearchHungerProjects(ctx context.Context, start int) (*clients.SearchResult, error)
}

type charitiesResponse struct {
	Error string `json:"error,omitempty"`
	types.CharityPage
}

// parseStart reads the start offset; anything invalid or negative is 0
func parseStart(r *http.Request) int {
	start, err := strconv.Atoi(r.URL.Query().Get("start"))
	if err != nil || start < 0 {
		return 0
	}
	return start
}

// handleCharities handles GET /api/charities?start=N&countryCode=CC
// countryCode is accepted and not applied upstream
func (h *Handler) handleCharities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	log := loggerFrom(r)

	if h.search == nil || !h.search.HasAPIKey() {
		log.Error("❌ Charity search API key not configured")
		writeJSON(w, http.StatusInternalServerError, charitiesResponse{
			Error:       clients.ErrMissingAPIKey.Error(),
			CharityPage: types.EmptyCharityPage(0),
		})
		return
	}

	start := parseStart(r)
	result, err := h.search.SearchHungerProjects(r.Context(), start)
	if err != nil {
		var statusErr *clients.UpstreamStatusError
		if errors.As(err, &statusErr) {
			log.WithField("status", statusErr.StatusCode).Warn("⚠️  Charity search returned an error status")
			writeJSON(w, statusErr.StatusCode, charitiesResponse{CharityPage: types.EmptyCharityPage(start)})
			return
		}

		log.WithError(err).Error("❌ Error fetching charity projects")
		writeJSON(w, http.StatusInternalServerError, charitiesResponse{
			Error:       "Failed to fetch charity projects",
			CharityPage: types.EmptyCharityPage(start),
		})
		return
	}

	if result.Outcome == clients.SearchEmpty {
		writeJSON(w, http.StatusOK, charitiesResponse{CharityPage: types.EmptyCharityPage(start)})
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, charitiesResponse{CharityPage: types.CharityPage{
		Projects:     result.Projects,
		TotalFound:   result.NumberFound,
		CurrentStart: start,
	}})
}
