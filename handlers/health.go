/*
# Module: handlers/health.go
Health check endpoint handler.

## Linked Modules
- [storage/repository](../storage/repository.go) - Storage backend info

## Tags
http, health, api

## Exports
HandleHealth

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/health.go" ;
    code:description "Health check endpoint handler" ;
    code:linksTo [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Storage backend info"
    ] ;
    code:exports :HandleHealth ;
    code:tags "http", "health", "api" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"net/http"

	"recipe-giving/storage"
)

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status  string              `json:"status"`
	Storage storage.StorageInfo `json:"storage"`
}

// HandleHealth handles GET /api/health
// Returns the service status and which storage backend is active
func HandleHealth(backend storage.Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok"}
		if backend != nil {
			resp.Storage = backend.Info(r.Context())
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
