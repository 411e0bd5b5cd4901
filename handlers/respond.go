package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"

	"recipe-giving/views"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorPageURL builds the /error redirect target
func ErrorPageURL(errType, details string) string {
	q := url.Values{}
	q.Set("type", errType)
	if details != "" {
		q.Set("details", details)
	}
	return "/error?" + q.Encode()
}

func redirectToError(w http.ResponseWriter, r *http.Request, errType, details string) {
	http.Redirect(w, r, ErrorPageURL(errType, details), http.StatusSeeOther)
}

// absoluteURL resolves path against the host the request came in on
func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.RenderPage(w, name, page); err != nil {
		loggerFrom(r).WithError(err).Error("❌ Failed to render page")
	}
}
