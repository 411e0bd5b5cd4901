/*
# Module: handlers/handler.go
HTTP routing for the recipe site, the charity modal actions and the JSON API.

## Linked Modules
- [services/recipes](../services/recipes.go) - Recipe pages
- [services/modal_sessions](../services/modal_sessions.go) - Charity modal sessions
- [views/render](../views/render.go) - HTML rendering
- [storage/repository](../storage/repository.go) - Donation log

## Tags
http, routing, middleware

## Exports
Handler, Config, New, RecipeService, CategorySource, ShareRenderer, SharePublisher

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "handlers/handler.go" ;
    code:description "HTTP routing for the recipe site, the charity modal actions and the JSON API" ;
    code:linksTo [
        code:name "services/recipes" ;
        code:path "../services/recipes.go" ;
        code:relationship "Recipe pages"
    ], [
        code:name "services/modal_sessions" ;
        code:path "../services/modal_sessions.go" ;
        code:relationship "Charity modal sessions"
    ], [
        code:name "views/render" ;
        code:path "../views/render.go" ;
        code:relationship "HTML rendering"
    ], [
        code:name "storage/repository" ;
        code:path "../storage/repository.go" ;
        code:relationship "Donation log"
    ] ;
    code:exports :Handler, :Config, :New, :RecipeService, :CategorySource, :ShareRenderer, :SharePublisher ;
    code:tags "http", "routing", "middleware" .
<!-- End LinkedDoc RDF -->
*/
package handlers

import (
	"context"
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"recipe-giving/services"
	"recipe-giving/storage"
	"recipe-giving/views"
)

// RecipeService builds the recipe list and detail pages
type RecipeService interface {
	List(ctx context.Context, query, category string, page, perPage int) (services.RecipeList, error)
	Detail(ctx context.Context, id, visitorID, clientIP string) (*services.RecipeDetail, error)
}

// CategorySource lists recipe categories for the filter dropdown
type CategorySource interface {
	Categories(ctx context.Context) ([]string, error)
}

// ShareRenderer draws the share card PNG
type ShareRenderer interface {
	Render(ctx context.Context, card services.ShareCard) ([]byte, error)
}

// SharePublisher uploads a share card and returns its public URL
type SharePublisher interface {
	PublishPNG(ctx context.Context, key string, data []byte) (string, error)
}

// Config wires the handler's collaborators. Categories, Search, Share,
// Publisher and Limiter are optional. Forwarding headers are honoured only
// from TrustedProxies.
type Config struct {
	Recipes        RecipeService
	Categories     CategorySource
	Locations      services.LocationSource
	Modal          *services.ModalService
	Search         CharitySearcher
	Storage        storage.Backend
	Renderer       *views.Renderer
	Share          ShareRenderer
	Publisher      SharePublisher
	Limiter        *RateLimiter
	TrustedProxies []netip.Prefix
	AdminPassword  string
	SecureCookies  bool
	Logger         logrus.FieldLogger
}

// Handler serves every route of the site
type Handler struct {
	recipes        RecipeService
	categories     CategorySource
	locations      services.LocationSource
	modal          *services.ModalService
	search         CharitySearcher
	store          storage.Backend
	renderer       *views.Renderer
	share          ShareRenderer
	publisher      SharePublisher
	limiter        *RateLimiter
	trustedProxies []netip.Prefix
	adminPassword  string
	secureCookies  bool
	log            logrus.FieldLogger
}

func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		recipes:        cfg.Recipes,
		categories:     cfg.Categories,
		locations:      cfg.Locations,
		modal:          cfg.Modal,
		search:         cfg.Search,
		store:          cfg.Storage,
		renderer:       cfg.Renderer,
		share:          cfg.Share,
		publisher:      cfg.Publisher,
		limiter:        cfg.Limiter,
		trustedProxies: cfg.TrustedProxies,
		adminPassword:  cfg.AdminPassword,
		secureCookies:  cfg.SecureCookies,
		log:            log,
	}
}

// Routes builds the router with the shared middleware stack
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.visitor)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5, "text/html", "application/json"))

	r.Get("/", h.handleHome)
	r.Get("/error", h.handleErrorPage)

	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.handleRecipes)
		r.Get("/{id}", h.handleRecipeDetail)
		r.Get("/{id}/share.png", h.handleShareImage)
		r.Post("/{id}/modal/select", h.handleModalSelect)
		r.Post("/{id}/modal/more", h.handleModalMore)
		r.Post("/{id}/modal/donate", h.handleModalDonate)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", HandleHealth(h.store))
		r.Get("/location", h.handleLocation)
		r.With(h.limitCharities).Get("/charities", h.handleCharities)
	})

	if h.adminPassword != "" && h.store != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.BasicAuth("recipe-giving admin", map[string]string{"admin": h.adminPassword}))
			r.Get("/donations", h.handleDonations)
			r.Get("/donations.xlsx", h.handleDonationsExport)
		})
	}

	return r
}
