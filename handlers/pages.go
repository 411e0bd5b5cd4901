package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"recipe-giving/services"
	"recipe-giving/views"
)

const (
	homeRecipeCount = 6
	recipesPerPage  = 12
	recipesError    = "Error loading recipes"
)

// handleHome handles GET /
func (h *Handler) handleHome(w http.ResponseWriter, r *http.Request) {
	view := views.HomeView{}
	list, err := h.recipes.List(r.Context(), "", "", 1, homeRecipeCount)
	if err != nil {
		loggerFrom(r).WithError(err).Warn("⚠️  Failed to load featured recipes")
		view.Error = recipesError
	} else {
		view.Recipes = views.RecipeCards(list.Meals)
	}

	h.renderPage(w, r, http.StatusOK, views.PageHome, views.Page{Nav: views.NavHome, Body: view})
}

// handleRecipes handles GET /recipes?q=&category=&page=
func (h *Handler) handleRecipes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, category := q.Get("q"), q.Get("category")
	page, _ := strconv.Atoi(q.Get("page"))

	var categories []string
	if h.categories != nil {
		var err error
		if categories, err = h.categories.Categories(r.Context()); err != nil {
			loggerFrom(r).WithError(err).Warn("⚠️  Failed to load recipe categories")
		}
	}

	var view views.RecipesView
	list, err := h.recipes.List(r.Context(), query, category, page, recipesPerPage)
	if err != nil {
		loggerFrom(r).WithError(err).Warn("⚠️  Failed to load recipes")
		view = views.RecipesView{Query: query, Category: category, Categories: categories, Error: recipesError}
	} else {
		view = views.NewRecipesView(list, categories)
	}

	h.renderPage(w, r, http.StatusOK, views.PageRecipes, views.Page{Title: "Recipes", Nav: views.NavRecipes, Body: view})
}

// handleRecipeDetail handles GET /recipes/{id}: recipe, location, meal value
// and the first page of charities for the modal
func (h *Handler) handleRecipeDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	visitor := VisitorID(r.Context())
	log := loggerFrom(r).WithField("recipe_id", id)

	detail, err := h.recipes.Detail(r.Context(), id, visitor, h.clientIP(r))
	if err != nil {
		if errors.Cause(err) == services.ErrRecipeNotFound {
			log.Info("⚠️  Recipe not found")
			redirectToError(w, r, views.ErrorRecipeNotFound, "Recipe ID: "+id)
			return
		}
		log.WithError(err).Error("❌ Recipe lookup failed")
		redirectToError(w, r, views.ErrorAPI, "Recipe ID: "+id)
		return
	}

	key := services.SessionKey{VisitorID: visitor, RecipeID: id}
	state := h.modal.Open(r.Context(), key, detail.Meal.Name, detail.Location, detail.MealValue)

	view := views.NewDetailView(detail, state)
	h.renderPage(w, r, http.StatusOK, views.PageDetail, views.Page{
		Title:         view.Name,
		Nav:           views.NavRecipes,
		OGTitle:       "Donate the cost of " + view.Name,
		OGDescription: view.ShareCaption,
		OGImage:       absoluteURL(r, view.ShareImageURL),
		Body:          view,
	})
}

// handleErrorPage handles GET /error?type=&message=&details=
func (h *Handler) handleErrorPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := views.BuildErrorView(q.Get("type"), q.Get("message"), q.Get("details"))
	h.renderPage(w, r, http.StatusOK, views.PageError, views.Page{Title: "Error", Body: view})
}

// handleLocation handles GET /api/location
func (h *Handler) handleLocation(w http.ResponseWriter, r *http.Request) {
	loc := h.locations.Resolve(r.Context(), VisitorID(r.Context()), h.clientIP(r))
	writeJSON(w, http.StatusOK, loc)
}
