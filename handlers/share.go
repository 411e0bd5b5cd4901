package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"recipe-giving/services"
	"recipe-giving/storage"
)

// handleShareImage handles GET /recipes/{id}/share.png. With a publisher the
// card is uploaded and the client redirected to it, otherwise the PNG is served.
func (h *Handler) handleShareImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	log := loggerFrom(r).WithField("recipe_id", id)

	if h.share == nil {
		http.NotFound(w, r)
		return
	}

	detail, err := h.recipes.Detail(r.Context(), id, VisitorID(r.Context()), h.clientIP(r))
	if err != nil {
		if errors.Cause(err) == services.ErrRecipeNotFound {
			http.NotFound(w, r)
			return
		}
		log.WithError(err).Warn("⚠️  Recipe lookup failed for share image")
		http.Error(w, "Recipe service unavailable", http.StatusBadGateway)
		return
	}

	amount := services.FormatForLocation(detail.MealValue, &detail.Location)
	png, err := h.share.Render(r.Context(), services.ShareCard{
		RecipeName:   detail.Meal.Name,
		Category:     detail.Meal.Category,
		Area:         detail.Meal.Area,
		Amount:       amount,
		ThumbnailURL: detail.Meal.Thumbnail,
	})
	if err != nil {
		log.WithError(err).Error("❌ Failed to render share image")
		http.Error(w, "Failed to render share image", http.StatusInternalServerError)
		return
	}

	if h.publisher != nil {
		key := storage.ShareImageKey(id, detail.MealValue, detail.Location.Currency)
		url, err := h.publisher.PublishPNG(r.Context(), key, png)
		if err == nil {
			log.WithField("url", url).Info("🖼️  Share image published")
			http.Redirect(w, r, url, http.StatusFound)
			return
		}
		log.WithError(err).Warn("⚠️  Failed to publish share image, serving directly")
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
