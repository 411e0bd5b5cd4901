package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"recipe-giving/services"
	"recipe-giving/views"
)

// ModalResponse is returned by every modal action
type ModalResponse struct {
	HTML        string `json:"html,omitempty"`
	CheckoutURL string `json:"checkoutUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

func modalKey(r *http.Request) services.SessionKey {
	return services.SessionKey{VisitorID: VisitorID(r.Context()), RecipeID: chi.URLParam(r, "id")}
}

// handleModalSelect handles POST /recipes/{id}/modal/select
func (h *Handler) handleModalSelect(w http.ResponseWriter, r *http.Request) {
	key := modalKey(r)
	state, err := h.modal.Select(key, r.FormValue("project_id"))
	h.respondModal(w, r, key, state, "", err)
}

// handleModalMore handles POST /recipes/{id}/modal/more
func (h *Handler) handleModalMore(w http.ResponseWriter, r *http.Request) {
	key := modalKey(r)
	state, err := h.modal.LoadMore(r.Context(), key)
	h.respondModal(w, r, key, state, "", err)
}

// handleModalDonate handles POST /recipes/{id}/modal/donate
func (h *Handler) handleModalDonate(w http.ResponseWriter, r *http.Request) {
	key := modalKey(r)
	state, checkout, err := h.modal.Donate(r.Context(), key)
	h.respondModal(w, r, key, state, checkout, err)
}

func (h *Handler) respondModal(w http.ResponseWriter, r *http.Request, key services.SessionKey, state services.ModalState, checkout string, actionErr error) {
	if errors.Cause(actionErr) == services.ErrNoSession {
		writeJSON(w, http.StatusNotFound, ModalResponse{Error: "Charity selection expired, reload the recipe"})
		return
	}

	name, loc, err := h.modal.Describe(key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, ModalResponse{Error: "Charity selection expired, reload the recipe"})
		return
	}

	html, err := h.renderer.RenderModal(views.BuildModalView(state, loc, key.RecipeID, name))
	if err != nil {
		loggerFrom(r).WithError(err).Error("❌ Failed to render charity modal")
		writeJSON(w, http.StatusInternalServerError, ModalResponse{Error: "Failed to render charity selection"})
		return
	}

	resp := ModalResponse{HTML: html, CheckoutURL: checkout}
	status := http.StatusOK
	if actionErr != nil {
		resp.Error = actionErr.Error()
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}
