package handlers

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"recipe-giving/storage"
	"recipe-giving/types"
)

const defaultDonationLimit = 100

// DonationsResponse is the body of GET /admin/donations
type DonationsResponse struct {
	Donations []types.Donation    `json:"donations"`
	Count     int                 `json:"count"`
	Storage   storage.StorageInfo `json:"storage"`
}

// handleDonations handles GET /admin/donations?limit=N, most recent first
func (h *Handler) handleDonations(w http.ResponseWriter, r *http.Request) {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultDonationLimit
	}

	donations, err := h.store.GetRecent(r.Context(), limit)
	if err != nil {
		loggerFrom(r).WithError(err).Error("❌ Failed to load donations")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load donations"})
		return
	}
	if donations == nil {
		donations = []types.Donation{}
	}

	writeJSON(w, http.StatusOK, DonationsResponse{
		Donations: donations,
		Count:     len(donations),
		Storage:   h.store.Info(r.Context()),
	})
}

// handleDonationsExport handles GET /admin/donations.xlsx
func (h *Handler) handleDonationsExport(w http.ResponseWriter, r *http.Request) {
	log := loggerFrom(r)

	donations, err := h.store.GetAll(r.Context())
	if err != nil {
		log.WithError(err).Error("❌ Failed to load donations")
		http.Error(w, "Failed to load donations", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := storage.WriteDonationsXLSX(&buf, donations); err != nil {
		log.WithError(err).Error("❌ Failed to build donation export")
		http.Error(w, "Failed to build export", http.StatusInternalServerError)
		return
	}

	filename := "donations-" + time.Now().UTC().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(buf.Bytes())
	log.WithField("rows", len(donations)).Info("📄 Donation export downloaded")
}
