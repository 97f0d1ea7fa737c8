package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"cfp/middleware"

	"github.com/go-chi/chi/v5"
)

func (h *ReviewHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	filters, err := decodeFilters(r.URL.Query())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	exported, err := h.service.ExportJSON(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()), filters)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, exported)
}

func (h *ReviewHandler) ExportCards(w http.ResponseWriter, r *http.Request) {
	filters, err := decodeFilters(r.URL.Query())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	cards, err := h.service.ExportCards(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()), filters)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *ReviewHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := decodeFilters(r.URL.Query())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	eventSlug := chi.URLParam(r, "event")
	var buf bytes.Buffer
	err = h.service.ExportCSV(r.Context(), chi.URLParam(r, "team"), eventSlug,
		middleware.CallerID(r.Context()), filters, &buf)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s_proposals_%s.csv", eventSlug, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
