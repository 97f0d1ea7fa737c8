package handlers

import (
	"net/http"

	"cfp/deliberation"
	"cfp/middleware"

	"github.com/go-chi/chi/v5"
)

func (h *ReviewHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var input deliberation.SettingsInput
	if err := decodeBody(r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	event, err := h.service.UpdateReviewSettings(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()), input)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *ReviewHandler) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	key, err := h.service.RegenerateAPIKey(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"api_key": key})
}

func (h *ReviewHandler) RenameEvent(w http.ResponseWriter, r *http.Request) {
	var input deliberation.RenameInput
	if err := decodeBody(r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	event, err := h.service.RenameEvent(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()), input)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
