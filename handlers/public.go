package handlers

import (
	"net/http"

	"cfp/publicapi"

	"github.com/go-chi/chi/v5"
)

type PublicHandler struct {
	service *publicapi.Service
}

func NewPublicHandler(service *publicapi.Service) *PublicHandler {
	return &PublicHandler{service: service}
}

// EventProposals serves GET /api/v1/event/{event}?key=...
func (h *PublicHandler) EventProposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	key := query.Get("key")
	query.Del("key")

	filters, err := decodeFilters(query)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	res, err := h.service.Proposals(r.Context(), chi.URLParam(r, "event"), key, filters)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
