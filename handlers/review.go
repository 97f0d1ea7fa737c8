package handlers

import (
	"net/http"

	"cfp/authz"
	"cfp/deliberation"
	"cfp/middleware"
	"cfp/models"

	"github.com/go-chi/chi/v5"
)

// ReviewHandler serves the team side: review screens, scoring, decisions,
// exports and event settings.
type ReviewHandler struct {
	service *deliberation.Service
	gate    *authz.Gate
}

func NewReviewHandler(service *deliberation.Service, gate *authz.Gate) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		gate:    gate,
	}
}

func (h *ReviewHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	set, err := h.gate.PermissionsOf(r.Context(), middleware.CallerID(r.Context()), chi.URLParam(r, "team"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}

func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, err := decodeFilters(r.URL.Query())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	listing, err := h.service.ListProposals(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()), filters, pageParam(r))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *ReviewHandler) Detail(w http.ResponseWriter, r *http.Request) {
	proposalID, err := idParam(r, "proposal")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	detail, err := h.service.GetProposal(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		proposalID, middleware.CallerID(r.Context()))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ReviewHandler) Navigation(w http.ResponseWriter, r *http.Request) {
	proposalID, err := idParam(r, "proposal")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	filters, err := decodeFilters(r.URL.Query())
	if err != nil {
		WriteError(w, r, err)
		return
	}

	nav, err := h.service.GetPreviousAndNext(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		proposalID, middleware.CallerID(r.Context()), filters)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nav)
}

func (h *ReviewHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	proposalID, err := idParam(r, "proposal")
	if err != nil {
		WriteError(w, r, err)
		return
	}
	var input models.ReviewInput
	if err := decodeBody(r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	outcome, err := h.service.AddReview(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		proposalID, middleware.CallerID(r.Context()), input)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *ReviewHandler) Speakers(w http.ResponseWriter, r *http.Request) {
	proposalID, err := idParam(r, "proposal")
	if err != nil {
		WriteError(w, r, err)
		return
	}

	speakers, err := h.service.GetSpeakerInfo(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		proposalID, middleware.CallerID(r.Context()))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, speakers)
}

func (h *ReviewHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input deliberation.StatusInput
	if err := decodeBody(r, &input); err != nil {
		WriteError(w, r, err)
		return
	}

	updated, err := h.service.BulkUpdateStatus(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()), input)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *ReviewHandler) PublishResults(w http.ResponseWriter, r *http.Request) {
	published, err := h.service.PublishResults(r.Context(), chi.URLParam(r, "team"), chi.URLParam(r, "event"),
		middleware.CallerID(r.Context()))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"published": published})
}
