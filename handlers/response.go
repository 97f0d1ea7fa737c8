package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"cfp/apperrors"
	"cfp/logging"
	"cfp/models"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
}

var filterDecoder = newFilterDecoder()

func newFilterDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError("write_response", err, nil)
	}
}

// WriteError answers with the error's code and status. Internal errors are
// logged and their text is not sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	message := "internal error"

	if apperrors.IsBusiness(err) {
		message = err.Error()
	} else {
		logging.LogError("http_request", err, logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		})
	}

	writeJSON(w, code.HTTPStatus(), errorBody{Error: errorDetail{Code: code, Message: message}})
}

// decodeFilters reads the filters from the query string. Empty values
// count as absent. Services validate them once the caller is authorized.
func decodeFilters(query url.Values) (models.Filters, error) {
	values := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if v != "" {
				values.Add(k, v)
			}
		}
	}

	var filters models.Filters
	if err := filterDecoder.Decode(&filters, values); err != nil {
		return models.Filters{}, apperrors.Validation(err.Error())
	}
	return filters, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Validation("invalid request body")
	}
	return nil
}

func idParam(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.ErrProposalNotFound
	}
	return uint(id), nil
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
