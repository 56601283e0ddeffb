package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/service"
)

// ListSavedSearches handles GET /searches.
//
//	@Summary		List saved searches ranked by usage
//	@Tags			search
//	@Produce		json
//	@Success		200	{array}	models.SavedSearch
//	@Security		BearerAuth
//	@Router			/searches [get]
func (h *Handler) ListSavedSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.svc.ListSavedSearches(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if searches == nil {
		searches = []models.SavedSearch{}
	}
	writeJSON(w, http.StatusOK, searches)
}

// SaveSearch handles POST /searches.
//
//	@Summary		Save a named search definition
//	@Tags			search
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.SavedSearchInput	true	"Search to save (id optional)"
//	@Success		200		{object}	models.SavedSearch
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/searches [post]
func (h *Handler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	var in service.SavedSearchInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	ss, err := h.svc.SaveSearch(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ss)
}

// UseSavedSearch handles POST /searches/{id}/use.
//
//	@Summary		Run a saved search and bump its usage counter
//	@Tags			search
//	@Produce		json
//	@Param			id		path		string	true	"Saved search id"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/searches/{id}/use [post]
func (h *Handler) UseSavedSearch(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.UseSavedSearch(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []models.Note{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// DeleteSavedSearch handles DELETE /searches/{id}.
//
//	@Summary		Delete a saved search
//	@Tags			search
//	@Param			id	path	string	true	"Saved search id"
//	@Success		204	"Saved search deleted"
//	@Security		BearerAuth
//	@Router			/searches/{id} [delete]
func (h *Handler) DeleteSavedSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSavedSearch(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
