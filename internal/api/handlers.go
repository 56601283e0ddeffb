package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/service"
	"github.com/starford/laguz/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListNotes handles GET /notes.
//
//	@Summary		List notes, newest first
//	@Tags			notes
//	@Produce		json
//	@Param			cursor	query		string	false	"Keyset cursor (RFC 3339 updated_at of the last seen note)"
//	@Param			limit	query		int		false	"Page size"
//	@Param			offset	query		int		false	"Page offset (ignored when cursor is set)"
//	@Success		200		{object}	NoteListResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	var cursor time.Time
	if c := q.Get("cursor"); c != "" {
		parsed, err := time.Parse(time.RFC3339Nano, c)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid cursor"))
			return
		}
		cursor = parsed
	}

	notes, err := h.svc.ListNotes(r.Context(), cursor, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := NoteListResponse{Notes: notes}
	if resp.Notes == nil {
		resp.Notes = []models.Note{}
	}
	if limit > 0 && len(notes) == limit {
		resp.NextCursor = notes[len(notes)-1].UpdatedAt.Format(time.RFC3339Nano)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetNote handles GET /notes/{id}.
//
//	@Summary		Get a single note with tags, links, and folder
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{object}	NoteDetail
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [get]
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, err := h.svc.GetNote(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// UpsertNote handles POST /notes.
//
//	@Summary		Insert or replace a note by id
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.NoteInput	true	"Note to upsert (id optional; tags/links omitted means derive from body)"
//	@Success		200		{object}	models.Note
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) UpsertNote(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var in service.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	note, err := h.svc.UpsertNote(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /notes/{id} (soft delete).
//
//	@Summary		Soft-delete a note (retained as a sync tombstone)
//	@Tags			notes
//	@Param			id	path	string	true	"Note id"
//	@Success		204	"Note deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplaceTags handles PUT /notes/{id}/tags.
//
//	@Summary		Replace the full tag set of a note
//	@Tags			notes
//	@Accept			json
//	@Param			id		path	string				true	"Note id"
//	@Param			body	body	ReplaceTagsRequest	true	"New tag set"
//	@Success		204		"Tags replaced"
//	@Security		BearerAuth
//	@Router			/notes/{id}/tags [put]
func (h *Handler) ReplaceTags(w http.ResponseWriter, r *http.Request) {
	var req ReplaceTagsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Tags == nil {
		req.Tags = []string{}
	}
	if err := h.svc.ReplaceTags(r.Context(), chi.URLParam(r, "id"), req.Tags); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplaceLinks handles PUT /notes/{id}/links.
//
//	@Summary		Replace the outgoing links of a note
//	@Tags			notes
//	@Accept			json
//	@Param			id		path	string				true	"Note id"
//	@Param			body	body	ReplaceLinksRequest	true	"New link targets (titles)"
//	@Success		204		"Links replaced"
//	@Security		BearerAuth
//	@Router			/notes/{id}/links [put]
func (h *Handler) ReplaceLinks(w http.ResponseWriter, r *http.Request) {
	var req ReplaceLinksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Links == nil {
		req.Links = []string{}
	}
	if err := h.svc.ReplaceLinks(r.Context(), chi.URLParam(r, "id"), req.Links); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Backlinks handles GET /notes/{id}/backlinks.
//
//	@Summary		Find notes linking to this note's title
//	@Tags			notes
//	@Produce		json
//	@Param			id	path		string	true	"Note id"
//	@Success		200	{array}		models.Backlink
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/backlinks [get]
func (h *Handler) Backlinks(w http.ResponseWriter, r *http.Request) {
	note, err := h.svc.GetNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	bl, err := h.svc.Backlinks(r.Context(), note.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bl)
}

// Search handles GET /search.
//
//	@Summary		Text or tag search ("#x" matches tags) across notes
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if results == nil {
		results = []models.Note{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListTags handles GET /tags.
//
//	@Summary		List all tags with usage counts
//	@Tags			search
//	@Produce		json
//	@Success		200	{array}	models.TagCount
//	@Security		BearerAuth
//	@Router			/tags [get]
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.svc.ListTags(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// Graph handles GET /graph.
//
//	@Summary		Get the note graph (non-deleted notes and resolved links)
//	@Tags			graph
//	@Produce		json
//	@Success		200	{object}	GraphResponse
//	@Security		BearerAuth
//	@Router			/graph [get]
func (h *Handler) Graph(w http.ResponseWriter, r *http.Request) {
	nodes, links, err := h.svc.Graph(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if nodes == nil {
		nodes = []store.GraphNode{}
	}
	if links == nil {
		links = []store.GraphLink{}
	}
	writeJSON(w, http.StatusOK, GraphResponse{Nodes: nodes, Links: links})
}
