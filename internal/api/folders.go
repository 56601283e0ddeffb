package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/service"
)

// ListFolders handles GET /folders.
//
//	@Summary		List child folders (roots when parent is omitted)
//	@Tags			folders
//	@Produce		json
//	@Param			parent	query	string	false	"Parent folder id"
//	@Success		200		{array}	models.Folder
//	@Security		BearerAuth
//	@Router			/folders [get]
func (h *Handler) ListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.svc.ListFolders(r.Context(), r.URL.Query().Get("parent"))
	if err != nil {
		writeError(w, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	writeJSON(w, http.StatusOK, folders)
}

// UpsertFolder handles POST /folders.
//
//	@Summary		Insert or replace a folder by id
//	@Tags			folders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.FolderInput	true	"Folder to upsert (id optional)"
//	@Success		200		{object}	models.Folder
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders [post]
func (h *Handler) UpsertFolder(w http.ResponseWriter, r *http.Request) {
	var in service.FolderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	folder, err := h.svc.UpsertFolder(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// GetFolder handles GET /folders/{id}.
//
//	@Summary		Get a folder by id
//	@Tags			folders
//	@Produce		json
//	@Param			id	path		string	true	"Folder id"
//	@Success		200	{object}	models.Folder
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id} [get]
func (h *Handler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.svc.GetFolder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /folders/{id}.
//
//	@Summary		Soft-delete a folder, its descendants, and filed notes
//	@Tags			folders
//	@Param			id	path	string	true	"Folder id"
//	@Success		204	"Folder tree deleted"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id} [delete]
func (h *Handler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteFolderTree(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FolderTree handles GET /folders/{id}/tree.
//
//	@Summary		Get a folder's path and full subtree
//	@Tags			folders
//	@Produce		json
//	@Param			id	path		string	true	"Folder id"
//	@Success		200	{object}	FolderTreeResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/folders/{id}/tree [get]
func (h *Handler) FolderTree(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	path, err := h.svc.FolderPath(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	folders, err := h.svc.FolderSubtree(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	writeJSON(w, http.StatusOK, FolderTreeResponse{Path: path, Folders: folders})
}

// FolderNotes handles GET /folders/{id}/notes.
//
//	@Summary		List the notes filed in a folder
//	@Tags			folders
//	@Produce		json
//	@Param			id	path	string	true	"Folder id"
//	@Success		200	{array}	models.Note
//	@Security		BearerAuth
//	@Router			/folders/{id}/notes [get]
func (h *Handler) FolderNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.svc.NotesInFolder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// MoveNoteToFolder handles PUT /notes/{id}/folder.
//
//	@Summary		File a note into a folder (empty folder_id unfiles it)
//	@Tags			folders
//	@Accept			json
//	@Param			id		path	string				true	"Note id"
//	@Param			body	body	MoveToFolderRequest	true	"Target folder"
//	@Success		204		"Note moved"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{id}/folder [put]
func (h *Handler) MoveNoteToFolder(w http.ResponseWriter, r *http.Request) {
	var req MoveToFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.MoveNoteToFolder(r.Context(), chi.URLParam(r, "id"), req.FolderID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
