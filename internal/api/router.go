package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/service"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *service.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.UpsertNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Delete("/notes/{id}", h.DeleteNote)
	r.Get("/notes/{id}/backlinks", h.Backlinks)
	r.Put("/notes/{id}/tags", h.ReplaceTags)
	r.Put("/notes/{id}/links", h.ReplaceLinks)
	r.Put("/notes/{id}/folder", h.MoveNoteToFolder)
	r.Get("/notes/{id}/reminders", h.NoteReminders)

	// Search.
	r.Get("/search", h.Search)
	r.Get("/tags", h.ListTags)
	r.Get("/searches", h.ListSavedSearches)
	r.Post("/searches", h.SaveSearch)
	r.Post("/searches/{id}/use", h.UseSavedSearch)
	r.Delete("/searches/{id}", h.DeleteSavedSearch)

	// Folders.
	r.Get("/folders", h.ListFolders)
	r.Post("/folders", h.UpsertFolder)
	r.Get("/folders/{id}", h.GetFolder)
	r.Delete("/folders/{id}", h.DeleteFolder)
	r.Get("/folders/{id}/tree", h.FolderTree)
	r.Get("/folders/{id}/notes", h.FolderNotes)

	// Reminders.
	r.Post("/reminders", h.CreateReminder)
	r.Get("/reminders/due", h.DueReminders)
	r.Post("/reminders/{id}/snooze", h.SnoozeReminder)
	r.Delete("/reminders/{id}", h.DismissReminder)

	// Sync outbox.
	r.Get("/sync/pending", h.PendingOps)
	r.Post("/sync/ack", h.AckOps)
	r.Post("/sync/flush", h.FlushOps)

	// Graph.
	r.Get("/graph", h.Graph)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
