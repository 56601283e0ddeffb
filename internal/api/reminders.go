package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/service"
)

func reminderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// CreateReminder handles POST /reminders.
//
//	@Summary		Attach a time, location, or recurring reminder to a note
//	@Tags			reminders
//	@Accept			json
//	@Produce		json
//	@Param			body	body		service.ReminderInput	true	"Reminder to create"
//	@Success		200		{object}	models.Reminder
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reminders [post]
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var in service.ReminderInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	rem, err := h.svc.CreateReminder(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rem)
}

// NoteReminders handles GET /notes/{id}/reminders.
//
//	@Summary		List the active reminders of a note
//	@Tags			reminders
//	@Produce		json
//	@Param			id	path	string	true	"Note id"
//	@Success		200	{array}	models.Reminder
//	@Security		BearerAuth
//	@Router			/notes/{id}/reminders [get]
func (h *Handler) NoteReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.svc.RemindersForNote(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	writeJSON(w, http.StatusOK, reminders)
}

// DueReminders handles GET /reminders/due.
//
//	@Summary		List reminders due now (snooze-aware)
//	@Tags			reminders
//	@Produce		json
//	@Success		200	{array}	models.Reminder
//	@Security		BearerAuth
//	@Router			/reminders/due [get]
func (h *Handler) DueReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.svc.DueReminders(r.Context(), time.Now().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	writeJSON(w, http.StatusOK, reminders)
}

// SnoozeReminder handles POST /reminders/{id}/snooze.
//
//	@Summary		Snooze a reminder until a given time
//	@Tags			reminders
//	@Accept			json
//	@Param			id		path	int				true	"Reminder id"
//	@Param			body	body	SnoozeRequest	true	"Snooze target time (RFC 3339)"
//	@Success		204		"Reminder snoozed"
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reminders/{id}/snooze [post]
func (h *Handler) SnoozeReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := reminderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid reminder id"))
		return
	}
	var req SnoozeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	until, err := time.Parse(time.RFC3339, req.Until)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("until must be RFC 3339"))
		return
	}
	if err := h.svc.SnoozeReminder(r.Context(), id, until.UTC()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DismissReminder handles DELETE /reminders/{id}.
//
//	@Summary		Deactivate a reminder
//	@Tags			reminders
//	@Param			id	path	int	true	"Reminder id"
//	@Success		204	"Reminder dismissed"
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/reminders/{id} [delete]
func (h *Handler) DismissReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := reminderID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid reminder id"))
		return
	}
	if err := h.svc.DismissReminder(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
