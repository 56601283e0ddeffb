package api

import (
	"encoding/json"
	"net/http"

	"github.com/starford/laguz/internal/models"
)

// PendingOps handles GET /sync/pending.
//
//	@Summary		List outbox operations awaiting push, oldest first
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	PendingResponse
//	@Security		BearerAuth
//	@Router			/sync/pending [get]
func (h *Handler) PendingOps(w http.ResponseWriter, r *http.Request) {
	ops, err := h.svc.PendingOps(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ops == nil {
		ops = []models.PendingOp{}
	}
	writeJSON(w, http.StatusOK, PendingResponse{Ops: ops})
}

// AckOps handles POST /sync/ack.
//
//	@Summary		Remove acknowledged operations from the outbox
//	@Tags			sync
//	@Accept			json
//	@Param			body	body	AckRequest	true	"Acknowledged operation ids"
//	@Success		204		"Operations removed"
//	@Security		BearerAuth
//	@Router			/sync/ack [post]
func (h *Handler) AckOps(w http.ResponseWriter, r *http.Request) {
	var req AckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.AckOps(r.Context(), req.IDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// FlushOps handles POST /sync/flush.
//
//	@Summary		Drain the entire outbox in one transaction
//	@Tags			sync
//	@Produce		json
//	@Success		200	{object}	PendingResponse
//	@Security		BearerAuth
//	@Router			/sync/flush [post]
func (h *Handler) FlushOps(w http.ResponseWriter, r *http.Request) {
	ops, err := h.svc.FlushOps(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if ops == nil {
		ops = []models.PendingOp{}
	}
	writeJSON(w, http.StatusOK, PendingResponse{Ops: ops})
}
