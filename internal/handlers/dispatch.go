package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/dispatch"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/metrics"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/store"
)

// StartDispatchRequest represents the dispatch start request.
type StartDispatchRequest struct {
	MessageID string `json:"message_id"`
}

// PickWorkerRequest represents the worker selection request.
type PickWorkerRequest struct {
	Name string `json:"name"`
}

// PreselectDraftResponse carries a candidate with its pre-selection draft.
type PreselectDraftResponse struct {
	Worker models.WorkerOption `json:"worker"`
}

// StartDispatch handles POST /dispatch. Only maintenance messages are
// dispatchable, and only one session may be in flight at a time.
func (h *Handler) StartDispatch(w http.ResponseWriter, r *http.Request) {
	var req StartDispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.MessageID == "" {
		h.Error(w, http.StatusBadRequest, "message_id is required")
		return
	}

	session, err := h.orch.Start(req.MessageID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotSelected):
			h.Error(w, http.StatusNotFound, "message not found")
		case errors.Is(err, dispatch.ErrNotMaintenance):
			h.Error(w, http.StatusUnprocessableEntity, "message is not a maintenance issue")
		case errors.Is(err, dispatch.ErrSessionInFlight):
			h.Error(w, http.StatusConflict, "a dispatch session is already in flight")
		default:
			h.Error(w, http.StatusInternalServerError, "failed to start dispatch")
		}
		return
	}

	h.JSON(w, http.StatusAccepted, session)
}

// DispatchSession handles GET /dispatch/{id}: a snapshot of the session's
// phase, options and draft, polled while the search or drafting runs.
func (h *Handler) DispatchSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.orch.Session(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusNotFound, "no such dispatch session")
		return
	}
	h.JSON(w, http.StatusOK, session)
}

// PickWorker handles POST /dispatch/{id}/worker.
func (h *Handler) PickWorker(w http.ResponseWriter, r *http.Request) {
	var req PickWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	session, err := h.orch.PickWorker(chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.dispatchError(w, err)
		return
	}

	metrics.DraftRequests.WithLabelValues("initial").Inc()
	h.JSON(w, http.StatusOK, session)
}

// PreselectDraft handles POST /dispatch/{id}/preselect-draft: request a
// draft for a candidate without leaving the choosing phase. A missing
// draft falls back to the plain candidate.
func (h *Handler) PreselectDraft(w http.ResponseWriter, r *http.Request) {
	var req PickWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		h.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	worker, err := h.orch.PreselectDraft(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		h.dispatchError(w, err)
		return
	}

	metrics.DraftRequests.WithLabelValues("preselect").Inc()
	h.JSON(w, http.StatusOK, PreselectDraftResponse{Worker: worker})
}

// Regenerate handles POST /dispatch/{id}/regenerate.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	session, err := h.orch.Regenerate(chi.URLParam(r, "id"))
	if err != nil {
		h.dispatchError(w, err)
		return
	}

	metrics.DraftRequests.WithLabelValues("regenerate").Inc()
	h.JSON(w, http.StatusOK, session)
}

// Send handles POST /dispatch/{id}/send: the drafted email goes out and
// the message is marked done.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	session, err := h.orch.Send(chi.URLParam(r, "id"))
	if err != nil {
		h.dispatchError(w, err)
		return
	}

	metrics.DispatchSessions.WithLabelValues("resolved").Inc()
	h.JSON(w, http.StatusOK, session)
}

// Dismiss handles POST /dispatch/{id}/dismiss: no worker was acceptable;
// the message is still marked done without any draft being requested.
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	session, err := h.orch.DismissAll(chi.URLParam(r, "id"))
	if err != nil {
		h.dispatchError(w, err)
		return
	}

	metrics.DispatchSessions.WithLabelValues("dismissed").Inc()
	h.JSON(w, http.StatusOK, session)
}

func (h *Handler) dispatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrNoSession):
		h.Error(w, http.StatusNotFound, "no such dispatch session")
	case errors.Is(err, dispatch.ErrWrongPhase):
		h.Error(w, http.StatusConflict, "transition not allowed in current phase")
	case errors.Is(err, dispatch.ErrUnknownWorker):
		h.Error(w, http.StatusUnprocessableEntity, "worker is not among the session options")
	default:
		h.Error(w, http.StatusInternalServerError, "dispatch operation failed")
	}
}
