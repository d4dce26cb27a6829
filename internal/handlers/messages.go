package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/feed"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/metrics"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/store"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/worklist"
)

// WorklistResponse represents the ranked worklist response.
type WorklistResponse struct {
	Messages []models.Message `json:"messages"`
	Total    int              `json:"total"`
	Feed     string           `json:"feed"` // "ok" or "unavailable"
}

// Worklist handles GET /messages: merge the categorizer feed into the
// seeded list, then filter and rank. A feed failure degrades to the
// local-only worklist instead of failing the view.
func (h *Handler) Worklist(w http.ResponseWriter, r *http.Request) {
	metrics.WorklistQueries.Inc()

	feedStatus := "ok"
	msgs, err := h.feed.Load(r.Context())
	if err != nil {
		metrics.FeedLoadErrors.Inc()
		h.logger.Warn().Err(err).Msg("feed unavailable, serving local-only worklist")
		feedStatus = "unavailable"
	} else {
		h.messages.MergeFeed(msgs)
	}

	q := r.URL.Query().Get("q")
	if len(q) > 100 {
		h.Error(w, http.StatusBadRequest, "query too long (max 100 chars)")
		return
	}
	tab := r.URL.Query().Get("tab")
	if tab != "" && tab != worklist.TabAll && !models.Status(tab).Valid() {
		h.Error(w, http.StatusBadRequest, "unknown tab")
		return
	}

	ranked := worklist.Rank(h.messages.List(), q, tab)
	h.JSON(w, http.StatusOK, WorklistResponse{
		Messages: ranked,
		Total:    len(ranked),
		Feed:     feedStatus,
	})
}

// Message handles GET /messages/{id}. Selection is independent of the
// worklist filter, so a filtered-out message is still addressable here.
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	msg, err := h.messages.Select(id)
	if err != nil {
		if errors.Is(err, store.ErrNotSelected) {
			h.Error(w, http.StatusNotFound, "message not found")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to load message")
		return
	}

	h.JSON(w, http.StatusOK, msg)
}

// RefreshResponse represents the refresh endpoint response.
type RefreshResponse struct {
	Status string `json:"status"`
}

// Refresh handles POST /refresh: ask the categorizer service to recompute
// its records. Failure leaves the worklist unchanged and is reported
// explicitly.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.feed.Refresh(r.Context()); err != nil {
		metrics.FeedRefreshes.WithLabelValues("error").Inc()
		if errors.Is(err, feed.ErrRefreshFailed) {
			h.Error(w, http.StatusBadGateway, "failed to refresh messages")
			return
		}
		h.Error(w, http.StatusInternalServerError, "failed to refresh messages")
		return
	}

	metrics.FeedRefreshes.WithLabelValues("success").Inc()
	h.JSON(w, http.StatusOK, RefreshResponse{Status: "success"})
}

// StatsResponse summarizes the merged worklist for the dashboard cards.
type StatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	byStatus := make(map[string]int)
	byPriority := make(map[string]int)

	msgs := h.messages.List()
	for _, m := range msgs {
		byStatus[string(m.Status)]++
		byPriority[string(m.Priority)]++
	}

	h.JSON(w, http.StatusOK, StatsResponse{
		Total:      len(msgs),
		ByStatus:   byStatus,
		ByPriority: byPriority,
	})
}
