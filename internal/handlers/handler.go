package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/dispatch"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/feed"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/store"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	messages  store.MessageStore
	feed      *feed.Adapter
	orch      *dispatch.Orchestrator
	readModel store.ReadModel
	redis     *store.RedisCache
	logger    zerolog.Logger
}

// NewHandler creates a new Handler with the given dependencies. redis may
// be nil.
func NewHandler(messages store.MessageStore, feedAdapter *feed.Adapter, orch *dispatch.Orchestrator, readModel store.ReadModel, redis *store.RedisCache, logger zerolog.Logger) *Handler {
	return &Handler{
		messages:  messages,
		feed:      feedAdapter,
		orch:      orch,
		readModel: readModel,
		redis:     redis,
		logger:    logger,
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}
