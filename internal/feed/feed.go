// Package feed adapts the external categorizer pipeline into the triage
// worklist: it pulls previously computed categorizer records from the read
// model and maps them into messages, and it can ask the pipeline to
// recompute via the refresh endpoint.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/metrics"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
	"github.com/VishiATChoudhary/TUMai-LaGent/internal/store"
	"github.com/VishiATChoudhary/TUMai-LaGent/pkg/retry"
)

// ErrRefreshFailed is returned when the categorizer service rejects or
// fails a refresh; the worklist is unchanged when this is returned.
var ErrRefreshFailed = fmt.Errorf("categorizer refresh failed")

// Adapter pulls the categorizer feed and maps it into the message shape.
type Adapter struct {
	readModel  store.ReadModel
	cache      *store.RedisCache // optional
	refreshURL string
	httpClient *http.Client
	retryCfg   retry.Config
	logger     zerolog.Logger
}

// New creates a feed adapter. cache may be nil; refreshURL points at the
// categorizer service's /refresh endpoint.
func New(readModel store.ReadModel, cache *store.RedisCache, refreshURL string, timeout time.Duration, retryCfg retry.Config, logger zerolog.Logger) *Adapter {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Adapter{
		readModel:  readModel,
		cache:      cache,
		refreshURL: refreshURL,
		httpClient: &http.Client{Timeout: timeout},
		retryCfg:   retryCfg,
		logger:     logger,
	}
}

// Load returns the feed mapped into messages, newest record first. A read
// failure is recoverable: callers render the local-only worklist and
// surface a notice instead of failing the whole view.
func (a *Adapter) Load(ctx context.Context) ([]models.Message, error) {
	if a.cache != nil {
		if msgs, ok := a.cache.GetFeed(ctx); ok {
			return msgs, nil
		}
	}

	start := time.Now()
	records, err := a.readModel.CategorizerResults(ctx)
	metrics.ReadModelLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("load categorizer feed: %w", err)
	}

	msgs := make([]models.Message, 0, len(records))
	for _, rec := range records {
		msgs = append(msgs, MapRecord(rec))
	}

	if a.cache != nil {
		a.cache.SetFeed(ctx, msgs)
	}
	return msgs, nil
}

// MapRecord maps one categorizer record into a Message. The mapping is
// read-time only; status changes are never written back to the record.
func MapRecord(rec models.CategorizerRecord) models.Message {
	id := rec.ID
	if id == "" {
		id = uuid.New().String()
	}
	return models.Message{
		ID:        id,
		Tenant:    models.Tenant{Name: "Sarah Smith", Initials: "AK"},
		Property:  "System Message",
		Category:  rec.Flag,
		Body:      rec.MessageContent,
		Timestamp: "Just now",
		Status:    models.StatusNew,
		Priority:  models.PriorityFromUrgency(rec.Urgency),
	}
}

type refreshResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Refresh asks the categorizer service to recompute its records. The call
// does not return records itself; the next Load picks them up.
func (a *Adapter) Refresh(ctx context.Context) error {
	err := retry.Do(ctx, a.retryCfg, func() error {
		return a.refreshOnce(ctx)
	})
	if err != nil {
		a.logger.Warn().Err(err).Msg("categorizer refresh failed")
		return fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	if a.cache != nil {
		a.cache.InvalidateFeed(ctx)
	}
	return nil
}

func (a *Adapter) refreshOnce(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.refreshURL, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("refresh returned status %d", resp.StatusCode)
	}

	var parsed refreshResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("unparsable refresh response: %w", err)
	}
	if parsed.Status != "success" {
		return fmt.Errorf("refresh status %q: %s", parsed.Status, parsed.Message)
	}
	return nil
}
