// Package draft is the client for the email-drafting service. The service
// takes a chosen maintenance worker plus the issue details and returns a
// drafted email the operator can send.
package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
	"github.com/VishiATChoudhary/TUMai-LaGent/pkg/retry"
)

// ErrNoDraft is returned when the drafting service responds without a
// usable email_draft field. Callers keep the draft pane empty and offer
// regenerate; this is never fatal.
var ErrNoDraft = errors.New("no draft available")

// IssueDetails carries the issue context the drafter writes about.
type IssueDetails struct {
	Description string `json:"description"`
	TenantName  string `json:"tenant_name"`
	Location    string `json:"location"`
	Urgency     string `json:"urgency,omitempty"`
}

// Client is the email-draft service client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Retry      retry.Config
}

// NewClient creates a draft client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, retryCfg retry.Config) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Retry:      retryCfg,
	}
}

type workerInfo struct {
	Name   string `json:"name"`
	Rating string `json:"rating"`
}

type draftEmailRequest struct {
	WorkerInfo   workerInfo  `json:"worker_info"`
	IssueDetails issueFields `json:"issue_details"`
}

type issueFields struct {
	Description string `json:"description"`
	TenantName  string `json:"tenant_name"`
	Location    string `json:"location"`
}

type preselectionRequest struct {
	SelectedWorker models.WorkerOption `json:"selected_worker"`
	IssueDetails   preselectionIssue   `json:"issue_details"`
}

type preselectionIssue struct {
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Location    string `json:"location"`
	TenantName  string `json:"tenantName"`
}

type draftResponse struct {
	EmailDraft string `json:"email_draft"`
}

// RequestDraft asks the drafting service for an email addressed to the
// chosen worker about the given issue. Regeneration re-issues the identical
// request; the orchestrator owns that loop.
func (c *Client) RequestDraft(ctx context.Context, worker models.WorkerOption, issue IssueDetails) (string, error) {
	req := draftEmailRequest{
		WorkerInfo: workerInfo{Name: worker.Name, Rating: worker.Rating},
		IssueDetails: issueFields{
			Description: issue.Description,
			TenantName:  issue.TenantName,
			Location:    issue.Location,
		},
	}

	body, _ := json.Marshal(req)
	return c.requestDraft(ctx, "/draft-email", body)
}

// PreselectionDraft asks for a draft before a worker has been confirmed,
// used when the worker list itself should carry ready-made drafts. A
// missing draft falls back to plain selection, so ErrNoDraft is expected.
func (c *Client) PreselectionDraft(ctx context.Context, worker models.WorkerOption, issue IssueDetails) (string, error) {
	req := preselectionRequest{
		SelectedWorker: worker,
		IssueDetails: preselectionIssue{
			Description: issue.Description,
			Urgency:     issue.Urgency,
			Location:    issue.Location,
			TenantName:  issue.TenantName,
		},
	}

	body, _ := json.Marshal(req)
	return c.requestDraft(ctx, "/email-draft", body)
}

func (c *Client) requestDraft(ctx context.Context, path string, body []byte) (string, error) {
	var text string
	err := retry.Do(ctx, c.Retry, func() error {
		respBody, err := c.doRequest(ctx, http.MethodPost, path, body)
		if err != nil {
			return err
		}

		var parsed draftResponse
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			// Unparsable response is a recoverable no-draft condition,
			// not a raw parse failure for the caller to untangle.
			return ErrNoDraft
		}
		if parsed.EmailDraft == "" {
			return ErrNoDraft
		}
		text = parsed.EmailDraft
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNoDraft) {
			return "", ErrNoDraft
		}
		return "", err
	}
	return text, nil
}

// doRequest performs an HTTP request against the drafting service.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string `json:"error"`
			Detail string `json:"detail"`
		}
		json.Unmarshal(respBody, &errResp)
		msg := errResp.Error
		if msg == "" {
			msg = errResp.Detail
		}
		return nil, fmt.Errorf("draft service error %d: %s", resp.StatusCode, msg)
	}

	return respBody, nil
}
