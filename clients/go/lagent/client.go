// Package lagent provides a client for the LaGent triage API.
package lagent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a LaGent API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new LaGent client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request.
func (c *Client) doRequest(method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
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
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("lagent error %d: %s", resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// Tenant identifies the sender of a message.
type Tenant struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Avatar   string `json:"avatar,omitempty"`
}

// Message is one entry of the triage worklist.
type Message struct {
	ID        string `json:"id"`
	Tenant    Tenant `json:"tenant"`
	Property  string `json:"property"`
	Category  string `json:"category"`
	Body      string `json:"message"`
	Timestamp string `json:"timestamp"`
	Status    string `json:"status"`
	Priority  string `json:"priority"`
}

// WorklistResponse is the response from listing the worklist.
type WorklistResponse struct {
	Messages []Message `json:"messages"`
	Total    int       `json:"total"`
	Feed     string    `json:"feed"`
}

// Worklist retrieves the ranked worklist, optionally filtered by a search
// query and a status tab.
func (c *Client) Worklist(query, tab string) (*WorklistResponse, error) {
	path := "/messages"
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if tab != "" {
		params.Set("tab", tab)
	}
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	respBody, err := c.doRequest("GET", path, nil)
	if err != nil {
		return nil, err
	}

	var resp WorklistResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetMessage retrieves a single message by ID.
func (c *Client) GetMessage(id string) (*Message, error) {
	respBody, err := c.doRequest("GET", "/messages/"+id, nil)
	if err != nil {
		return nil, err
	}

	var msg Message
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// RefreshResponse is the response from triggering a feed refresh.
type RefreshResponse struct {
	Status string `json:"status"`
}

// Refresh asks the server to re-run the upstream categorizer.
func (c *Client) Refresh() (*RefreshResponse, error) {
	respBody, err := c.doRequest("POST", "/refresh", nil)
	if err != nil {
		return nil, err
	}

	var resp RefreshResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StatsResponse summarizes the worklist by status and priority.
type StatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

// Stats retrieves worklist summary counts.
func (c *Client) Stats() (*StatsResponse, error) {
	respBody, err := c.doRequest("GET", "/stats", nil)
	if err != nil {
		return nil, err
	}

	var resp StatsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// WorkerOption is one maintenance-worker candidate in a dispatch session.
type WorkerOption struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Rating     string `json:"rating"`
	EmailDraft string `json:"email_draft,omitempty"`
}

// Session is a snapshot of a dispatch session.
type Session struct {
	ID         string         `json:"id"`
	MessageID  string         `json:"message_id"`
	Phase      string         `json:"phase"`
	Options    []WorkerOption `json:"options"`
	Worker     *WorkerOption  `json:"worker,omitempty"`
	Draft      string         `json:"draft,omitempty"`
	DraftError string         `json:"draft_error,omitempty"`
	Drafting   bool           `json:"drafting,omitempty"`
}

// StartDispatchRequest is the request body for starting a dispatch session.
type StartDispatchRequest struct {
	MessageID string `json:"message_id"`
}

// StartDispatch starts a dispatch session for a maintenance message.
func (c *Client) StartDispatch(messageID string) (*Session, error) {
	body, _ := json.Marshal(StartDispatchRequest{MessageID: messageID})
	respBody, err := c.doRequest("POST", "/dispatch", body)
	if err != nil {
		return nil, err
	}
	return parseSession(respBody)
}

// GetSession retrieves the current snapshot of a dispatch session.
func (c *Client) GetSession(sessionID string) (*Session, error) {
	respBody, err := c.doRequest("GET", "/dispatch/"+sessionID, nil)
	if err != nil {
		return nil, err
	}
	return parseSession(respBody)
}

// PickWorkerRequest is the request body for choosing a worker.
type PickWorkerRequest struct {
	Name string `json:"name"`
}

// PickWorker chooses one of the session's worker options and starts
// drafting the dispatch email.
func (c *Client) PickWorker(sessionID, name string) (*Session, error) {
	body, _ := json.Marshal(PickWorkerRequest{Name: name})
	respBody, err := c.doRequest("POST", "/dispatch/"+sessionID+"/worker", body)
	if err != nil {
		return nil, err
	}
	return parseSession(respBody)
}

// PreselectDraftResponse is the response from requesting a pre-selection draft.
type PreselectDraftResponse struct {
	Worker WorkerOption `json:"worker"`
}

// PreselectDraft requests a draft for a candidate without choosing it.
func (c *Client) PreselectDraft(sessionID, name string) (*PreselectDraftResponse, error) {
	body, _ := json.Marshal(PickWorkerRequest{Name: name})
	respBody, err := c.doRequest("POST", "/dispatch/"+sessionID+"/preselect-draft", body)
	if err != nil {
		return nil, err
	}

	var resp PreselectDraftResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Regenerate requests a fresh draft for the already chosen worker.
func (c *Client) Regenerate(sessionID string) (*Session, error) {
	respBody, err := c.doRequest("POST", "/dispatch/"+sessionID+"/regenerate", nil)
	if err != nil {
		return nil, err
	}
	return parseSession(respBody)
}

// Send sends the drafted email and resolves the session.
func (c *Client) Send(sessionID string) (*Session, error) {
	respBody, err := c.doRequest("POST", "/dispatch/"+sessionID+"/send", nil)
	if err != nil {
		return nil, err
	}
	return parseSession(respBody)
}

// Dismiss rejects all worker options and closes the session.
func (c *Client) Dismiss(sessionID string) (*Session, error) {
	respBody, err := c.doRequest("POST", "/dispatch/"+sessionID+"/dismiss", nil)
	if err != nil {
		return nil, err
	}
	return parseSession(respBody)
}

func parseSession(respBody []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(respBody, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Checks    map[string]interface{} `json:"checks"`
	Timestamp string                 `json:"timestamp"`
}

// Health checks server health.
func (c *Client) Health() (*HealthResponse, error) {
	respBody, err := c.doRequest("GET", "/health", nil)
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
