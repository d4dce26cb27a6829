package draft

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VishiATChoudhary/TUMai-LaGent/internal/models"
	"github.com/VishiATChoudhary/TUMai-LaGent/pkg/retry"
)

var testWorker = models.WorkerOption{Name: "John Smith", Type: "Plumber", Rating: "4.8"}

var testIssue = IssueDetails{
	Description: "The kitchen sink is clogged",
	TenantName:  "Sophie Chen",
	Location:    "Sunset Apartments, #302",
}

func newTestClient(srv *httptest.Server) *Client {
	return NewClient(srv.URL, time.Second, retry.Config{MaxAttempts: 1})
}

func TestRequestDraft(t *testing.T) {
	var gotBody map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/draft-email" {
			t.Errorf("expected /draft-email, got %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"email_draft":"Dear John Smith, ..."}`))
	}))
	defer srv.Close()

	text, err := newTestClient(srv).RequestDraft(context.Background(), testWorker, testIssue)
	if err != nil {
		t.Fatal(err)
	}
	if text != "Dear John Smith, ..." {
		t.Fatalf("unexpected draft: %q", text)
	}

	// Wire contract: worker_info carries name/rating, issue_details the
	// description, tenant_name and location.
	var worker struct {
		Name   string `json:"name"`
		Rating string `json:"rating"`
	}
	if err := json.Unmarshal(gotBody["worker_info"], &worker); err != nil {
		t.Fatal(err)
	}
	if worker.Name != "John Smith" || worker.Rating != "4.8" {
		t.Fatalf("worker_info: %+v", worker)
	}

	var issue struct {
		Description string `json:"description"`
		TenantName  string `json:"tenant_name"`
		Location    string `json:"location"`
	}
	if err := json.Unmarshal(gotBody["issue_details"], &issue); err != nil {
		t.Fatal(err)
	}
	if issue.TenantName != "Sophie Chen" || issue.Location != "Sunset Apartments, #302" {
		t.Fatalf("issue_details: %+v", issue)
	}
}

func TestRequestDraftMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).RequestDraft(context.Background(), testWorker, testIssue)
	if !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft, got %v", err)
	}
}

func TestRequestDraftUnparsableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).RequestDraft(context.Background(), testWorker, testIssue)
	if !errors.Is(err, ErrNoDraft) {
		t.Fatalf("expected ErrNoDraft for unparsable body, got %v", err)
	}
}

func TestRequestDraftServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"agent system unavailable"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).RequestDraft(context.Background(), testWorker, testIssue)
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNoDraft) {
		t.Fatal("server failure must not masquerade as no-draft")
	}
}

func TestRequestDraftRetries(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"email_draft":"second time lucky"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, retry.Config{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	})

	text, err := c.RequestDraft(context.Background(), testWorker, testIssue)
	if err != nil {
		t.Fatal(err)
	}
	if text != "second time lucky" {
		t.Fatalf("unexpected draft: %q", text)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestPreselectionDraft(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email-draft" {
			t.Errorf("expected /email-draft, got %s", r.URL.Path)
		}

		var body struct {
			SelectedWorker models.WorkerOption `json:"selected_worker"`
			IssueDetails   struct {
				TenantName string `json:"tenantName"`
			} `json:"issue_details"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.SelectedWorker.Name != "John Smith" {
			t.Errorf("selected_worker: %+v", body.SelectedWorker)
		}
		if body.IssueDetails.TenantName != "Sophie Chen" {
			t.Errorf("tenantName: %q", body.IssueDetails.TenantName)
		}

		w.Write([]byte(`{"email_draft":"pre-drafted"}`))
	}))
	defer srv.Close()

	text, err := newTestClient(srv).PreselectionDraft(context.Background(), testWorker, testIssue)
	if err != nil {
		t.Fatal(err)
	}
	if text != "pre-drafted" {
		t.Fatalf("unexpected draft: %q", text)
	}
}
