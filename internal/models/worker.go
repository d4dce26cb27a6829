package models

import "time"

// CategorizerRecord is one row of the external categorizer feed.
type CategorizerRecord struct {
	ID             string    `json:"id"`
	MessageContent string    `json:"message_content"`
	Flag           string    `json:"flag"`    // maps to Message.Category
	Urgency        string    `json:"urgency"` // low | intermediate | high
	CreatedAt      time.Time `json:"created_at"`
}

// WorkerOption is one maintenance-worker candidate surfaced during a
// dispatch session. Name is the natural key within a single session.
type WorkerOption struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Rating     string `json:"rating"` // display-formatted, e.g. "4.8"
	EmailDraft string `json:"email_draft,omitempty"`
}
