package models

import "strings"

// Status is the lifecycle state of a tenant message.
type Status string

const (
	StatusNew         Status = "new"
	StatusAutoReplied Status = "auto-replied"
	StatusNeedsReview Status = "needs-review"
	StatusDone        Status = "done"
)

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusAutoReplied, StatusNeedsReview, StatusDone:
		return true
	}
	return false
}

// ClampStatus maps an arbitrary upstream value onto a defined status.
// Unknown values become "new" so a message is never stored with a status
// outside the enum.
func ClampStatus(raw string) Status {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if s.Valid() {
		return s
	}
	return StatusNew
}

// Priority is the triage priority of a tenant message.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns the sort ordinal for a priority (high sorts first).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// PriorityFromUrgency maps a categorizer urgency onto a priority.
// Unknown urgency values clamp to low.
func PriorityFromUrgency(urgency string) Priority {
	switch strings.ToLower(strings.TrimSpace(urgency)) {
	case "high":
		return PriorityHigh
	case "intermediate":
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Tenant identifies the sender of a message.
type Tenant struct {
	Name     string `json:"name"`
	Initials string `json:"initials"`
	Avatar   string `json:"avatar,omitempty"`
}

// Message represents one tenant communication requiring action.
type Message struct {
	ID        string   `json:"id"`
	Tenant    Tenant   `json:"tenant"`
	Property  string   `json:"property"`
	Category  string   `json:"category"`
	Body      string   `json:"message"`
	Timestamp string   `json:"timestamp"` // display string, not a strict instant
	Status    Status   `json:"status"`
	Priority  Priority `json:"priority"`
}

// IsMaintenance reports whether the message is a maintenance issue and
// therefore eligible for worker dispatch.
func (m Message) IsMaintenance() bool {
	return strings.EqualFold(m.Category, "maintenance")
}
