package audit

import "time"

// Event is an immutable, append-only audit record for the context resolution
// pipeline.
//
// Invariants:
// - Events are never updated or deleted.
// - user_id is required: every record is tied to the principal it concerns.
// - Audit writes are best-effort; resolution and switching must never block on
//   an audit failure.

type Event struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	// Type indicates the pipeline stage that produced the record.
	Type EventType `json:"type" db:"type"`

	// Scope identifiers (optional, depending on the event type).
	CompanyID string `json:"company_id,omitempty" db:"company_id"`
	ClientID  string `json:"client_id,omitempty" db:"client_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeContextResolved EventType = "context_resolved"
	EventTypeContextSwitched EventType = "context_switched"
	EventTypeSwitchRejected  EventType = "switch_rejected"
	EventTypeGuardDenied     EventType = "guard_denied"
)
