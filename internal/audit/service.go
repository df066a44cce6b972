package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.

type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service records what the context pipeline decided and why.
//
// IMPORTANT:
// - Audit is internal-only. Do not expose these records to tenant users.
// - Callers should treat audit logging as best-effort.

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s == nil || s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.UserID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogContextResolved records a completed resolution cycle and its outcome.
func (s *Service) LogContextResolved(ctx context.Context, userID, contextType string, companies, clients int) error {
	return s.Append(ctx, Event{
		UserID:  userID,
		Type:    EventTypeContextResolved,
		Message: "context resolved",
		Metadata: fmt.Sprintf(`{"type":%q,"companies":%d,"clients":%d}`,
			contextType, companies, clients),
	})
}

// LogContextSwitched records an accepted scope switch.
func (s *Service) LogContextSwitched(ctx context.Context, userID, kind, scopeID string) error {
	e := Event{UserID: userID, Type: EventTypeContextSwitched, Message: "active context switched"}
	setScope(&e, kind, scopeID)
	return s.Append(ctx, e)
}

// LogSwitchRejected records a switch targeting an id absent from the resolved
// context. The switch itself is a silent no-op toward the caller; the audit
// trail is where the rejection is visible.
func (s *Service) LogSwitchRejected(ctx context.Context, userID, kind, scopeID string) error {
	e := Event{UserID: userID, Type: EventTypeSwitchRejected, Message: "switch target not in resolved context"}
	setScope(&e, kind, scopeID)
	return s.Append(ctx, e)
}

// LogGuardDenied records a route guard rejecting a request.
func (s *Service) LogGuardDenied(ctx context.Context, userID, kind, scopeID, detail string) error {
	e := Event{UserID: userID, Type: EventTypeGuardDenied, Message: detail}
	setScope(&e, kind, scopeID)
	return s.Append(ctx, e)
}

func setScope(e *Event, kind, scopeID string) {
	switch kind {
	case "company":
		e.CompanyID = scopeID
	case "client":
		e.ClientID = scopeID
	}
}
