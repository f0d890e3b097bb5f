package store

import (
	"context"
	"encoding/json"
	"time"

	"halldesk/hall-service/internal/models"
)

// UpdateCoordinatorInput is a partial update of a session's coordinator
// fields: only non-nil fields are written, each as its own column, so
// concurrent coordinators touching different fields do not clobber each
// other.
type UpdateCoordinatorInput struct {
	SessionID     string
	Status        *string
	Checklist     map[string]bool
	Notes         *string
	AudienceCount *int
	UpdatedAt     time.Time
}

type CreateIssueInput struct {
	IssueType   string
	Description string
	SessionID   string
	Hall        string
	ReportedBy  string
	CreatedAt   time.Time
}

// SessionStore reads and writes the session records for a hall.
type SessionStore interface {
	ListSessions(ctx context.Context, eventID, hall, date string) ([]models.Session, error)
	GetSession(ctx context.Context, sessionID string) (models.Session, bool, error)
	UpdateCoordinator(ctx context.Context, input UpdateCoordinatorInput) (models.Session, error)
	// SetChecklistItem patches one checklist key without rewriting the
	// rest of the map.
	SetChecklistItem(ctx context.Context, sessionID, key string, value bool) (models.Session, error)
	ListOutboxEvents(ctx context.Context, after time.Time, limit int) ([]OutboxEvent, error)
}

// RosterStore serves the registrant roster the contact resolver matches
// against. Read-only.
type RosterStore interface {
	ListRegistrants(ctx context.Context, eventID string) ([]models.Registrant, error)
}

// CoordinatorStore resolves opaque access tokens to coordinator records.
type CoordinatorStore interface {
	GetCoordinator(ctx context.Context, token string) (models.Coordinator, error)
	// VerifyPIN checks the coordinator's PIN, gating destructive actions.
	VerifyPIN(ctx context.Context, coordinatorID, pin string) error
}

// IssueStore tracks issues reported from the hall floor. The default
// implementation is in-memory, so issues do not survive a restart.
type IssueStore interface {
	CreateIssue(ctx context.Context, input CreateIssueInput) (models.Issue, error)
	ListIssues(ctx context.Context, hall string) ([]models.Issue, error)
	UpdateIssueStatus(ctx context.Context, issueID, status string, at time.Time) (models.Issue, error)
}

type OutboxEvent struct {
	EventID   string          `json:"event_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}
