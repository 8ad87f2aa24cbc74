package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditLogEntry is the compliance-oriented trail, kept separate from the
// activity feed. Actor identity is denormalized at write time so the entry
// stays meaningful even if the user record is later changed or removed.
type AuditLogEntry struct {
	ID         uuid.UUID      `json:"id"`
	Action     Action         `json:"action"`
	EntityType EntityType     `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	UserID     string         `json:"user_id"`
	UserName   string         `json:"user_name"`
	UserEmail  string         `json:"user_email"`
	UserRole   string         `json:"user_role"`
	Changes    map[string]any `json:"changes,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditFilter narrows audit-log queries. All fields combine with AND.
type AuditFilter struct {
	UserID     *string
	Action     *Action
	EntityType *EntityType
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

type AuditRepository interface {
	Create(ctx context.Context, entry *AuditLogEntry) error
	List(ctx context.Context, filter AuditFilter) ([]*AuditLogEntry, int, error)
}
