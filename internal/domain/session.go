package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LoginSession tracks one signed-in period for a user. A session is mutated
// exactly once, when it is closed.
type LoginSession struct {
	ID              uuid.UUID  `json:"id"`
	UserID          string     `json:"user_id"`
	LoginTime       time.Time  `json:"login_time"`
	LogoutTime      *time.Time `json:"logout_time,omitempty"`
	IPAddress       string     `json:"ip_address"`
	UserAgent       string     `json:"user_agent"`
	IsActive        bool       `json:"is_active"`
	SessionDuration *int64     `json:"session_duration,omitempty"` // whole seconds
}

// SessionFilter narrows login-history queries. All fields combine with AND.
// The date range is inclusive and applies to LoginTime.
type SessionFilter struct {
	UserID    *string
	IsActive  *bool
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

type SessionRepository interface {
	Create(ctx context.Context, s *LoginSession) error
	// CloseAllActive closes every active session for the user in one atomic
	// update and returns the number of rows closed. Zero rows is not an error.
	CloseAllActive(ctx context.Context, userID string) (int64, error)
	List(ctx context.Context, filter SessionFilter) ([]*LoginSession, int, error)
}
