package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/openfleet/audittrail/internal/domain"
	"github.com/openfleet/audittrail/internal/fingerprint"
)

// SessionService tracks the open → active → closed lifecycle of login
// sessions. Like the activity recorder it is best-effort: storage failures
// are logged and swallowed so login and logout themselves never fail on the
// session trail's account.
type SessionService struct {
	repo     domain.SessionRepository
	activity *ActivityService
	log      *slog.Logger
}

func NewSessionService(repo domain.SessionRepository, activity *ActivityService, log *slog.Logger) *SessionService {
	return &SessionService{repo: repo, activity: activity, log: log}
}

// Open inserts a new active session and records a LOGIN activity. It
// returns uuid.Nil when the session could not be persisted.
func (s *SessionService) Open(ctx context.Context, userID, ip, userAgent string) uuid.UUID {
	sess := &domain.LoginSession{
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
		IsActive:  true,
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		s.log.Warn("failed to open session", "user_id", userID, "err", err)
		return uuid.Nil
	}

	s.activity.Record(ctx, domain.ActivityInput{
		UserID:     userID,
		Action:     domain.ActionLogin,
		EntityType: domain.EntityUser,
		EntityID:   userID,
	}, &domain.TrackingInfo{
		IPAddress: ip,
		Device:    fingerprint.Parse(userAgent),
	})

	return sess.ID
}

// Close ends every active session for the user in one atomic update,
// computing the elapsed duration in whole seconds. Closing all active rows
// rather than one known id keeps a missed or duplicate open from leaving a
// permanently-stuck active row. Calling Close with no active sessions is a
// successful no-op.
func (s *SessionService) Close(ctx context.Context, userID string) {
	closed, err := s.repo.CloseAllActive(ctx, userID)
	if err != nil {
		s.log.Warn("failed to close sessions", "user_id", userID, "err", err)
		return
	}
	if closed == 0 {
		return
	}

	s.activity.Record(ctx, domain.ActivityInput{
		UserID:     userID,
		Action:     domain.ActionLogout,
		EntityType: domain.EntityUser,
		EntityID:   userID,
	}, nil)
}

// History returns matching login sessions, newest first, degrading to an
// empty result on storage failure.
func (s *SessionService) History(ctx context.Context, filter domain.SessionFilter) ([]*domain.LoginSession, int) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Warn("failed to query login history", "err", err)
		return []*domain.LoginSession{}, 0
	}
	return items, total
}
