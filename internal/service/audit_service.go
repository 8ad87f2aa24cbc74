package service

import (
	"context"
	"log/slog"

	"github.com/openfleet/audittrail/internal/domain"
)

// AuditService writes the compliance trail. Entries carry denormalized
// actor identity so they survive later changes to the user record.
type AuditService struct {
	repo domain.AuditRepository
	log  *slog.Logger
}

func NewAuditService(repo domain.AuditRepository, log *slog.Logger) *AuditService {
	return &AuditService{repo: repo, log: log}
}

// Log records an audit entry. It is fire-and-forget: errors are logged but
// never propagated to the caller.
func (s *AuditService) Log(ctx context.Context, entry *domain.AuditLogEntry) {
	if entry.Changes == nil {
		entry.Changes = map[string]any{}
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.Warn("failed to write audit log",
			"user_id", entry.UserID, "action", entry.Action, "err", err)
	}
}

// Query returns matching audit entries, newest first, degrading to an
// empty result on storage failure.
func (s *AuditService) Query(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLogEntry, int) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Warn("failed to query audit log", "err", err)
		return []*domain.AuditLogEntry{}, 0
	}
	return items, total
}
