package service

import (
	"context"
	"log/slog"

	"github.com/openfleet/audittrail/internal/domain"
)

// Observer is notified after an activity has been persisted. It replaces
// the process-wide broadcast handle some deployments hang off the recorder;
// a nil observer is a valid configuration.
type Observer interface {
	ActivityRecorded(rec *domain.ActivityRecord)
}

// ActivityService appends entries to the activity feed and serves the read
// side. Recording is fire-and-forget: a persistence failure is logged and
// swallowed so the action being recorded is never affected.
type ActivityService struct {
	repo     domain.ActivityRepository
	observer Observer
	log      *slog.Logger
}

func NewActivityService(repo domain.ActivityRepository, observer Observer, log *slog.Logger) *ActivityService {
	return &ActivityService{repo: repo, observer: observer, log: log}
}

// Record persists one activity entry with the supplied enrichment. When
// info is nil (system-initiated actions), safe defaults are used.
func (s *ActivityService) Record(ctx context.Context, in domain.ActivityInput, info *domain.TrackingInfo) {
	if info == nil {
		def := domain.DefaultTrackingInfo()
		info = &def
	}

	rec := &domain.ActivityRecord{
		UserID:     in.UserID,
		Action:     in.Action,
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		EntityName: in.EntityName,
		OldValues:  in.OldValues,
		NewValues:  in.NewValues,
		Metadata:   in.Metadata,
		IPAddress:  info.IPAddress,
		Device:     info.Device,
		Location:   info.Location,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		s.log.Warn("failed to record activity",
			"user_id", in.UserID, "action", in.Action, "err", err)
		return
	}

	if s.observer != nil {
		s.observer.ActivityRecorded(rec)
	}
}

// Query returns matching activity entries, newest first. On storage failure
// it degrades to an empty result so administrative views never hard-fail.
func (s *ActivityService) Query(ctx context.Context, filter domain.ActivityFilter) ([]*domain.ActivityRecord, int) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log.Warn("failed to query activities", "err", err)
		return []*domain.ActivityRecord{}, 0
	}
	return items, total
}
