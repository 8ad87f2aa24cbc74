package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/openfleet/audittrail/internal/domain"
)

var errStorage = errors.New("storage failure")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// baseTime anchors the synthetic clock used by the mocks. Each insert gets a
// strictly later timestamp so newest-first ordering is deterministic.
var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type mockActivityRepo struct {
	records    []*domain.ActivityRecord
	seq        int
	failCreate bool
	failList   bool
}

func (m *mockActivityRepo) Create(_ context.Context, rec *domain.ActivityRecord) error {
	if m.failCreate {
		return errStorage
	}
	m.seq++
	rec.ID = uuid.New()
	rec.CreatedAt = baseTime.Add(time.Duration(m.seq) * time.Second)
	m.records = append(m.records, rec)
	return nil
}

func (m *mockActivityRepo) List(_ context.Context, f domain.ActivityFilter) ([]*domain.ActivityRecord, int, error) {
	if m.failList {
		return nil, 0, errStorage
	}
	var matched []*domain.ActivityRecord
	for _, r := range m.records {
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.Action != nil && r.Action != *f.Action {
			continue
		}
		if f.EntityType != nil && r.EntityType != *f.EntityType {
			continue
		}
		if f.StartDate != nil && r.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && r.CreatedAt.After(*f.EndDate) {
			continue
		}
		matched = append(matched, r)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	matched = page(matched, f.Limit, f.Offset)
	return matched, total, nil
}

type mockSessionRepo struct {
	sessions       []*domain.LoginSession
	seq            int
	failCreate     bool
	failClose      bool
	failList       bool
	closeAllCalled int
}

func (m *mockSessionRepo) Create(_ context.Context, s *domain.LoginSession) error {
	if m.failCreate {
		return errStorage
	}
	m.seq++
	s.ID = uuid.New()
	s.LoginTime = baseTime.Add(time.Duration(m.seq) * time.Second)
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *mockSessionRepo) CloseAllActive(_ context.Context, userID string) (int64, error) {
	m.closeAllCalled++
	if m.failClose {
		return 0, errStorage
	}
	var closed int64
	now := baseTime.Add(time.Hour)
	for _, s := range m.sessions {
		if s.UserID != userID || !s.IsActive {
			continue
		}
		logout := now
		dur := int64(logout.Sub(s.LoginTime) / time.Second)
		s.LogoutTime = &logout
		s.SessionDuration = &dur
		s.IsActive = false
		closed++
	}
	return closed, nil
}

func (m *mockSessionRepo) List(_ context.Context, f domain.SessionFilter) ([]*domain.LoginSession, int, error) {
	if m.failList {
		return nil, 0, errStorage
	}
	var matched []*domain.LoginSession
	for _, s := range m.sessions {
		if f.UserID != nil && s.UserID != *f.UserID {
			continue
		}
		if f.IsActive != nil && s.IsActive != *f.IsActive {
			continue
		}
		if f.StartDate != nil && s.LoginTime.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && s.LoginTime.After(*f.EndDate) {
			continue
		}
		matched = append(matched, s)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].LoginTime.After(matched[j].LoginTime)
	})
	total := len(matched)
	matched = page(matched, f.Limit, f.Offset)
	return matched, total, nil
}

type mockAuditRepo struct {
	entries    []*domain.AuditLogEntry
	seq        int
	failCreate bool
	failList   bool
}

func (m *mockAuditRepo) Create(_ context.Context, e *domain.AuditLogEntry) error {
	if m.failCreate {
		return errStorage
	}
	m.seq++
	e.ID = uuid.New()
	e.CreatedAt = baseTime.Add(time.Duration(m.seq) * time.Second)
	m.entries = append(m.entries, e)
	return nil
}

func (m *mockAuditRepo) List(_ context.Context, f domain.AuditFilter) ([]*domain.AuditLogEntry, int, error) {
	if m.failList {
		return nil, 0, errStorage
	}
	var matched []*domain.AuditLogEntry
	for _, e := range m.entries {
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		if f.Action != nil && e.Action != *f.Action {
			continue
		}
		if f.EntityType != nil && e.EntityType != *f.EntityType {
			continue
		}
		if f.StartDate != nil && e.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && e.CreatedAt.After(*f.EndDate) {
			continue
		}
		matched = append(matched, e)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	matched = page(matched, f.Limit, f.Offset)
	return matched, total, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
