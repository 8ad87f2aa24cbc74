package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/openfleet/audittrail/internal/domain"
)

const sessionUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/119.0 Safari/537.36"

func newSessionService(repo *mockSessionRepo) (*SessionService, *mockActivityRepo) {
	activityRepo := &mockActivityRepo{}
	activity := NewActivityService(activityRepo, nil, testLogger())
	return NewSessionService(repo, activity, testLogger()), activityRepo
}

func TestSessionOpen(t *testing.T) {
	repo := &mockSessionRepo{}
	svc, activityRepo := newSessionService(repo)

	id := svc.Open(context.Background(), "u1", "203.0.113.7", sessionUA)

	if id == uuid.Nil {
		t.Fatal("expected a session id")
	}
	if len(repo.sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(repo.sessions))
	}
	s := repo.sessions[0]
	if !s.IsActive {
		t.Error("new session must be active")
	}
	if s.LogoutTime != nil || s.SessionDuration != nil {
		t.Errorf("open session must have no logout fields: %+v", s)
	}
	if s.IPAddress != "203.0.113.7" || s.UserAgent != sessionUA {
		t.Errorf("request metadata not stored: %+v", s)
	}

	if len(activityRepo.records) != 1 {
		t.Fatalf("expected a LOGIN activity, got %d records", len(activityRepo.records))
	}
	rec := activityRepo.records[0]
	if rec.Action != domain.ActionLogin || rec.UserID != "u1" {
		t.Errorf("unexpected login activity: %+v", rec)
	}
	if rec.Device.Browser != "Chrome" {
		t.Errorf("login activity missing parsed device: %+v", rec.Device)
	}
}

func TestSessionOpen_StorageFailure(t *testing.T) {
	repo := &mockSessionRepo{failCreate: true}
	svc, activityRepo := newSessionService(repo)

	id := svc.Open(context.Background(), "u1", "203.0.113.7", sessionUA)

	if id != uuid.Nil {
		t.Fatalf("expected uuid.Nil on failure, got %s", id)
	}
	if len(activityRepo.records) != 0 {
		t.Fatal("no LOGIN activity should be recorded when the session was not persisted")
	}
}

func TestSessionClose(t *testing.T) {
	repo := &mockSessionRepo{}
	svc, activityRepo := newSessionService(repo)
	ctx := context.Background()

	svc.Open(ctx, "u1", "203.0.113.7", sessionUA)
	svc.Close(ctx, "u1")

	s := repo.sessions[0]
	if s.IsActive {
		t.Error("session still active after close")
	}
	if s.LogoutTime == nil {
		t.Fatal("logout time not set")
	}
	if s.SessionDuration == nil || *s.SessionDuration <= 0 {
		t.Fatalf("duration not computed: %v", s.SessionDuration)
	}
	want := int64(s.LogoutTime.Sub(s.LoginTime).Seconds())
	if *s.SessionDuration != want {
		t.Fatalf("duration %d, want %d", *s.SessionDuration, want)
	}

	// LOGIN followed by LOGOUT.
	if len(activityRepo.records) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activityRepo.records))
	}
	if activityRepo.records[1].Action != domain.ActionLogout {
		t.Errorf("expected LOGOUT, got %s", activityRepo.records[1].Action)
	}
}

func TestSessionClose_ClosesAllActive(t *testing.T) {
	repo := &mockSessionRepo{}
	svc, _ := newSessionService(repo)
	ctx := context.Background()

	// Two logins without an intervening logout, plus another user's session.
	svc.Open(ctx, "u1", "203.0.113.7", sessionUA)
	svc.Open(ctx, "u1", "198.51.100.2", sessionUA)
	svc.Open(ctx, "u2", "192.0.2.9", sessionUA)

	svc.Close(ctx, "u1")

	for _, s := range repo.sessions {
		switch s.UserID {
		case "u1":
			if s.IsActive {
				t.Errorf("u1 session %s left active", s.ID)
			}
		case "u2":
			if !s.IsActive {
				t.Error("u2 session must be untouched")
			}
		}
	}
}

func TestSessionClose_NoActiveSessionsIsNoOp(t *testing.T) {
	repo := &mockSessionRepo{}
	svc, activityRepo := newSessionService(repo)

	svc.Close(context.Background(), "u1")

	if repo.closeAllCalled != 1 {
		t.Fatalf("expected one close attempt, got %d", repo.closeAllCalled)
	}
	if len(activityRepo.records) != 0 {
		t.Fatal("no LOGOUT activity should be recorded when nothing was closed")
	}
}

func TestSessionClose_Idempotent(t *testing.T) {
	repo := &mockSessionRepo{}
	svc, activityRepo := newSessionService(repo)
	ctx := context.Background()

	svc.Open(ctx, "u1", "203.0.113.7", sessionUA)
	svc.Close(ctx, "u1")

	first := *repo.sessions[0].SessionDuration

	svc.Close(ctx, "u1")

	if *repo.sessions[0].SessionDuration != first {
		t.Error("second close mutated an already-closed session")
	}
	// One LOGIN, one LOGOUT; the second close records nothing.
	if len(activityRepo.records) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(activityRepo.records))
	}
}

func TestSessionClose_StorageFailureIsSwallowed(t *testing.T) {
	repo := &mockSessionRepo{failClose: true}
	svc, activityRepo := newSessionService(repo)

	svc.Close(context.Background(), "u1")

	if len(activityRepo.records) != 0 {
		t.Fatal("no activity should be recorded on close failure")
	}
}

func TestSessionHistory(t *testing.T) {
	repo := &mockSessionRepo{}
	svc, _ := newSessionService(repo)
	ctx := context.Background()

	svc.Open(ctx, "u1", "203.0.113.7", sessionUA)
	svc.Open(ctx, "u2", "198.51.100.2", sessionUA)
	svc.Open(ctx, "u1", "192.0.2.9", sessionUA)
	svc.Close(ctx, "u2")

	u1 := "u1"
	items, total := svc.History(ctx, domain.SessionFilter{UserID: &u1, Limit: 10})
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 u1 sessions, got %d (total %d)", len(items), total)
	}
	if !items[0].LoginTime.After(items[1].LoginTime) {
		t.Error("history not ordered newest first")
	}

	active := true
	items, total = svc.History(ctx, domain.SessionFilter{IsActive: &active, Limit: 10})
	if total != 2 {
		t.Fatalf("expected 2 active sessions, got %d", total)
	}
	for _, s := range items {
		if !s.IsActive {
			t.Errorf("inactive session in active filter: %+v", s)
		}
	}
}

func TestSessionHistory_StorageFailureReturnsEmpty(t *testing.T) {
	repo := &mockSessionRepo{failList: true}
	svc, _ := newSessionService(repo)

	items, total := svc.History(context.Background(), domain.SessionFilter{Limit: 10})
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(items) != 0 || total != 0 {
		t.Fatalf("expected empty result, got %d items total %d", len(items), total)
	}
}
