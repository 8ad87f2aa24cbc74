package service

import (
	"context"
	"testing"

	"github.com/openfleet/audittrail/internal/domain"
)

func TestAuditLog(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, testLogger())

	svc.Log(context.Background(), &domain.AuditLogEntry{
		Action:     domain.ActionUpdate,
		EntityType: domain.EntityTruck,
		EntityID:   "truck-9",
		UserID:     "u1",
		UserName:   "Jo Silva",
		UserEmail:  "jo@example.com",
		UserRole:   "admin",
		Changes:    map[string]any{"plate": "AB-12-CD"},
		IPAddress:  "203.0.113.7",
	})

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	e := repo.entries[0]
	if e.UserName != "Jo Silva" || e.UserRole != "admin" {
		t.Errorf("actor identity not stored: %+v", e)
	}
	if e.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestAuditLog_NilChangesBecomesEmptyMap(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, testLogger())

	svc.Log(context.Background(), &domain.AuditLogEntry{
		Action: domain.ActionLogin,
		UserID: "u1",
	})

	if repo.entries[0].Changes == nil {
		t.Fatal("nil changes must be normalized to an empty map")
	}
}

func TestAuditLog_StorageFailureIsSwallowed(t *testing.T) {
	repo := &mockAuditRepo{failCreate: true}
	svc := NewAuditService(repo, testLogger())

	svc.Log(context.Background(), &domain.AuditLogEntry{
		Action: domain.ActionDelete,
		UserID: "u1",
	})

	if len(repo.entries) != 0 {
		t.Fatal("entry persisted despite failure flag")
	}
}

func TestAuditQuery(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, testLogger())
	ctx := context.Background()

	svc.Log(ctx, &domain.AuditLogEntry{Action: domain.ActionCreate, EntityType: domain.EntityTruck, UserID: "u1"})
	svc.Log(ctx, &domain.AuditLogEntry{Action: domain.ActionDelete, EntityType: domain.EntityTruck, UserID: "u1"})
	svc.Log(ctx, &domain.AuditLogEntry{Action: domain.ActionDelete, EntityType: domain.EntityTire, UserID: "u2"})

	del := domain.ActionDelete
	items, total := svc.Query(ctx, domain.AuditFilter{Action: &del, Limit: 10})
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 DELETE entries, got %d (total %d)", len(items), total)
	}
	if !items[0].CreatedAt.After(items[1].CreatedAt) {
		t.Error("results not ordered newest first")
	}
}

func TestAuditQuery_StorageFailureReturnsEmpty(t *testing.T) {
	repo := &mockAuditRepo{failList: true}
	svc := NewAuditService(repo, testLogger())

	items, total := svc.Query(context.Background(), domain.AuditFilter{Limit: 10})
	if items == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(items) != 0 || total != 0 {
		t.Fatalf("expected empty result, got %d items total %d", len(items), total)
	}
}
