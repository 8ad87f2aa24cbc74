package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfleet/audittrail/internal/domain"
)

type AuditRepo struct {
	pool *pgxpool.Pool
}

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

func (r *AuditRepo) Create(ctx context.Context, entry *domain.AuditLogEntry) error {
	changesJSON, err := json.Marshal(entry.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO audit_log (
			action, entity_type, entity_id, user_id,
			user_name, user_email, user_role,
			changes, ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, entry.Action, entry.EntityType, entry.EntityID, entry.UserID,
		entry.UserName, entry.UserEmail, entry.UserRole,
		changesJSON, entry.IPAddress, entry.UserAgent).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepo) List(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditLogEntry, int, error) {
	limit, offset := normalizeLimitOffset(f.Limit, f.Offset)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if f.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *f.UserID)
		argIdx++
	}
	if f.Action != nil {
		where += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, *f.Action)
		argIdx++
	}
	if f.EntityType != nil {
		where += fmt.Sprintf(" AND entity_type = $%d", argIdx)
		args = append(args, *f.EntityType)
		argIdx++
	}
	if f.StartDate != nil {
		where += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *f.StartDate)
		argIdx++
	}
	if f.EndDate != nil {
		where += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *f.EndDate)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM audit_log " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit entries: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, action, entity_type, entity_id, user_id,
		       user_name, user_email, user_role,
		       changes, ip_address, user_agent, created_at
		FROM audit_log %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditLogEntry
	for rows.Next() {
		e := &domain.AuditLogEntry{}
		var changesJSON []byte
		if err := rows.Scan(
			&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.UserID,
			&e.UserName, &e.UserEmail, &e.UserRole,
			&changesJSON, &e.IPAddress, &e.UserAgent, &e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan audit entry: %w", err)
		}
		if e.Changes = unmarshalValues(changesJSON); e.Changes == nil {
			e.Changes = map[string]any{}
		}
		entries = append(entries, e)
	}

	if entries == nil {
		entries = []*domain.AuditLogEntry{}
	}

	return entries, total, nil
}
