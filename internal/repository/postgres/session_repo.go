package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfleet/audittrail/internal/domain"
)

type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Create(ctx context.Context, s *domain.LoginSession) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO login_sessions (user_id, ip_address, user_agent, is_active)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, login_time
	`, s.UserID, s.IPAddress, s.UserAgent).
		Scan(&s.ID, &s.LoginTime)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	s.IsActive = true
	return nil
}

// CloseAllActive closes every active session for the user with a single
// predicate update so concurrent logout attempts cannot race a read-then-write.
// The duration is computed in SQL, floored to whole seconds.
func (r *SessionRepo) CloseAllActive(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE login_sessions
		SET logout_time = NOW(),
		    session_duration = FLOOR(EXTRACT(EPOCH FROM (NOW() - login_time)))::BIGINT,
		    is_active = FALSE
		WHERE user_id = $1 AND is_active
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("close sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SessionRepo) List(ctx context.Context, f domain.SessionFilter) ([]*domain.LoginSession, int, error) {
	limit, offset := normalizeLimitOffset(f.Limit, f.Offset)

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if f.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *f.UserID)
		argIdx++
	}
	if f.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *f.IsActive)
		argIdx++
	}
	if f.StartDate != nil {
		where += fmt.Sprintf(" AND login_time >= $%d", argIdx)
		args = append(args, *f.StartDate)
		argIdx++
	}
	if f.EndDate != nil {
		where += fmt.Sprintf(" AND login_time <= $%d", argIdx)
		args = append(args, *f.EndDate)
		argIdx++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM login_sessions " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, login_time, logout_time, ip_address, user_agent,
		       is_active, session_duration
		FROM login_sessions %s
		ORDER BY login_time DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.LoginSession
	for rows.Next() {
		s := &domain.LoginSession{}
		if err := rows.Scan(
			&s.ID, &s.UserID, &s.LoginTime, &s.LogoutTime, &s.IPAddress,
			&s.UserAgent, &s.IsActive, &s.SessionDuration,
		); err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if sessions == nil {
		sessions = []*domain.LoginSession{}
	}

	return sessions, total, nil
}
