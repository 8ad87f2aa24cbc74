package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openfleet/audittrail/internal/domain"
)

type ActivityRepo struct {
	pool *pgxpool.Pool
}

func NewActivityRepo(pool *pgxpool.Pool) *ActivityRepo {
	return &ActivityRepo{pool: pool}
}

func (r *ActivityRepo) Create(ctx context.Context, rec *domain.ActivityRecord) error {
	oldJSON, err := json.Marshal(rec.OldValues)
	if err != nil {
		return fmt.Errorf("marshal old values: %w", err)
	}
	newJSON, err := json.Marshal(rec.NewValues)
	if err != nil {
		return fmt.Errorf("marshal new values: %w", err)
	}
	metaJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	var country, city, region, timezone *string
	var lat, lon *float64
	if rec.Location != nil {
		country, city, region = &rec.Location.Country, &rec.Location.City, &rec.Location.Region
		timezone = &rec.Location.Timezone
		lat, lon = rec.Location.Latitude, rec.Location.Longitude
	}

	err = r.pool.QueryRow(ctx, `
		INSERT INTO activity_log (
			user_id, action, entity_type, entity_id, entity_name,
			old_values, new_values, metadata,
			ip_address, device_type, browser, os, user_agent, device_name,
			country, city, region, latitude, longitude, timezone
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at
	`, rec.UserID, rec.Action, rec.EntityType, rec.EntityID, rec.EntityName,
		oldJSON, newJSON, metaJSON,
		rec.IPAddress, rec.Device.DeviceType, rec.Device.Browser, rec.Device.OS,
		rec.Device.UserAgent, rec.Device.DeviceName,
		country, city, region, lat, lon, timezone).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) List(ctx context.Context, f domain.ActivityFilter) ([]*domain.ActivityRecord, int, error) {
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
	countQuery := "SELECT COUNT(*) FROM activity_log " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, action, entity_type, entity_id, entity_name,
		       old_values, new_values, metadata,
		       ip_address, device_type, browser, os, user_agent, device_name,
		       country, city, region, latitude, longitude, timezone, created_at
		FROM activity_log %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var records []*domain.ActivityRecord
	for rows.Next() {
		rec := &domain.ActivityRecord{}
		var oldJSON, newJSON, metaJSON []byte
		var country, city, region, timezone *string
		var lat, lon *float64
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Action, &rec.EntityType, &rec.EntityID, &rec.EntityName,
			&oldJSON, &newJSON, &metaJSON,
			&rec.IPAddress, &rec.Device.DeviceType, &rec.Device.Browser, &rec.Device.OS,
			&rec.Device.UserAgent, &rec.Device.DeviceName,
			&country, &city, &region, &lat, &lon, &timezone, &rec.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan activity: %w", err)
		}
		rec.OldValues = unmarshalValues(oldJSON)
		rec.NewValues = unmarshalValues(newJSON)
		rec.Metadata = unmarshalValues(metaJSON)
		if country != nil || city != nil || timezone != nil {
			rec.Location = &domain.LocationDescriptor{
				Latitude:  lat,
				Longitude: lon,
			}
			if country != nil {
				rec.Location.Country = *country
			}
			if city != nil {
				rec.Location.City = *city
			}
			if region != nil {
				rec.Location.Region = *region
			}
			if timezone != nil {
				rec.Location.Timezone = *timezone
			}
		}
		records = append(records, rec)
	}

	if records == nil {
		records = []*domain.ActivityRecord{}
	}

	return records, total, nil
}
