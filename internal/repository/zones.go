package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
)

func (r *Repository) CreateZone(zone *domain.Zone) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO zones (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, zone.Name, zone.Description).Scan(&zone.ID, &zone.CreatedAt, &zone.Version); err != nil {
		return err
	}

	if zone.RecurringDays == nil {
		zone.RecurringDays = make([]int32, 0)
	}

	return nil
}

func (r *Repository) GetZoneByID(id int64) (*domain.Zone, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			z.name,
			z.description,
			z.created_at,
			z.version,
			zsd.day
		FROM zones z
		LEFT JOIN zone_service_days zsd ON z.id = zsd.zone_id
		WHERE z.id = $1
		ORDER BY zsd.day
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zone := &domain.Zone{
		ID:            id,
		RecurringDays: make([]int32, 0),
	}
	found := false

	for rows.Next() {
		var day sql.NullInt32

		dst := []any{
			&zone.Name,
			&zone.Description,
			&zone.CreatedAt,
			&zone.Version,
			&day,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		found = true

		// day 为空表示这个片区还没有配置任何固定服务日
		if !day.Valid {
			continue
		}

		zone.RecurringDays = append(zone.RecurringDays, day.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !found {
		return nil, sql.ErrNoRows
	}

	return zone, nil
}

func (r *Repository) GetAllZones() ([]*domain.Zone, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			z.id,
			z.name,
			z.description,
			z.created_at,
			z.version,
			zsd.day
		FROM zones z
		LEFT JOIN zone_service_days zsd ON z.id = zsd.zone_id
		ORDER BY z.id, zsd.day
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zonesMap := make(map[int64]*domain.Zone)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID          int64
			Name        string
			Description string
			CreatedAt   time.Time
			Version     int32
			Day         sql.NullInt32
		}

		dst := []any{&row.ID, &row.Name, &row.Description, &row.CreatedAt, &row.Version, &row.Day}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := zonesMap[row.ID]; !exists {
			zonesMap[row.ID] = &domain.Zone{
				ID:            row.ID,
				Name:          row.Name,
				Description:   row.Description,
				RecurringDays: make([]int32, 0),
				CreatedAt:     row.CreatedAt,
				Version:       row.Version,
			}
			order = append(order, row.ID)
		}

		if !row.Day.Valid {
			continue
		}

		zonesMap[row.ID].RecurringDays = append(zonesMap[row.ID].RecurringDays, row.Day.Int32)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	zones := make([]*domain.Zone, 0, len(order))
	for _, id := range order {
		zones = append(zones, zonesMap[id])
	}

	return zones, nil
}

func (r *Repository) UpdateZone(zone *domain.Zone) error {
	query := `
		UPDATE zones
		SET
			name = $1,
			description = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{zone.Name, zone.Description, zone.ID, zone.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&zone.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteZone(id int64) error {
	query := `
		DELETE FROM zones WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// SetZoneServiceDays 整体替换片区的固定服务日，没有增量修改的语义
func (r *Repository) SetZoneServiceDays(zoneID int64, days []int32) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 先把原先的记录删除再插入
	query := `DELETE FROM zone_service_days WHERE zone_id = $1`
	if _, err := tx.ExecContext(ctx, query, zoneID); err != nil {
		return err
	}

	for _, day := range days {
		query := `
			INSERT INTO zone_service_days (zone_id, day)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, zoneID, day); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
