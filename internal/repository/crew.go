package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
)

func (r *Repository) CreateDriver(driver *domain.Driver) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO drivers (zone_id, full_name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{driver.ZoneID, driver.FullName, driver.Phone}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&driver.ID, &driver.CreatedAt, &driver.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetDriversByZoneID(zoneID int64) ([]*domain.Driver, error) {
	query := `
		SELECT id, full_name, phone, created_at, version
		FROM drivers WHERE zone_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]*domain.Driver, 0)
	for rows.Next() {
		driver := &domain.Driver{
			ZoneID: zoneID,
		}
		dst := []any{&driver.ID, &driver.FullName, &driver.Phone, &driver.CreatedAt, &driver.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}

func (r *Repository) CheckDriverInZone(driverID int64, zoneID int64) (bool, error) {
	inZone := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM drivers WHERE id = $1 AND zone_id = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, driverID, zoneID).Scan(&inZone); err != nil {
		return false, err
	}

	return inZone, nil
}

// DeleteDriver 硬删除某个片区的司机
// 司机不存在或者不属于这个片区时返回 sql.ErrNoRows
func (r *Repository) DeleteDriver(zoneID int64, driverID int64) error {
	query := `
		DELETE FROM drivers WHERE id = $1 AND zone_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, driverID, zoneID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *Repository) CreateManpower(manpower *domain.Manpower) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO manpower (zone_id, full_name, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{manpower.ZoneID, manpower.FullName, manpower.Phone}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&manpower.ID, &manpower.CreatedAt, &manpower.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetManpowerByZoneID(zoneID int64) ([]*domain.Manpower, error) {
	query := `
		SELECT id, full_name, phone, created_at, version
		FROM manpower WHERE zone_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	manpowerList := make([]*domain.Manpower, 0)
	for rows.Next() {
		manpower := &domain.Manpower{
			ZoneID: zoneID,
		}
		dst := []any{&manpower.ID, &manpower.FullName, &manpower.Phone, &manpower.CreatedAt, &manpower.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		manpowerList = append(manpowerList, manpower)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return manpowerList, nil
}

func (r *Repository) CheckManpowerInZone(manpowerID int64, zoneID int64) (bool, error) {
	inZone := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM manpower WHERE id = $1 AND zone_id = $2)
	`
	if err := r.dbpool.QueryRowContext(ctx, query, manpowerID, zoneID).Scan(&inZone); err != nil {
		return false, err
	}

	return inZone, nil
}

// DeleteManpower 硬删除某个片区的勤务员
// 勤务员不存在或者不属于这个片区时返回 sql.ErrNoRows
func (r *Repository) DeleteManpower(zoneID int64, manpowerID int64) error {
	query := `
		DELETE FROM manpower WHERE id = $1 AND zone_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, manpowerID, zoneID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
