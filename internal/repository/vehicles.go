package repository

import (
	"context"
	"time"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
)

func (r *Repository) CreateVehicle(vehicle *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO vehicles (zone_id, plate_number, model)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`

	args := []any{vehicle.ZoneID, vehicle.PlateNumber, vehicle.Model}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetVehicleByID(id int64) (*domain.Vehicle, error) {
	query := `
		SELECT zone_id, plate_number, model, created_at, version
		FROM vehicles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	vehicle := &domain.Vehicle{
		ID: id,
	}

	dst := []any{&vehicle.ZoneID, &vehicle.PlateNumber, &vehicle.Model, &vehicle.CreatedAt, &vehicle.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return vehicle, nil
}

func (r *Repository) GetVehiclesByZoneID(zoneID int64) ([]*domain.Vehicle, error) {
	query := `
		SELECT id, plate_number, model, created_at, version
		FROM vehicles WHERE zone_id = $1
		ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		vehicle := &domain.Vehicle{
			ZoneID: zoneID,
		}
		dst := []any{&vehicle.ID, &vehicle.PlateNumber, &vehicle.Model, &vehicle.CreatedAt, &vehicle.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (r *Repository) DeleteVehicle(id int64) error {
	query := `
		DELETE FROM vehicles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// GetVehicleAssignment 获取车辆的固定班底
// 车辆没有配置过固定班底不是错误，此时返回空的班底
func (r *Repository) GetVehicleAssignment(vehicleID int64) (*domain.VehicleAssignment, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignment := &domain.VehicleAssignment{
		VehicleID:   vehicleID,
		ManpowerIDs: make([]int64, 0),
	}

	query := `
		SELECT
			va.driver_id,
			vam.manpower_id
		FROM vehicle_assignments va
		LEFT JOIN vehicle_assignment_manpower vam ON va.vehicle_id = vam.vehicle_id
		WHERE va.vehicle_id = $1
		ORDER BY vam.manpower_id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row struct {
			DriverID   *int64
			ManpowerID *int64
		}

		if err := rows.Scan(&row.DriverID, &row.ManpowerID); err != nil {
			return nil, err
		}

		assignment.DriverID = row.DriverID

		// manpower_id 为空表示这个班底没有配置任何勤务员
		if row.ManpowerID == nil {
			continue
		}

		assignment.ManpowerIDs = append(assignment.ManpowerIDs, *row.ManpowerID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return assignment, nil
}

// SetVehicleAssignment 整体替换车辆的固定班底
// 替换固定班底不会影响任何已经创建的排班记录
func (r *Repository) SetVehicleAssignment(assignment *domain.VehicleAssignment) error {
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
	query := `DELETE FROM vehicle_assignments WHERE vehicle_id = $1`
	if _, err := tx.ExecContext(ctx, query, assignment.VehicleID); err != nil {
		return err
	}

	query = `DELETE FROM vehicle_assignment_manpower WHERE vehicle_id = $1`
	if _, err := tx.ExecContext(ctx, query, assignment.VehicleID); err != nil {
		return err
	}

	query = `
		INSERT INTO vehicle_assignments (vehicle_id, driver_id)
		VALUES ($1, $2)
	`
	if _, err := tx.ExecContext(ctx, query, assignment.VehicleID, assignment.DriverID); err != nil {
		return err
	}

	for _, manpowerID := range assignment.ManpowerIDs {
		query := `
			INSERT INTO vehicle_assignment_manpower (vehicle_id, manpower_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, assignment.VehicleID, manpowerID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}
