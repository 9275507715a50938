package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
)

// CreateServiceScheduleEntry 插入一条排班记录和它的勤务员名单
// 传入的 entry 中的司机和勤务员必须已经由调用方解析完毕（显式覆盖或者固定班底的副本）
func (r *Repository) CreateServiceScheduleEntry(entry *domain.ServiceScheduleEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO service_schedule_entries (zone_id, supervisor_id, vehicle_id, driver_id, service_day, service_start, service_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, version
	`

	params := []any{entry.ZoneID, entry.SupervisorID, entry.VehicleID, entry.DriverID, entry.ServiceDay, entry.ServiceStart, entry.ServiceEnd}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&entry.ID, &entry.CreatedAt, &entry.Version); err != nil {
		return err
	}

	for _, manpowerID := range entry.ManpowerIDs {
		query := `
			INSERT INTO service_schedule_entry_manpower (entry_id, manpower_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, entry.ID, manpowerID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	if entry.ManpowerIDs == nil {
		entry.ManpowerIDs = make([]int64, 0)
	}
	if entry.ComplainedClientIDs == nil {
		entry.ComplainedClientIDs = make([]int64, 0)
	}

	return nil
}

func (r *Repository) GetServiceScheduleEntryByID(id int64) (*domain.ServiceScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			zone_id, supervisor_id, vehicle_id, driver_id, service_day,
			to_char(service_start, 'HH24:MI:SS'), to_char(service_end, 'HH24:MI:SS'),
			chief_report_status, chief_report_reason, chief_reported_at,
			supervisor_status, supervisor_reason, supervisor_decided_at,
			created_at, version
		FROM service_schedule_entries
		WHERE id = $1
	`

	entry := &domain.ServiceScheduleEntry{
		ID:                  id,
		ManpowerIDs:         make([]int64, 0),
		ComplainedClientIDs: make([]int64, 0),
	}

	dst := []any{
		&entry.ZoneID,
		&entry.SupervisorID,
		&entry.VehicleID,
		&entry.DriverID,
		&entry.ServiceDay,
		&entry.ServiceStart,
		&entry.ServiceEnd,
		&entry.ChiefReportStatus,
		&entry.ChiefReportReason,
		&entry.ChiefReportedAt,
		&entry.SupervisorStatus,
		&entry.SupervisorReason,
		&entry.SupervisorDecidedAt,
		&entry.CreatedAt,
		&entry.Version,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	// 勤务员名单和异议客户名单分开查询，避免两个一对多连接产生笛卡尔积
	query = `
		SELECT manpower_id FROM service_schedule_entry_manpower
		WHERE entry_id = $1
		ORDER BY manpower_id
	`
	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var manpowerID int64
		if err := rows.Scan(&manpowerID); err != nil {
			return nil, err
		}
		entry.ManpowerIDs = append(entry.ManpowerIDs, manpowerID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT client_id FROM service_schedule_entry_complaints
		WHERE entry_id = $1
		ORDER BY client_id
	`
	rows, err = r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var clientID int64
		if err := rows.Scan(&clientID); err != nil {
			return nil, err
		}
		entry.ComplainedClientIDs = append(entry.ComplainedClientIDs, clientID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entry, nil
}

// GetServiceScheduleEntriesByZoneID 按 (服务日, 开始时间, 插入顺序) 排序返回片区的所有排班记录
func (r *Repository) GetServiceScheduleEntriesByZoneID(zoneID int64) ([]*domain.ServiceScheduleEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			id, supervisor_id, vehicle_id, driver_id, service_day,
			to_char(service_start, 'HH24:MI:SS'), to_char(service_end, 'HH24:MI:SS'),
			chief_report_status, chief_report_reason, chief_reported_at,
			supervisor_status, supervisor_reason, supervisor_decided_at,
			created_at, version
		FROM service_schedule_entries
		WHERE zone_id = $1
		ORDER BY service_day, service_start, id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ServiceScheduleEntry, 0)
	entriesMap := make(map[int64]*domain.ServiceScheduleEntry)

	for rows.Next() {
		entry := &domain.ServiceScheduleEntry{
			ZoneID:              zoneID,
			ManpowerIDs:         make([]int64, 0),
			ComplainedClientIDs: make([]int64, 0),
		}

		dst := []any{
			&entry.ID,
			&entry.SupervisorID,
			&entry.VehicleID,
			&entry.DriverID,
			&entry.ServiceDay,
			&entry.ServiceStart,
			&entry.ServiceEnd,
			&entry.ChiefReportStatus,
			&entry.ChiefReportReason,
			&entry.ChiefReportedAt,
			&entry.SupervisorStatus,
			&entry.SupervisorReason,
			&entry.SupervisorDecidedAt,
			&entry.CreatedAt,
			&entry.Version,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
		entriesMap[entry.ID] = entry
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT ssem.entry_id, ssem.manpower_id
		FROM service_schedule_entry_manpower ssem
		JOIN service_schedule_entries sse ON ssem.entry_id = sse.id
		WHERE sse.zone_id = $1
		ORDER BY ssem.manpower_id
	`
	manpowerRows, err := r.dbpool.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, err
	}
	defer manpowerRows.Close()

	for manpowerRows.Next() {
		var entryID, manpowerID int64
		if err := manpowerRows.Scan(&entryID, &manpowerID); err != nil {
			return nil, err
		}
		if entry, exists := entriesMap[entryID]; exists {
			entry.ManpowerIDs = append(entry.ManpowerIDs, manpowerID)
		}
	}
	if err := manpowerRows.Err(); err != nil {
		return nil, err
	}

	query = `
		SELECT ssec.entry_id, ssec.client_id
		FROM service_schedule_entry_complaints ssec
		JOIN service_schedule_entries sse ON ssec.entry_id = sse.id
		WHERE sse.zone_id = $1
		ORDER BY ssec.client_id
	`
	complaintRows, err := r.dbpool.QueryContext(ctx, query, zoneID)
	if err != nil {
		return nil, err
	}
	defer complaintRows.Close()

	for complaintRows.Next() {
		var entryID, clientID int64
		if err := complaintRows.Scan(&entryID, &clientID); err != nil {
			return nil, err
		}
		if entry, exists := entriesMap[entryID]; exists {
			entry.ComplainedClientIDs = append(entry.ComplainedClientIDs, clientID)
		}
	}
	if err := complaintRows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteServiceScheduleEntry 硬删除某个片区的排班记录
// 记录不存在或者不属于这个片区时返回 sql.ErrNoRows
func (r *Repository) DeleteServiceScheduleEntry(zoneID int64, entryID int64) error {
	query := `
		DELETE FROM service_schedule_entries WHERE id = $1 AND zone_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, entryID, zoneID)
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

// ReportServiceByChief 记录队长的上报结果
// 条件更新保证了只有第一次上报会生效，两个队长并发上报同一条记录时只有一个会成功
func (r *Repository) ReportServiceByChief(entry *domain.ServiceScheduleEntry, status domain.ServiceStatus, reason *string) error {
	query := `
		UPDATE service_schedule_entries
		SET
			chief_report_status = $1,
			chief_report_reason = $2,
			chief_reported_at = NOW(),
			version = version + 1
		WHERE id = $3 AND chief_report_status IS NULL
		RETURNING chief_reported_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, status, reason, entry.ID).Scan(&entry.ChiefReportedAt, &entry.Version); err != nil {
		if err == sql.ErrNoRows {
			return r.classifyMissedUpdate(ctx, entry.ID, domain.ErrAlreadyReported)
		}
		return err
	}

	entry.ChiefReportStatus = &status
	entry.ChiefReportReason = reason

	return nil
}

// AdjudicateService 记录主管的裁定结果，每条记录只允许裁定一次
// 主管可以在队长没有上报的情况下直接裁定
func (r *Repository) AdjudicateService(entry *domain.ServiceScheduleEntry, status domain.ServiceStatus, reason *string) error {
	query := `
		UPDATE service_schedule_entries
		SET
			supervisor_status = $1,
			supervisor_reason = $2,
			supervisor_decided_at = NOW(),
			version = version + 1
		WHERE id = $3 AND supervisor_status IS NULL
		RETURNING supervisor_decided_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, status, reason, entry.ID).Scan(&entry.SupervisorDecidedAt, &entry.Version); err != nil {
		if err == sql.ErrNoRows {
			return r.classifyMissedUpdate(ctx, entry.ID, domain.ErrAlreadyAdjudicated)
		}
		return err
	}

	entry.SupervisorStatus = &status
	entry.SupervisorReason = reason

	return nil
}

// FileComplaint 将客户加入排班记录的异议名单
// 先用最新的记录状态重新校验窗口，再依赖唯一约束做幂等插入，
// 因此两个相同的并发请求最多只会插入一条异议
func (r *Repository) FileComplaint(entry *domain.ServiceScheduleEntry, clientID int64, now time.Time, window time.Duration) error {
	// 重新读取一次最新状态，调用方持有的 entry 可能已经过期
	fresh, err := r.GetServiceScheduleEntryByID(entry.ID)
	if err != nil {
		return err
	}

	if err := fresh.ValidateComplaint(clientID, now, window); err != nil {
		return err
	}

	query := `
		INSERT INTO service_schedule_entry_complaints (entry_id, client_id)
		VALUES ($1, $2)
		ON CONFLICT (entry_id, client_id) DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, entry.ID, clientID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// 并发的相同请求已经先插入了这条异议
		return domain.ErrAlreadyComplained
	}

	*entry = *fresh
	entry.ComplainedClientIDs = append(entry.ComplainedClientIDs, clientID)

	return nil
}

// 条件更新没有命中任何行时，区分记录已经被处理过和记录不存在这两种情况
func (r *Repository) classifyMissedUpdate(ctx context.Context, entryID int64, alreadyErr error) error {
	query := `
		SELECT EXISTS (SELECT 1 FROM service_schedule_entries WHERE id = $1)
	`

	isExists := false
	if err := r.dbpool.QueryRowContext(ctx, query, entryID).Scan(&isExists); err != nil {
		return err
	}

	if isExists {
		return alreadyErr
	}

	return sql.ErrNoRows
}
