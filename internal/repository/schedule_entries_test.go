package repository

import (
	"database/sql"
	"testing"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestReportServiceByChiefOnlyOnce(t *testing.T) {
	r := newTestRepository(t)

	zone := createTestZone(t, r, "东区")
	supervisor := createTestSupervisor(t, r, zone, "supervisor_east")
	vehicle := createTestVehicle(t, r, zone, "粤B00001")
	entry := createTestEntry(t, r, zone, supervisor, vehicle, nil, nil)

	require.NoError(t, r.ReportServiceByChief(entry, domain.ServiceStatusComplete, nil))
	require.NotNil(t, entry.ChiefReportedAt)

	// 第二次上报不生效，第一次的结果保持不变
	reason := "车辆中途故障"
	err := r.ReportServiceByChief(entry, domain.ServiceStatusNotComplete, &reason)
	require.ErrorIs(t, err, domain.ErrAlreadyReported)

	fresh, err := r.GetServiceScheduleEntryByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.ChiefReportStatus)
	require.Equal(t, domain.ServiceStatusComplete, *fresh.ChiefReportStatus)
	require.Nil(t, fresh.ChiefReportReason)
}

func TestReportServiceByChiefMissingEntry(t *testing.T) {
	r := newTestRepository(t)

	// 记录不存在和已经上报过要区分开
	missing := &domain.ServiceScheduleEntry{ID: 424242}
	err := r.ReportServiceByChief(missing, domain.ServiceStatusComplete, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAdjudicateServiceOnlyOnce(t *testing.T) {
	r := newTestRepository(t)

	zone := createTestZone(t, r, "西区")
	supervisor := createTestSupervisor(t, r, zone, "supervisor_west")
	vehicle := createTestVehicle(t, r, zone, "粤B00002")
	entry := createTestEntry(t, r, zone, supervisor, vehicle, nil, nil)

	// 主管可以在队长没有上报的情况下直接裁定
	require.NoError(t, r.AdjudicateService(entry, domain.ServiceStatusComplete, nil))
	require.NotNil(t, entry.SupervisorDecidedAt)

	reason := "当天暴雨停运"
	err := r.AdjudicateService(entry, domain.ServiceStatusNotComplete, &reason)
	require.ErrorIs(t, err, domain.ErrAlreadyAdjudicated)

	fresh, err := r.GetServiceScheduleEntryByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.SupervisorStatus)
	require.Equal(t, domain.ServiceStatusComplete, *fresh.SupervisorStatus)
	require.Nil(t, fresh.SupervisorReason)
}

func TestAdjudicateServiceMissingEntry(t *testing.T) {
	r := newTestRepository(t)

	missing := &domain.ServiceScheduleEntry{ID: 424242}
	err := r.AdjudicateService(missing, domain.ServiceStatusComplete, nil)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

// 排班记录复制创建时刻的固定班底，之后修改固定班底不影响已有记录
func TestScheduleEntryKeepsCrewAfterAssignmentChange(t *testing.T) {
	r := newTestRepository(t)

	zone := createTestZone(t, r, "南区")
	supervisor := createTestSupervisor(t, r, zone, "supervisor_south")
	vehicle := createTestVehicle(t, r, zone, "粤B00003")
	oldDriver := createTestDriver(t, r, zone, "老司机")
	newDriver := createTestDriver(t, r, zone, "新司机")
	oldManpower := createTestManpower(t, r, zone, "老勤务员")
	newManpower := createTestManpower(t, r, zone, "新勤务员")

	require.NoError(t, r.SetVehicleAssignment(&domain.VehicleAssignment{
		VehicleID:   vehicle.ID,
		DriverID:    &oldDriver.ID,
		ManpowerIDs: []int64{oldManpower.ID},
	}))

	assignment, err := r.GetVehicleAssignment(vehicle.ID)
	require.NoError(t, err)

	driverID, manpowerIDs := assignment.ResolveCrew(nil, nil)
	entry := createTestEntry(t, r, zone, supervisor, vehicle, driverID, manpowerIDs)

	// 整体替换固定班底
	require.NoError(t, r.SetVehicleAssignment(&domain.VehicleAssignment{
		VehicleID:   vehicle.ID,
		DriverID:    &newDriver.ID,
		ManpowerIDs: []int64{newManpower.ID},
	}))

	fresh, err := r.GetServiceScheduleEntryByID(entry.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh.DriverID)
	require.Equal(t, oldDriver.ID, *fresh.DriverID)
	require.Equal(t, []int64{oldManpower.ID}, fresh.ManpowerIDs)
}
