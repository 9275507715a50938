package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

// 删除司机必须限定在自己的片区内，拿到别的片区的司机 ID 也删不掉
func TestDeleteDriverScopedToZone(t *testing.T) {
	r := newTestRepository(t)

	zoneA := createTestZone(t, r, "甲区")
	zoneB := createTestZone(t, r, "乙区")
	driver := createTestDriver(t, r, zoneB, "乙区司机")

	err := r.DeleteDriver(zoneA.ID, driver.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)

	drivers, err := r.GetDriversByZoneID(zoneB.ID)
	require.NoError(t, err)
	require.Len(t, drivers, 1)

	require.NoError(t, r.DeleteDriver(zoneB.ID, driver.ID))

	drivers, err = r.GetDriversByZoneID(zoneB.ID)
	require.NoError(t, err)
	require.Empty(t, drivers)
}

func TestDeleteManpowerScopedToZone(t *testing.T) {
	r := newTestRepository(t)

	zoneA := createTestZone(t, r, "甲区")
	zoneB := createTestZone(t, r, "乙区")
	manpower := createTestManpower(t, r, zoneB, "乙区勤务员")

	err := r.DeleteManpower(zoneA.ID, manpower.ID)
	require.ErrorIs(t, err, sql.ErrNoRows)

	manpowerList, err := r.GetManpowerByZoneID(zoneB.ID)
	require.NoError(t, err)
	require.Len(t, manpowerList, 1)

	require.NoError(t, r.DeleteManpower(zoneB.ID, manpower.ID))

	manpowerList, err = r.GetManpowerByZoneID(zoneB.ID)
	require.NoError(t, err)
	require.Empty(t, manpowerList)
}

func TestCheckCrewInZone(t *testing.T) {
	r := newTestRepository(t)

	zoneA := createTestZone(t, r, "甲区")
	zoneB := createTestZone(t, r, "乙区")
	driver := createTestDriver(t, r, zoneA, "甲区司机")
	manpower := createTestManpower(t, r, zoneA, "甲区勤务员")

	inZone, err := r.CheckDriverInZone(driver.ID, zoneA.ID)
	require.NoError(t, err)
	require.True(t, inZone)

	inZone, err = r.CheckDriverInZone(driver.ID, zoneB.ID)
	require.NoError(t, err)
	require.False(t, inZone)

	inZone, err = r.CheckManpowerInZone(manpower.ID, zoneA.ID)
	require.NoError(t, err)
	require.True(t, inZone)

	inZone, err = r.CheckManpowerInZone(manpower.ID, zoneB.ID)
	require.NoError(t, err)
	require.False(t, inZone)

	// 不存在的 ID 同样视为不在片区内
	inZone, err = r.CheckDriverInZone(424242, zoneA.ID)
	require.NoError(t, err)
	require.False(t, inZone)
}
