package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCrew(t *testing.T) {
	defaultDriverID := int64(11)
	overrideDriverID := int64(22)

	newAssignment := func() *VehicleAssignment {
		return &VehicleAssignment{
			VehicleID:   1,
			DriverID:    &defaultDriverID,
			ManpowerIDs: []int64{101, 102},
		}
	}

	t.Run("没有覆盖时复制固定班底", func(t *testing.T) {
		driverID, manpowerIDs := newAssignment().ResolveCrew(nil, nil)

		require.NotNil(t, driverID)
		require.Equal(t, defaultDriverID, *driverID)
		require.Equal(t, []int64{101, 102}, manpowerIDs)
	})

	t.Run("覆盖司机时保留默认勤务员", func(t *testing.T) {
		driverID, manpowerIDs := newAssignment().ResolveCrew(&overrideDriverID, nil)

		require.NotNil(t, driverID)
		require.Equal(t, overrideDriverID, *driverID)
		require.Equal(t, []int64{101, 102}, manpowerIDs)
	})

	t.Run("覆盖勤务员时保留默认司机", func(t *testing.T) {
		override := []int64{201}
		driverID, manpowerIDs := newAssignment().ResolveCrew(nil, &override)

		require.NotNil(t, driverID)
		require.Equal(t, defaultDriverID, *driverID)
		require.Equal(t, []int64{201}, manpowerIDs)
	})

	t.Run("覆盖空勤务员列表表示这次不派任何勤务员", func(t *testing.T) {
		override := []int64{}
		_, manpowerIDs := newAssignment().ResolveCrew(nil, &override)

		require.Empty(t, manpowerIDs)
	})

	t.Run("固定班底没有常驻司机时结果也没有司机", func(t *testing.T) {
		assignment := &VehicleAssignment{VehicleID: 1}
		driverID, manpowerIDs := assignment.ResolveCrew(nil, nil)

		require.Nil(t, driverID)
		require.Empty(t, manpowerIDs)
	})

	t.Run("结果是复制值而不是引用固定班底", func(t *testing.T) {
		assignment := newAssignment()
		_, manpowerIDs := assignment.ResolveCrew(nil, nil)

		// 之后修改固定班底不能影响已经算好的结果
		assignment.ManpowerIDs[0] = 999
		require.Equal(t, []int64{101, 102}, manpowerIDs)
	})
}
