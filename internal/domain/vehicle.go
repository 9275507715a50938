package domain

import "time"

type Vehicle struct {
	ID          int64     `json:"id"`
	ZoneID      int64     `json:"zoneID"`
	PlateNumber string    `json:"plateNumber"`
	Model       string    `json:"model"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}

// VehicleAssignment 表示某辆车的固定班底（常驻司机和常驻勤务员）
// 排班时引用它作为默认值，但排班记录只会复制它的内容，不会引用它本身
type VehicleAssignment struct {
	VehicleID   int64   `json:"vehicleID"`
	DriverID    *int64  `json:"driverID"` // 没有常驻司机时为 nil，这不是错误
	ManpowerIDs []int64 `json:"manpowerIDs"`
}

// ResolveCrew 计算一条排班记录实际使用的司机和勤务员
// 显式覆盖的字段按覆盖值，没有覆盖的字段从固定班底复制
// 返回的勤务员切片是新分配的，后续修改固定班底不会影响它
func (a *VehicleAssignment) ResolveCrew(driverID *int64, manpowerIDs *[]int64) (*int64, []int64) {
	resolvedDriverID := a.DriverID
	if driverID != nil {
		resolvedDriverID = driverID
	}

	var source []int64
	if manpowerIDs != nil {
		source = *manpowerIDs
	} else {
		source = a.ManpowerIDs
	}
	resolvedManpowerIDs := make([]int64, len(source))
	copy(resolvedManpowerIDs, source)

	return resolvedDriverID, resolvedManpowerIDs
}
