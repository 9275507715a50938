package domain

import (
	"slices"
	"time"
)

type ServiceStatus string

const (
	ServiceStatusComplete    ServiceStatus = "已完成"
	ServiceStatusNotComplete ServiceStatus = "未完成"
)

// ServiceScheduleEntry 是单条排班记录，也是完成流程状态机的载体
// 状态机：待上报（队长未上报）-> 已上报（队长已上报、主管未裁定）-> 已裁定（主管已裁定，终态）
// 主管可以在队长没有上报的情况下直接裁定
type ServiceScheduleEntry struct {
	ID           int64   `json:"id"`
	ZoneID       int64   `json:"zoneID"`
	SupervisorID int64   `json:"supervisorID"`
	VehicleID    int64   `json:"vehicleID"`
	DriverID     *int64  `json:"driverID"` // 创建时从车辆固定班底复制，也可以由主管当次覆盖
	ServiceDay   int32   `json:"serviceDay"`
	ServiceStart string  `json:"serviceStart"` // 格式为 15:04:05
	ServiceEnd   string  `json:"serviceEnd"`
	ManpowerIDs  []int64 `json:"manpowerIDs"` // 同样是创建时复制的值，不引用固定班底

	ChiefReportStatus *ServiceStatus `json:"chiefReportStatus"`
	ChiefReportReason *string        `json:"chiefReportReason"`
	ChiefReportedAt   *time.Time     `json:"chiefReportedAt"`

	SupervisorStatus    *ServiceStatus `json:"supervisorStatus"`
	SupervisorReason    *string        `json:"supervisorReason"`
	SupervisorDecidedAt *time.Time     `json:"supervisorDecidedAt"`

	ComplainedClientIDs []int64 `json:"complainedClientIDs"` // 对这条记录提出异议的客户，集合语义，不会重复

	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// 队长是否已经上报过这条记录
func (e *ServiceScheduleEntry) IsReported() bool {
	return e.ChiefReportStatus != nil
}

// 主管是否已经裁定过这条记录
func (e *ServiceScheduleEntry) IsAdjudicated() bool {
	return e.SupervisorStatus != nil
}

// 队长视角下这条记录是否处于等待主管确认的状态
func (e *ServiceScheduleEntry) AwaitingSupervisor() bool {
	return e.IsReported() && !e.IsAdjudicated()
}

func (e *ServiceScheduleEntry) HasComplaintFrom(clientID int64) bool {
	return slices.Contains(e.ComplainedClientIDs, clientID)
}

// IsVisibleTo 计算客户在 now 时刻能否看到这条记录
// 可见性是读取时根据墙上时钟现算的，绝对不能存成一个"已过期"标志，
// 也不能按 (clientID, entry) 缓存，否则窗口经过时不同客户会看到陈旧结果
func (e *ServiceScheduleEntry) IsVisibleTo(clientID int64, now time.Time, window time.Duration) bool {
	// 未裁定或者裁定为未完成的记录永远可见
	if e.SupervisorStatus == nil || *e.SupervisorStatus != ServiceStatusComplete {
		return true
	}

	// 裁定为已完成但没有裁定时间，正常情况下不会出现，保守处理为可见
	if e.SupervisorDecidedAt == nil {
		return true
	}

	// 已经提过异议的客户永远能看到这条记录，作为其异议的凭证
	if e.HasComplaintFrom(clientID) {
		return true
	}

	cutoff := e.SupervisorDecidedAt.Add(window)
	return !now.After(cutoff)
}

// CanComplain 计算客户在 now 时刻能否对这条记录提出异议
func (e *ServiceScheduleEntry) CanComplain(clientID int64, now time.Time, window time.Duration) bool {
	if e.SupervisorStatus == nil || *e.SupervisorStatus != ServiceStatusComplete {
		return false
	}
	if e.SupervisorDecidedAt == nil {
		return false
	}
	if e.HasComplaintFrom(clientID) {
		return false
	}

	cutoff := e.SupervisorDecidedAt.Add(window)
	return !now.After(cutoff)
}

// ValidateComplaint 检查客户此刻提出异议是否合法，返回对应的哨兵错误
// 存储层在插入异议之前必须重新调用它做校验
func (e *ServiceScheduleEntry) ValidateComplaint(clientID int64, now time.Time, window time.Duration) error {
	if e.SupervisorStatus == nil || *e.SupervisorStatus != ServiceStatusComplete || e.SupervisorDecidedAt == nil {
		return ErrNotAdjudicatedComplete
	}
	if e.HasComplaintFrom(clientID) {
		return ErrAlreadyComplained
	}
	if now.After(e.SupervisorDecidedAt.Add(window)) {
		return ErrComplaintWindowClosed
	}
	return nil
}
