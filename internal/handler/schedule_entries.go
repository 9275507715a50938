package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
)

func (h *Handler) complaintWindow() time.Duration {
	return time.Duration(h.config.Complaint.WindowHours) * time.Hour
}

func (h *Handler) CreateScheduleEntry(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	var req struct {
		VehicleID    int64    `json:"vehicleID" validate:"required"`
		ServiceDay   int32    `json:"serviceDay" validate:"required,min=1,max=7"`
		ServiceStart string   `json:"serviceStart" validate:"required"`
		ServiceEnd   string   `json:"serviceEnd" validate:"required"`
		DriverID     *int64   `json:"driverID"`    // 不传时使用车辆固定班底的司机
		ManpowerIDs  *[]int64 `json:"manpowerIDs"` // 不传时使用车辆固定班底的勤务员
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 检查服务时间段是否合法
	if err := utils.ValidateServiceTimeRange(req.ServiceStart, req.ServiceEnd); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 检查车辆是否属于这个片区
	vehicle, err := h.repository.GetVehicleByID(req.VehicleID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "车辆不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if vehicle.ZoneID != zone.ID {
		h.badRequest(w, r, errors.New("车辆不属于这个片区"))
		return
	}

	entry := &domain.ServiceScheduleEntry{
		ZoneID:       zone.ID,
		SupervisorID: myInfo.ID,
		VehicleID:    req.VehicleID,
		ServiceDay:   req.ServiceDay,
		ServiceStart: req.ServiceStart,
		ServiceEnd:   req.ServiceEnd,
	}

	// 显式覆盖的司机和勤务员必须属于这个片区
	if req.DriverID != nil {
		inZone, err := h.repository.CheckDriverInZone(*req.DriverID, zone.ID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !inZone {
			h.badRequest(w, r, errors.New("指定的司机不属于这个片区"))
			return
		}
	}
	if req.ManpowerIDs != nil {
		for _, manpowerID := range *req.ManpowerIDs {
			inZone, err := h.repository.CheckManpowerInZone(manpowerID, zone.ID)
			if err != nil {
				h.internalServerError(w, r, err)
				return
			}
			if !inZone {
				h.badRequest(w, r, errors.New("指定的勤务员不属于这个片区"))
				return
			}
		}
	}

	// 没有显式覆盖的字段从车辆的固定班底中复制
	// 复制的是创建时刻的值，之后修改固定班底不会影响这条记录，覆盖也不会回写固定班底
	assignment := &domain.VehicleAssignment{VehicleID: req.VehicleID}
	if req.DriverID == nil || req.ManpowerIDs == nil {
		assignment, err = h.repository.GetVehicleAssignment(req.VehicleID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}
	entry.DriverID, entry.ManpowerIDs = assignment.ResolveCrew(req.DriverID, req.ManpowerIDs)

	if err := h.repository.CreateServiceScheduleEntry(entry); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "service_schedule_entries_driver_id_fkey":
				h.badRequest(w, r, errors.New("指定的司机不存在"))
			case "service_schedule_entry_manpower_manpower_id_fkey":
				h.badRequest(w, r, errors.New("指定的勤务员不存在"))
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 提示调用方这一天是固定服务日还是特殊服务日，这个分类不做任何强制约束
	dayType := "特殊服务日"
	if zone.IsRecurringDay(req.ServiceDay) {
		dayType = "固定服务日"
	}

	h.successResponse(w, r, "创建排班记录成功", struct {
		*domain.ServiceScheduleEntry
		DayType string `json:"dayType"`
	}{entry, dayType})
}

// GetZoneScheduleEntries 返回片区的排班记录，内容随查看者的角色变化：
// 主管和管理员看到完整列表；队长看到完整列表并附带是否等待主管确认的标记；
// 客户只看到异议窗口策略允许其看到的记录，并附带能否提出异议的标记
func (h *Handler) GetZoneScheduleEntries(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	entries, err := h.repository.GetServiceScheduleEntriesByZoneID(zone.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	switch myInfo.Role {
	case domain.RoleChief:
		type chiefEntry struct {
			*domain.ServiceScheduleEntry
			AwaitingSupervisor bool `json:"awaitingSupervisor"`
		}

		result := make([]chiefEntry, 0, len(entries))
		for _, entry := range entries {
			result = append(result, chiefEntry{
				ServiceScheduleEntry: entry,
				AwaitingSupervisor:   entry.AwaitingSupervisor(),
			})
		}

		h.successResponse(w, r, "获取排班记录成功", result)
	case domain.RoleClient:
		type clientEntry struct {
			*domain.ServiceScheduleEntry
			CanComplain bool `json:"canComplain"`
		}

		// 可见性必须在每次读取时根据当前时间现算，不能缓存
		now := time.Now()
		window := h.complaintWindow()

		result := make([]clientEntry, 0, len(entries))
		for _, entry := range entries {
			if !entry.IsVisibleTo(myInfo.ID, now, window) {
				continue
			}
			result = append(result, clientEntry{
				ServiceScheduleEntry: entry,
				CanComplain:          entry.CanComplain(myInfo.ID, now, window),
			})
		}

		h.successResponse(w, r, "获取排班记录成功", result)
	default:
		h.successResponse(w, r, "获取排班记录成功", entries)
	}
}

func (h *Handler) DeleteScheduleEntry(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	entryIDParam := chi.URLParam(r, "entryID")
	entryID, err := strconv.ParseInt(entryIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "排班记录ID无效")
		return
	}

	if err := h.repository.DeleteServiceScheduleEntry(zone.ID, entryID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除排班记录成功", nil)
}

// ReportServiceByChief 队长上报服务是否完成，每条记录只允许上报一次
func (h *Handler) ReportServiceByChief(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(ScheduleEntryCtx).(*domain.ServiceScheduleEntry)

	var req struct {
		Status string  `json:"status" validate:"required,oneof=已完成 未完成"`
		Reason *string `json:"reason"` // 上报未完成时建议填写原因，但不做强制要求
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.ReportServiceByChief(entry, domain.ServiceStatus(req.Status), req.Reason); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyReported):
			h.errorResponse(w, r, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "上报服务结果成功", entry)
}

// AdjudicateService 主管裁定服务是否完成，每条记录只允许裁定一次
// 队长没有上报时主管也可以直接裁定
func (h *Handler) AdjudicateService(w http.ResponseWriter, r *http.Request) {
	entry := r.Context().Value(ScheduleEntryCtx).(*domain.ServiceScheduleEntry)

	var req struct {
		Status string  `json:"status" validate:"required,oneof=已完成 未完成"`
		Reason *string `json:"reason"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.AdjudicateService(entry, domain.ServiceStatus(req.Status), req.Reason); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyAdjudicated):
			h.errorResponse(w, r, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "裁定服务结果成功", entry)
}

// FileComplaint 客户对裁定为已完成的排班记录提出异议
func (h *Handler) FileComplaint(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	entry := r.Context().Value(ScheduleEntryCtx).(*domain.ServiceScheduleEntry)

	if err := h.repository.FileComplaint(entry, myInfo.ID, time.Now(), h.complaintWindow()); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotAdjudicatedComplete),
			errors.Is(err, domain.ErrAlreadyComplained),
			errors.Is(err, domain.ErrComplaintWindowClosed):
			h.errorResponse(w, r, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "排班记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 通知片区的所有主管有客户提出了异议
	// 通知失败不影响异议本身，只记录日志
	if err := h.notifyComplaintFiled(entry, myInfo); err != nil {
		h.logInternalServerError(r, err)
	}

	h.successResponse(w, r, "提交异议成功", entry)
}

func (h *Handler) notifyComplaintFiled(entry *domain.ServiceScheduleEntry, client *domain.User) error {
	zone, err := h.repository.GetZoneByID(entry.ZoneID)
	if err != nil {
		return err
	}

	supervisors, err := h.repository.GetUsersByZoneIDAndRole(entry.ZoneID, domain.RoleSupervisor)
	if err != nil {
		return err
	}

	for _, supervisor := range supervisors {
		mailMessage := domain.MailMessage{
			Type: "complaint_filed",
			To:   supervisor.Email,
			Data: domain.ComplaintFiledMailData{
				FullName:       supervisor.FullName,
				ZoneName:       zone.Name,
				ClientFullName: client.FullName,
				ServiceDay:     entry.ServiceDay,
				ServiceStart:   entry.ServiceStart,
				ServiceEnd:     entry.ServiceEnd,
			},
		}

		mailData, err := json.Marshal(mailMessage)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)

		err = h.mailChannel.PublishWithContext(
			ctx,
			"",
			"email_queue",
			true,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        mailData,
			},
		)
		cancel()
		if err != nil {
			return err
		}
	}

	return nil
}
