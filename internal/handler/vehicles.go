package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	var req struct {
		PlateNumber string `json:"plateNumber" validate:"required"`
		Model       string `json:"model"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vehicle := &domain.Vehicle{
		ZoneID:      zone.ID,
		PlateNumber: req.PlateNumber,
		Model:       req.Model,
	}

	if err := h.repository.CreateVehicle(vehicle); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "vehicles_plate_number_key":
				h.errorResponse(w, r, "车牌号已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建车辆成功", vehicle)
}

func (h *Handler) GetZoneVehicles(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	vehicles, err := h.repository.GetVehiclesByZoneID(zone.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取片区车辆成功", vehicles)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle := r.Context().Value(VehicleCtx).(*domain.Vehicle)

	if err := h.repository.DeleteVehicle(vehicle.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "service_schedule_entries_vehicle_id_fkey":
			h.errorResponse(w, r, "该车辆仍然被排班记录使用，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除车辆成功", nil)
}

func (h *Handler) GetVehicleAssignment(w http.ResponseWriter, r *http.Request) {
	vehicle := r.Context().Value(VehicleCtx).(*domain.Vehicle)

	assignment, err := h.repository.GetVehicleAssignment(vehicle.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取车辆固定班底成功", assignment)
}

// SetVehicleAssignment 整体替换车辆的固定班底
// 修改固定班底不会影响任何已经创建的排班记录
func (h *Handler) SetVehicleAssignment(w http.ResponseWriter, r *http.Request) {
	vehicle := r.Context().Value(VehicleCtx).(*domain.Vehicle)

	var req struct {
		DriverID    *int64  `json:"driverID"`
		ManpowerIDs []int64 `json:"manpowerIDs" validate:"required,unique"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 班底成员必须和车辆属于同一个片区
	if req.DriverID != nil {
		inZone, err := h.repository.CheckDriverInZone(*req.DriverID, vehicle.ZoneID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !inZone {
			h.errorResponse(w, r, "指定的司机不属于这个片区")
			return
		}
	}
	for _, manpowerID := range req.ManpowerIDs {
		inZone, err := h.repository.CheckManpowerInZone(manpowerID, vehicle.ZoneID)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		if !inZone {
			h.errorResponse(w, r, "指定的勤务员不属于这个片区")
			return
		}
	}

	assignment := &domain.VehicleAssignment{
		VehicleID:   vehicle.ID,
		DriverID:    req.DriverID,
		ManpowerIDs: req.ManpowerIDs,
	}

	if err := h.repository.SetVehicleAssignment(assignment); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "vehicle_assignments_driver_id_fkey":
				h.errorResponse(w, r, "指定的司机不存在")
			case "vehicle_assignment_manpower_manpower_id_fkey":
				h.errorResponse(w, r, "指定的勤务员不存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "设置车辆固定班底成功", assignment)
}

func (h *Handler) CreateDriver(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	var req struct {
		FullName string `json:"fullName" validate:"required"`
		Phone    string `json:"phone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	driver := &domain.Driver{
		ZoneID:   zone.ID,
		FullName: req.FullName,
		Phone:    req.Phone,
	}

	if err := h.repository.CreateDriver(driver); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建司机成功", driver)
}

func (h *Handler) GetZoneDrivers(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	drivers, err := h.repository.GetDriversByZoneID(zone.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取片区司机成功", drivers)
}

func (h *Handler) DeleteDriver(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	driverIDParam := chi.URLParam(r, "driverID")
	driverID, err := strconv.ParseInt(driverIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "司机ID无效")
		return
	}

	if err := h.repository.DeleteDriver(zone.ID, driverID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "司机不存在")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "service_schedule_entries_driver_id_fkey":
			h.errorResponse(w, r, "该司机仍然被排班记录使用，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除司机成功", nil)
}

func (h *Handler) CreateManpower(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	var req struct {
		FullName string `json:"fullName" validate:"required"`
		Phone    string `json:"phone"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	manpower := &domain.Manpower{
		ZoneID:   zone.ID,
		FullName: req.FullName,
		Phone:    req.Phone,
	}

	if err := h.repository.CreateManpower(manpower); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建勤务员成功", manpower)
}

func (h *Handler) GetZoneManpower(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	manpowerList, err := h.repository.GetManpowerByZoneID(zone.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取片区勤务员成功", manpowerList)
}

func (h *Handler) DeleteManpower(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	manpowerIDParam := chi.URLParam(r, "manpowerID")
	manpowerID, err := strconv.ParseInt(manpowerIDParam, 10, 64)
	if err != nil {
		h.errorResponse(w, r, "勤务员ID无效")
		return
	}

	if err := h.repository.DeleteManpower(zone.ID, manpowerID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "勤务员不存在")
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "service_schedule_entry_manpower_manpower_id_fkey":
			h.errorResponse(w, r, "该勤务员仍然被排班记录使用，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除勤务员成功", nil)
}
