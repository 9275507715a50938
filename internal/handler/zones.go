package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

func (h *Handler) CreateZone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	zone := &domain.Zone{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.repository.CreateZone(zone); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "zones_name_key":
				h.errorResponse(w, r, "片区名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建片区成功", zone)
}

func (h *Handler) GetAllZones(w http.ResponseWriter, r *http.Request) {
	zones, err := h.repository.GetAllZones()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有片区成功", zones)
}

func (h *Handler) GetZone(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	h.successResponse(w, r, "获取片区成功", zone)
}

func (h *Handler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		zone.Name = *req.Name
	}
	if req.Description != nil {
		zone.Description = *req.Description
	}

	if err := h.repository.UpdateZone(zone); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "zones_name_key":
				h.errorResponse(w, r, "片区名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "更新片区失败，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新片区成功", zone)
}

func (h *Handler) DeleteZone(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	if err := h.repository.DeleteZone(zone.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除片区成功", nil)
}

func (h *Handler) GetZoneServiceDays(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	h.successResponse(w, r, "获取片区固定服务日成功", zone.RecurringDays)
}

// SetZoneServiceDays 整体替换片区的固定服务日
func (h *Handler) SetZoneServiceDays(w http.ResponseWriter, r *http.Request) {
	zone := r.Context().Value(ZoneCtx).(*domain.Zone)

	var req struct {
		Days []int32 `json:"days" validate:"required,unique,dive,min=1,max=7"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SetZoneServiceDays(zone.ID, req.Days); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	zone.RecurringDays = req.Days

	h.successResponse(w, r, "设置片区固定服务日成功", zone)
}
