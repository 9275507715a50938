package handler

import (
	"github.com/fieldops-dev/zone-service-manager/backend/internal/config"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/domain"
	"github.com/fieldops-dev/zone-service-manager/backend/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin})) // 账号只能由管理员管理
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
			})
		})

		r.Route("/zones", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/", h.CreateZone)
			r.Get("/", h.GetAllZones)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.zoneInfo)
				r.Get("/", h.GetZone)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Patch("/", h.UpdateZone)
				r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Delete("/", h.DeleteZone)

				// 片区内部的操作要求调用者属于这个片区（管理员除外）
				r.Group(func(r chi.Router) {
					r.Use(h.myInfo)
					r.Use(h.requireZoneMember)

					r.Route("/service-days", func(r chi.Router) {
						r.Get("/", h.GetZoneServiceDays)
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Put("/", h.SetZoneServiceDays)
					})

					r.Route("/vehicles", func(r chi.Router) {
						r.Get("/", h.GetZoneVehicles)
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateVehicle)
						r.Route("/{vehicleID}", func(r chi.Router) {
							r.Use(h.vehicleInfo)
							r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/", h.DeleteVehicle)
							r.Route("/assignment", func(r chi.Router) {
								r.Get("/", h.GetVehicleAssignment)
								r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Put("/", h.SetVehicleAssignment)
							})
						})
					})

					r.Route("/drivers", func(r chi.Router) {
						r.Get("/", h.GetZoneDrivers)
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateDriver)
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/{driverID}", h.DeleteDriver)
					})

					r.Route("/manpower", func(r chi.Router) {
						r.Get("/", h.GetZoneManpower)
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateManpower)
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/{manpowerID}", h.DeleteManpower)
					})

					r.Route("/schedule-entries", func(r chi.Router) {
						r.Get("/", h.GetZoneScheduleEntries) // 返回内容随查看者的角色变化
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/", h.CreateScheduleEntry)
						r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Delete("/{entryID}", h.DeleteScheduleEntry)
					})
				})
			})
		})

		// 完成流程和异议直接作用在排班记录上
		r.Route("/schedule-entries/{entryID}", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.scheduleEntry)
			r.With(h.RequiredRole([]domain.Role{domain.RoleChief})).Post("/chief-report", h.ReportServiceByChief)
			r.With(h.RequiredRole([]domain.Role{domain.RoleSupervisor})).Post("/adjudication", h.AdjudicateService)
			r.With(h.RequiredRole([]domain.Role{domain.RoleClient})).Post("/complaints", h.FileComplaint)
		})
	})
}
