package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/hanul-soft/hr-portal/backend/internal/cache"
	"github.com/hanul-soft/hr-portal/backend/internal/config"
	"github.com/hanul-soft/hr-portal/backend/internal/domain"
	"github.com/hanul-soft/hr-portal/backend/internal/holiday"
	"github.com/hanul-soft/hr-portal/backend/internal/repository"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	translator   ut.Translator
	mailChannel  *amqp.Channel
	redisClient  *redis.Client
	sessionStore *cache.Store
	holidays     *holiday.Resolver

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, sessionStore *cache.Store, holidays *holiday.Resolver) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		mailChannel:  mailCh,
		redisClient:  rdb,
		sessionStore: sessionStore,
		holidays:     holidays,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 인증 관련
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 아래 API 는 로그인 후에만 호출할 수 있다
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/signature", h.UpdateMySignature)
		})

		r.Get("/users", h.GetEmployeeDirectory) // 직원 명부는 전 직원이 조회 가능
		r.Get("/departments", h.GetAllDepartments)
		r.Get("/holidays", h.GetHolidays)

		r.Route("/dept-duty-config", func(r chi.Router) {
			r.Get("/", h.GetDeptDutyConfig)
			r.With(h.RequiredRole([]domain.Role{domain.RoleDeptManager, domain.RoleHRAdmin})).Post("/", h.SaveDeptDutyConfig)
		})

		r.Route("/work-schedules", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.RequiredRole([]domain.Role{domain.RoleDeptManager, domain.RoleHRAdmin})).Post("/", h.CreateWorkSchedule)
			r.Get("/", h.GetWorkSchedules)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workSchedule)
				r.Get("/", h.GetWorkScheduleDetail)
				r.Delete("/", h.DeleteWorkSchedule)
				r.Patch("/remarks", h.UpdateScheduleRemarks)
				r.Put("/work-data", h.UpdateWorkData)
				r.Post("/members", h.AddScheduleMember)
				r.Delete("/members/{entryID}", h.RemoveScheduleMember)
				r.Post("/sign-step", h.SignStep)
				r.Post("/submit", h.SubmitForApproval)
				r.Post("/approve-step", h.ApproveStep)
				r.Post("/final-approve", h.FinalApprove)
				r.Post("/reject", h.RejectSchedule)
				r.With(h.RequiredRole([]domain.Role{domain.RoleHRAdmin})).Post("/toggle-final-approval", h.ToggleFinalApproval)
				r.Get("/pdf", h.DownloadPDF)
				r.Get("/excel", h.DownloadExcel)
				r.Get("/calendar.ics", h.DownloadDutyCalendar)
			})
		})
	})
}
