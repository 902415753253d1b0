package serverhttp

import (
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"customer-insight/internal/config"
	custHnd "customer-insight/internal/customer/handler"
	"customer-insight/internal/customer/service"
	"customer-insight/internal/middleware"
	"customer-insight/server/http/handlers"
)

func NewRouter(cfg config.Config, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) * 1024 * 1024))

	// health-check
	r.Get("/health", handlers.Health)

	svc := service.NewSession(service.Options{
		PriorityHighYear:   cfg.PriorityHighYear,
		PriorityMediumYear: cfg.PriorityMediumYear,
	})
	h := custHnd.New(svc, cfg, logger)

	r.Post("/load", h.Load)
	r.Get("/search", h.Search)
	r.Post("/lost-customers", h.LostCustomers)
	r.Post("/export/lost-customers", h.ExportLostCustomers)

	r.Get("/stats/yearly", h.YearlyStats)
	r.Get("/stats/monthly", h.MonthlyStats)
	r.Get("/stats/products", h.ProductStats)
	r.Get("/stats/states", h.StateStats)

	r.Get("/records", h.Records)
	r.Post("/records", h.AddRecord)
	r.Put("/records/{id}", h.UpdateRecord)
	r.Delete("/records/{id}", h.DeleteRecord)

	return r
}
