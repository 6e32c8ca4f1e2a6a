package api

import (
	"context"
	"customer-management/internal/api/handler"
	mw "customer-management/internal/api/middleware"
	"customer-management/internal/config"
	"customer-management/internal/domain/customer"
	"customer-management/internal/domain/report"
	"log/slog"
	"net/http"
	"time"

	_ "customer-management/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/traceid"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const healthPath = "/health"

// SetupRouter builds the HTTP surface. ctx bounds background work started by
// the middleware stack.
func SetupRouter(ctx context.Context, customerService customer.CustomerService, reportService report.ReportService, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()

	setupMiddleware(ctx, router, cfg, logger)
	setupMetricsEndpoint(router, cfg, logger)
	setupCustomerRoutes(router, cfg, customerService, logger)
	setupReportRoutes(router, reportService, logger)
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	setupSwaggerEndpoint(router, logger)

	return router
}

func setupMiddleware(ctx context.Context, router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(traceid.Middleware)
	router.Use(mw.StructuredLogger(logger, healthPath, metricsPath(cfg)))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(mw.NewRateLimiterMiddleware(ctx, cfg.Server.RateLimit, logger).Middleware)
	router.Use(mw.MetricsMiddleware())
}

func metricsPath(cfg *config.Config) string {
	if cfg.Metrics.Path == "" {
		return "/metrics"
	}
	return cfg.Metrics.Path
}

func setupMetricsEndpoint(router *chi.Mux, cfg *config.Config, logger *slog.Logger) {
	path := metricsPath(cfg)
	logger.Info("Setting up Prometheus metrics endpoint", "path", path)
	router.Handle(path, promhttp.Handler())
}

func setupSwaggerEndpoint(router *chi.Mux, logger *slog.Logger) {
	logger.Info("Setting up Swagger UI endpoint", "path", "/swagger/")
	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
}

func setupCustomerRoutes(r chi.Router, cfg *config.Config, svc customer.CustomerService, logger *slog.Logger) {
	h := handler.NewCustomerHandler(svc, cfg.App.Name, logger)

	r.Route("/api/customers", func(r chi.Router) {
		r.Post("/", h.CreateCustomer)
		r.Get("/", h.ListCustomers)
		r.Get("/count", h.CountCustomers)
		r.Post("/import-csv", h.ImportCSV)
		r.Route("/{customerID}", func(r chi.Router) {
			r.Get("/", h.GetCustomer)
			r.Put("/", h.UpdateCustomer)
			r.Patch("/", h.PatchCustomer)
			r.Delete("/", h.DeleteCustomer)
		})
	})
}

func setupReportRoutes(r chi.Router, svc report.ReportService, logger *slog.Logger) {
	h := handler.NewReportHandler(svc, logger)

	r.Route("/api/reports", func(r chi.Router) {
		r.Get("/", h.ListReports)
		r.Route("/{reportType}", func(r chi.Router) {
			r.Get("/", h.GetReport)
			r.Put("/", h.RefreshReport)
		})
	})
}
