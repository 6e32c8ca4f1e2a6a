package main

import (
	"context"
	_ "customer-management/docs"
	"customer-management/internal/api"
	"customer-management/internal/batch"
	"customer-management/internal/config"
	"customer-management/internal/domain/customer"
	"customer-management/internal/domain/report"
	"customer-management/internal/event"
	"customer-management/internal/infrastructure/database/postgres"
	"customer-management/internal/infrastructure/database/redis"
	"customer-management/internal/infrastructure/logging"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	defaultReportRefreshSchedule = "0 2 * * *"
	defaultReportRefreshTimeout  = 10 * time.Minute
)

// @title Customer Management API
// @version 1.0
// @description Customer records and cached age reports.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
func main() {
	cfg, logger := initializeApp()

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	dbPool := initializeDatabase(cfg, logger)
	defer closeDatabase(dbPool, logger)

	reportRepo, closeReportStore := initializeReportStore(rootCtx, cfg, dbPool, logger)
	defer closeReportStore()

	publisher, closePublisher := initializeEventPublisher(cfg, logger)
	defer closePublisher()

	customerService, reportService := initializeServices(dbPool, reportRepo, publisher, logger)

	refreshJob := batch.NewRefreshReportsJob(reportService, logger)
	cronScheduler := startBatchJobs(cfg, logger, refreshJob)
	router := api.SetupRouter(rootCtx, customerService, reportService, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Logger)
	slog.SetDefault(logger)
	logger.Info("Application starting...", "app", cfg.App.Name, "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

func initializeDatabase(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	logger.Info("Initializing database connection pool...")
	dbPool, err := postgres.NewConnectionPool(context.Background(), cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize database connection pool", "error", err)
		os.Exit(1)
	}
	return dbPool
}

func closeDatabase(dbPool *pgxpool.Pool, logger *slog.Logger) {
	logger.Info("Closing database connection pool...")
	dbPool.Close()
}

// initializeReportStore picks where cached reports live. Customers always
// stay in PostgreSQL.
func initializeReportStore(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, logger *slog.Logger) (report.ReportRepository, func()) {
	switch cfg.Report.Store {
	case config.ReportStoreRedis:
		logger.Info("Using Redis report store", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		client, err := redis.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		return redis.NewReportRepository(client, cfg.Redis.KeyPrefix, logger), func() {
			logger.Info("Closing Redis client...")
			if err := client.Close(); err != nil {
				logger.Warn("Redis client close failed", "error", err)
			}
		}
	case config.ReportStorePostgres, "":
		logger.Info("Using PostgreSQL report store")
		return postgres.NewReportRepository(dbPool, logger), func() {}
	default:
		logger.Error("Unknown report store in configuration", "store", cfg.Report.Store)
		os.Exit(1)
		return nil, nil
	}
}

func initializeEventPublisher(cfg *config.Config, logger *slog.Logger) (event.EventPublisher, func()) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ disabled, domain events will only be logged")
		return event.NewNoopPublisher(logger), func() {}
	}

	url := fmt.Sprintf("amqp://%s:%s@%s:%d/", cfg.RabbitMQ.Username, cfg.RabbitMQ.Password, cfg.RabbitMQ.Host, cfg.RabbitMQ.Port)
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "host", cfg.RabbitMQ.Host, "error", err)
		os.Exit(1)
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.RabbitMQ.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to create RabbitMQ publisher", "error", err)
		conn.Close()
		os.Exit(1)
	}
	logger.Info("RabbitMQ publisher ready", "exchange", cfg.RabbitMQ.ExchangeName)

	return publisher, func() {
		logger.Info("Closing RabbitMQ connection...")
		if err := conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			logger.Warn("RabbitMQ connection close failed", "error", err)
		}
	}
}

func initializeServices(dbPool *pgxpool.Pool, reportRepo report.ReportRepository, publisher event.EventPublisher, logger *slog.Logger) (customer.CustomerService, report.ReportService) {
	logger.Info("Initializing application components...")
	customerRepo := postgres.NewCustomerRepository(dbPool, logger)
	customerService := customer.NewCustomerService(customerRepo, publisher, logger)
	reportService := report.NewReportService(customerRepo, reportRepo, publisher, logger)
	return customerService, reportService
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for signal or server error...")

	var triggerReason string
	select {
	case sig := <-shutdownChan:
		triggerReason = "signal: " + sig.String()
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			os.Exit(1)
		}
		triggerReason = "server exited"
		logger.Info("Server goroutine finished before signal.", "error", err)
	}

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	logger.Info("Waiting for server goroutine to confirm exit...")
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		} else {
			logger.Info("Server goroutine confirmed exit.")
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, refreshJob *batch.RefreshReportsJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	if !cfg.Batch.ReportRefreshEnabled {
		logger.Info("Scheduled report refresh disabled")
		c.Start()
		return c
	}

	scheduleSpec := cfg.Batch.ReportRefreshSchedule
	if scheduleSpec == "" {
		scheduleSpec = defaultReportRefreshSchedule
		logger.Warn("Report refresh schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := cfg.Batch.ReportRefreshTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultReportRefreshTimeout
	}

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "ReportRefresh")
		jobLogger.Info("Cron triggered: Running report refresh job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := refreshJob.Run(ctx); runErr != nil {
			jobLogger.Error("Report refresh job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Report refresh job finished successfully.")
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule report refresh job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled report refresh job", "schedule", scheduleSpec, "job_id", jobID, "timeout", jobTimeout)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func setupLogger(cfg config.LoggerConfig) *slog.Logger {
	return logging.NewLogger(cfg)
}
