package report

import (
	"context"
	"customer-management/internal/domain/customer"
	"customer-management/internal/event"
	"customer-management/internal/infrastructure/monitoring"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

type ReportService interface {
	// Refresh recomputes the report and overwrites its cached value.
	// Nothing is written when the computation fails.
	Refresh(ctx context.Context, reportType Type) (*Report, error)

	// Fetch reads the cached value and never computes.
	Fetch(ctx context.Context, reportType Type) (*Report, error)

	List(ctx context.Context) ([]*Report, error)
}

var _ ReportService = (*reportService)(nil)

type reportService struct {
	aggregator AgeAggregator
	repo       ReportRepository
	pub        event.EventPublisher
	logger     *slog.Logger
	now        func() time.Time
}

func NewReportService(aggregator AgeAggregator, repo ReportRepository, eventPublisher event.EventPublisher, logger *slog.Logger) ReportService {
	if aggregator == nil {
		panic("age aggregator cannot be nil")
	}
	if repo == nil {
		panic("report repository cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewReportService, using default stderr handler")
	}
	if eventPublisher == nil {
		eventPublisher = event.NewNoopPublisher(logger)
	}

	return &reportService{
		aggregator: aggregator,
		repo:       repo,
		pub:        eventPublisher,
		logger:     logger.With(slog.String("component", "reportService")),
		now:        time.Now,
	}
}

func (s *reportService) Refresh(ctx context.Context, reportType Type) (*Report, error) {
	log := s.logger.With(slog.String("reportType", string(reportType)))
	if !reportType.Valid() {
		log.WarnContext(ctx, "Refresh requested for unknown report type")
		return nil, fmt.Errorf("%w: Unknown report type", apperrors.ErrInvalidArgument)
	}

	start := s.now()
	data, err := s.compute(ctx, reportType, start.Year())
	if err != nil {
		status := monitoring.StatusError
		if errors.Is(err, apperrors.ErrNoData) {
			status = monitoring.StatusNoData
			log.WarnContext(ctx, "No customers to aggregate, report left untouched")
		} else {
			log.ErrorContext(ctx, "Failed to compute report", slog.Any("error", err))
		}
		monitoring.RecordReportRefresh(string(reportType), status, time.Since(start))
		return nil, fmt.Errorf("failed to compute report %s: %w", reportType, err)
	}

	r := &Report{
		ReportType: reportType,
		ReportDate: s.now().UTC().Truncate(time.Microsecond),
		Data:       data,
	}
	if err := s.repo.Upsert(ctx, r); err != nil {
		log.ErrorContext(ctx, "Repository failed to store report", slog.Any("error", err))
		monitoring.RecordReportRefresh(string(reportType), monitoring.StatusError, time.Since(start))
		return nil, fmt.Errorf("failed to store report %s: %w", reportType, err)
	}
	monitoring.RecordReportRefresh(string(reportType), monitoring.StatusSuccess, time.Since(start))

	refreshed := event.ReportRefreshedEvent{
		Timestamp:  time.Now(),
		ReportType: string(r.ReportType),
		ReportDate: r.ReportDate,
		Data:       r.Data,
	}
	if err := s.pub.PublishReportRefreshed(ctx, refreshed); err != nil {
		log.ErrorContext(ctx, "Report refreshed, but FAILED to publish refresh event", slog.Any("error", err))
	}

	log.InfoContext(ctx, "Successfully refreshed report", slog.String("data", r.Data))
	return r, nil
}

func (s *reportService) compute(ctx context.Context, reportType Type, referenceYear int) (string, error) {
	switch reportType {
	case TypeAvgAge:
		return s.aggregator.AverageAgeAll(ctx, referenceYear)
	case TypeAvgAgeMale:
		return s.aggregator.AverageAgeByGender(ctx, customer.GenderMale, referenceYear)
	case TypeAvgAgeFemale:
		return s.aggregator.AverageAgeByGender(ctx, customer.GenderFemale, referenceYear)
	default:
		return "", fmt.Errorf("%w: Unknown report type", apperrors.ErrInvalidArgument)
	}
}

func (s *reportService) Fetch(ctx context.Context, reportType Type) (*Report, error) {
	log := s.logger.With(slog.String("reportType", string(reportType)))
	if !reportType.Valid() {
		return nil, fmt.Errorf("%w: Unknown report type", apperrors.ErrInvalidArgument)
	}

	r, err := s.repo.FindByType(ctx, reportType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.DebugContext(ctx, "Report has not been computed yet")
			return nil, apperrors.ErrNotFound
		}
		log.ErrorContext(ctx, "Repository error fetching report", slog.Any("error", err))
		return nil, fmt.Errorf("failed to fetch report %s: %w", reportType, err)
	}
	return r, nil
}

func (s *reportService) List(ctx context.Context) ([]*Report, error) {
	reports, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository error listing reports", slog.Any("error", err))
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}
