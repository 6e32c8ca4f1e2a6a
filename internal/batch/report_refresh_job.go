package batch

import (
	"context"
	"customer-management/internal/domain/report"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// RefreshReportsJob recomputes every report type. Types are independent, so
// they are refreshed concurrently.
type RefreshReportsJob struct {
	reportService report.ReportService
	reportTypes   []report.Type
	logger        *slog.Logger
}

func NewRefreshReportsJob(reportSvc report.ReportService, logger *slog.Logger) *RefreshReportsJob {
	if reportSvc == nil || logger == nil {
		panic("RefreshReportsJob dependencies cannot be nil")
	}
	return &RefreshReportsJob{
		reportService: reportSvc,
		reportTypes:   report.Types,
		logger:        logger.With("job", "RefreshReports"),
	}
}

func (j *RefreshReportsJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting report refresh job.", slog.Int("report_types", len(j.reportTypes)))

	var (
		wg                               sync.WaitGroup
		mu                               sync.Mutex
		refreshed, skippedNoData, failed atomic.Int32
		errs                             []error
	)

	for _, reportType := range j.reportTypes {
		wg.Add(1)
		go func(rt report.Type) {
			defer wg.Done()
			logCtx := j.logger.With(slog.String("reportType", string(rt)))

			rep, err := j.reportService.Refresh(ctx, rt)
			switch {
			case err == nil:
				refreshed.Add(1)
				logCtx.DebugContext(ctx, "Report refreshed.", slog.String("data", rep.Data))
			case errors.Is(err, apperrors.ErrNoData):
				skippedNoData.Add(1)
				logCtx.WarnContext(ctx, "No customers to aggregate, keeping previous report value.")
			default:
				failed.Add(1)
				logCtx.ErrorContext(ctx, "Failed to refresh report", slog.Any("error", err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", rt, err))
				mu.Unlock()
			}
		}(reportType)
	}

	wg.Wait()
	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("reports_refreshed", int(refreshed.Load())),
		slog.Int("reports_without_data", int(skippedNoData.Load())),
		slog.Int("errors_encountered", int(failed.Load())),
	)
	if len(errs) > 0 {
		summaryLog.WarnContext(ctx, "Report refresh job finished with errors.")
		return fmt.Errorf("report refresh completed with %d errors: %w", len(errs), errors.Join(errs...))
	}

	summaryLog.InfoContext(ctx, "Report refresh job finished successfully.")
	return nil
}
