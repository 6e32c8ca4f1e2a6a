package redis

import (
	"context"
	"customer-management/internal/domain/report"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	fieldReportType = "report_type"
	fieldReportDate = "report_date"
	fieldData       = "data"
)

// hashClient is the subset of the go-redis client the report store uses.
type hashClient interface {
	HSet(ctx context.Context, key string, values ...any) *goredis.IntCmd
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
}

// ReportRepository keeps one hash per report type. A single HSET replaces
// every field of a report at once.
type ReportRepository struct {
	client    hashClient
	keyPrefix string
	logger    *slog.Logger
}

var _ report.ReportRepository = (*ReportRepository)(nil)

func NewReportRepository(client hashClient, keyPrefix string, logger *slog.Logger) *ReportRepository {
	if client == nil {
		panic("redis client cannot be nil for ReportRepository")
	}
	return &ReportRepository{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger.With("component", "RedisReportRepository"),
	}
}

func (r *ReportRepository) key(reportType report.Type) string {
	return r.keyPrefix + string(reportType)
}

func (r *ReportRepository) Upsert(ctx context.Context, rep *report.Report) error {
	if rep == nil {
		return fmt.Errorf("%w: report cannot be nil", apperrors.ErrInvalidArgument)
	}
	if len(rep.Data) > report.DataMaxLength {
		return fmt.Errorf("%w: report data exceeds %d characters", apperrors.ErrInvalidArgument, report.DataMaxLength)
	}

	err := r.client.HSet(ctx, r.key(rep.ReportType),
		fieldReportType, string(rep.ReportType),
		fieldReportDate, rep.ReportDate.UTC().Format(time.RFC3339Nano),
		fieldData, rep.Data,
	).Err()
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to store report", slog.String("reportType", string(rep.ReportType)), slog.Any("error", err))
		return apperrors.WrapCacheError(err, "failed to store report")
	}
	return nil
}

func (r *ReportRepository) FindByType(ctx context.Context, reportType report.Type) (*report.Report, error) {
	fields, err := r.client.HGetAll(ctx, r.key(reportType)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		r.logger.ErrorContext(ctx, "Failed to read report", slog.String("reportType", string(reportType)), slog.Any("error", err))
		return nil, apperrors.WrapCacheError(err, "failed to read report")
	}
	if len(fields) == 0 {
		return nil, apperrors.ErrNotFound
	}

	reportDate, err := time.Parse(time.RFC3339Nano, fields[fieldReportDate])
	if err != nil {
		r.logger.ErrorContext(ctx, "Stored report has an unreadable date", slog.String("reportType", string(reportType)), slog.Any("error", err))
		return nil, apperrors.WrapCacheError(err, "corrupt report entry")
	}
	return &report.Report{
		ReportType: reportType,
		ReportDate: reportDate,
		Data:       fields[fieldData],
	}, nil
}

func (r *ReportRepository) FindAll(ctx context.Context) ([]*report.Report, error) {
	var reports []*report.Report
	for _, reportType := range report.Types {
		rep, err := r.FindByType(ctx, reportType)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
