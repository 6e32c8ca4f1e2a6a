package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"customer-management/internal/domain/report"
	"customer-management/internal/infrastructure/monitoring"
	"customer-management/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	upsertReportQuery = `
        INSERT INTO reports (report_type, report_date, data)
        VALUES ($1, $2, $3)
        ON CONFLICT (report_type)
        DO UPDATE SET report_date = EXCLUDED.report_date, data = EXCLUDED.data`

	findReportByTypeQuery = `
        SELECT report_type, report_date, data
        FROM reports
        WHERE report_type = $1`

	findAllReportsQuery = `
        SELECT report_type, report_date, data
        FROM reports
        ORDER BY report_type ASC`
)

type ReportRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ report.ReportRepository = (*ReportRepository)(nil)

func NewReportRepository(db DBPool, logger *slog.Logger) *ReportRepository {
	if db == nil {
		panic("DBPool cannot be nil for ReportRepository")
	}
	return &ReportRepository{db: db, logger: logger.With("component", "ReportRepository")}
}

func (r *ReportRepository) Upsert(ctx context.Context, rep *report.Report) error {
	if rep == nil {
		return fmt.Errorf("%w: report cannot be nil", apperrors.ErrInvalidArgument)
	}
	if len(rep.Data) > report.DataMaxLength {
		return fmt.Errorf("%w: report data exceeds %d characters", apperrors.ErrInvalidArgument, report.DataMaxLength)
	}

	startTime := time.Now()
	_, err := r.db.Exec(ctx, upsertReportQuery, string(rep.ReportType), rep.ReportDate, rep.Data)
	monitoring.RecordDBQuery("UpsertReport", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert report", slog.String("reportType", string(rep.ReportType)), slog.Any("error", err))
		return translateDBError(err, r.logger)
	}
	return nil
}

func (r *ReportRepository) FindByType(ctx context.Context, reportType report.Type) (*report.Report, error) {
	startTime := time.Now()
	rep, err := scanReport(r.db.QueryRow(ctx, findReportByTypeQuery, string(reportType)))
	monitoring.RecordDBQuery("FindReportByType", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find report", slog.String("reportType", string(reportType)), slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to find report")
	}
	return rep, nil
}

func (r *ReportRepository) FindAll(ctx context.Context) ([]*report.Report, error) {
	startTime := time.Now()
	rows, err := r.db.Query(ctx, findAllReportsQuery)
	if err != nil {
		monitoring.RecordDBQuery("FindAllReports", monitoring.StatusError, time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query reports", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to list reports")
	}
	defer rows.Close()

	var reports []*report.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan report row", slog.Any("error", err))
			return nil, apperrors.WrapDatabaseError(err, "failed to read report row")
		}
		reports = append(reports, rep)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("FindAllReports", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		return nil, apperrors.WrapDatabaseError(err, "failed to list reports")
	}
	return reports, nil
}

func scanReport(row pgx.Row) (*report.Report, error) {
	var (
		rep        report.Report
		reportType string
	)
	if err := row.Scan(&reportType, &rep.ReportDate, &rep.Data); err != nil {
		return nil, err
	}
	rep.ReportType = report.Type(reportType)
	rep.ReportDate = rep.ReportDate.UTC()
	return &rep, nil
}
