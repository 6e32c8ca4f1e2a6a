package batch_test

import (
	"context"
	"customer-management/internal/batch"
	"customer-management/internal/domain/report"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) Refresh(ctx context.Context, reportType report.Type) (*report.Report, error) {
	args := m.Called(ctx, reportType)
	if rep, ok := args.Get(0).(*report.Report); ok {
		return rep, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportService) Fetch(ctx context.Context, reportType report.Type) (*report.Report, error) {
	args := m.Called(ctx, reportType)
	if rep, ok := args.Get(0).(*report.Report); ok {
		return rep, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReportService) List(ctx context.Context) ([]*report.Report, error) {
	args := m.Called(ctx)
	if reports, ok := args.Get(0).([]*report.Report); ok {
		return reports, args.Error(1)
	}
	return nil, args.Error(1)
}

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func reportOf(rt report.Type, data string) *report.Report {
	return &report.Report{ReportType: rt, ReportDate: time.Now(), Data: data}
}

func TestRefreshReportsJob_AllSucceed(t *testing.T) {
	ctx := context.Background()
	svc := new(MockReportService)
	for _, rt := range report.Types {
		svc.On("Refresh", ctx, rt).Return(reportOf(rt, "40"), nil).Once()
	}

	err := batch.NewRefreshReportsJob(svc, logger).Run(ctx)

	assert.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestRefreshReportsJob_NoDataIsNotAnError(t *testing.T) {
	ctx := context.Background()
	svc := new(MockReportService)
	svc.On("Refresh", ctx, report.TypeAvgAge).Return(reportOf(report.TypeAvgAge, "54"), nil).Once()
	svc.On("Refresh", ctx, report.TypeAvgAgeMale).Return(reportOf(report.TypeAvgAgeMale, "54"), nil).Once()
	svc.On("Refresh", ctx, report.TypeAvgAgeFemale).
		Return(nil, fmt.Errorf("failed to compute report AVG_AGE_FEMALE: %w", apperrors.ErrNoData)).Once()

	err := batch.NewRefreshReportsJob(svc, logger).Run(ctx)

	assert.NoError(t, err)
	svc.AssertExpectations(t)
}

func TestRefreshReportsJob_FailuresAreAggregated(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection refused")
	svc := new(MockReportService)
	svc.On("Refresh", ctx, report.TypeAvgAge).Return(nil, dbErr).Once()
	svc.On("Refresh", ctx, report.TypeAvgAgeMale).Return(nil, dbErr).Once()
	svc.On("Refresh", ctx, report.TypeAvgAgeFemale).Return(reportOf(report.TypeAvgAgeFemale, "44"), nil).Once()

	err := batch.NewRefreshReportsJob(svc, logger).Run(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "completed with 2 errors")
	assert.Contains(t, err.Error(), "AVG_AGE_MALE")
	svc.AssertExpectations(t)
}

func TestNewRefreshReportsJob_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { batch.NewRefreshReportsJob(nil, logger) })
}
