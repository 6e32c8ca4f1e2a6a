package handler_test

import (
	"context"
	"customer-management/internal/api/handler"
	"customer-management/internal/api/handler/dto"
	"customer-management/internal/domain/report"
	"customer-management/internal/pkg/apperrors"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReportService struct {
	mock.Mock
}

func (_m *MockReportService) Refresh(ctx context.Context, reportType report.Type) (*report.Report, error) {
	ret := _m.Called(ctx, reportType)

	var r0 *report.Report
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*report.Report)
	}

	return r0, ret.Error(1)
}

func (_m *MockReportService) Fetch(ctx context.Context, reportType report.Type) (*report.Report, error) {
	ret := _m.Called(ctx, reportType)

	var r0 *report.Report
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*report.Report)
	}

	return r0, ret.Error(1)
}

func (_m *MockReportService) List(ctx context.Context) ([]*report.Report, error) {
	ret := _m.Called(ctx)

	var r0 []*report.Report
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*report.Report)
	}

	return r0, ret.Error(1)
}

func TestRefreshReport(t *testing.T) {
	mockService := new(MockReportService)
	h := handler.NewReportHandler(mockService, logger)

	t.Run("success", func(t *testing.T) {
		mockService.On("Refresh", mock.Anything, report.TypeAvgAgeMale).
			Return(&report.Report{ReportType: report.TypeAvgAgeMale, ReportDate: time.Now(), Data: "54"}, nil).Once()

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/reports/AVG_AGE_MALE", nil), "reportType", "AVG_AGE_MALE")
		rec := httptest.NewRecorder()

		h.RefreshReport(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.Bytes())
	})

	t.Run("unknown type", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/reports/MEDIAN_AGE", nil), "reportType", "MEDIAN_AGE")
		rec := httptest.NewRecorder()

		h.RefreshReport(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "Unknown report type")
	})

	t.Run("no data", func(t *testing.T) {
		mockService.On("Refresh", mock.Anything, report.TypeAvgAgeFemale).
			Return(nil, fmt.Errorf("failed to compute report AVG_AGE_FEMALE: %w", apperrors.ErrNoData)).Once()

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/reports/AVG_AGE_FEMALE", nil), "reportType", "AVG_AGE_FEMALE")
		rec := httptest.NewRecorder()

		h.RefreshReport(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		mockService.On("Refresh", mock.Anything, report.TypeAvgAge).
			Return(nil, fmt.Errorf("failed to store report AVG_AGE: %w", apperrors.ErrDatabase)).Once()

		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/reports/AVG_AGE", nil), "reportType", "AVG_AGE")
		rec := httptest.NewRecorder()

		h.RefreshReport(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	mockService.AssertExpectations(t)
}

func TestGetReport(t *testing.T) {
	mockService := new(MockReportService)
	h := handler.NewReportHandler(mockService, logger)
	reportDate := time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		mockService.On("Fetch", mock.Anything, report.TypeAvgAge).
			Return(&report.Report{ReportType: report.TypeAvgAge, ReportDate: reportDate, Data: "49"}, nil).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/reports/AVG_AGE", nil), "reportType", "AVG_AGE")
		rec := httptest.NewRecorder()

		h.GetReport(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp dto.ReportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "AVG_AGE", resp.ReportType)
		assert.Equal(t, "49", resp.Data)
		assert.True(t, reportDate.Equal(resp.ReportDate))
	})

	t.Run("never refreshed", func(t *testing.T) {
		mockService.On("Fetch", mock.Anything, report.TypeAvgAgeFemale).Return(nil, apperrors.ErrNotFound).Once()

		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/reports/AVG_AGE_FEMALE", nil), "reportType", "AVG_AGE_FEMALE")
		rec := httptest.NewRecorder()

		h.GetReport(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/reports/avg_age", nil), "reportType", "avg_age")
		rec := httptest.NewRecorder()

		h.GetReport(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	mockService.AssertExpectations(t)
}

func TestListReports(t *testing.T) {
	mockService := new(MockReportService)
	h := handler.NewReportHandler(mockService, logger)
	mockService.On("List", mock.Anything).Return([]*report.Report{
		{ReportType: report.TypeAvgAge, ReportDate: time.Now(), Data: "49"},
		{ReportType: report.TypeAvgAgeMale, ReportDate: time.Now(), Data: "54"},
	}, nil).Once()

	rec := httptest.NewRecorder()
	h.ListReports(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.ReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "AVG_AGE_MALE", resp[1].ReportType)
	mockService.AssertExpectations(t)
}
