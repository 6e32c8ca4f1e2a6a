package handler

import (
	"customer-management/internal/api/handler/dto"
	"customer-management/internal/domain/report"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ReportHandler struct {
	service report.ReportService
	logger  *slog.Logger
}

func NewReportHandler(s report.ReportService, l *slog.Logger) *ReportHandler {
	if s == nil {
		panic("report service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ReportHandler{service: s, logger: l.With("component", "ReportHandler")}
}

func getReportTypeFromURL(r *http.Request) (report.Type, error) {
	raw := chi.URLParam(r, "reportType")
	if raw == "" {
		return "", fmt.Errorf("%w: reportType not found in URL path", apperrors.ErrInvalidArgument)
	}
	t := report.Type(raw)
	if !t.Valid() {
		return "", fmt.Errorf("%w: Unknown report type", apperrors.ErrInvalidArgument)
	}
	return t, nil
}

// RefreshReport handles PUT /api/reports/{reportType}
// @Summary Refresh a report
// @Description Recomputes the report from the current customers and overwrites the stored value.
// @Tags Reports
// @Param reportType path string true "Report type" Enums(AVG_AGE, AVG_AGE_MALE, AVG_AGE_FEMALE)
// @Success 204 "Report refreshed"
// @Failure 400 {object} dto.ErrorResponse "Unknown report type or no customers to aggregate"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/reports/{reportType} [put]
func (h *ReportHandler) RefreshReport(w http.ResponseWriter, r *http.Request) {
	reportType, err := getReportTypeFromURL(r)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Refresh requested for invalid report type", slog.Any("error", err))
		respondError(w, err)
		return
	}
	log := h.logger.With(slog.String("reportType", string(reportType)))

	if _, err := h.service.Refresh(r.Context(), reportType); err != nil {
		if errors.Is(err, apperrors.ErrNoData) {
			log.WarnContext(r.Context(), "Report refresh found no data", slog.Any("error", err))
		} else {
			log.ErrorContext(r.Context(), "Service failed to refresh report", slog.Any("error", err))
		}
		respondError(w, err)
		return
	}

	log.InfoContext(r.Context(), "Report refreshed")
	respondJSON(w, http.StatusNoContent, nil)
}

// GetReport handles GET /api/reports/{reportType}
// @Summary Fetch a report
// @Description Returns the last stored value. Reports are never computed on read.
// @Tags Reports
// @Produce json
// @Param reportType path string true "Report type" Enums(AVG_AGE, AVG_AGE_MALE, AVG_AGE_FEMALE)
// @Success 200 {object} dto.ReportResponse "Stored report"
// @Failure 400 {object} dto.ErrorResponse "Unknown report type"
// @Failure 404 {object} dto.ErrorResponse "Report has never been refreshed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/reports/{reportType} [get]
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportType, err := getReportTypeFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	rep, err := h.service.Fetch(r.Context(), reportType)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.ErrorContext(r.Context(), "Service failed to fetch report", slog.String("reportType", string(reportType)), slog.Any("error", err))
		}
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewReportResponse(rep))
}

// ListReports handles GET /api/reports
// @Summary List stored reports
// @Tags Reports
// @Produce json
// @Success 200 {array} dto.ReportResponse "Stored reports"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/reports [get]
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list reports", slog.Any("error", err))
		respondError(w, err)
		return
	}

	resp := make([]dto.ReportResponse, len(reports))
	for i, rep := range reports {
		resp[i] = dto.NewReportResponse(rep)
	}
	respondJSON(w, http.StatusOK, resp)
}
