package dto

import (
	"customer-management/internal/domain/report"
	"time"
)

type ReportResponse struct {
	ReportType string    `json:"reportType" example:"AVG_AGE" enums:"AVG_AGE,AVG_AGE_MALE,AVG_AGE_FEMALE"`
	ReportDate time.Time `json:"reportDate"`
	Data       string    `json:"data" example:"49"`
}

func NewReportResponse(r *report.Report) ReportResponse {
	if r == nil {
		return ReportResponse{}
	}
	return ReportResponse{
		ReportType: string(r.ReportType),
		ReportDate: r.ReportDate,
		Data:       r.Data,
	}
}
