package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusNoData  = "no_data"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	ReportRefreshTotal    *prometheus.CounterVec
	ReportRefreshDuration *prometheus.HistogramVec
	CustomersCreatedTotal prometheus.Counter
	CustomersImported     prometheus.Counter
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_management_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		ReportRefreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "customer_management_report_refresh_total",
				Help: "Total number of report refresh attempts by report type and outcome.",
			},
			[]string{"report_type", "status"},
		),
		ReportRefreshDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "customer_management_report_refresh_duration_seconds",
				Help:    "Histogram of report computation latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report_type"},
		),
		CustomersCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_management_customers_created_total",
				Help: "Total number of customers successfully created.",
			},
		),
		CustomersImported: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "customer_management_customers_imported_total",
				Help: "Total number of customers inserted through CSV import.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordReportRefresh(reportType, status string, duration time.Duration) {
	Business.ReportRefreshTotal.WithLabelValues(reportType, status).Inc()
	Business.ReportRefreshDuration.WithLabelValues(reportType).Observe(duration.Seconds())
}

func RecordCustomerCreated() {
	Business.CustomersCreatedTotal.Inc()
}

func RecordCustomersImported(n int) {
	Business.CustomersImported.Add(float64(n))
}

func QueryStatus(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusSuccess
}
