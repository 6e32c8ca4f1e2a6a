package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordReportRefresh(t *testing.T) {
	Business.ReportRefreshTotal.Reset()

	RecordReportRefresh("AVG_AGE", StatusSuccess, 10*time.Millisecond)
	RecordReportRefresh("AVG_AGE", StatusSuccess, 5*time.Millisecond)
	RecordReportRefresh("AVG_AGE_MALE", StatusNoData, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(Business.ReportRefreshTotal.WithLabelValues("AVG_AGE", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(Business.ReportRefreshTotal.WithLabelValues("AVG_AGE_MALE", StatusNoData)))
}

func TestRecordCustomersImported(t *testing.T) {
	before := testutil.ToFloat64(Business.CustomersImported)
	RecordCustomersImported(3)
	assert.Equal(t, before+3, testutil.ToFloat64(Business.CustomersImported))
}

func TestQueryStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, QueryStatus(nil))
	assert.Equal(t, StatusError, QueryStatus(errors.New("boom")))
}
