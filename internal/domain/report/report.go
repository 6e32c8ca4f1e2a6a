package report

import (
	"customer-management/internal/pkg/apperrors"
	"fmt"
	"time"
)

type Type string

const (
	TypeAvgAge       Type = "AVG_AGE"
	TypeAvgAgeMale   Type = "AVG_AGE_MALE"
	TypeAvgAgeFemale Type = "AVG_AGE_FEMALE"

	// DataMaxLength bounds the stored data column.
	DataMaxLength = 256
)

// Types lists every report type in declaration order.
var Types = []Type{TypeAvgAge, TypeAvgAgeMale, TypeAvgAgeFemale}

func (t Type) Valid() bool {
	switch t {
	case TypeAvgAge, TypeAvgAgeMale, TypeAvgAgeFemale:
		return true
	}
	return false
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown report type %q", apperrors.ErrInvalidArgument, s)
	}
	return t, nil
}

// Report is the cached value of one report type. There is at most one per type.
type Report struct {
	ReportType Type      `json:"reportType"`
	ReportDate time.Time `json:"reportDate"`
	Data       string    `json:"data"`
}
