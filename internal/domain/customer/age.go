package customer

import (
	"customer-management/internal/pkg/apperrors"
	"time"

	"github.com/shopspring/decimal"
)

// YearAge is the age as a plain difference of calendar years. Birthdays later
// in the reference year are not taken into account.
func YearAge(birthDate time.Time, referenceYear int) int64 {
	return int64(referenceYear - birthDate.Year())
}

// AverageAge turns an aggregated year-age sum over count customers into the
// report representation: the mean truncated toward zero, as a base-10 integer.
func AverageAge(sum, count int64) (string, error) {
	if count <= 0 {
		return "", apperrors.ErrNoData
	}
	quotient, _ := decimal.NewFromInt(sum).QuoRem(decimal.NewFromInt(count), 0)
	return quotient.String(), nil
}
