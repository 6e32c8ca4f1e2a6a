package report

import (
	"context"
	"customer-management/internal/domain/customer"
)

type ReportRepository interface {
	// Upsert replaces the stored report of the same type, or creates it.
	Upsert(ctx context.Context, r *Report) error

	// FindByType returns apperrors.ErrNotFound when the type was never refreshed.
	FindByType(ctx context.Context, reportType Type) (*Report, error)

	FindAll(ctx context.Context) ([]*Report, error)
}

// AgeAggregator computes year-difference average ages over the customer
// population. Both methods return apperrors.ErrNoData for an empty set.
type AgeAggregator interface {
	AverageAgeAll(ctx context.Context, referenceYear int) (string, error)
	AverageAgeByGender(ctx context.Context, gender customer.Gender, referenceYear int) (string, error)
}
