package customer

import (
	"context"
	"errors"
)

var (
	ErrDuplicateExternalID = errors.New("a customer with this externalCustomerId exists already")
)

type CustomerRepository interface {
	// Save inserts the customer when CustomerID is zero and updates it otherwise.
	// Timestamps are stamped by the store and written back into cust.
	Save(ctx context.Context, cust *Customer) error

	// SaveAll inserts every customer in a single transaction.
	SaveAll(ctx context.Context, customers []*Customer) error

	FindByID(ctx context.Context, customerID int64) (*Customer, error)

	// FindPage returns customers ordered by name ascending.
	FindPage(ctx context.Context, offset, limit int) ([]*Customer, error)

	Count(ctx context.Context) (int64, error)

	Delete(ctx context.Context, customerID int64) error

	AverageAgeAll(ctx context.Context, referenceYear int) (string, error)

	AverageAgeByGender(ctx context.Context, gender Gender, referenceYear int) (string, error)
}
