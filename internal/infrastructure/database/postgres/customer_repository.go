package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"customer-management/internal/domain/customer"
	"customer-management/internal/infrastructure/monitoring"
	"customer-management/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

const (
	customerColumns = `id, gender, name, birth_date, external_customer_id, created_at, updated_at`

	insertCustomerQuery = `
        INSERT INTO customers (gender, name, birth_date, external_customer_id, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at`

	updateCustomerQuery = `
        UPDATE customers
        SET gender = $1,
            name = $2,
            birth_date = $3,
            external_customer_id = $4,
            updated_at = NOW()
        WHERE id = $5
        RETURNING created_at, updated_at`

	findCustomerByIDQuery = `
        SELECT ` + customerColumns + `
        FROM customers
        WHERE id = $1`

	findCustomerPageQuery = `
        SELECT ` + customerColumns + `
        FROM customers
        ORDER BY name ASC, id ASC
        LIMIT $1 OFFSET $2`

	countCustomersQuery = `SELECT COUNT(*) FROM customers`

	deleteCustomerQuery = `DELETE FROM customers WHERE id = $1`

	// Year-field difference only; the birthday within the reference year is ignored.
	ageAggregateAllQuery = `
        SELECT COUNT(*), COALESCE(SUM($1::int - EXTRACT(YEAR FROM birth_date)::int), 0)
        FROM customers`

	ageAggregateByGenderQuery = `
        SELECT COUNT(*), COALESCE(SUM($1::int - EXTRACT(YEAR FROM birth_date)::int), 0)
        FROM customers
        WHERE gender = $2`
)

type CustomerRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ customer.CustomerRepository = (*CustomerRepository)(nil)

func NewCustomerRepository(db DBPool, logger *slog.Logger) *CustomerRepository {
	if db == nil {
		panic("DBPool cannot be nil for CustomerRepository")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerRepository, using default stderr handler")
	}
	return &CustomerRepository{
		db:     db,
		logger: logger.With("component", "CustomerRepository"),
	}
}

func (r *CustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	if cust == nil {
		return fmt.Errorf("%w: customer cannot be nil", apperrors.ErrInvalidArgument)
	}

	if cust.CustomerID == 0 {
		return r.createCustomer(ctx, r.db, cust)
	}
	return r.updateCustomer(ctx, cust)
}

type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *CustomerRepository) createCustomer(ctx context.Context, q rowQuerier, cust *customer.Customer) error {
	startTime := time.Now()
	err := q.QueryRow(ctx, insertCustomerQuery,
		string(cust.Gender),
		cust.Name,
		cust.BirthDate,
		cust.ExternalCustomerID,
	).Scan(
		&cust.CustomerID,
		&cust.CreatedAt,
	)
	monitoring.RecordDBQuery("InsertCustomer", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		translatedErr := translateDBError(err, r.logger)
		if errors.Is(translatedErr, apperrors.ErrAlreadyExists) {
			r.logger.WarnContext(ctx, "Failed to insert customer due to unique constraint violation")
			return translatedErr
		}
		r.logger.ErrorContext(ctx, "Failed to insert customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to insert customer")
	}
	cust.UpdatedAt = nil

	r.logger.DebugContext(ctx, "Customer inserted successfully", slog.Int64("customerID", cust.CustomerID))
	return nil
}

func (r *CustomerRepository) updateCustomer(ctx context.Context, cust *customer.Customer) error {
	log := r.logger.With(slog.Int64("customerID", cust.CustomerID))

	var updatedAt time.Time
	startTime := time.Now()
	err := r.db.QueryRow(ctx, updateCustomerQuery,
		string(cust.Gender),
		cust.Name,
		cust.BirthDate,
		cust.ExternalCustomerID,
		cust.CustomerID,
	).Scan(&cust.CreatedAt, &updatedAt)
	monitoring.RecordDBQuery("UpdateCustomer", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		translatedErr := translateDBError(err, log)
		switch {
		case errors.Is(translatedErr, apperrors.ErrNotFound):
			log.WarnContext(ctx, "Update matched zero rows, customer not found")
			return apperrors.ErrNotFound
		case errors.Is(translatedErr, apperrors.ErrAlreadyExists):
			log.WarnContext(ctx, "Failed to update customer due to unique constraint violation")
			return translatedErr
		}
		log.ErrorContext(ctx, "Failed to update customer", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to update customer")
	}
	cust.UpdatedAt = &updatedAt

	log.DebugContext(ctx, "Customer updated successfully")
	return nil
}

func (r *CustomerRepository) SaveAll(ctx context.Context, customers []*customer.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to begin transaction", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to begin transaction")
	}
	defer rollbackTx(ctx, tx, r.logger)

	for i, cust := range customers {
		if cust.CustomerID != 0 {
			return fmt.Errorf("%w: customer %d in batch already has an ID", apperrors.ErrInvalidArgument, i)
		}
		if err := r.createCustomer(ctx, tx, cust); err != nil {
			for _, c := range customers[:i] {
				c.CustomerID = 0
			}
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		for _, c := range customers {
			c.CustomerID = 0
		}
		r.logger.ErrorContext(ctx, "Failed to commit transaction", slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to commit transaction")
	}

	r.logger.InfoContext(ctx, "Customers inserted in one transaction", slog.Int("count", len(customers)))
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, customerID int64) (*customer.Customer, error) {
	startTime := time.Now()
	cust, err := scanCustomer(r.db.QueryRow(ctx, findCustomerByIDQuery, customerID))
	monitoring.RecordDBQuery("FindCustomerByID", monitoring.QueryStatus(err), time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.DebugContext(ctx, "Customer not found", slog.Int64("customerID", customerID))
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to find customer by ID", slog.Int64("customerID", customerID), slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to find customer")
	}
	return cust, nil
}

func (r *CustomerRepository) FindPage(ctx context.Context, offset, limit int) ([]*customer.Customer, error) {
	startTime := time.Now()
	rows, err := r.db.Query(ctx, findCustomerPageQuery, limit, offset)
	if err != nil {
		monitoring.RecordDBQuery("FindCustomerPage", monitoring.StatusError, time.Since(startTime))
		r.logger.ErrorContext(ctx, "Failed to query customer page", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to list customers")
	}
	defer rows.Close()

	customers := make([]*customer.Customer, 0, limit)
	for rows.Next() {
		cust, err := scanCustomer(rows)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan customer row", slog.Any("error", err))
			return nil, apperrors.WrapDatabaseError(err, "failed to read customer row")
		}
		customers = append(customers, cust)
	}
	err = rows.Err()
	monitoring.RecordDBQuery("FindCustomerPage", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Error iterating customer rows", slog.Any("error", err))
		return nil, apperrors.WrapDatabaseError(err, "failed to list customers")
	}

	return customers, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	startTime := time.Now()
	err := r.db.QueryRow(ctx, countCustomersQuery).Scan(&total)
	monitoring.RecordDBQuery("CountCustomers", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to count customers", slog.Any("error", err))
		return 0, apperrors.WrapDatabaseError(err, "failed to count customers")
	}
	return total, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID int64) error {
	startTime := time.Now()
	cmdTag, err := r.db.Exec(ctx, deleteCustomerQuery, customerID)
	monitoring.RecordDBQuery("DeleteCustomer", monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to delete customer", slog.Int64("customerID", customerID), slog.Any("error", err))
		return apperrors.WrapDatabaseError(err, "failed to delete customer")
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CustomerRepository) AverageAgeAll(ctx context.Context, referenceYear int) (string, error) {
	return r.averageAge(ctx, "AverageAgeAll", ageAggregateAllQuery, referenceYear)
}

func (r *CustomerRepository) AverageAgeByGender(ctx context.Context, gender customer.Gender, referenceYear int) (string, error) {
	if !gender.Valid() {
		return "", fmt.Errorf("%w: unknown gender %q", apperrors.ErrInvalidArgument, gender)
	}
	return r.averageAge(ctx, "AverageAgeByGender", ageAggregateByGenderQuery, referenceYear, string(gender))
}

func (r *CustomerRepository) averageAge(ctx context.Context, queryName, query string, args ...any) (string, error) {
	var count, sum int64
	startTime := time.Now()
	err := r.db.QueryRow(ctx, query, args...).Scan(&count, &sum)
	monitoring.RecordDBQuery(queryName, monitoring.QueryStatus(err), time.Since(startTime))
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to aggregate customer ages", slog.String("query", queryName), slog.Any("error", err))
		return "", translateDBError(err, r.logger)
	}

	return customer.AverageAge(sum, count)
}

func scanCustomer(row pgx.Row) (*customer.Customer, error) {
	var (
		cust   customer.Customer
		gender string
	)
	err := row.Scan(
		&cust.CustomerID,
		&gender,
		&cust.Name,
		&cust.BirthDate,
		&cust.ExternalCustomerID,
		&cust.CreatedAt,
		&cust.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cust.Gender = customer.Gender(gender)
	return &cust, nil
}
