package postgres

import (
	"context"
	"customer-management/internal/domain/customer"
	"customer-management/internal/pkg/apperrors"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pgxmockExpectationsNotMetMsg = "pgxmock expectations were not met"

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ DBPool = (pgxmock.PgxPoolIface)(nil)

var (
	birthDate   = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	createdAt   = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	customerCol = []string{"id", "gender", "name", "birth_date", "external_customer_id", "created_at", "updated_at"}
)

func strPtr(s string) *string { return &s }

func newTestCustomer() *customer.Customer {
	return customer.NewCustomer("John Doe", customer.GenderMale, birthDate, strPtr("ext-1"))
}

func setupCustomerRepo(t *testing.T) (context.Context, *CustomerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewCustomerRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func TestSaveNewCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	cust := newTestCustomer()

	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs("MALE", cust.Name, cust.BirthDate, cust.ExternalCustomerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt))

	err := repo.Save(ctx, cust)

	require.NoError(t, err)
	assert.Equal(t, int64(1), cust.CustomerID)
	assert.Equal(t, createdAt, cust.CreatedAt)
	assert.Nil(t, cust.UpdatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveNewCustomerWhenDuplicateExternalID(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	cust := newTestCustomer()

	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs("MALE", cust.Name, cust.BirthDate, cust.ExternalCustomerID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_external_customer_id_key"})

	err := repo.Save(ctx, cust)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Zero(t, cust.CustomerID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenSuccess(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	cust := newTestCustomer()
	cust.CustomerID = 7
	updatedAt := createdAt.Add(time.Hour)

	mockPool.ExpectQuery(regexp.QuoteMeta(updateCustomerQuery)).
		WithArgs("MALE", cust.Name, cust.BirthDate, cust.ExternalCustomerID, int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, updatedAt))

	err := repo.Save(ctx, cust)

	require.NoError(t, err)
	assert.Equal(t, createdAt, cust.CreatedAt)
	require.NotNil(t, cust.UpdatedAt)
	assert.Equal(t, updatedAt, *cust.UpdatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveExistingCustomerWhenMissing(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	cust := newTestCustomer()
	cust.CustomerID = 99

	mockPool.ExpectQuery(regexp.QuoteMeta(updateCustomerQuery)).
		WithArgs("MALE", cust.Name, cust.BirthDate, cust.ExternalCustomerID, int64(99)).
		WillReturnError(pgx.ErrNoRows)

	err := repo.Save(ctx, cust)

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveAllCommitsOnce(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	first := newTestCustomer()
	second := customer.NewCustomer("Jane Roe", customer.GenderFemale, birthDate.AddDate(10, 0, 0), nil)

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs("MALE", first.Name, first.BirthDate, first.ExternalCustomerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt))
	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs("FEMALE", second.Name, second.BirthDate, second.ExternalCustomerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), createdAt))
	mockPool.ExpectCommit()

	err := repo.SaveAll(ctx, []*customer.Customer{first, second})

	require.NoError(t, err)
	assert.Equal(t, int64(1), first.CustomerID)
	assert.Equal(t, int64(2), second.CustomerID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestSaveAllRollsBackOnFailure(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	first := newTestCustomer()
	second := customer.NewCustomer("Jane Roe", customer.GenderFemale, birthDate, strPtr("ext-1"))

	mockPool.ExpectBegin()
	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs("MALE", first.Name, first.BirthDate, first.ExternalCustomerID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), createdAt))
	mockPool.ExpectQuery(regexp.QuoteMeta(insertCustomerQuery)).
		WithArgs("FEMALE", second.Name, second.BirthDate, second.ExternalCustomerID).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mockPool.ExpectRollback()

	err := repo.SaveAll(ctx, []*customer.Customer{first, second})

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Zero(t, first.CustomerID, "ids of rolled back rows are cleared")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDReturnOne(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	updatedAt := createdAt.Add(time.Minute)

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerByIDQuery)).WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(customerCol).
			AddRow(int64(1), "MALE", "John Doe", birthDate, strPtr("ext-1"), createdAt, &updatedAt))

	cust, err := repo.FindByID(ctx, 1)

	require.NoError(t, err)
	assert.Equal(t, int64(1), cust.CustomerID)
	assert.Equal(t, customer.GenderMale, cust.Gender)
	assert.Equal(t, "ext-1", *cust.ExternalCustomerID)
	assert.Equal(t, updatedAt, *cust.UpdatedAt)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerByIDReturnNone(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerByIDQuery)).WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	cust, err := repo.FindByID(ctx, 404)

	assert.Nil(t, cust)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestFindCustomerPage(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()
	var noUpdate *time.Time
	var noExternalID *string

	mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerPageQuery)).WithArgs(2, 4).
		WillReturnRows(pgxmock.NewRows(customerCol).
			AddRow(int64(3), "FEMALE", "Alice", birthDate, noExternalID, createdAt, noUpdate).
			AddRow(int64(1), "MALE", "Bob", birthDate, strPtr("b"), createdAt, noUpdate))

	customers, err := repo.FindPage(ctx, 4, 2)

	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Alice", customers[0].Name)
	assert.Nil(t, customers[0].ExternalCustomerID)
	assert.Equal(t, customer.GenderMale, customers[1].Gender)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestCountCustomers(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(countCustomersQuery)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(12)))

	n, err := repo.Count(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestDeleteCustomer(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerQuery)).WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerQuery)).WithArgs(int64(6)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.NoError(t, repo.Delete(ctx, 5))
	assert.ErrorIs(t, repo.Delete(ctx, 6), apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestAverageAgeAll(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(ageAggregateAllQuery)).WithArgs(2024).
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(10), int64(490)))

	avg, err := repo.AverageAgeAll(ctx, 2024)

	require.NoError(t, err)
	assert.Equal(t, "49", avg)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestAverageAgeByGender(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(ageAggregateByGenderQuery)).WithArgs(2024, "FEMALE").
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(3), int64(131)))

	avg, err := repo.AverageAgeByGender(ctx, customer.GenderFemale, 2024)

	require.NoError(t, err)
	assert.Equal(t, "43", avg, "131/3 truncated")
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestAverageAgeByGenderWhenEmpty(t *testing.T) {
	ctx, repo, mockPool := setupCustomerRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta(ageAggregateByGenderQuery)).WithArgs(2024, "MALE").
		WillReturnRows(pgxmock.NewRows([]string{"count", "sum"}).AddRow(int64(0), int64(0)))

	_, err := repo.AverageAgeByGender(ctx, customer.GenderMale, 2024)

	assert.ErrorIs(t, err, apperrors.ErrNoData)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestTranslateDBError(t *testing.T) {
	assert.Nil(t, translateDBError(nil, logger))
	assert.ErrorIs(t, translateDBError(pgx.ErrNoRows, logger), apperrors.ErrNotFound)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "23505"}, logger), apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, translateDBError(&pgconn.PgError{Code: "57014"}, logger), apperrors.ErrDatabase)
	assert.ErrorIs(t, translateDBError(errors.New("boom"), logger), apperrors.ErrDatabase)
}

func requireDBErrorCode(t *testing.T, err error) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "DB_ERROR", appErr.Code)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
}

func TestCustomerRepositoryWrapsDatabaseFailures(t *testing.T) {
	connErr := errors.New("connection reset by peer")

	t.Run("find by id", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()
		mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerByIDQuery)).WithArgs(int64(1)).WillReturnError(connErr)

		_, err := repo.FindByID(ctx, 1)

		requireDBErrorCode(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("find page", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()
		mockPool.ExpectQuery(regexp.QuoteMeta(findCustomerPageQuery)).WithArgs(20, 0).WillReturnError(connErr)

		_, err := repo.FindPage(ctx, 0, 20)

		requireDBErrorCode(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("count", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()
		mockPool.ExpectQuery(regexp.QuoteMeta(countCustomersQuery)).WillReturnError(connErr)

		_, err := repo.Count(ctx)

		requireDBErrorCode(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("delete", func(t *testing.T) {
		ctx, repo, mockPool := setupCustomerRepo(t)
		defer mockPool.Close()
		mockPool.ExpectExec(regexp.QuoteMeta(deleteCustomerQuery)).WithArgs(int64(3)).WillReturnError(connErr)

		err := repo.Delete(ctx, 3)

		requireDBErrorCode(t, err)
		assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
	})

	t.Run("postgres error code", func(t *testing.T) {
		err := translateDBError(&pgconn.PgError{Code: "57014"}, logger)

		requireDBErrorCode(t, err)
		assert.Contains(t, err.Error(), "57014")
	})
}
