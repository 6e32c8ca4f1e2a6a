package customer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (_m *MockCustomerRepository) Save(ctx context.Context, customer *Customer) error {
	ret := _m.Called(ctx, customer)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *Customer) error); ok {
		r0 = rf(ctx, customer)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) SaveAll(ctx context.Context, customers []*Customer) error {
	ret := _m.Called(ctx, customers)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, []*Customer) error); ok {
		r0 = rf(ctx, customers)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

func (_m *MockCustomerRepository) FindByID(ctx context.Context, customerID int64) (*Customer, error) {
	ret := _m.Called(ctx, customerID)

	var r0 *Customer
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Customer); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*Customer)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, customerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockCustomerRepository) FindPage(ctx context.Context, offset, limit int) ([]*Customer, error) {
	ret := _m.Called(ctx, offset, limit)

	var r0 []*Customer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*Customer)
	}

	return r0, ret.Error(1)
}

func (_m *MockCustomerRepository) Count(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockCustomerRepository) Delete(ctx context.Context, customerID int64) error {
	ret := _m.Called(ctx, customerID)
	return ret.Error(0)
}

func (_m *MockCustomerRepository) AverageAgeAll(ctx context.Context, referenceYear int) (string, error) {
	ret := _m.Called(ctx, referenceYear)
	return ret.String(0), ret.Error(1)
}

func (_m *MockCustomerRepository) AverageAgeByGender(ctx context.Context, gender Gender, referenceYear int) (string, error) {
	ret := _m.Called(ctx, gender, referenceYear)
	return ret.String(0), ret.Error(1)
}

var _ CustomerRepository = (*MockCustomerRepository)(nil)
