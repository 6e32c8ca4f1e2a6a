package dto

import (
	"bytes"
	"customer-management/internal/domain/customer"
	"customer-management/internal/pkg/apperrors"
	"encoding/json"
	"time"
)

type CustomerRequest struct {
	ID                 *int64  `json:"id,omitempty"`
	Gender             string  `json:"gender" example:"FEMALE" enums:"MALE,FEMALE"`
	Name               string  `json:"name" example:"Jane Doe" minLength:"3" maxLength:"128"`
	BirthDate          string  `json:"birthDate" example:"1980-01-09" format:"date"`
	ExternalCustomerID *string `json:"externalCustomerId,omitempty" example:"crm-0042" maxLength:"128"`

	// Server-stamped; accepted so a fetched customer can be sent back as is.
	CreatedAt *time.Time `json:"createdAt,omitempty" swaggerignore:"true"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" swaggerignore:"true"`
}

// ToDomain parses the request into a customer. Field-level problems are
// reported as validation errors naming the field.
func (r *CustomerRequest) ToDomain() (*customer.Customer, error) {
	if r.Gender == "" {
		return nil, apperrors.NewValidationError("gender", "is required")
	}
	gender, err := customer.ParseGender(r.Gender)
	if err != nil {
		return nil, err
	}
	if r.BirthDate == "" {
		return nil, apperrors.NewValidationError("birthDate", "is required")
	}
	birthDate, err := customer.ParseBirthDate(r.BirthDate)
	if err != nil {
		return nil, err
	}

	cust := customer.NewCustomer(r.Name, gender, birthDate, r.ExternalCustomerID)
	if r.ID != nil {
		cust.CustomerID = *r.ID
	}
	return cust, nil
}

// OptionalString tells an absent JSON member apart from an explicit null.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// CustomerPatchRequest follows JSON merge patch: absent members are left
// alone, a null externalCustomerId removes it.
type CustomerPatchRequest struct {
	ID                 *int64         `json:"id,omitempty"`
	Gender             *string        `json:"gender,omitempty" enums:"MALE,FEMALE"`
	Name               *string        `json:"name,omitempty"`
	BirthDate          *string        `json:"birthDate,omitempty" format:"date"`
	ExternalCustomerID OptionalString `json:"externalCustomerId" swaggertype:"string"`
}

func (r *CustomerPatchRequest) ToPatch() (customer.Patch, error) {
	var p customer.Patch
	if r.Gender != nil {
		g, err := customer.ParseGender(*r.Gender)
		if err != nil {
			return p, err
		}
		p.Gender = &g
	}
	if r.Name != nil {
		p.Name = r.Name
	}
	if r.BirthDate != nil {
		d, err := customer.ParseBirthDate(*r.BirthDate)
		if err != nil {
			return p, err
		}
		p.BirthDate = &d
	}
	if r.ExternalCustomerID.Set {
		empty := ""
		p.ExternalCustomerID = &empty
		if r.ExternalCustomerID.Value != nil {
			p.ExternalCustomerID = r.ExternalCustomerID.Value
		}
	}
	return p, nil
}

type CustomerResponse struct {
	ID                 int64      `json:"id" example:"1"`
	Gender             string     `json:"gender" example:"FEMALE"`
	Name               string     `json:"name" example:"Jane Doe"`
	BirthDate          string     `json:"birthDate" example:"1980-01-09"`
	ExternalCustomerID *string    `json:"externalCustomerId,omitempty" example:"crm-0042"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

func NewCustomerResponse(cust *customer.Customer) CustomerResponse {
	if cust == nil {
		return CustomerResponse{}
	}
	return CustomerResponse{
		ID:                 cust.CustomerID,
		Gender:             string(cust.Gender),
		Name:               cust.Name,
		BirthDate:          cust.BirthDate.Format(customer.DateLayout),
		ExternalCustomerID: cust.ExternalCustomerID,
		CreatedAt:          cust.CreatedAt,
		UpdatedAt:          cust.UpdatedAt,
	}
}

type ImportResponse struct {
	Imported int `json:"imported" example:"42"`
}
