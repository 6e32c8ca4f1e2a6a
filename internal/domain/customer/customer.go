package customer

import (
	"customer-management/internal/pkg/apperrors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	NameMinLength       = 3
	NameMaxLength       = 128
	ExternalIDMaxLength = 128

	DateLayout = "2006-01-02"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", apperrors.NewValidationError("gender", fmt.Sprintf("must be one of %s, %s", GenderMale, GenderFemale))
	}
	return g, nil
}

func ParseBirthDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("birthDate", "must be a date formatted as YYYY-MM-DD")
	}
	return d, nil
}

type Customer struct {
	CustomerID         int64      `json:"id"`
	Gender             Gender     `json:"gender"`
	Name               string     `json:"name"`
	BirthDate          time.Time  `json:"birthDate"`
	ExternalCustomerID *string    `json:"externalCustomerId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

func NewCustomer(name string, gender Gender, birthDate time.Time, externalCustomerID *string) *Customer {
	c := &Customer{
		Name:      strings.TrimSpace(name),
		Gender:    gender,
		BirthDate: truncateToDate(birthDate),
	}
	c.SetExternalCustomerID(externalCustomerID)
	return c
}

// SetExternalCustomerID stores a trimmed copy; blank values clear the field.
func (c *Customer) SetExternalCustomerID(id *string) {
	if id == nil {
		c.ExternalCustomerID = nil
		return
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		c.ExternalCustomerID = nil
		return
	}
	c.ExternalCustomerID = &trimmed
}

func (c *Customer) Validate() error {
	if !c.Gender.Valid() {
		return apperrors.NewValidationError("gender", "is required and must be MALE or FEMALE")
	}
	nameLen := utf8.RuneCountInString(strings.TrimSpace(c.Name))
	if nameLen < NameMinLength || nameLen > NameMaxLength {
		return apperrors.NewValidationError("name", fmt.Sprintf("must be between %d and %d characters", NameMinLength, NameMaxLength))
	}
	if c.BirthDate.IsZero() {
		return apperrors.NewValidationError("birthDate", "is required")
	}
	if c.ExternalCustomerID != nil && utf8.RuneCountInString(*c.ExternalCustomerID) > ExternalIDMaxLength {
		return apperrors.NewValidationError("externalCustomerId", fmt.Sprintf("must be at most %d characters", ExternalIDMaxLength))
	}
	return nil
}

// Patch holds the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Gender             *Gender
	Name               *string
	BirthDate          *time.Time
	ExternalCustomerID *string
}

func (p Patch) IsEmpty() bool {
	return p.Gender == nil && p.Name == nil && p.BirthDate == nil && p.ExternalCustomerID == nil
}

func (c *Customer) ApplyPatch(p Patch) {
	if p.Gender != nil {
		c.Gender = *p.Gender
	}
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
	}
	if p.BirthDate != nil {
		c.BirthDate = truncateToDate(*p.BirthDate)
	}
	if p.ExternalCustomerID != nil {
		c.SetExternalCustomerID(p.ExternalCustomerID)
	}
}

func truncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
