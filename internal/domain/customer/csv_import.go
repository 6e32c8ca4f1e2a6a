package customer

import (
	"customer-management/internal/pkg/apperrors"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	csvColumnName       = "name"
	csvColumnGender     = "gender"
	csvColumnBirthDate  = "birthDate"
	csvColumnExternalID = "externalCustomerId"

	byteOrderMark = "\ufeff"
)

// ParseCSV reads customers from a CSV document whose first line is a header
// naming the columns name, gender, birthDate and optionally externalCustomerId.
// Every row is validated; the first invalid row aborts the parse.
func ParseCSV(r io.Reader) ([]*Customer, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.NewValidationError("file", "csv file is empty")
		}
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("unreadable csv header: %v", err))
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var customers []*Customer
	seenExternalIDs := make(map[string]int)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, apperrors.NewValidationError("file", fmt.Sprintf("line %d: %v", parseErr.StartLine, parseErr.Err))
			}
			return nil, apperrors.NewValidationError("file", fmt.Sprintf("line %d: %v", line+1, err))
		}
		// Quoted fields may span lines, so take the physical line of the record.
		line, _ = reader.FieldPos(0)
		if isBlankRecord(record) {
			continue
		}

		cust, err := parseRecord(record, columns)
		if err != nil {
			return nil, lineError(line, err)
		}
		if err := cust.Validate(); err != nil {
			return nil, lineError(line, err)
		}
		if cust.ExternalCustomerID != nil {
			if first, dup := seenExternalIDs[*cust.ExternalCustomerID]; dup {
				return nil, apperrors.NewValidationError(csvColumnExternalID,
					fmt.Sprintf("line %d: duplicates the externalCustomerId of line %d", line, first))
			}
			seenExternalIDs[*cust.ExternalCustomerID] = line
		}
		customers = append(customers, cust)
	}

	if len(customers) == 0 {
		return nil, apperrors.NewValidationError("file", "csv file contains no customers")
	}
	return customers, nil
}

func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, byteOrderMark))
		for _, known := range []string{csvColumnName, csvColumnGender, csvColumnBirthDate, csvColumnExternalID} {
			if strings.EqualFold(name, known) {
				columns[known] = i
			}
		}
	}
	for _, required := range []string{csvColumnName, csvColumnGender, csvColumnBirthDate} {
		if _, ok := columns[required]; !ok {
			return nil, apperrors.NewValidationError("file", fmt.Sprintf("csv header is missing column %q", required))
		}
	}
	return columns, nil
}

func parseRecord(record []string, columns map[string]int) (*Customer, error) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	gender, err := ParseGender(field(csvColumnGender))
	if err != nil {
		return nil, err
	}
	birthDate, err := ParseBirthDate(field(csvColumnBirthDate))
	if err != nil {
		return nil, err
	}
	externalID := field(csvColumnExternalID)

	return NewCustomer(field(csvColumnName), gender, birthDate, &externalID), nil
}

func isBlankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func lineError(line int, err error) error {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return apperrors.NewValidationError(validationErr.Field, fmt.Sprintf("line %d: %s", line, validationErr.Message))
	}
	return fmt.Errorf("line %d: %w", line, err)
}
