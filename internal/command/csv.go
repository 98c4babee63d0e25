package command

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/salesapi/accounts/shared/models"
)

var accountColumns = []string{"id", "name", "industry", "region", "status"}

var validate = validator.New()

// RowError reports an unusable record in the import source. Line is 1-based
// and counts the header.
type RowError struct {
	Line   int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// ParseAccountsCSV reads accounts from CSV with a header naming the columns
// id, name, industry, region and status in any order. Extra columns are
// ignored. Every field must be non-empty and ids must be unique.
func ParseAccountsCSV(r io.Reader) ([]models.Account, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &RowError{Line: 1, Reason: "missing header"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		index[strings.ToLower(col)] = i
	}
	for _, col := range accountColumns {
		if _, ok := index[col]; !ok {
			return nil, &RowError{Line: 1, Reason: fmt.Sprintf("missing column %q", col)}
		}
	}

	var (
		accounts []models.Account
		seen     = make(map[string]int)
	)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}

		field := func(col string) string {
			if i := index[col]; i < len(record) {
				return record[i]
			}
			return ""
		}
		account := models.Account{
			ID:       field("id"),
			Name:     field("name"),
			Industry: field("industry"),
			Region:   field("region"),
			Status:   field("status"),
		}

		if err := validate.Struct(account); err != nil {
			var fieldErrs validator.ValidationErrors
			if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
				return nil, &RowError{Line: line, Reason: fmt.Sprintf("empty %s", strings.ToLower(fieldErrs[0].Field()))}
			}
			return nil, &RowError{Line: line, Reason: err.Error()}
		}
		if first, dup := seen[account.ID]; dup {
			return nil, &RowError{Line: line, Reason: fmt.Sprintf("duplicate id %q (first on line %d)", account.ID, first)}
		}
		seen[account.ID] = line
		accounts = append(accounts, account)
	}

	return accounts, nil
}
