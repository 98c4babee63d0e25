package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/salesapi/accounts/shared/models"
)

// AccountWriteRepository recreates the accounts table during bulk import.
// The lookup API never uses it.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

// ReplaceAll drops and recreates the accounts table and inserts accounts, all
// inside one transaction. On any error nothing is changed.
func (r *AccountWriteRepository) ReplaceAll(ctx context.Context, accounts []models.Account) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin import: %w", ErrStorageUnavailable, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, dropAccountsTable); err != nil {
		return fmt.Errorf("failed to drop accounts table: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createAccountsTable); err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertAccount)
	if err != nil {
		return fmt.Errorf("failed to prepare account insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range accounts {
		if _, err = stmt.ExecContext(ctx, a.ID, a.Name, a.Industry, a.Region, a.Status); err != nil {
			return fmt.Errorf("failed to insert account %s: %w", a.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
