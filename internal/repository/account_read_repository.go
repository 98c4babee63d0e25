package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/salesapi/accounts/shared/models"
	sharedredis "github.com/salesapi/accounts/shared/redis"
)

const accountViewKeyPrefix = "account:view:"

// AccountReadRepository handles all read operations for accounts.
// SQL is the source of truth. When a view cache is attached, single-account
// lookups go to Redis first and warm it on every cold read; listings and
// searches always hit SQL.
type AccountReadRepository struct {
	db      *sql.DB
	dialect Dialect
	cache   *sharedredis.ViewCache[models.Account]
}

func NewAccountReadRepository(db *sql.DB, dialect Dialect) *AccountReadRepository {
	return &AccountReadRepository{db: db, dialect: dialect}
}

// WithViewCache enables the Redis read-through cache for GetByID.
func (r *AccountReadRepository) WithViewCache(client *goredis.Client, ttl time.Duration) *AccountReadRepository {
	r.cache = sharedredis.NewViewCache[models.Account](client, ttl)
	return r
}

// GetByID returns the account with the given primary key, or
// ErrAccountNotFound.
func (r *AccountReadRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	cacheKey := accountViewKeyPrefix + id

	if r.cache != nil {
		if account, ok := r.cache.Get(ctx, cacheKey); ok {
			return account, nil
		}
	}

	var account models.Account
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, selectAccountColumns+` WHERE id = $1`, id).Scan(
			&account.ID, &account.Name, &account.Industry, &account.Region, &account.Status,
		)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if errors.Is(err, ErrStorageUnavailable) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get account: %w", ErrStorageUnavailable, err)
	}

	if r.cache != nil {
		r.cache.Set(ctx, cacheKey, &account)
	}
	return &account, nil
}

// ListAll returns every account ordered by id. An empty table yields an empty
// slice.
func (r *AccountReadRepository) ListAll(ctx context.Context) ([]models.Account, error) {
	return r.queryAccounts(ctx, "list", selectAccountColumns+` ORDER BY id`)
}

// SearchByName returns the accounts whose name contains substring, ordered by
// id. The empty substring matches every account.
func (r *AccountReadRepository) SearchByName(ctx context.Context, substring string) ([]models.Account, error) {
	query := selectAccountColumns + ` WHERE ` + r.dialect.nameContains() + ` ORDER BY id`
	return r.queryAccounts(ctx, "search", query, substring)
}

// InvalidateViews drops every cached account view. It is a no-op without a
// cache.
func (r *AccountReadRepository) InvalidateViews(ctx context.Context) (int, error) {
	if r.cache == nil {
		return 0, nil
	}
	n, err := r.cache.DeletePrefix(ctx, accountViewKeyPrefix)
	if err != nil {
		return n, fmt.Errorf("failed to invalidate account views: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Int("keys", n).Msg("account views invalidated")
	return n, nil
}

func (r *AccountReadRepository) queryAccounts(ctx context.Context, op, query string, args ...any) ([]models.Account, error) {
	accounts := make([]models.Account, 0)
	err := withConn(ctx, r.db, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: failed to %s accounts: %w", ErrStorageUnavailable, op, err)
		}
		defer rows.Close()

		for rows.Next() {
			var account models.Account
			if err := rows.Scan(
				&account.ID, &account.Name, &account.Industry, &account.Region, &account.Status,
			); err != nil {
				return fmt.Errorf("%w: failed to scan account: %w", ErrStorageUnavailable, err)
			}
			accounts = append(accounts, account)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("%w: failed to %s accounts: %w", ErrStorageUnavailable, op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}
