package query

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/salesapi/accounts/shared/cqrs"
	"github.com/salesapi/accounts/shared/models"
)

// Account URL prefixes, keyed by lower-case account type.
var accountURLPrefixes = map[string]string{
	"portfolio": "https://sales.com/portfolio/accounts/",
	"sales":     "https://sales.com/sales/accounts/",
	"activity":  "https://sales.com/activity/accounts/",
}

var validate = validator.New()

// AccountReader is the read side of the account store.
type AccountReader interface {
	GetByID(ctx context.Context, id string) (*models.Account, error)
	ListAll(ctx context.Context) ([]models.Account, error)
	SearchByName(ctx context.Context, substring string) ([]models.Account, error)
}

// AccountQueryService answers account lookups. It holds no state between
// calls and never lets a storage error cross its boundary.
type AccountQueryService struct {
	readRepo AccountReader
}

func NewAccountQueryService(readRepo AccountReader) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo}
}

func (s *AccountQueryService) ListAccounts(ctx context.Context, _ cqrs.ListAccountsQuery) ([]models.Account, error) {
	accounts, err := s.readRepo.ListAll(ctx)
	if err != nil {
		return nil, internalFailure(ctx, err, "list accounts")
	}
	return accounts, nil
}

// GetAccount fetches a single account. The id is an opaque key.
func (s *AccountQueryService) GetAccount(ctx context.Context, q cqrs.GetAccountQuery) (*models.Account, error) {
	account, err := s.readRepo.GetByID(ctx, q.AccountID)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, internalFailure(ctx, err, "get account", "account_id", q.AccountID)
	}
	return account, nil
}

// SearchAccounts returns the accounts whose name contains q.Name literally.
func (s *AccountQueryService) SearchAccounts(ctx context.Context, q cqrs.SearchAccountsQuery) ([]models.Account, error) {
	accounts, err := s.readRepo.SearchByName(ctx, q.Name)
	if err != nil {
		return nil, internalFailure(ctx, err, "search accounts", "name", q.Name)
	}
	return accounts, nil
}

// GenerateAccountURL renders the external URL for an account and category.
// It does not check that the account exists.
func (s *AccountQueryService) GenerateAccountURL(q cqrs.GenerateAccountURLQuery) (string, error) {
	if err := validate.Struct(q); err != nil {
		return "", &ValidationError{Message: "account_id and account_type are required"}
	}

	prefix, ok := accountURLPrefixes[strings.ToLower(q.AccountType)]
	if !ok {
		return "", &ValidationError{Message: "Invalid account_type"}
	}
	return prefix + q.AccountID, nil
}

func internalFailure(ctx context.Context, err error, op string, fields ...string) error {
	event := zerolog.Ctx(ctx).Error().Err(err).Str("op", op)
	for i := 0; i+1 < len(fields); i += 2 {
		event = event.Str(fields[i], fields[i+1])
	}
	event.Msg("account storage failure")
	return ErrInternalFailure
}
