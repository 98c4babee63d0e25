package cqrs

// ---------- Account queries ----------

// GetAccountQuery fetches a single account by its identifier.
type GetAccountQuery struct {
	AccountID string
}

// ListAccountsQuery fetches every account in the dataset.
type ListAccountsQuery struct{}

// SearchAccountsQuery fetches accounts whose name contains Name.
// An empty Name matches every account.
type SearchAccountsQuery struct {
	Name string
}

// GenerateAccountURLQuery renders the external URL for an account category.
// It never touches storage.
type GenerateAccountURLQuery struct {
	AccountID   string `validate:"required"`
	AccountType string `validate:"required"`
}
