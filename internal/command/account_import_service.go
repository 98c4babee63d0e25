package command

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/salesapi/accounts/shared/cqrs"
	"github.com/salesapi/accounts/shared/events"
	"github.com/salesapi/accounts/shared/models"
)

// AccountWriter is the write side of the account store.
type AccountWriter interface {
	ReplaceAll(ctx context.Context, accounts []models.Account) error
}

// EventPublisher publishes domain events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// AccountImportService rebuilds the accounts table from a bulk source and
// tells readers that their cached views are stale.
type AccountImportService struct {
	writeRepo AccountWriter
	publisher EventPublisher
}

// NewAccountImportService creates the service. publisher may be nil, in which
// case no event is emitted.
func NewAccountImportService(writeRepo AccountWriter, publisher EventPublisher) *AccountImportService {
	return &AccountImportService{writeRepo: writeRepo, publisher: publisher}
}

// ImportAccounts parses cmd.Source and replaces every stored account with its
// rows. It returns the number of accounts imported. The import is all or
// nothing.
func (s *AccountImportService) ImportAccounts(ctx context.Context, cmd cqrs.ImportAccountsCommand) (int, error) {
	logger := zerolog.Ctx(ctx).With().Str("source", cmd.Name).Logger()

	accounts, err := ParseAccountsCSV(cmd.Source)
	if err != nil {
		return 0, fmt.Errorf("invalid import source %s: %w", cmd.Name, err)
	}

	if err := s.writeRepo.ReplaceAll(ctx, accounts); err != nil {
		return 0, err
	}
	logger.Info().Int("count", len(accounts)).Msg("accounts imported")

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountsImported, events.AccountsImportedEvent{
			Count:  len(accounts),
			Source: cmd.Name,
		}); err != nil {
			logger.Warn().Err(err).Msg("failed to publish accounts.imported event")
		}
	}

	return len(accounts), nil
}
