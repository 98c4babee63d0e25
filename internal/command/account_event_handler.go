package command

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/salesapi/accounts/shared/events"
)

// ViewInvalidator drops cached account views.
type ViewInvalidator interface {
	InvalidateViews(ctx context.Context) (int, error)
}

// AccountEventHandler keeps the server's view cache consistent with imports
// run by other processes.
type AccountEventHandler struct {
	views ViewInvalidator
}

func NewAccountEventHandler(views ViewInvalidator) *AccountEventHandler {
	return &AccountEventHandler{views: views}
}

// HandleAccountEvent reacts to accounts.imported by invalidating every cached
// account view. Other event types are ignored. A failed invalidation is
// returned so the message stays pending and is redelivered.
func (h *AccountEventHandler) HandleAccountEvent(ctx context.Context, event events.Event) error {
	if event.Type != events.AccountsImported {
		return nil
	}

	var data events.AccountsImportedEvent
	if err := events.DecodeData(event, &data); err != nil {
		return err
	}

	n, err := h.views.InvalidateViews(ctx)
	if err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().
		Str("source", data.Source).
		Int("imported", data.Count).
		Int("invalidated", n).
		Msg("account views invalidated after import")
	return nil
}
