package events

import "time"

// Event types
const (
	AccountsImported = "accounts.imported"
)

// Stream names
const (
	AccountEventsStream = "account.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// AccountsImportedEvent is published after the accounts table has been
// recreated from a bulk source. Readers must drop anything derived from the
// previous contents.
type AccountsImportedEvent struct {
	Count  int    `json:"count"`
	Source string `json:"source"`
}
