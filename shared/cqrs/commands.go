package cqrs

import "io"

// ImportAccountsCommand replaces the whole accounts table with the rows read
// from Source. Name identifies the source in logs and events.
type ImportAccountsCommand struct {
	Source io.Reader
	Name   string
}
