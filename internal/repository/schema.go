package repository

const (
	dropAccountsTable = `DROP TABLE IF EXISTS accounts`

	createAccountsTable = `
		CREATE TABLE accounts (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			industry TEXT NOT NULL,
			region   TEXT NOT NULL,
			status   TEXT NOT NULL
		)
	`

	insertAccount = `
		INSERT INTO accounts (id, name, industry, region, status)
		VALUES ($1, $2, $3, $4, $5)
	`

	selectAccountColumns = `SELECT id, name, industry, region, status FROM accounts`
)

// nameContains is the literal, case-sensitive substring predicate on name
// with the search term bound as $1. Neither form interprets % or _.
func (d Dialect) nameContains() string {
	if d == Postgres {
		return `strpos(name, $1) > 0`
	}
	return `instr(name, $1) > 0`
}
