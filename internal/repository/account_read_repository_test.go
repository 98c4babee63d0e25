package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesapi/accounts/shared/models"
)

var (
	alice = models.Account{ID: "1", Name: "Alice Inc", Industry: "Technology", Region: "North America", Status: "Active"}
	bob   = models.Account{ID: "2", Name: "Bob LLC", Industry: "Healthcare", Region: "Europe", Status: "Inactive"}
)

func openTestDB(t *testing.T) (dsn string) {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "sales.db")
}

func seededRepos(t *testing.T, accounts ...models.Account) (*AccountReadRepository, *AccountWriteRepository) {
	t.Helper()
	db, err := Open(SQLite, openTestDB(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	writes := NewAccountWriteRepository(db)
	require.NoError(t, writes.ReplaceAll(context.Background(), accounts))
	return NewAccountReadRepository(db, SQLite), writes
}

func ids(accounts []models.Account) []string {
	out := make([]string, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.ID)
	}
	return out
}

func TestGetByID(t *testing.T) {
	reads, _ := seededRepos(t, alice, bob)
	ctx := context.Background()

	got, err := reads.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, alice, *got)

	got, err = reads.GetByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, bob, *got)

	_, err = reads.GetByID(ctx, "9")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
}

func TestGetByIDTreatsIDAsLiteral(t *testing.T) {
	reads, _ := seededRepos(t, alice, bob)

	for _, id := range []string{"1' OR '1'='1", "%", "_", "1 OR 1=1"} {
		_, err := reads.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, ErrAccountNotFound, "id %q", id)
	}
}

func TestListAll(t *testing.T) {
	reads, _ := seededRepos(t, bob, alice)
	ctx := context.Background()

	first, err := reads.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Account{alice, bob}, first)

	second, err := reads.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second, "order must be stable across calls")
}

func TestListAllEmpty(t *testing.T) {
	reads, _ := seededRepos(t)

	accounts, err := reads.ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestSearchByName(t *testing.T) {
	percent := models.Account{ID: "3", Name: "100% Gain", Industry: "Finance", Region: "Asia", Status: "Active"}
	under := models.Account{ID: "4", Name: "snake_case Ltd", Industry: "Software", Region: "Europe", Status: "Active"}
	reads, _ := seededRepos(t, alice, bob, percent, under)

	tests := []struct {
		name      string
		substring string
		want      []string
	}{
		{name: "suffix", substring: "Inc", want: []string{"1"}},
		{name: "single letter", substring: "o", want: []string{"2"}},
		{name: "empty matches all", substring: "", want: []string{"1", "2", "3", "4"}},
		{name: "whole name", substring: "Bob LLC", want: []string{"2"}},
		{name: "case sensitive", substring: "inc", want: []string{}},
		{name: "no match", substring: "Zed", want: []string{}},
		{name: "percent is literal", substring: "%", want: []string{"3"}},
		{name: "underscore is literal", substring: "_", want: []string{"4"}},
		{name: "quote is data", substring: "' OR '1'='1", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reads.SearchByName(context.Background(), tt.substring)
			require.NoError(t, err)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestStorageUnavailable(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		db, err := Open(SQLite, "file:"+filepath.Join(t.TempDir(), "missing.db")+"?mode=ro")
		require.NoError(t, err)
		defer db.Close()
		reads := NewAccountReadRepository(db, SQLite)

		_, err = reads.GetByID(ctx, "1")
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		_, err = reads.ListAll(ctx)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		_, err = reads.SearchByName(ctx, "A")
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.ErrorIs(t, Ping(ctx, db), ErrStorageUnavailable)
	})

	t.Run("missing table", func(t *testing.T) {
		db, err := Open(SQLite, openTestDB(t))
		require.NoError(t, err)
		defer db.Close()
		reads := NewAccountReadRepository(db, SQLite)

		_, err = reads.GetByID(ctx, "1")
		assert.ErrorIs(t, err, ErrStorageUnavailable)
		assert.NotErrorIs(t, err, ErrAccountNotFound)
		_, err = reads.ListAll(ctx)
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})

	t.Run("closed pool", func(t *testing.T) {
		reads, _ := seededRepos(t, alice)
		require.NoError(t, reads.db.Close())

		_, err := reads.SearchByName(ctx, "")
		assert.ErrorIs(t, err, ErrStorageUnavailable)
	})
}

func TestReplaceAllIsDestructiveAndAtomic(t *testing.T) {
	reads, writes := seededRepos(t, alice, bob)
	ctx := context.Background()

	carol := models.Account{ID: "7", Name: "Carol GmbH", Industry: "Retail", Region: "Europe", Status: "Active"}
	require.NoError(t, writes.ReplaceAll(ctx, []models.Account{carol}))

	got, err := reads.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Account{carol}, got)

	err = writes.ReplaceAll(ctx, []models.Account{alice, alice})
	require.Error(t, err)

	got, err = reads.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Account{carol}, got, "failed import must leave the previous data")
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("sqlite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	d, err = ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}

func TestViewCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	reads, writes := seededRepos(t, alice, bob)
	reads.WithViewCache(rdb, time.Minute)
	ctx := context.Background()

	got, err := reads.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, alice, *got)
	assert.True(t, mr.Exists(accountViewKeyPrefix+"1"), "cold read must warm the cache")
	assert.Equal(t, time.Minute, mr.TTL(accountViewKeyPrefix+"1"))

	_, err = reads.GetByID(ctx, "9")
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.False(t, mr.Exists(accountViewKeyPrefix+"9"), "misses are not cached")

	renamed := alice
	renamed.Name = "Alice Holdings"
	require.NoError(t, writes.ReplaceAll(ctx, []models.Account{renamed, bob}))

	got, err = reads.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Inc", got.Name, "served from cache until invalidated")

	n, err := reads.InvalidateViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err = reads.GetByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Alice Holdings", got.Name)
}

func TestInvalidateViewsWithoutCache(t *testing.T) {
	reads, _ := seededRepos(t, alice)

	n, err := reads.InvalidateViews(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}
