package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesapi/accounts/internal/client"
	"github.com/salesapi/accounts/internal/handler"
	"github.com/salesapi/accounts/internal/query"
	"github.com/salesapi/accounts/internal/repository"
	"github.com/salesapi/accounts/shared/models"
)

type stubReader struct {
	accounts []models.Account
	err      error
}

func (r *stubReader) GetByID(_ context.Context, id string) (*models.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, a := range r.accounts {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (r *stubReader) ListAll(context.Context) ([]models.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.accounts, nil
}

func (r *stubReader) SearchByName(_ context.Context, name string) ([]models.Account, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Account{}
	for _, a := range r.accounts {
		if strings.Contains(a.Name, name) {
			out = append(out, a)
		}
	}
	return out, nil
}

var seed = []models.Account{
	{ID: "1", Name: "Alice Inc", Industry: "Technology", Region: "North America", Status: "Active"},
	{ID: "2", Name: "Bob LLC", Industry: "Healthcare", Region: "Europe", Status: "Inactive"},
	{ID: "a/b", Name: "Slash Co", Industry: "Retail", Region: "Asia", Status: "Active"},
}

func newTestClient(t *testing.T, reader *stubReader) *client.Client {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := handler.NewRouter(zerolog.Nop(), query.NewAccountQueryService(reader))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return client.New(srv.URL+"/", srv.Client())
}

func TestClientAgainstRouter(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, &stubReader{accounts: seed})

	accounts, err := c.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, seed, accounts)

	account, err := c.GetAccount(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Bob LLC", account.Name)

	account, err = c.GetAccount(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "Slash Co", account.Name)

	found, err := c.SearchAccounts(ctx, "Inc")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "1", found[0].ID)

	found, err = c.SearchAccounts(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, found)

	url, err := c.GenerateAccountURL(ctx, "1", "Sales")
	require.NoError(t, err)
	assert.Equal(t, "https://sales.com/sales/accounts/1", url)
}

func TestClientAPIErrors(t *testing.T) {
	ctx := context.Background()

	c := newTestClient(t, &stubReader{accounts: seed})

	_, err := c.GetAccount(ctx, "9")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Account not found", apiErr.Message)

	_, err = c.GenerateAccountURL(ctx, "1", "billing")
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Invalid account_type", apiErr.Message)

	broken := newTestClient(t, &stubReader{err: errors.New("disk on fire")})
	_, err = broken.ListAccounts(ctx)
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
	assert.NotContains(t, err.Error(), "disk on fire")
}

func TestClientNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	_, err := client.New(srv.URL, nil).ListAccounts(context.Background())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}
