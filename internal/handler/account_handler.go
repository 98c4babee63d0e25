package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salesapi/accounts/internal/query"
	"github.com/salesapi/accounts/shared/cqrs"
	"github.com/salesapi/accounts/shared/middleware"
	"github.com/salesapi/accounts/shared/models"
)

const welcomeMessage = "Welcome to the Sales API!"

// AccountQuerier defines the read-side operations used by AccountHandler.
type AccountQuerier interface {
	ListAccounts(context.Context, cqrs.ListAccountsQuery) ([]models.Account, error)
	GetAccount(context.Context, cqrs.GetAccountQuery) (*models.Account, error)
	SearchAccounts(context.Context, cqrs.SearchAccountsQuery) ([]models.Account, error)
	GenerateAccountURL(cqrs.GenerateAccountURLQuery) (string, error)
}

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	queries AccountQuerier
}

type GenerateAccountURLRequest struct {
	AccountID   string `json:"account_id"`
	AccountType string `json:"account_type"`
}

func NewAccountHandler(queries AccountQuerier) *AccountHandler {
	return &AccountHandler{queries: queries}
}

func (h *AccountHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, welcomeMessage)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.queries.ListAccounts(c.Request.Context(), cqrs.ListAccountsQuery{})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.queries.GetAccount(c.Request.Context(), cqrs.GetAccountQuery{
		AccountID: c.Param("accountID"),
	})
	if err != nil {
		if errors.Is(err, query.ErrAccountNotFound) {
			middleware.RespondWithError(c, http.StatusNotFound, "Account not found")
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) SearchAccounts(c *gin.Context) {
	accounts, err := h.queries.SearchAccounts(c.Request.Context(), cqrs.SearchAccountsQuery{
		Name: c.Query("name"),
	})
	if err != nil {
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

func (h *AccountHandler) GenerateAccountURL(c *gin.Context) {
	var req GenerateAccountURLRequest
	// An empty body is treated as a request with both fields missing.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	url, err := h.queries.GenerateAccountURL(cqrs.GenerateAccountURLQuery{
		AccountID:   req.AccountID,
		AccountType: req.AccountType,
	})
	if err != nil {
		if query.IsValidation(err) {
			middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		middleware.RespondWithError(c, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	c.JSON(http.StatusOK, models.AccountURL{URL: url})
}
