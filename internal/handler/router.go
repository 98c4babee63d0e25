package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/salesapi/accounts/shared/middleware"
)

// NewRouter wires HTTP routes to the account lookup service.
func NewRouter(logger zerolog.Logger, queries AccountQuerier) *gin.Engine {
	router := gin.New()
	// Account ids are opaque and may contain an escaped slash.
	router.UseRawPath = true
	router.Use(middleware.LoggingMiddleware(logger), gin.Recovery())

	accountHandler := NewAccountHandler(queries)

	router.GET("/", accountHandler.Home)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	accounts := router.Group("/api/accounts")
	{
		accounts.GET("", accountHandler.ListAccounts)
		accounts.GET("/search", accountHandler.SearchAccounts)
		accounts.POST("/url", accountHandler.GenerateAccountURL)
		accounts.GET("/:accountID", accountHandler.GetAccount)
	}

	return router
}
