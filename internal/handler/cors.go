package handler

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/salesapi/accounts/shared/middleware"
)

// WithCORS lets browsers on allowedOrigins call the lookup API.
func WithCORS(allowedOrigins []string, h http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	})
	return c.Handler(h)
}
