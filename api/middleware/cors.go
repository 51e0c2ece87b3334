package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// Local dev plus the customer, admin, and staging portals.
var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"https://app.rentwheels.io",
	"https://admin.rentwheels.io",
	"https://staging.rentwheels.io",
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-RW-Token", "Idempotency-Key", "X-Requested-With"},
		ExposedHeaders:   []string{"X-RW-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
