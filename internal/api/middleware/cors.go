package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var corsOptions = cors.Options{
	AllowedOrigins: []string{"*"},
	AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
	MaxAge:         300,
}

// CORS allows browser clients on any origin to call the API with a bearer
// token. Preflight requests are answered without reaching the router.
func CORS(next http.Handler) http.Handler {
	return cors.Handler(corsOptions)(next)
}
