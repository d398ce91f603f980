package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSMiddleware は許可オリジンに対するCORSミドルウェアを返す。
// 読み取り専用APIのためGETとプリフライトのみを許可し、credentialsは扱わない。
func NewCORSMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         86400,
	})
	return c.Handler
}
