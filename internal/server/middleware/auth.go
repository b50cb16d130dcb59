package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gavelgames/gavel/internal/auth"
)

// SessionTicket authenticates requests against the session ticket issued at
// case start and puts the bound session ID on the request context. The ticket
// travels as a Bearer token, or as a "ticket" query parameter for websocket
// clients that cannot set headers.
func SessionTicket(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := extractBearer(r)
			if tok == "" {
				tok = r.URL.Query().Get("ticket")
			}
			if tok == "" {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"missing session ticket"}`, http.StatusUnauthorized)
				return
			}

			sessionID, err := auth.ValidateTicket(secret, tok)
			if err != nil {
				http.Error(w, `{"title":"Unauthorized","status":401,"detail":"invalid or expired session ticket"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySessionID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return ""
}
