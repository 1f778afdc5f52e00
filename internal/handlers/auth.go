package handlers

import (
	"context"
	"net/http"

	"interviewhub/internal/utils"
)

type contextKey string

const callerIDKey contextKey = "callerID"

// Authenticator verifies the bearer token once at the request boundary and
// stores the caller identity on the context. Every downstream operation
// receives the identity explicitly; nothing re-derives it.
func Authenticator(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "unauthenticated", "missing or invalid credentials")
				return
			}
			callerID, err := utils.GetUserIDFromClaims(claims)
			if err != nil {
				utils.Error(w, http.StatusUnauthorized, "unauthenticated", "missing or invalid credentials")
				return
			}
			ctx := context.WithValue(r.Context(), callerIDKey, callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID returns the authenticated identity injected by Authenticator.
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(callerIDKey).(string)
	return id
}
