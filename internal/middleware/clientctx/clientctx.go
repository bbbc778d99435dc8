// Package clientctx assigns each browser a stable client id through a
// cookie and makes it available through the request context. The id keys
// the client's session and cart records.
package clientctx

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Using an unexported type prevents key collisions from other packages.
type clientIDKey string

// ClientIDKey is the context key for the client id.
const ClientIDKey clientIDKey = "client-id"

// ClientIDMiddleware is an http.Handler middleware that reads the client id
// cookie, minting a fresh id when the cookie is missing or unreadable, and
// injects the id into the context.
func ClientIDMiddleware(cookieName string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var clientID string
		if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
			clientID = cookie.Value
		} else {
			clientID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     cookieName,
				Value:    clientID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ClientIDKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIDFromContext is a helper function that retrieves the client id
// from the context.
func ClientIDFromContext(ctx context.Context) (string, error) {
	id, ok := ctx.Value(ClientIDKey).(string)
	if !ok || id == "" {
		return "", errors.New("client id not found in context")
	}
	return id, nil
}
