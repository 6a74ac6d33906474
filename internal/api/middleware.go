package api

import (
	"context"
	"net/http"
)

type contextKey string

const (
	ownerIDKey contextKey = "owner_id"
	roleKey    contextKey = "role"
)

// IdentityMiddleware extracts the already-authenticated identity resolved
// by the upstream auth layer. Requests without one are rejected here so
// the engine never sees an anonymous owner.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := r.Header.Get("X-User-ID")
		if ownerID == "" {
			respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
			return
		}

		ctx := context.WithValue(r.Context(), ownerIDKey, ownerID)
		ctx = context.WithValue(ctx, roleKey, r.Header.Get("X-User-Role"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireShopper is the capability gate for cart and checkout routes:
// privileged accounts do not get a cart.
func RequireShopper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role, _ := r.Context().Value(roleKey).(string); role == "admin" {
			respondError(w, http.StatusForbidden, "permission_denied", "admin accounts cannot use the cart")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ownerIDFromContext(ctx context.Context) string {
	if ownerID, ok := ctx.Value(ownerIDKey).(string); ok {
		return ownerID
	}
	return ""
}
