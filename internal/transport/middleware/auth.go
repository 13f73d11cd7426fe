package middleware

import (
	"net/http"

	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/pkg/logger"
)

// IdentityLogger tags the request-scoped logger with the authenticated user.
// Mount it after the auth middleware.
func IdentityLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", who.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
