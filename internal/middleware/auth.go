package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/campus-canteen/order-service/pkg/auth"
	"github.com/campus-canteen/order-service/pkg/utils"
)

type ownerKey struct{}

// Auth resolves the opaque bearer credential to an owner identity and puts it
// in the request context. The core never checks passwords; it only authorizes
// on top of the subject the credential carries.
func Auth(strategy auth.Strategy) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				utils.WriteError(w, "UNAUTHENTICATED", "missing bearer token", http.StatusUnauthorized)
				return
			}

			subject, err := strategy.ParseToken(token)
			if err != nil {
				utils.WriteError(w, "UNAUTHENTICATED", "invalid bearer token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ownerKey{}, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerID returns the authenticated identity bound to ctx, or "" outside an
// authenticated request.
func OwnerID(ctx context.Context) string {
	subject, _ := ctx.Value(ownerKey{}).(string)
	return subject
}
