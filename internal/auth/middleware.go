package auth

import (
	"net/http"
	"strings"

	"github.com/danielpatrickdp/decision-field/internal/apierror"
)

// RequireUser rejects requests without a valid Bearer token and stores the
// principal in the request context.
func RequireUser(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierror.WriteUnauthorized(w, "Missing Authorization header")
				return
			}
			scheme, tokenStr, ok := strings.Cut(authHeader, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || tokenStr == "" {
				apierror.WriteUnauthorized(w, "Invalid Authorization header format (expected 'Bearer <token>')")
				return
			}
			if issuer == nil {
				apierror.WriteUnauthorized(w, "Authentication not configured")
				return
			}

			principal, err := issuer.Validate(tokenStr)
			if err != nil {
				apierror.WriteUnauthorized(w, "Invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
