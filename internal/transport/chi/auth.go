package chi

import (
	"net/http"
	"strings"

	"github.com/whispers-app/journal-api/internal/domain"
)

// exemptPaths are routes that bypass authentication.
var exemptPaths = map[string]struct{}{
	"/health":       {},
	"/metrics":      {},
	"/daily-prompt": {},
}

// tokenVerifier validates a bearer token and resolves the authenticated user.
type tokenVerifier interface {
	Verify(token string) (domain.User, error)
}

// AuthMiddleware returns a middleware that validates JWT Bearer tokens and
// places the authenticated user in the request context.
// If verifier is nil, authentication is disabled (pass-through).
func AuthMiddleware(verifier tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		// Auth disabled — pass everything through
		if verifier == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Exempt paths
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
				return
			}

			const bearerPrefix = "Bearer "
			if !strings.HasPrefix(auth, bearerPrefix) {
				writeError(w, http.StatusUnauthorized,
					codeUnauthorized, "authorization header must use Bearer scheme")
				return
			}

			user, err := verifier.Verify(auth[len(bearerPrefix):])
			if err != nil {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithUser(r.Context(), user)))
		})
	}
}
