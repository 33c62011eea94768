package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/logger"
	"barberbook/pkg/model"
)

const IdentityKey contextKey = "identity"

// IdentityVerifier validates a bearer token and resolves it to a verified
// identity. Implemented by the identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (model.Identity, error)
}

// Authenticate verifies the Authorization bearer token and stores the
// resulting identity in the request context. Requests without a valid token
// never reach the wrapped handler.
func Authenticate(verifier IdentityVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, "Authorization token required")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", requestIDFrom(r.Context()),
					"path", r.URL.Path,
					"error", err,
				)
				writeAuthError(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom returns the verified identity placed in the context by
// Authenticate. Handlers behind the middleware can rely on it being present.
func IdentityFrom(ctx context.Context) (model.Identity, error) {
	identity, ok := ctx.Value(IdentityKey).(model.Identity)
	if !ok {
		return model.Identity{}, apperrors.Unauthenticated("No verified identity in request context")
	}
	return identity, nil
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return auth[7:]
	}
	return auth
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + apperrors.CodeUnauthenticated + `"}`))
}
