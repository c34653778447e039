package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/axis-pay/ledger-service/src/internal/logger"
)

type TokenVerifier interface {
	Verify(raw string) (uuid.UUID, error)
}

type contextKey string

const requesterIDKey contextKey = "requesterID"

// BearerAuth verifies the Authorization bearer token and stores the resolved
// user id in the request context. Handlers read it back via RequesterID.
func BearerAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				logger.Error("bearer auth middleware missing verifier", nil, logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "server auth configuration is missing", http.StatusInternalServerError)
				return
			}

			raw, ok := bearerToken(r)
			if !ok {
				logger.Info("bearer auth middleware missing token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			requesterID, err := verifier.Verify(raw)
			if err != nil {
				logger.Info("bearer auth middleware rejected token", logger.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
				})
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), requesterIDKey, requesterID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequesterID returns the authenticated user id placed by BearerAuth.
func RequesterID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(requesterIDKey).(uuid.UUID)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return "", false
	}
	return token, true
}
