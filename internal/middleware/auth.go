package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/message-service/internal/auth"
	"github.com/Dan9191/message-service/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// InvalidCredentialsDetail is the one message shown for every rejected token.
const InvalidCredentialsDetail = "invalid jwt."

type contextKey string

const identityKey contextKey = "identity"

// Authenticator resolves an Authorization header value to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*models.User, error)
}

// AuthMiddleware rejects requests whose bearer token does not resolve to a
// user and stores the resolved user in the request context otherwise.
func AuthMiddleware(a Authenticator, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := a.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if errors.Is(err, auth.ErrInvalidCredentials) {
				log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Warn("Authentication rejected")
				writeDetail(w, http.StatusForbidden, InvalidCredentialsDetail)
				return
			}
			if err != nil {
				log.WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Errorf("Authentication failed: %v", err)
				writeDetail(w, http.StatusInternalServerError, "internal server error")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), user)))
		})
	}
}

// WithIdentity returns a copy of ctx carrying the authenticated user.
func WithIdentity(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// Identity returns the authenticated user stored by AuthMiddleware.
func Identity(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(identityKey).(*models.User)
	return user, ok && user != nil
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
