package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coreybb/tasktracker/auth"
	"github.com/coreybb/tasktracker/models"
	"github.com/coreybb/tasktracker/webutil"
)

// Authenticator resolves a bearer token to the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token and attaches the
// resolved user to the request context. Every failure gets the same 401 body;
// only the log line says which check failed.
func RequireAuth(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authenticator.Authenticate(r.Context(), webutil.BearerToken(r))
			if err != nil {
				logLevel := slog.LevelWarn
				if !isAuthFailure(err) {
					logLevel = slog.LevelError
				}
				slog.Log(r.Context(), logLevel, "Authentication failed",
					"kind", failureKind(err),
					"path", r.URL.Path,
					"method", r.Method,
					"error", err,
				)
				webutil.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

func isAuthFailure(err error) bool {
	return failureKind(err) != "internal"
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, auth.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, auth.ErrExpiredToken):
		return "expired_token"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, auth.ErrUserNotFound):
		return "user_not_found"
	}
	return "internal"
}

// SecurityHeaders sets conservative browser hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(webutil.HeaderContentTypeOptions, "nosniff")
		h.Set(webutil.HeaderFrameOptions, "DENY")
		h.Set(webutil.HeaderXSSProtection, "1; mode=block")
		next.ServeHTTP(w, r)
	})
}
