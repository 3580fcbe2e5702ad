package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coreybb/tasktracker/auth"
	"github.com/coreybb/tasktracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authenticatorFunc adapts a function to the Authenticator interface.
type authenticatorFunc func(ctx context.Context, token string) (*models.User, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (*models.User, error) {
	return f(ctx, token)
}

func TestRequireAuth(t *testing.T) {
	alice := &models.User{ID: "user-123", Name: "Alice", Email: "alice@example.com"}

	tests := []struct {
		name       string
		authHeader string
		authErr    error
		wantStatus int
	}{
		{name: "missing authorization header", authErr: auth.ErrMissingToken, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic token123", authErr: auth.ErrMissingToken, wantStatus: http.StatusUnauthorized},
		{name: "invalid token", authHeader: "Bearer bad", authErr: auth.ErrInvalidToken, wantStatus: http.StatusUnauthorized},
		{name: "expired token", authHeader: "Bearer old", authErr: auth.ErrExpiredToken, wantStatus: http.StatusUnauthorized},
		{name: "deleted user", authHeader: "Bearer orphan", authErr: auth.ErrUserNotFound, wantStatus: http.StatusUnauthorized},
		{name: "store failure", authHeader: "Bearer any", authErr: errors.New("db down"), wantStatus: http.StatusUnauthorized},
		{name: "valid token", authHeader: "Bearer good", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			authenticator := authenticatorFunc(func(_ context.Context, token string) (*models.User, error) {
				gotToken = token
				if tt.authErr != nil {
					return nil, tt.authErr
				}
				return alice, nil
			})

			var captured *models.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured, _ = auth.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			RequireAuth(authenticator)(next).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				// Every failure kind looks the same to the client.
				assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
				assert.Nil(t, captured)
				return
			}
			assert.Equal(t, "good", gotToken)
			require.NotNil(t, captured)
			assert.Equal(t, alice.ID, captured.ID)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "1; mode=block", rec.Header().Get("X-XSS-Protection"))
}
