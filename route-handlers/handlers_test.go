package routehandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coreybb/tasktracker/auth"
	"github.com/coreybb/tasktracker/models"
	"github.com/coreybb/tasktracker/tasks"
	"github.com/coreybb/tasktracker/testutil"
	"github.com/coreybb/tasktracker/webutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRouteID(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withUser(r *http.Request, id string) *http.Request {
	return r.WithContext(auth.WithUser(r.Context(), &models.User{ID: id}))
}

func TestTaskHandlersRequireUserInContext(t *testing.T) {
	h := NewTaskHandler(tasks.NewService(testutil.NewTaskStore(), time.Now))

	handlers := map[string]webutil.AppHandler{
		"list":   h.HandleGetTasks,
		"stats":  h.HandleGetTaskStats,
		"create": h.HandleCreateTask,
		"update": h.HandleUpdateTask,
		"delete": h.HandleDeleteTask,
		"toggle": h.HandleToggleTask,
	}
	for name, handler := range handlers {
		rec := httptest.NewRecorder()
		req := withRouteID(httptest.NewRequest(http.MethodGet, "/", strings.NewReader(`{}`)), uuid.NewString())
		webutil.MakeHandler(handler)(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestCreateThenToggleThroughHandlers(t *testing.T) {
	store := testutil.NewTaskStore()
	h := NewTaskHandler(tasks.NewService(store, time.Now))
	owner := uuid.NewString()

	rec := httptest.NewRecorder()
	req := withUser(httptest.NewRequest(http.MethodPost, "/api/tasks", strings.NewReader(`{"title":"Water plants","priority":"low"}`)), owner)
	webutil.MakeHandler(h.HandleCreateTask)(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"message":"Task created successfully"`)

	list, err := store.ListTasks(context.Background(), owner, models.TaskQuery{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	rec = httptest.NewRecorder()
	req = withRouteID(withUser(httptest.NewRequest(http.MethodPatch, "/", nil), owner), list[0].ID)
	webutil.MakeHandler(h.HandleToggleTask)(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"completed":true`)
}

func TestAuthErrorMapping(t *testing.T) {
	validation := &models.ValidationError{}
	validation.Add("email", "Please provide a valid email")

	tests := []struct {
		err     error
		code    int
		message string
	}{
		{err: auth.ErrDuplicateEmail, code: http.StatusBadRequest, message: "User already exists with this email"},
		{err: auth.ErrInvalidCredentials, code: http.StatusUnauthorized, message: "Invalid email or password"},
		{err: fmt.Errorf("profile: %w", auth.ErrUserNotFound), code: http.StatusNotFound, message: "User not found"},
	}
	for _, tt := range tests {
		var httpErr *webutil.HTTPError
		require.ErrorAs(t, authError(tt.err), &httpErr, tt.err.Error())
		assert.Equal(t, tt.code, httpErr.Code, tt.err.Error())
		assert.Equal(t, tt.message, httpErr.Message)
	}

	// Validation and unknown errors are left for MakeHandler.
	assert.Same(t, validation, authError(validation))
	boom := errors.New("boom")
	assert.Equal(t, boom, authError(boom))
}
